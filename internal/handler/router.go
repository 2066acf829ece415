// Package handler provides the HTTP API for the bloglist server.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/prn-tf/bloglist/internal/auth"
	"github.com/prn-tf/bloglist/internal/config"
	"github.com/prn-tf/bloglist/internal/metrics"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router handles HTTP routing for the bloglist API.
type Router struct {
	userHandler  *UserHandler
	loginHandler *LoginHandler
	postHandler  *PostHandler
	resolver     *auth.Resolver
	health       Pinger
	cors         config.CORSConfig
	maxBodySize  int64
	errors       *errorWriter
	logger       zerolog.Logger
}

// RouterConfig contains configuration for the router.
type RouterConfig struct {
	UserHandler  *UserHandler
	LoginHandler *LoginHandler
	PostHandler  *PostHandler
	Resolver     *auth.Resolver
	Health       Pinger
	CORS         config.CORSConfig
	MaxBodySize  int64
	Metrics      *metrics.Metrics
	Logger       zerolog.Logger
}

// NewRouter creates a new Router.
func NewRouter(cfg RouterConfig) *Router {
	logger := cfg.Logger.With().Str("component", "router").Logger()
	return &Router{
		userHandler:  cfg.UserHandler,
		loginHandler: cfg.LoginHandler,
		postHandler:  cfg.PostHandler,
		resolver:     cfg.Resolver,
		health:       cfg.Health,
		cors:         cfg.CORS,
		maxBodySize:  cfg.MaxBodySize,
		errors:       &errorWriter{metrics: cfg.Metrics, logger: logger},
		logger:       logger,
	}
}

// Handler returns the main HTTP handler.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(rt.logger))
	r.Use(instrument(rt.errors.metrics))
	r.Use(recoverer(rt.errors))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.cors.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         int(rt.cors.MaxAge / time.Second),
	}))
	r.Use(limitBody(rt.maxBodySize))

	r.NotFound(rt.errors.notFound)
	r.MethodNotAllowed(rt.errors.methodNotAllowed)

	// Health check (no auth)
	r.Get("/health", rt.handleHealth)

	h := rt.errors.handle

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h(rt.loginHandler.Login))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h(rt.userHandler.List))
			r.Post("/", h(rt.userHandler.Register))
			r.Get("/{id}", h(rt.userHandler.Get))
		})

		r.Route("/posts", func(r chi.Router) {
			r.Use(auth.Middleware(rt.resolver, rt.errors.authFailure))

			r.Get("/", h(rt.postHandler.List))
			r.Post("/", h(rt.postHandler.Create))
			r.Get("/stats", h(rt.postHandler.Stats))
			r.Get("/{id}", h(rt.postHandler.Get))
			r.Put("/{id}", h(rt.postHandler.Update))
			r.Delete("/{id}", h(rt.postHandler.Delete))
			r.Post("/{id}/like", h(rt.postHandler.Like))
		})
	})

	return r
}

// handleHealth handles health check requests.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	if rt.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := rt.health.Ping(ctx); err != nil {
			rt.logger.Warn().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
