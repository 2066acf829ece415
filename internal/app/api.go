package app

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/prn-tf/bloglist/internal/auth"
	"github.com/prn-tf/bloglist/internal/config"
	"github.com/prn-tf/bloglist/internal/handler"
	"github.com/prn-tf/bloglist/internal/metrics"
	"github.com/prn-tf/bloglist/internal/service"
)

// Services holds the business services built on top of a Stores.
type Services struct {
	Users *service.UserService
	Auth  *service.AuthService
	Posts *service.PostService
}

// Security holds the credential primitives derived from AuthConfig.
type Security struct {
	Tokens *auth.TokenCodec
	Hasher *auth.BcryptHasher
}

// NewSecurity builds the token codec and password hasher.
func NewSecurity(cfg config.AuthConfig) (*Security, error) {
	var opts []auth.TokenOption
	if cfg.Issuer != "" {
		opts = append(opts, auth.WithIssuer(cfg.Issuer))
	}

	tokens, err := auth.NewTokenCodec([]byte(cfg.JWTSecret), cfg.TokenTTL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create token codec: %w", err)
	}

	hasher, err := auth.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to create password hasher: %w", err)
	}

	return &Security{Tokens: tokens, Hasher: hasher}, nil
}

// NewServices builds the services. m may be nil.
func NewServices(stores *Stores, sec *Security, m *metrics.Metrics, logger zerolog.Logger) *Services {
	repos := stores.Repos
	return &Services{
		Users: service.NewUserService(repos.User, repos.Post, sec.Hasher, logger),
		Auth:  service.NewAuthService(repos.User, sec.Hasher, sec.Tokens, m, logger),
		Posts: service.NewPostService(repos.Post, m, logger),
	}
}

// NewHandler builds the HTTP API over stores. m may be nil.
func NewHandler(cfg *config.Config, stores *Stores, m *metrics.Metrics, logger zerolog.Logger) (http.Handler, error) {
	sec, err := NewSecurity(cfg.Auth)
	if err != nil {
		return nil, err
	}

	svc := NewServices(stores, sec, m, logger)

	router := handler.NewRouter(handler.RouterConfig{
		UserHandler:  handler.NewUserHandler(svc.Users, logger),
		LoginHandler: handler.NewLoginHandler(svc.Auth, logger),
		PostHandler:  handler.NewPostHandler(svc.Posts, logger),
		Resolver:     auth.NewResolver(sec.Tokens, stores.Repos.User, logger),
		Health:       stores.DB,
		CORS:         cfg.CORS,
		MaxBodySize:  cfg.Server.MaxBodySize,
		Metrics:      m,
		Logger:       logger,
	})

	return router.Handler(), nil
}
