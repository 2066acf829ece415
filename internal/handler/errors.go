package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/prn-tf/bloglist/internal/apperror"
	"github.com/prn-tf/bloglist/internal/auth"
	"github.com/prn-tf/bloglist/internal/metrics"
)

// appHandler is an HTTP handler that reports failures as errors.
type appHandler func(w http.ResponseWriter, r *http.Request) error

// errorWriter renders errors through the apperror mapping.
type errorWriter struct {
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// handle adapts fn to http.HandlerFunc.
func (ew *errorWriter) handle(fn appHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			ew.write(w, r, err)
		}
	}
}

// write classifies err and sends the error body.
func (ew *errorWriter) write(w http.ResponseWriter, r *http.Request, err error) {
	resp := apperror.Classify(err)
	ew.send(w, r, resp)

	if resp.Kind == apperror.Unhandled {
		ew.logger.Error().
			Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("unhandled error")
		return
	}

	ew.logger.Debug().
		Err(err).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("kind", resp.Kind.String()).
		Msg("request failed")
}

func (ew *errorWriter) send(w http.ResponseWriter, r *http.Request, resp apperror.Response) {
	ew.metrics.RecordError(resp.Kind.String())
	writeJSON(w, resp.Status, resp.Body())
}

// authFailure is the auth.ErrorHandler for the identity middleware.
func (ew *errorWriter) authFailure(w http.ResponseWriter, r *http.Request, err error) {
	ew.metrics.RecordAuthFailure(string(auth.ReasonFor(err)))
	ew.write(w, r, err)
}

// notFound answers routes the router does not know.
func (ew *errorWriter) notFound(w http.ResponseWriter, r *http.Request) {
	ew.send(w, r, apperror.UnknownEndpoint())
}

// methodNotAllowed answers known routes called with the wrong method.
func (ew *errorWriter) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	ew.metrics.RecordError("method_not_allowed")
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
