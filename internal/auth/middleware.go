package auth

import (
	"net/http"
)

// ErrorHandler writes the response for a request whose identity could not be resolved.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Middleware creates an authentication middleware.
// It extracts the bearer token, resolves it and stores the resulting Principal
// in the request context. Resolution failures are passed to onError and the
// request does not reach next. Requests without a token continue anonymously.
func Middleware(resolver *Resolver, onError ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, present := ExtractToken(r)

			principal, err := resolver.Resolve(r.Context(), token, present)
			if err != nil {
				onError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}
