package auth

import (
	"net/http"
	"strings"
)

const (
	// AuthorizationHeader is the request header carrying the bearer token.
	AuthorizationHeader = "Authorization"

	// BearerPrefix is the exact, case-sensitive scheme prefix.
	BearerPrefix = "Bearer "
)

// ExtractToken returns the bearer token from the Authorization header.
// Any other header shape, including a wrong-case scheme or an empty token,
// reports the token as absent. It never rejects a request.
func ExtractToken(r *http.Request) (string, bool) {
	header := r.Header.Get(AuthorizationHeader)
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}

	token := header[len(BearerPrefix):]
	if token == "" {
		return "", false
	}
	return token, true
}
