// Package auth provides bearer-token authentication and ownership checks for the bloglist API.
package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/prn-tf/bloglist/internal/domain"
)

// =============================================================================
// Principal
// =============================================================================

// Principal is the identity a request acts as.
// It is either anonymous or a resolved user; the zero value is anonymous.
type Principal struct {
	user *domain.User
}

// Anonymous returns the principal of a request without a usable identity.
func Anonymous() Principal {
	return Principal{}
}

// Authenticated returns the principal for a resolved user.
// A nil user yields the anonymous principal.
func Authenticated(user *domain.User) Principal {
	return Principal{user: user}
}

// User returns the resolved user, if any.
func (p Principal) User() (*domain.User, bool) {
	return p.user, p.user != nil
}

// IsAuthenticated reports whether the principal carries a user.
func (p Principal) IsAuthenticated() bool {
	return p.user != nil
}

// UserID returns the resolved user's ID, or uuid.Nil for the anonymous principal.
func (p Principal) UserID() uuid.UUID {
	if p.user == nil {
		return uuid.Nil
	}
	return p.user.ID
}

// String returns the username, or "anonymous".
func (p Principal) String() string {
	if p.user == nil {
		return "anonymous"
	}
	return p.user.Username
}

// =============================================================================
// Context Types
// =============================================================================

// principalContextKey is the context key for Principal.
type principalContextKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFrom returns the principal stored in ctx.
// Contexts that never passed through the middleware yield the anonymous principal.
func PrincipalFrom(ctx context.Context) Principal {
	if p, ok := ctx.Value(principalContextKey{}).(Principal); ok {
		return p
	}
	return Anonymous()
}
