package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/bloglist/internal/domain"
)

// UserFinder looks up users by ID.
// Implementations return an error wrapping domain.ErrNotFound for unknown IDs.
type UserFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// TokenVerifier verifies bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}

// Resolver turns an extracted bearer token into a Principal.
type Resolver struct {
	tokens TokenVerifier
	users  UserFinder
	logger zerolog.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(tokens TokenVerifier, users UserFinder, logger zerolog.Logger) *Resolver {
	return &Resolver{
		tokens: tokens,
		users:  users,
		logger: logger.With().Str("component", "identity_resolver").Logger(),
	}
}

// Resolve returns the principal for token.
//
// Without a token the principal is anonymous. A token that fails verification
// is an error wrapping domain.ErrUnauthorized and the verification cause.
// A verified token whose user no longer exists resolves to anonymous.
// Any other lookup failure is returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, token string, present bool) (Principal, error) {
	if !present {
		return Anonymous(), nil
	}

	claims, err := r.tokens.Verify(token)
	if err != nil {
		return Anonymous(), fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}

	user, err := r.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.logger.Debug().
				Str("user_id", claims.UserID.String()).
				Msg("token subject no longer exists")
			return Anonymous(), nil
		}
		return Anonymous(), fmt.Errorf("failed to resolve token subject: %w", err)
	}

	return Authenticated(user), nil
}
