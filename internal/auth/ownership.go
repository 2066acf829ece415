package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/prn-tf/bloglist/internal/domain"
)

// Owned is a resource with a single creator.
type Owned interface {
	OwnerID() uuid.UUID
}

// RequireUser returns the resolved user or domain.ErrUnauthorized.
func RequireUser(p Principal) (*domain.User, error) {
	user, ok := p.User()
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// CheckOwnership reports whether p may mutate res.
// The anonymous principal gets domain.ErrUnauthorized and anyone other than
// the creator gets domain.ErrForbidden.
func CheckOwnership(p Principal, res Owned) error {
	user, err := RequireUser(p)
	if err != nil {
		return err
	}
	if res.OwnerID() != user.ID {
		return domain.ErrForbidden
	}
	return nil
}

// Authorize loads a resource and checks that p owns it.
// The checks run in a fixed order: principal present, resource exists,
// principal is the creator. load is not called for the anonymous principal.
func Authorize[T Owned](ctx context.Context, p Principal, load func(context.Context) (T, error)) (T, error) {
	var zero T

	if _, err := RequireUser(p); err != nil {
		return zero, err
	}

	res, err := load(ctx)
	if err != nil {
		return zero, err
	}

	if err := CheckOwnership(p, res); err != nil {
		return zero, err
	}
	return res, nil
}
