package auth

import (
	"errors"

	"github.com/prn-tf/bloglist/internal/domain"
)

// FailureReason names why identity resolution failed, for logs and metrics.
type FailureReason string

const (
	// FailureExpired maps to a correctly signed token past its expiry.
	FailureExpired FailureReason = "expired"

	// FailureInvalid maps to a token with a bad signature, algorithm or shape.
	FailureInvalid FailureReason = "invalid"

	// FailureStore maps to a user lookup that failed for reasons other than absence.
	FailureStore FailureReason = "store"
)

// ReasonFor classifies an error returned by Resolver.Resolve.
func ReasonFor(err error) FailureReason {
	switch {
	case errors.Is(err, domain.ErrExpiredToken):
		return FailureExpired
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidToken):
		return FailureInvalid
	default:
		return FailureStore
	}
}
