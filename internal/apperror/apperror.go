// Package apperror maps failures from every layer onto the client-facing error contract.
package apperror

import (
	"errors"
	"net/http"

	"github.com/prn-tf/bloglist/internal/domain"
)

// Kind is the closed set of failure categories a client can observe.
type Kind int

const (
	// Unhandled is any failure no other kind claims.
	Unhandled Kind = iota

	// BadRequest is a malformed identifier or an input validation failure.
	BadRequest

	// InvalidCredentials is a failed login.
	InvalidCredentials

	// Unauthorized is a missing, invalid or expired bearer token where one is required.
	Unauthorized

	// Forbidden is an authenticated principal acting on a resource it does not own.
	Forbidden

	// NotFound is a reference to an absent resource.
	NotFound

	// Conflict is a uniqueness violation.
	Conflict
)

// String returns the kind's name, used as a metric label.
func (k Kind) String() string {
	switch k {
	case BadRequest:
		return "bad_request"
	case InvalidCredentials:
		return "invalid_credentials"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	default:
		return "unhandled"
	}
}

// Status returns the HTTP status for the kind.
func (k Kind) Status() int {
	switch k {
	case BadRequest, Conflict:
		return http.StatusBadRequest
	case InvalidCredentials, Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Messages sent for kinds whose text does not come from the error itself.
const (
	MessageInvalidCredentials = "invalid username or password"
	MessageUnauthorized       = "token missing or invalid"
	MessageExpired            = "token expired"
	MessageForbidden          = "only the creator can modify this post"
	MessageConflict           = "username must be unique"
	MessageMalformedID        = "malformatted id"
	MessageInternal           = "internal server error"
	MessageUnknownEndpoint    = "unknown endpoint"
)

// Response is the classification of an error.
type Response struct {
	Kind    Kind
	Status  int
	Message string
}

// Body returns the JSON error object sent to the client.
func (r Response) Body() map[string]string {
	return map[string]string{"error": r.Message}
}

func respond(kind Kind, message string) Response {
	return Response{Kind: kind, Status: kind.Status(), Message: message}
}

// Classify maps err to exactly one Kind. It is total: unknown errors are Unhandled
// and their text never reaches the client.
func Classify(err error) Response {
	var verr *domain.ValidationError

	switch {
	case err == nil:
		return respond(Unhandled, MessageInternal)

	case errors.As(err, &verr):
		return respond(BadRequest, verr.Message)

	case errors.Is(err, domain.ErrMalformedID):
		return respond(BadRequest, MessageMalformedID)

	case errors.Is(err, domain.ErrInvalidCredentials):
		return respond(InvalidCredentials, MessageInvalidCredentials)

	case errors.Is(err, domain.ErrExpiredToken):
		return respond(Unauthorized, MessageExpired)

	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidToken):
		return respond(Unauthorized, MessageUnauthorized)

	case errors.Is(err, domain.ErrForbidden):
		return respond(Forbidden, MessageForbidden)

	case errors.Is(err, domain.ErrNotFound):
		return respond(NotFound, err.Error())

	case errors.Is(err, domain.ErrConflict):
		return respond(Conflict, MessageConflict)

	default:
		return respond(Unhandled, MessageInternal)
	}
}

// UnknownEndpoint is the response for routes the router does not know.
func UnknownEndpoint() Response {
	return respond(NotFound, MessageUnknownEndpoint)
}
