// Package service provides business logic services for the bloglist API.
package service

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/prn-tf/bloglist/internal/domain"
)

// ErrInternalError wraps store failures that are not part of the domain contract.
var ErrInternalError = errors.New("internal server error")

// field pairs a client-facing field name with its value and rules.
type field struct {
	name  string
	value any
	rules []validation.Rule
}

func check(name string, value any, rules ...validation.Rule) field {
	return field{name: name, value: value, rules: rules}
}

// validate checks fields in order and reports the first failure as a
// *domain.ValidationError carrying the rule's message.
func validate(fields ...field) error {
	for _, f := range fields {
		err := validation.Validate(f.value, f.rules...)
		if err == nil {
			continue
		}

		// A misconfigured rule is not the client's fault.
		var ierr validation.InternalError
		if errors.As(err, &ierr) {
			return fmt.Errorf("%w: validating %s: %v", ErrInternalError, f.name, err)
		}
		return domain.NewValidationError(f.name, err.Error())
	}
	return nil
}
