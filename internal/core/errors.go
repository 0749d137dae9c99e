package core

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound signals that a referenced entity is absent or not owned by
	// the caller; the two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken signals a registration attempt with an email that is
	// already stored (compared case-insensitively).
	ErrEmailTaken = errors.New("email already registered")

	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)

// ValidationError carries the full list of business-rule violations for a
// request. It is surfaced to clients as a 400/401 with human-readable
// messages; all other errors collapse to a generic persistence failure.
type ValidationError struct {
	Messages []string
}

func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
