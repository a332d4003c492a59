package conversation

import (
	"errors"
	"fmt"
)

var (
	ErrValidation              = errors.New("validation failed")
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	ErrPaymentMismatch         = errors.New("payment payload mismatch")
	ErrConfigurationFault      = errors.New("configuration fault")
)

// ValidationError is recovered by re-prompting in the same state.
type ValidationError struct {
	Field string
	Cause error
}

func NewValidationError(field string, cause error) *ValidationError {
	return &ValidationError{Field: field, Cause: cause}
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValidation, e.Field, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, e.Field)
}

func (e *ValidationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Cause}
}

// CollaboratorError names the external call that failed after retries.
type CollaboratorError struct {
	Op    string
	Cause error
}

func NewCollaboratorError(op string, cause error) *CollaboratorError {
	return &CollaboratorError{Op: op, Cause: cause}
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %s (cause: %v)", ErrCollaboratorUnavailable, e.Op, e.Cause)
}

func (e *CollaboratorError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrCollaboratorUnavailable}
	}
	return []error{ErrCollaboratorUnavailable, e.Cause}
}
