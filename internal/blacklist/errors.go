package blacklist

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrConflict    = errors.New("email already blacklisted")
	ErrUnavailable = errors.New("entry store unavailable")
)

// ValidationError carries per-field messages keyed by the JSON field name.
type ValidationError struct {
	Message string
	Details map[string][]string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return ErrValidation.Error()
	}
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) add(field, message string) {
	if e.Details == nil {
		e.Details = make(map[string][]string)
	}
	e.Details[field] = append(e.Details[field], message)
}

// ConflictError reports an add for an email that is already registered.
type ConflictError struct {
	Email string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("Email %s ya existe en la lista negra", e.Email)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
