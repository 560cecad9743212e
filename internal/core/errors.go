package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrEmptyUpdate         = errors.New("no fields provided to update")
	ErrInvalidLanguage     = errors.New("invalid language: must be 'en', 'es' or 'it'")
	ErrInvalidMonth        = errors.New("invalid month")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrNoRates             = errors.New("no exchange rates available")
	ErrUpstreamUnavailable = errors.New("exchange rate provider unavailable")
	ErrBadCredentials      = errors.New("invalid credentials")
)

// InvalidFieldError reports a patch key that is not updatable for the entity.
type InvalidFieldError struct {
	Field string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("field '%s' is not valid for update", e.Field)
}

// MissingFieldError reports a required field absent or empty at creation.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("field '%s' is required", e.Field)
}

// IsValidation reports whether err is a caller error that maps to a 400.
func IsValidation(err error) bool {
	var invalid *InvalidFieldError
	var missing *MissingFieldError
	return errors.Is(err, ErrEmptyUpdate) ||
		errors.Is(err, ErrInvalidLanguage) ||
		errors.Is(err, ErrInvalidMonth) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.As(err, &invalid) ||
		errors.As(err, &missing)
}
