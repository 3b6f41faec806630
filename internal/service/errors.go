package service

import (
	"database/sql"
	"errors"
	"fmt"

	"umrahportal/internal/model"
	"umrahportal/internal/repository"
)

// Sentinel errors returned by services. Handlers map them to HTTP statuses;
// the wrapped message is safe to show to users.
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = model.ErrInvalidTransition
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrUnavailable       = errors.New("temporarily unavailable")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// notFound translates a missing row into ErrNotFound naming the resource.
func notFound(resource string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %w", resource, ErrNotFound)
	}
	return err
}

// conflictOnDuplicate translates a unique violation into ErrConflict.
func conflictOnDuplicate(msg string, err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("%w: %s", ErrConflict, msg)
	}
	return err
}

// transitionLost maps a lost compare-and-set on resource to ErrInvalidTransition.
func transitionLost(resource string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s was reviewed concurrently: %w", resource, ErrInvalidTransition)
	}
	return err
}
