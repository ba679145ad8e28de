package db

import (
	"errors"

	apperrors "roomly/pkg/errors"
)

// Backend-neutral infrastructure failures. Drivers translate their native
// errors into these so services can map them without importing a driver.
var (
	ErrUnavailable      = errors.New("data store unavailable")
	ErrPermissionDenied = errors.New("data store permission denied")
)

// Translate maps a repository error onto the HTTP-facing taxonomy. AppErrors
// raised inside a transaction callback pass through untouched.
func Translate(err error, message string) error {
	if err == nil {
		return nil
	}
	if apperrors.IsAppError(err) {
		return err
	}
	switch {
	case errors.Is(err, ErrUnavailable):
		return apperrors.Unavailable("data store").WithCause(err)
	case errors.Is(err, ErrPermissionDenied):
		return apperrors.Forbidden("data store denied the operation").WithCause(err)
	}
	return apperrors.Internal(message, err)
}
