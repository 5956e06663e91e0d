// Package errors defines the sentinel error taxonomy shared across the
// platform and an AppError wrapper that carries an HTTP status code.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidQuery marks an empty or blank search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNoConfidentMatch marks a fuzzy score below the acceptance threshold.
	ErrNoConfidentMatch = errors.New("no confident match")
	// ErrNoCatalog marks an attempt to resolve against an empty catalog.
	ErrNoCatalog = errors.New("catalog is empty")
	// ErrDataIntegrity marks a resolved title missing from the title index.
	ErrDataIntegrity = errors.New("catalog index inconsistent")
	// ErrSchema marks a catalog source without a resolvable title column.
	// It is the only error allowed to abort startup.
	ErrSchema = errors.New("catalog schema error")
	// ErrExternalService marks a metadata-service HTTP or network failure.
	ErrExternalService = errors.New("external service error")
	// ErrPersistence marks a failed catalog save during backfill.
	ErrPersistence = errors.New("persistence error")
	// ErrInternal is the fallback for unexpected failures.
	ErrInternal = errors.New("internal error")
)

// AppError wraps a sentinel error with a user-facing message and an HTTP
// status code.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New builds an AppError around the given sentinel.
func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Newf builds an AppError with a formatted message.
func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

// HTTPStatusCode maps an error to the HTTP status it should surface as.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoConfidentMatch):
		return http.StatusNotFound
	case errors.Is(err, ErrNoCatalog), errors.Is(err, ErrDataIntegrity):
		return http.StatusInternalServerError
	case errors.Is(err, ErrExternalService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
