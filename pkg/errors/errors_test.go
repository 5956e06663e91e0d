package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrInvalidQuery, http.StatusBadRequest},
		{ErrNoConfidentMatch, http.StatusNotFound},
		{ErrNoCatalog, http.StatusInternalServerError},
		{ErrDataIntegrity, http.StatusInternalServerError},
		{ErrExternalService, http.StatusBadGateway},
		{errors.New("anything else"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", ErrInvalidQuery), http.StatusBadRequest},
	}
	for _, tt := range tests {
		if got := HTTPStatusCode(tt.err); got != tt.want {
			t.Errorf("HTTPStatusCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestAppErrorCarriesStatus(t *testing.T) {
	err := New(ErrSchema, http.StatusInternalServerError, "no title column")
	if got := HTTPStatusCode(err); got != http.StatusInternalServerError {
		t.Errorf("status = %d", got)
	}
	if !errors.Is(err, ErrSchema) {
		t.Error("AppError does not unwrap to its sentinel")
	}
	if err.Error() != "catalog schema error: no title column" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestAppErrorStatusWinsOverSentinelMapping(t *testing.T) {
	err := Newf(ErrInvalidQuery, http.StatusTeapot, "query %q", "x")
	if got := HTTPStatusCode(err); got != http.StatusTeapot {
		t.Errorf("status = %d, want explicit AppError code", got)
	}
}
