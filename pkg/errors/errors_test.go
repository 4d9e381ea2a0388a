package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		desc string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad", "name", ""), http.StatusBadRequest},
		{"not found", NewNotFoundError("pokemon", "missingno"), http.StatusNotFound},
		{"upstream", NewAPIError("boom", "pokeapi", 500, nil), http.StatusBadGateway},
		{"unavailable", NewUnavailableError("open", "pokeapi", time.Second), http.StatusServiceUnavailable},
		{"wrapped", fmt.Errorf("resolve: %w", NewNotFoundError("pokemon", "x")), http.StatusNotFound},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"upstream timeout", NewAPIError("species request failed", "pokeapi", 0, nil).WithCause(context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"plain", stderrors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestPredicates(t *testing.T) {
	notFound := fmt.Errorf("wrap: %w", NewNotFoundError("pokemon", "missingno"))
	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsValidation(notFound))

	assert.True(t, IsValidation(NewValidationError("bad", "name", "")))
	assert.True(t, IsUnavailable(NewUnavailableError("open", "pokeapi", 0)))
	assert.Equal(t, "", Code(stderrors.New("plain")))
}

func TestAPIError(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := NewAPIError("species request failed", "pokeapi", 429, nil).WithCause(cause)

	assert.Equal(t, CodeAPIError, err.ErrorCode())
	assert.Equal(t, 429, err.UpstreamStatus)
	assert.Equal(t, "pokeapi", err.Context["service"])
	assert.Contains(t, err.Error(), "connection reset")
	assert.ErrorIs(t, err, cause)

	var apiErr *APIError
	require.True(t, stderrors.As(fmt.Errorf("outer: %w", err), &apiErr))
	assert.Equal(t, "pokeapi", apiErr.Service)
}

func TestCacheErrorUnwrap(t *testing.T) {
	cause := stderrors.New("panic")
	err := NewCacheError("computation panicked", "compute", "pikachu", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
}
