package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", Invalid(CodeInvalidInput, "quantity must be positive"), http.StatusBadRequest},
		{"not found", NotFound(CodeNotFound, "cart item not found"), http.StatusNotFound},
		{"conflict", Conflict(CodeInsufficientStock, "insufficient stock"), http.StatusConflict},
		{"internal", Internal(errors.New("db down")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("placing order: %w", Conflict(CodeUnavailable, "product 3 unavailable")), http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Internal(cause)

	assert.Equal(t, "an internal error occurred", err.Message)
	assert.ErrorIs(t, err, cause)
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("add item: %w", Conflict(CodeInsufficientStock, "insufficient stock, available: %d", 2))

	assert.True(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(err, KindNotFound))

	appErr, ok := As(err)
	assert.True(t, ok)
	assert.Equal(t, CodeInsufficientStock, appErr.Code)
	assert.Equal(t, "insufficient stock, available: 2", appErr.Message)
}
