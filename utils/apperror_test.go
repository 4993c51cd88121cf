package utils

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorStatusCodes(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
		code   string
	}{
		{NewInvalidInput("x"), http.StatusBadRequest, "error.invalidInput"},
		{NewInvalidDateRange("x"), http.StatusBadRequest, "error.invalidDateRange"},
		{NewNotFound("x"), http.StatusNotFound, "error.notFound"},
		{NewConflict("x"), http.StatusConflict, "error.conflict"},
		{NewInvalidTransition("x"), http.StatusUnprocessableEntity, "error.invalidTransition"},
		{NewUnauthorized("x"), http.StatusUnauthorized, "error.unauthorized"},
		{NewForbidden("x"), http.StatusForbidden, "error.forbidden"},
		{NewInternal("x", nil), http.StatusInternalServerError, "error.internal"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.Status)
		assert.Equal(t, tt.code, tt.err.Code)
	}
}

func TestAsAppError_Wrapped(t *testing.T) {
	base := NewNotFound("booking not found")
	wrapped := fmt.Errorf("loading booking: %w", base)

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "error.notFound", appErr.Code)
}

func TestAsAppError_Plain(t *testing.T) {
	_, ok := AsAppError(fmt.Errorf("boom"))
	assert.False(t, ok)
}

func TestAppError_ErrorString(t *testing.T) {
	err := NewInternal("store failure", fmt.Errorf("connection reset"))
	assert.Contains(t, err.Error(), "store failure")
	assert.Contains(t, err.Error(), "connection reset")
}
