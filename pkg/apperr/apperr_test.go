package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/storefront/pkg/apperr"
)

func TestStatusCodeAndMessage(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"invalid", apperr.Invalid("Invalid product id", nil), http.StatusBadRequest, "Invalid product id"},
		{"not found", apperr.Missing("Product not found", cause), http.StatusNotFound, "Product not found"},
		{"internal", apperr.Internal(cause), http.StatusInternalServerError, "Internal Server Error"},
		{"plain error", cause, http.StatusInternalServerError, "Internal Server Error"},
		{"wrapped not found", fmt.Errorf("update: %w", apperr.Missing("Product not found", nil)), http.StatusNotFound, "Product not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, apperr.StatusCode(tt.err))
			assert.Equal(t, tt.message, apperr.PublicMessage(tt.err))
		})
	}
}

func TestErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := apperr.Internal(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Internal Server Error: boom", err.Error())
	assert.Equal(t, "unhandled", apperr.KindOf(err).String())
}
