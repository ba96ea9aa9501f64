package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeAndStatus(t *testing.T) {
	tests := []struct {
		err    error
		code   string
		status int
	}{
		{fmt.Errorf("vendor v1: %w", ErrForbidden), "FORBIDDEN", http.StatusForbidden},
		{fmt.Errorf("order o1: %w", ErrNotFound), "NOT_FOUND", http.StatusNotFound},
		{ErrUnauthenticated, "UNAUTHENTICATED", http.StatusUnauthorized},
		{ErrUserNotFound, "USER_NOT_FOUND", http.StatusConflict},
		{ErrInvalidTransition, "INVALID_TRANSITION", http.StatusBadRequest},
		{errors.New("connection reset"), CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, Code(tt.err), tt.err.Error())
		assert.Equal(t, tt.status, HTTPStatus(tt.err), tt.err.Error())
	}
	assert.False(t, IsLabeled(errors.New("boom")))
	assert.True(t, IsLabeled(ErrInvalidArgument))
}
