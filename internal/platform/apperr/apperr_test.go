// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidstream/internal/platform/apperr"
)

/*
TestConstructors verifies the status code and code of every error kind.
*/
func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		status int
		code   string
	}{
		{"validation", apperr.ValidationError("bad"), http.StatusBadRequest, apperr.CodeValidation},
		{"conflict", apperr.Conflict("taken"), http.StatusConflict, apperr.CodeConflict},
		{"unauthorized", apperr.Unauthorized("nope"), http.StatusUnauthorized, apperr.CodeUnauthorized},
		{"not found", apperr.NotFound("Channel"), http.StatusNotFound, apperr.CodeNotFound},
		{"rate limited", apperr.RateLimited(3), http.StatusTooManyRequests, apperr.CodeRateLimited},
		{"internal", apperr.Internal(errors.New("db down")), http.StatusInternalServerError, apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}

	assert.Equal(t, "Channel not found", apperr.NotFound("Channel").Error())
}

/*
TestKindHelpers verifies that kind checks see through wrapping.
*/
func TestKindHelpers(t *testing.T) {
	wrapped := fmt.Errorf("auth_service_refresh_failed: %w", apperr.Unauthorized("expired"))

	assert.True(t, apperr.IsUnauthorized(wrapped))
	assert.False(t, apperr.IsNotFound(wrapped))
	assert.True(t, apperr.IsNotFound(apperr.NotFound("User")))
	assert.True(t, apperr.IsConflict(apperr.Conflict("dup")))
	assert.True(t, apperr.IsValidation(apperr.ValidationError("x")))
	assert.False(t, apperr.IsAppError(errors.New("plain")))

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, "expired", ae.Message)
}

/*
TestInternal_Unwrap verifies the cause stays reachable for logging.
*/
func TestInternal_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperr.Internal(cause)

	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, err.Error(), "connection reset")
}

/*
TestWithCause verifies that the shared template is not mutated.
*/
func TestWithCause(t *testing.T) {
	template := apperr.Conflict("Email already in use")
	cause := errors.New("23505")

	withCause := template.WithCause(cause)

	assert.ErrorIs(t, withCause, cause)
	assert.Nil(t, template.Cause)
}
