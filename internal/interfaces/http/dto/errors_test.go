package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{"INVALID_INPUT", http.StatusBadRequest},
		{"INVALID_STATE", http.StatusUnprocessableEntity},
		{"ALREADY_EXISTS", http.StatusConflict},
		{"CONCURRENCY_CONFLICT", http.StatusConflict},
		{"NUMBER_COLLISION", http.StatusConflict},
		{"PROFILE_EXISTS", http.StatusConflict},
		{"DUPLICATE_EMAIL", http.StatusConflict},
		{"DUPLICATE_PROJECT", http.StatusConflict},
		{"DUPLICATE_TAX_YEAR", http.StatusConflict},
		{"CLIENT_IN_USE", http.StatusUnprocessableEntity},
		{"PROJECT_IN_USE", http.StatusUnprocessableEntity},
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"NO_TENANT", http.StatusForbidden},
		{"TENANT_INACTIVE", http.StatusForbidden},
		{"TOKEN_EXPIRED", http.StatusUnauthorized},
		{"INVALID_TOKEN", http.StatusUnauthorized},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 7, 1, 3)

	assert.True(t, resp.Success)
	assert.Equal(t, int64(7), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
