package dto

import "net/http"

// Transport-level error codes for failures that happen before a domain
// operation runs
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed here fall back to 500.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	// Input and state errors
	"INVALID_INPUT":    http.StatusBadRequest,
	"VALIDATION_ERROR": http.StatusBadRequest,
	"INVALID_STATE":    http.StatusUnprocessableEntity,

	// Resource errors
	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"NUMBER_COLLISION":     http.StatusConflict,
	"PROFILE_EXISTS":       http.StatusConflict,
	"DUPLICATE_EMAIL":      http.StatusConflict,
	"DUPLICATE_PROJECT":    http.StatusConflict,
	"DUPLICATE_TAX_YEAR":   http.StatusConflict,

	// Referential guards
	"CLIENT_IN_USE":  http.StatusUnprocessableEntity,
	"PROJECT_IN_USE": http.StatusUnprocessableEntity,

	// Authentication
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"NO_TENANT":           http.StatusForbidden,
	"TENANT_INACTIVE":     http.StatusForbidden,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"INVALID_TOKEN":       http.StatusUnauthorized,
}

// GetHTTPStatus returns the HTTP status code for an error code, defaulting
// to 500 Internal Server Error for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
