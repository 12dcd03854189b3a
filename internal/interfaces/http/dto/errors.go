package dto

import (
	"net/http"
	"strings"
)

// Error codes raised by the transport layer itself. Domain errors keep the
// code they were created with.
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeValidation is used when request binding or validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeUnauthorized is used when authentication is missing or invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeForbidden is used when the operator lacks the role for an action
	ErrCodeForbidden = "FORBIDDEN"
	// ErrCodeNotFound is used for unknown routes and resources
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMITED"
	// ErrCodePayloadTooLarge is used when the body exceeds the configured limit
	ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Codes missing
// from the map fall back to the INVALID_ prefix rule in GetHTTPStatus.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeBadRequest: http.StatusBadRequest,
	"NO_ITEMS":        http.StatusBadRequest,
	"NO_PAYMENTS":     http.StatusBadRequest,
	"DUPLICATE_SKU":   http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	ErrCodeForbidden:      http.StatusForbidden,
	"OVERRIDE_DENIED":     http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:           http.StatusNotFound,
	"ITEM_NOT_FOUND":          http.StatusNotFound,
	"ALREADY_EXISTS":          http.StatusConflict,
	"CONCURRENT_MODIFICATION": http.StatusConflict,
	"SESSION_ALREADY_OPEN":    http.StatusConflict,
	"REQUEST_IN_PROGRESS":     http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	"INVALID_STATE":         http.StatusUnprocessableEntity,
	"INVALID_TRANSITION":    http.StatusUnprocessableEntity,
	"INCONSISTENT_TIMELINE": http.StatusUnprocessableEntity,
	"ALREADY_PAID":          http.StatusUnprocessableEntity,
	"NO_OPEN_SESSION":       http.StatusUnprocessableEntity,
	"SESSION_CLOSED":        http.StatusUnprocessableEntity,
	"REFUND_EXCEEDS_LIMIT":  http.StatusUnprocessableEntity,
	"INSUFFICIENT_PAYMENT":  http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":    http.StatusUnprocessableEntity,

	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unlisted INVALID_* codes are input errors; anything else is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
