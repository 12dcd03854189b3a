package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{"NO_ITEMS", http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{"OVERRIDE_DENIED", http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{"CONCURRENT_MODIFICATION", http.StatusConflict},
		{"SESSION_ALREADY_OPEN", http.StatusConflict},
		{"INVALID_STATE", http.StatusUnprocessableEntity},
		{"INVALID_TRANSITION", http.StatusUnprocessableEntity},
		{"ALREADY_PAID", http.StatusUnprocessableEntity},
		{"NO_OPEN_SESSION", http.StatusUnprocessableEntity},
		{"REFUND_EXCEEDS_LIMIT", http.StatusUnprocessableEntity},
		{"INSUFFICIENT_PAYMENT", http.StatusUnprocessableEntity},
		{"INSUFFICIENT_STOCK", http.StatusUnprocessableEntity},
		{ErrCodePayloadTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		// INVALID_ prefix falls through to 400
		{"INVALID_PAYMENT_METHOD", http.StatusBadRequest},
		{"INVALID_QUANTITY", http.StatusBadRequest},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID("ALREADY_PAID", "Layaway sale is already paid", "req-123")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ALREADY_PAID", resp.Error.Code)
	assert.Equal(t, "Layaway sale is already paid", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "items", Message: "items is required"},
		{Field: "amount", Message: "amount must be greater than zero"},
	}

	resp := NewValidationErrorResponse("Request validation failed", "req-789", details)

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	assert.Equal(t, details, resp.Error.Details)
}

func TestErrorEnvelopeJSON(t *testing.T) {
	data, err := json.Marshal(NewErrorResponse("NOT_FOUND", "Order not found"))
	require.NoError(t, err)

	assert.JSONEq(t, `{"success":false,"error":{"code":"NOT_FOUND","message":"Order not found"}}`, string(data))
}

func TestNewListResponse(t *testing.T) {
	resp := NewListResponse([]string{"a", "b"}, 2, 1, 20)

	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, Meta{Page: 1, PageSize: 20, Count: 2}, *resp.Meta)
}
