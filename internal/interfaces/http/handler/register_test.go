package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/application/register"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRegisterHandler_Open(t *testing.T) {
	t.Run("opened", func(t *testing.T) {
		svc := new(MockRegisterService)
		h := NewRegisterHandler(svc)
		svc.On("Open", mock.Anything, testOperator, mock.MatchedBy(func(req register.OpenSessionRequest) bool {
			return req.OpeningAmount.Equal(decimal.RequireFromString("15000.50"))
		})).Return(&register.SessionResponse{ID: 1, OperatorID: testOperator, Open: true}, nil)

		w := performRequest(t, http.MethodPost, "/register/open", "/register/open",
			map[string]any{"opening_amount": "15000.50"}, testOperator, h.Open)

		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("already open", func(t *testing.T) {
		svc := new(MockRegisterService)
		h := NewRegisterHandler(svc)
		svc.On("Open", mock.Anything, testOperator, mock.Anything).
			Return(nil, shared.NewDomainError("SESSION_ALREADY_OPEN", "the register is already open"))

		w := performRequest(t, http.MethodPost, "/register/open", "/register/open",
			map[string]any{"opening_amount": "0"}, testOperator, h.Open)
		assertErrorCode(t, w, http.StatusConflict, "SESSION_ALREADY_OPEN")
	})

	t.Run("anonymous", func(t *testing.T) {
		h := NewRegisterHandler(new(MockRegisterService))
		w := performRequest(t, http.MethodPost, "/register/open", "/register/open",
			map[string]any{"opening_amount": "0"}, uuid.Nil, h.Open)
		assertErrorCode(t, w, http.StatusUnauthorized, dto.ErrCodeUnauthorized)
	})
}

func TestRegisterHandler_CurrentAndClose(t *testing.T) {
	t.Run("no session", func(t *testing.T) {
		svc := new(MockRegisterService)
		h := NewRegisterHandler(svc)
		svc.On("GetOpenSession", mock.Anything, testOperator).
			Return(nil, shared.NewDomainError("NO_OPEN_SESSION", "no open session"))

		w := performRequest(t, http.MethodGet, "/register/session", "/register/session", nil, testOperator, h.Current)
		assertErrorCode(t, w, http.StatusUnprocessableEntity, "NO_OPEN_SESSION")
	})

	t.Run("close", func(t *testing.T) {
		svc := new(MockRegisterService)
		h := NewRegisterHandler(svc)
		diff := decimal.NewFromInt(-200)
		svc.On("Close", mock.Anything, testOperator, mock.MatchedBy(func(req register.CloseSessionRequest) bool {
			return req.CountedAmount.Equal(decimal.NewFromInt(9800)) && req.Version == 4
		})).Return(&register.SummaryResponse{Expected: decimal.NewFromInt(10000), Difference: &diff}, nil)

		w := performRequest(t, http.MethodPost, "/register/close", "/register/close",
			map[string]any{"counted_amount": "9800", "version": 4}, testOperator, h.Close)

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"difference":"-200"`)
	})
}

func TestRegisterHandler_Summary(t *testing.T) {
	t.Run("without counted", func(t *testing.T) {
		svc := new(MockRegisterService)
		h := NewRegisterHandler(svc)
		svc.On("Summary", mock.Anything, testOperator, (*decimal.Decimal)(nil)).
			Return(&register.SummaryResponse{Expected: decimal.NewFromInt(500)}, nil)

		w := performRequest(t, http.MethodGet, "/register/summary", "/register/summary", nil, testOperator, h.Summary)
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("with counted", func(t *testing.T) {
		svc := new(MockRegisterService)
		h := NewRegisterHandler(svc)
		svc.On("Summary", mock.Anything, testOperator, mock.MatchedBy(func(d *decimal.Decimal) bool {
			return d != nil && d.Equal(decimal.RequireFromString("480.25"))
		})).Return(&register.SummaryResponse{}, nil)

		w := performRequest(t, http.MethodGet, "/register/summary", "/register/summary?counted=480.25", nil, testOperator, h.Summary)
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("bad counted", func(t *testing.T) {
		h := NewRegisterHandler(new(MockRegisterService))
		w := performRequest(t, http.MethodGet, "/register/summary", "/register/summary?counted=mucho", nil, testOperator, h.Summary)
		assertErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeBadRequest)
	})
}
