// Package register implements the cash-register session use cases and the
// gate that keeps sales out while an operator has no open drawer.
package register

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Service handles register session operations
type Service struct {
	sessions       register.SessionStore
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewService creates a new register Service
func NewService(sessions register.SessionStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// SetEventPublisher sets the event publisher
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Open starts a session for the operator
func (s *Service) Open(ctx context.Context, operatorID uuid.UUID, req OpenSessionRequest) (*SessionResponse, error) {
	session, err := register.NewSession(operatorID, req.OpeningAmount)
	if err != nil {
		return nil, err
	}

	existing, err := s.sessions.GetOpen(ctx, operatorID)
	switch {
	case err == nil && existing != nil:
		return nil, register.ErrSessionAlreadyOpen
	case err != nil && !errors.Is(err, register.ErrNoOpenSession):
		return nil, err
	}

	if err := s.sessions.Open(ctx, session); err != nil {
		return nil, err
	}
	session.RecordOpened()
	s.publishEvents(ctx, session)

	s.logger.Info("register session opened",
		zap.Int64("session_id", session.ID),
		zap.String("operator_id", operatorID.String()),
		zap.String("opening_amount", session.OpeningAmount.String()),
	)

	response := ToSessionResponse(session)
	return &response, nil
}

// GetOpenSession returns the operator's open session or register.ErrNoOpenSession
func (s *Service) GetOpenSession(ctx context.Context, operatorID uuid.UUID) (*SessionResponse, error) {
	session, err := s.RequireOpenSession(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	response := ToSessionResponse(session)
	return &response, nil
}

// RequireOpenSession is the gate every sale-entry operation goes through
func (s *Service) RequireOpenSession(ctx context.Context, operatorID uuid.UUID) (*register.Session, error) {
	session, err := s.sessions.GetOpen(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if session == nil || !session.IsOpen() {
		return nil, register.ErrNoOpenSession
	}
	return session, nil
}

// Close records the counted cash and returns the closing summary
func (s *Service) Close(ctx context.Context, operatorID uuid.UUID, req CloseSessionRequest) (_ *SummaryResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "register", "close",
		attribute.String(telemetry.AttrOperatorID, operatorID.String()),
	)
	defer telemetry.EndSpan(span, &err)

	session, err := s.RequireOpenSession(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if req.Version > 0 && req.Version != session.Version {
		return nil, shared.ErrConcurrencyConflict
	}

	activity, err := s.sessions.Activity(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	if err := session.Close(req.CountedAmount); err != nil {
		return nil, err
	}
	if err := s.sessions.Close(ctx, session); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, session)

	summary := register.NewSummary(session, *activity, nil, s.now())
	telemetry.SetAttributes(span,
		telemetry.AttrSessionID, session.ID,
		"pos.register.expected", summary.Expected.String(),
	)
	fields := []zap.Field{
		zap.Int64("session_id", session.ID),
		zap.String("expected", summary.Expected.String()),
		zap.String("counted", req.CountedAmount.String()),
	}
	if summary.Difference != nil && !summary.Difference.IsZero() {
		s.logger.Warn("register closed with difference", append(fields, zap.String("difference", summary.Difference.String()))...)
	} else {
		s.logger.Info("register closed", fields...)
	}

	response := toSummaryResponse(session, summary)
	return &response, nil
}

// Summary previews the closing report of the open session. counted, when
// given, is used to show the difference before closing.
func (s *Service) Summary(ctx context.Context, operatorID uuid.UUID, counted *decimal.Decimal) (*SummaryResponse, error) {
	session, err := s.RequireOpenSession(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	activity, err := s.sessions.Activity(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	response := toSummaryResponse(session, register.NewSummary(session, *activity, counted, s.now()))
	return &response, nil
}

func (s *Service) publishEvents(ctx context.Context, session *register.Session) {
	defer session.ClearDomainEvents()
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, session.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish register events",
			zap.Int64("session_id", session.ID),
			zap.Error(err),
		)
	}
}
