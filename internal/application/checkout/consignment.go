package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/application/fulfillment"
	"github.com/pos/backend/internal/domain/payment"
	"github.com/pos/backend/internal/domain/sale"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ListConsignments returns layaway sales with a balance, most recent first
func (s *Service) ListConsignments(ctx context.Context, filter fulfillment.ListFilter) ([]ConsignmentResponse, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	sales, err := s.sales.FetchConsignments(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	responses := make([]ConsignmentResponse, len(sales))
	for i := range sales {
		responses[i] = ToConsignmentResponse(&sales[i])
	}
	return responses, nil
}

// GetConsignment returns a layaway sale with its remaining balance
func (s *Service) GetConsignment(ctx context.Context, id int64) (*ConsignmentResponse, error) {
	found, err := s.findConsignment(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToConsignmentResponse(found)
	return &response, nil
}

// ErrPaymentInProgress is returned for a repeated idempotency key whose first
// request has not finished
var ErrPaymentInProgress = shared.NewDomainError("REQUEST_IN_PROGRESS",
	"A payment with this idempotency key is still being processed")

// AddConsignmentPayment applies a payment to a layaway sale. Amounts above the
// balance are truncated. A request repeated with the same idempotency key
// returns the current state without charging again once the first one has
// completed, and fails with REQUEST_IN_PROGRESS while it is running.
func (s *Service) AddConsignmentPayment(ctx context.Context, operatorID uuid.UUID, id int64, req AddPaymentRequest) (_ *PaymentResultResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "add_consignment_payment",
		attribute.Int64(telemetry.AttrSaleID, id),
		attribute.String(telemetry.AttrMethod, req.Method),
	)
	defer telemetry.EndSpan(span, &err)

	session, err := s.sessions.RequireOpenSession(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	key := ""
	if s.idempotency != nil && req.IdempotencyKey != "" {
		key = fmt.Sprintf("consigna:%d:%s", id, req.IdempotencyKey)
		fresh, err := s.idempotency.MarkProcessed(ctx, key, s.idempotencyTTL)
		if err != nil {
			return nil, err
		}
		if !fresh {
			done, err := s.idempotency.IsProcessed(ctx, key)
			if err != nil {
				return nil, err
			}
			if !done {
				return nil, ErrPaymentInProgress
			}
			current, err := s.findConsignment(ctx, id)
			if err != nil {
				return nil, err
			}
			s.logger.Info("layaway payment replayed",
				zap.Int64("sale_id", id),
				zap.String("idempotency_key", req.IdempotencyKey),
			)
			return &PaymentResultResponse{
				Sale:      ToConsignmentResponse(current),
				FullyPaid: current.Status == sale.StatusConsignmentPaid,
				Replayed:  true,
			}, nil
		}
	}

	result, err := s.addPayment(ctx, operatorID, session.ID, id, req)
	if key == "" {
		return result, err
	}
	if err != nil {
		if releaseErr := s.idempotency.Release(ctx, key); releaseErr != nil {
			s.logger.Warn("failed to release idempotency key",
				zap.String("key", key),
				zap.Error(releaseErr),
			)
		}
		return nil, err
	}
	if completeErr := s.idempotency.Complete(ctx, key, s.idempotencyTTL); completeErr != nil {
		// the payment is stored; a retry now answers "in progress" until the claim expires
		s.logger.Warn("failed to complete idempotency key",
			zap.String("key", key),
			zap.Error(completeErr),
		)
	}
	return result, nil
}

func (s *Service) addPayment(ctx context.Context, operatorID uuid.UUID, sessionID, id int64, req AddPaymentRequest) (*PaymentResultResponse, error) {
	target, err := s.findConsignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Version > 0 && req.Version != target.Version {
		return nil, shared.ErrConcurrencyConflict
	}

	settlement, err := target.AddPayment(payment.Method(req.Method), payment.ParseAmount(req.Amount), sessionID, operatorID)
	if err != nil {
		return nil, err
	}
	if err := s.sales.RecordPayment(ctx, target, &settlement.Payment); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, target)

	truncated := settlement.Payment.Amount.LessThan(settlement.Requested)
	fields := []zap.Field{
		zap.Int64("sale_id", target.ID),
		zap.Int64("session_id", sessionID),
		zap.String("method", settlement.Payment.Method.String()),
		zap.String("applied", settlement.Payment.Amount.String()),
		zap.String("remaining", settlement.Remaining.String()),
	}
	if truncated {
		fields = append(fields, zap.String("requested", settlement.Requested.String()))
	}
	s.logger.Info("layaway payment recorded", fields...)

	return &PaymentResultResponse{
		Sale:      ToConsignmentResponse(target),
		Applied:   settlement.Payment.Amount,
		Requested: settlement.Requested,
		Truncated: truncated,
		FullyPaid: settlement.FullyPaid,
	}, nil
}

func (s *Service) findConsignment(ctx context.Context, id int64) (*sale.Sale, error) {
	found, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found.IsConsignment() {
		return nil, shared.NewDomainError("NOT_FOUND", "Layaway sale not found")
	}
	return found, nil
}
