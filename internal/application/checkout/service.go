// Package checkout implements sale registration, modification and returns,
// and the settlement of layaway sales.
package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/application/fulfillment"
	appidentity "github.com/pos/backend/internal/application/identity"
	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/domain/payment"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/sale"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// SessionGate returns the operator's open register session or register.ErrNoOpenSession
type SessionGate interface {
	RequireOpenSession(ctx context.Context, operatorID uuid.UUID) (*register.Session, error)
}

// Authorizer verifies supervisor credentials
type Authorizer interface {
	VerifyOverride(ctx context.Context, creds appidentity.OverrideCredentials) (*identity.Operator, error)
}

// Service handles checkout operations
type Service struct {
	sales          sale.Store
	sessions       SessionGate
	authorizer     Authorizer
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewService creates a new checkout Service
func NewService(sales sale.Store, sessions SessionGate, authorizer Authorizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sales:          sales,
		sessions:       sessions,
		authorizer:     authorizer,
		idempotencyTTL: shared.DefaultIdempotencyConfig().TTL,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore enables deduplication of layaway payments by request key
func (s *Service) SetIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) {
	s.idempotency = store
	if ttl > 0 {
		s.idempotencyTTL = ttl
	}
}

// RegisterSale commits a sale in the operator's open session
func (s *Service) RegisterSale(ctx context.Context, operatorID uuid.UUID, req RegisterSaleRequest) (_ *SaleResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "register_sale",
		attribute.String(telemetry.AttrOperatorID, operatorID.String()),
		attribute.Bool("pos.consignment", req.Consignment),
	)
	defer telemetry.EndSpan(span, &err)

	session, err := s.sessions.RequireOpenSession(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	if req.Consignment {
		if req.Override == nil {
			return nil, identity.ErrOverrideDenied
		}
		if _, err := s.authorizer.VerifyOverride(ctx, *req.Override); err != nil {
			return nil, err
		}
	}

	items, err := toItems(req.Items)
	if err != nil {
		return nil, err
	}
	payments, err := toPayments(req.Payments, session.ID)
	if err != nil {
		return nil, err
	}

	regime := payment.TaxRegime(req.TaxRegime)
	if regime == "" {
		regime = payment.TaxNone
	}

	newSale, err := sale.NewSale(sale.NewSaleParams{
		OperatorID:   operatorID,
		SessionID:    session.ID,
		CustomerID:   req.CustomerID,
		Origin:       sale.Origin(req.Origin),
		ConsumerType: sale.ConsumerType(req.ConsumerType),
		TaxRegime:    regime,
		Discount:     decimalOrZero(req.Discount),
		Notes:        req.Notes,
		Consignment:  req.Consignment,
		Items:        items,
		Payments:     payments,
	})
	if err != nil {
		return nil, err
	}

	if err := s.sales.RegisterSale(ctx, newSale); err != nil {
		return nil, err
	}
	newSale.RecordRegistered()
	s.publishEvents(ctx, newSale)
	telemetry.SetAttributes(span,
		telemetry.AttrSaleID, newSale.ID,
		telemetry.AttrSessionID, session.ID,
		telemetry.AttrAmount, newSale.Total.String(),
	)

	s.logger.Info("sale registered",
		zap.Int64("sale_id", newSale.ID),
		zap.Int64("session_id", session.ID),
		zap.String("status", newSale.Status.String()),
		zap.String("total", newSale.Total.String()),
	)

	response := ToSaleResponse(newSale)
	return &response, nil
}

// GetSale returns a sale by ID
func (s *Service) GetSale(ctx context.Context, id int64) (*SaleResponse, error) {
	found, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(found)
	return &response, nil
}

// ModifySale replaces the lines of a sale. It needs supervisor authorization
// and an open session.
func (s *Service) ModifySale(ctx context.Context, operatorID uuid.UUID, id int64, req ModifySaleRequest) (*SaleResponse, error) {
	session, err := s.sessions.RequireOpenSession(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	supervisor, err := s.authorizer.VerifyOverride(ctx, req.Override)
	if err != nil {
		return nil, err
	}

	target, err := s.load(ctx, id, req.Version)
	if err != nil {
		return nil, err
	}

	items, err := toItems(req.Items)
	if err != nil {
		return nil, err
	}
	payments, err := toSalePayments(req.Payments)
	if err != nil {
		return nil, err
	}

	mod, err := target.Modify(items, payments, decimalOrZero(req.Discount), req.Reason, operatorID, session.ID)
	if err != nil {
		return nil, err
	}
	if err := s.sales.Modify(ctx, target, mod); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, target)

	s.logger.Info("sale modified",
		zap.Int64("sale_id", target.ID),
		zap.String("supervisor", supervisor.Username),
		zap.String("previous_total", mod.PreviousTotal.String()),
		zap.String("new_total", mod.NewTotal.String()),
	)

	response := ToSaleResponse(target)
	return &response, nil
}

// RegisterReturn takes goods back. It needs supervisor authorization and an
// open session.
func (s *Service) RegisterReturn(ctx context.Context, operatorID uuid.UUID, id int64, req RegisterReturnRequest) (*SaleResponse, error) {
	session, err := s.sessions.RequireOpenSession(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	supervisor, err := s.authorizer.VerifyOverride(ctx, req.Override)
	if err != nil {
		return nil, err
	}

	target, err := s.load(ctx, id, req.Version)
	if err != nil {
		return nil, err
	}

	lines := make([]sale.ReturnLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = sale.ReturnLine{SKU: l.SKU, Quantity: l.Quantity}
	}
	refunds, err := toPayments(req.Refunds, session.ID)
	if err != nil {
		return nil, err
	}

	ret, err := target.RegisterReturn(lines, refunds, req.Reason, operatorID)
	if err != nil {
		return nil, err
	}
	if err := s.sales.RegisterReturn(ctx, target, ret); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, target)

	s.logger.Info("sale return registered",
		zap.Int64("sale_id", target.ID),
		zap.String("supervisor", supervisor.Username),
		zap.Bool("full", ret.Full),
		zap.String("refund", ret.RefundTotal().String()),
	)

	response := ToSaleResponse(target)
	return &response, nil
}

func (s *Service) load(ctx context.Context, id int64, expectedVersion int) (*sale.Sale, error) {
	found, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expectedVersion > 0 && expectedVersion != found.Version {
		return nil, shared.ErrConcurrencyConflict
	}
	return found, nil
}

func (s *Service) publishEvents(ctx context.Context, target *sale.Sale) {
	defer target.ClearDomainEvents()
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, target.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish sale events",
			zap.Int64("sale_id", target.ID),
			zap.Error(err),
		)
	}
}

func toItems(inputs []SaleItemInput) ([]sale.Item, error) {
	items := make([]sale.Item, 0, len(inputs))
	for _, in := range inputs {
		item, err := sale.NewItem(in.SKU, in.Name, in.Quantity, in.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

// toPayments attributes the payments to the session they are taken in
func toPayments(inputs []fulfillment.PaymentInput, sessionID int64) ([]payment.Payment, error) {
	payments := make([]payment.Payment, 0, len(inputs))
	for _, in := range inputs {
		p, err := payment.NewPayment(payment.Method(in.Method), in.Amount)
		if err != nil {
			return nil, err
		}
		p.SessionID = sessionID
		payments = append(payments, *p)
	}
	return payments, nil
}

// toSalePayments keeps payment IDs; the sale decides which session each one belongs to
func toSalePayments(inputs []SalePaymentInput) ([]payment.Payment, error) {
	payments := make([]payment.Payment, 0, len(inputs))
	for _, in := range inputs {
		p, err := payment.NewPayment(payment.Method(in.Method), in.Amount)
		if err != nil {
			return nil, err
		}
		p.ID = in.ID
		payments = append(payments, *p)
	}
	return payments, nil
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
