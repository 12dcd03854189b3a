// Package fulfillment implements the use cases around saved carts and the
// warehouse pipeline.
package fulfillment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/fulfillment"
	"github.com/pos/backend/internal/domain/payment"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service handles draft and fulfillment operations
type Service struct {
	orders         fulfillment.OrderStore
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewService creates a new fulfillment Service
func NewService(orders fulfillment.OrderStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		orders: orders,
		logger: logger,
	}
}

// SetEventPublisher sets the event publisher
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateDraft saves a cart. The total is priced from the lines, discount and tax regime.
func (s *Service) CreateDraft(ctx context.Context, operatorID uuid.UUID, req CreateDraftRequest) (*OrderResponse, error) {
	items := make([]fulfillment.LineItem, 0, len(req.Items))
	for _, in := range req.Items {
		item, err := fulfillment.NewLineItem(in.SKU, in.Name, in.Quantity, in.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	regime := payment.TaxRegime(req.TaxRegime)
	if regime == "" {
		regime = payment.TaxNone
	}
	if !regime.IsValid() {
		return nil, shared.NewDomainError("INVALID_TAX_REGIME", "Unknown tax regime: "+req.TaxRegime)
	}
	discount := decimal.Zero
	if req.Discount != nil {
		discount = *req.Discount
	}
	totals := payment.ComputeTotals(items, discount, regime)

	order, err := fulfillment.NewOrder(operatorID, fulfillment.DraftStatus(req.Status),
		fulfillment.Customer{ID: req.CustomerID, Name: req.CustomerName}, items, totals.Total)
	if err != nil {
		return nil, err
	}

	payments, err := toPayments(req.Payments)
	if err != nil {
		return nil, err
	}
	order.AttachPayments(payments)
	if req.Notes != "" {
		order.SetNotes(req.Notes)
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	order.RecordCreated()
	s.publishEvents(ctx, order)

	s.logger.Info("draft saved",
		zap.Int64("order_id", order.ID),
		zap.String("status", order.Status.String()),
		zap.String("total", order.Total.String()),
	)

	response := ToOrderResponse(order)
	return &response, nil
}

// GetDraft retrieves an order by ID
func (s *Service) GetDraft(ctx context.Context, id int64) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// ListDrafts lists orders in a draft status, most recent first
func (s *Service) ListDrafts(ctx context.Context, status string, filter ListFilter) ([]OrderResponse, error) {
	st := fulfillment.DraftStatus(status)
	if !st.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown draft status: "+status)
	}
	orders, err := s.orders.FetchByStatus(ctx, st, toDomainFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// ListPending lists the orders queued for the warehouse, most recent first
func (s *Service) ListPending(ctx context.Context, filter ListFilter) ([]OrderResponse, error) {
	orders, err := s.orders.FetchPending(ctx, toDomainFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// DeleteDraft discards a quote, or a queued order nobody has looked at yet
func (s *Service) DeleteDraft(ctx context.Context, operatorID uuid.UUID, id int64) error {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !order.CanDelete() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Order in phase %s cannot be deleted", order.Phase))
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	order.AddDomainEvent(fulfillment.NewOrderDeletedEvent(order, operatorID))
	s.publishEvents(ctx, order)
	return nil
}

// ReloadDraft returns a quote as a cart snapshot for the counter
func (s *Service) ReloadDraft(ctx context.Context, id int64) (*CartResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cart, err := order.Reload()
	if err != nil {
		return nil, err
	}
	response := toCartResponse(cart)
	return &response, nil
}

// SendToWarehouse queues a quote for fulfillment
func (s *Service) SendToWarehouse(ctx context.Context, operatorID uuid.UUID, id int64, req VersionedRequest) (*OrderResponse, error) {
	return s.mutate(ctx, id, req.Version, func(order *fulfillment.Order) error {
		return order.SendToWarehouse(operatorID)
	})
}

// ToggleItem flips one item of a queued order and reports the phases it entered
func (s *Service) ToggleItem(ctx context.Context, operatorID uuid.UUID, id int64, sku string, req VersionedRequest) (*ToggleResponse, error) {
	var effects []fulfillment.Effect
	response, err := s.mutate(ctx, id, req.Version, func(order *fulfillment.Order) error {
		var err error
		effects, err = order.ToggleItem(sku, operatorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := &ToggleResponse{Order: *response, SKU: sku, PhasesEntered: make([]string, 0)}
	for _, e := range effects {
		switch e.Kind {
		case fulfillment.EffectItemChanged:
			result.ItemState = string(e.State)
		case fulfillment.EffectPhaseEntered:
			result.PhasesEntered = append(result.PhasesEntered, e.Phase.String())
		}
	}
	return result, nil
}

// Advance moves a queued order to the next phase
func (s *Service) Advance(ctx context.Context, operatorID uuid.UUID, id int64, req AdvanceRequest) (*OrderResponse, error) {
	return s.mutate(ctx, id, req.Version, func(order *fulfillment.Order) error {
		return order.Advance(fulfillment.Phase(req.Target), operatorID)
	})
}

// mutate loads, applies fn, and saves with a version check. The store is only
// written when fn succeeds, and events only go out when the store accepted it.
func (s *Service) mutate(ctx context.Context, id int64, expectedVersion int, fn func(*fulfillment.Order) error) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expectedVersion > 0 && expectedVersion != order.Version {
		return nil, shared.ErrConcurrencyConflict
	}

	if err := fn(order); err != nil {
		return nil, err
	}

	if err := s.orders.UpdateStatus(ctx, order); err != nil {
		s.logger.Warn("order update rejected",
			zap.Int64("order_id", id),
			zap.Int("version", order.Version),
			zap.Error(err),
		)
		return nil, err
	}
	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

func (s *Service) publishEvents(ctx context.Context, order *fulfillment.Order) {
	defer order.ClearDomainEvents()
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, order.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish order events",
			zap.Int64("order_id", order.ID),
			zap.Error(err),
		)
	}
}

func toPayments(inputs []PaymentInput) ([]payment.Payment, error) {
	payments := make([]payment.Payment, 0, len(inputs))
	for _, in := range inputs {
		p, err := payment.NewPayment(payment.Method(in.Method), in.Amount)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, nil
}

func toDomainFilter(f ListFilter) shared.Filter {
	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	filter.Search = strings.TrimSpace(f.Query)
	return filter
}
