// Package fulfillment models saved carts (quotes and budgets) and the warehouse
// pipeline that queued orders go through until they are handed to the customer.
package fulfillment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/payment"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Customer is the optional customer reference of an order
type Customer struct {
	ID   *int64
	Name string
}

// Order is a saved cart. Quotes only hold items; queued orders additionally
// move through the fulfillment phases.
type Order struct {
	shared.OperatedAggregateRoot
	Customer          Customer
	Items             []LineItem
	Total             decimal.Decimal
	Status            DraftStatus
	Phase             Phase
	Payments          []payment.Payment
	Notes             string
	UpdatedBy         uuid.UUID
	SeenAt            *time.Time
	PackingStartedAt  *time.Time
	PackingFinishedAt *time.Time
	ReceivedAt        *time.Time
	DeliveredAt       *time.Time
}

// NewOrder creates a saved cart. Queued orders start fulfillment at revision.
func NewOrder(operatorID uuid.UUID, status DraftStatus, customer Customer, items []LineItem, total decimal.Decimal) (*Order, error) {
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown draft status: "+status.String())
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "An order needs at least one item")
	}
	if total.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Order total cannot be negative")
	}
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item.SKU] {
			return nil, shared.NewDomainError("DUPLICATE_SKU", "SKU appears twice in the order: "+item.SKU)
		}
		seen[item.SKU] = true
	}

	order := &Order{
		OperatedAggregateRoot: shared.NewOperatedAggregateRoot(operatorID),
		Customer:              customer,
		Items:                 append([]LineItem(nil), items...),
		Total:                 total,
		Status:                status,
		Payments:              make([]payment.Payment, 0),
		UpdatedBy:             operatorID,
	}
	if status == DraftStatusQueued {
		order.Phase = PhaseRevision
	}

	return order, nil
}

// AttachPayments records payments taken when the cart was saved
func (o *Order) AttachPayments(payments []payment.Payment) {
	o.Payments = append(o.Payments, payments...)
}

// SetNotes sets the free-text notes
func (o *Order) SetNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
}

// RecordCreated raises the creation event once the store has assigned an ID
func (o *Order) RecordCreated() {
	o.AddDomainEvent(NewOrderCreatedEvent(o))
}

// IsQueued returns true if the order takes part in fulfillment
func (o *Order) IsQueued() bool {
	return o.Status == DraftStatusQueued
}

// SendToWarehouse queues a quote for fulfillment
func (o *Order) SendToWarehouse(operatorID uuid.UUID) error {
	if !o.Status.IsQuote() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot queue an order in %s status", o.Status))
	}
	o.Status = DraftStatusQueued
	o.Phase = PhaseRevision
	o.touch(operatorID, time.Now())
	o.AddDomainEvent(NewOrderQueuedEvent(o))
	return nil
}

// ToggleItem flips the checklist state of one item and fires any phase change
// that follows from it. Nothing is changed when an error is returned.
func (o *Order) ToggleItem(sku string, operatorID uuid.UUID) ([]Effect, error) {
	return o.apply(ItemToggled{SKU: sku}, operatorID)
}

// Advance moves the order to target, which must be the immediate successor of
// the current phase. Delivery additionally requires recorded payments, if any,
// to cover the total.
func (o *Order) Advance(target Phase, operatorID uuid.UUID) error {
	_, err := o.apply(AdvanceRequested{Target: target}, operatorID, o.paymentGate)
	return err
}

// paymentGate holds delivery back until recorded payments cover the total
func (o *Order) paymentGate(next State) error {
	if next.Phase != PhaseDelivered || len(o.Payments) == 0 || payment.IsSufficient(o.Payments, o.Total) {
		return nil
	}
	return shared.NewDomainError("INSUFFICIENT_PAYMENT",
		fmt.Sprintf("Payments cover %s of %s", payment.SumPayments(o.Payments), o.Total))
}

// MarkSeen acknowledges a newly queued order
func (o *Order) MarkSeen(operatorID uuid.UUID) error {
	return o.Advance(PhaseSeen, operatorID)
}

// apply reduces event and commits the result once every gate accepts the
// reduced state
func (o *Order) apply(event Event, operatorID uuid.UUID, gates ...func(State) error) ([]Effect, error) {
	if !o.IsQueued() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only orders sent to the warehouse can be fulfilled")
	}

	next, effects, err := NewReducer().Reduce(State{Phase: o.Phase, Items: o.Items}, event)
	if err != nil {
		return nil, err
	}
	for _, gate := range gates {
		if err := gate(next); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	o.Items = next.Items
	for _, effect := range effects {
		switch effect.Kind {
		case EffectItemChanged:
			o.AddDomainEvent(NewItemToggledEvent(o, effect.SKU, effect.State, operatorID))
		case EffectPhaseEntered:
			from := o.Phase
			o.Phase = effect.Phase
			o.stamp(effect.Phase, now)
			o.AddDomainEvent(NewPhaseChangedEvent(o, from, effect.Phase, operatorID))
		}
	}
	o.Phase = next.Phase
	o.touch(operatorID, now)

	return effects, nil
}

// stamp records the phase timestamp once; an existing timestamp is kept
func (o *Order) stamp(phase Phase, at time.Time) {
	ts := o.timestampField(phase)
	if ts == nil || *ts != nil {
		return
	}
	t := at
	*ts = &t
}

func (o *Order) timestampField(phase Phase) **time.Time {
	switch phase {
	case PhaseSeen:
		return &o.SeenAt
	case PhasePacking:
		return &o.PackingStartedAt
	case PhasePacked:
		return &o.PackingFinishedAt
	case PhaseReception:
		return &o.ReceivedAt
	case PhaseDelivered:
		return &o.DeliveredAt
	}
	return nil
}

// PhaseTimestamp returns when the order entered phase, if it has
func (o *Order) PhaseTimestamp(phase Phase) *time.Time {
	ts := o.timestampField(phase)
	if ts == nil {
		return nil
	}
	return *ts
}

// CheckTimeline verifies that the phase timestamps are non-decreasing and
// that every phase up to the current one has been stamped.
func (o *Order) CheckTimeline() error {
	if !o.IsQueued() {
		return nil
	}
	var last *time.Time
	for _, phase := range phaseOrder[1:] {
		ts := o.PhaseTimestamp(phase)
		reached := !o.Phase.Before(phase)
		if reached && ts == nil {
			return shared.NewDomainError("INCONSISTENT_TIMELINE", fmt.Sprintf("Phase %s reached without timestamp", phase))
		}
		if !reached && ts != nil {
			return shared.NewDomainError("INCONSISTENT_TIMELINE", fmt.Sprintf("Phase %s stamped ahead of %s", phase, o.Phase))
		}
		if ts == nil {
			continue
		}
		if last != nil && ts.Before(*last) {
			return shared.NewDomainError("INCONSISTENT_TIMELINE", fmt.Sprintf("Phase %s stamped before the previous phase", phase))
		}
		last = ts
	}
	return nil
}

// CanDelete returns true for quotes and for queued orders nobody has looked at yet
func (o *Order) CanDelete() bool {
	return o.Status.IsQuote() || o.Phase == PhaseRevision
}

// CartLine is a line of a reloaded cart
type CartLine struct {
	SKU       string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Cart is the snapshot used to resume a quote at the counter
type Cart struct {
	OrderID  int64
	Customer Customer
	Lines    []CartLine
	Total    decimal.Decimal
}

// Reload returns the quote as a cart snapshot
func (o *Order) Reload() (*Cart, error) {
	if !o.Status.IsQuote() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only quotes can be reloaded into a cart")
	}
	lines := make([]CartLine, len(o.Items))
	for i, item := range o.Items {
		lines[i] = CartLine{SKU: item.SKU, Name: item.Name, Quantity: item.Quantity, UnitPrice: item.UnitPrice}
	}
	return &Cart{OrderID: o.ID, Customer: o.Customer, Lines: lines, Total: o.Total}, nil
}

// Item returns the item with the given SKU
func (o *Order) Item(sku string) *LineItem {
	for i := range o.Items {
		if o.Items[i].SKU == sku {
			return &o.Items[i]
		}
	}
	return nil
}

// ReadyCount returns how many items have been checked
func (o *Order) ReadyCount() int {
	n := 0
	for _, item := range o.Items {
		if item.IsReady() {
			n++
		}
	}
	return n
}

func (o *Order) touch(operatorID uuid.UUID, at time.Time) {
	o.UpdatedBy = operatorID
	o.UpdatedAt = at
}
