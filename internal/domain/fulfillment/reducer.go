package fulfillment

import (
	"fmt"

	"github.com/pos/backend/internal/domain/shared"
)

// Event is an input to the fulfillment reducer
type Event interface {
	fulfillmentEvent()
}

// ItemToggled flips one line item between pending and ready
type ItemToggled struct {
	SKU string
}

// AdvanceRequested asks for an explicit move to the next phase
type AdvanceRequested struct {
	Target Phase
}

func (ItemToggled) fulfillmentEvent()      {}
func (AdvanceRequested) fulfillmentEvent() {}

// EffectKind tags what a reduction changed
type EffectKind string

const (
	EffectItemChanged  EffectKind = "item_changed"
	EffectPhaseEntered EffectKind = "phase_entered"
)

// Effect is one observable change produced by a reduction
type Effect struct {
	Kind  EffectKind
	SKU   string
	State ItemState
	Phase Phase
}

// State is the part of an order the reducer works on
type State struct {
	Phase Phase
	Items []LineItem
}

// AllReady returns true when every item has been checked
func (s State) AllReady() bool {
	if len(s.Items) == 0 {
		return false
	}
	for _, item := range s.Items {
		if !item.IsReady() {
			return false
		}
	}
	return true
}

// DemotionPolicy decides the phase of an order once a ready item is marked
// pending again after packing was finished.
type DemotionPolicy func(current Phase) Phase

// NoDemotion keeps the order where it is: once empaquetado_fin is reached the
// order counts as packed regardless of later item edits.
func NoDemotion(current Phase) Phase {
	return current
}

// Reducer is the fulfillment state machine
type Reducer struct {
	Demotion DemotionPolicy
}

// NewReducer creates a reducer with the NoDemotion policy
func NewReducer() Reducer {
	return Reducer{Demotion: NoDemotion}
}

// Reduce applies event to state. It never mutates its input; on error the
// returned state is the input state.
func (r Reducer) Reduce(state State, event Event) (State, []Effect, error) {
	switch e := event.(type) {
	case ItemToggled:
		return r.toggle(state, e.SKU)
	case AdvanceRequested:
		return r.advance(state, e.Target)
	default:
		return state, nil, shared.NewDomainError("UNKNOWN_EVENT", fmt.Sprintf("Unknown fulfillment event %T", event))
	}
}

func (r Reducer) toggle(state State, sku string) (State, []Effect, error) {
	if !state.Phase.IsValid() {
		return state, nil, shared.NewDomainError("INVALID_STATE", "Order is not in fulfillment")
	}
	if state.Phase.IsTerminal() {
		return state, nil, shared.NewDomainError("INVALID_STATE", "Items of a delivered order cannot be changed")
	}

	idx := -1
	for i := range state.Items {
		if state.Items[i].SKU == sku {
			idx = i
			break
		}
	}
	if idx < 0 {
		return state, nil, shared.NewDomainError("ITEM_NOT_FOUND", "Order has no item with SKU "+sku)
	}

	next := State{Phase: state.Phase, Items: make([]LineItem, len(state.Items))}
	copy(next.Items, state.Items)
	next.Items[idx].State = next.Items[idx].State.Toggled()

	effects := []Effect{{Kind: EffectItemChanged, SKU: sku, State: next.Items[idx].State}}

	if !next.Items[idx].IsReady() {
		if !next.Phase.Before(PhasePacked) {
			if demoted := r.demotion()(next.Phase); demoted != next.Phase {
				next.Phase = demoted
				effects = append(effects, Effect{Kind: EffectPhaseEntered, Phase: demoted})
			}
		}
		return next, effects, nil
	}

	// First item checked before packing began: the order passes through
	// visto so the phase timestamps stay ordered.
	if next.Phase.Before(PhasePacking) {
		if next.Phase == PhaseRevision {
			next.Phase = PhaseSeen
			effects = append(effects, Effect{Kind: EffectPhaseEntered, Phase: PhaseSeen})
		}
		next.Phase = PhasePacking
		effects = append(effects, Effect{Kind: EffectPhaseEntered, Phase: PhasePacking})
	}

	if next.Phase == PhasePacking && next.AllReady() {
		next.Phase = PhasePacked
		effects = append(effects, Effect{Kind: EffectPhaseEntered, Phase: PhasePacked})
	}

	return next, effects, nil
}

func (r Reducer) advance(state State, target Phase) (State, []Effect, error) {
	if !target.IsValid() {
		return state, nil, shared.NewDomainError("INVALID_PHASE", "Unknown fulfillment phase: "+target.String())
	}
	successor, ok := state.Phase.Successor()
	if !ok || target != successor {
		return state, nil, shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot move order from %s to %s", state.Phase, target))
	}
	if target.IsItemDriven() {
		return state, nil, shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Phase %s is reached by marking items ready", target))
	}

	next := State{Phase: target, Items: state.Items}
	return next, []Effect{{Kind: EffectPhaseEntered, Phase: target}}, nil
}

func (r Reducer) demotion() DemotionPolicy {
	if r.Demotion == nil {
		return NoDemotion
	}
	return r.Demotion
}
