package fulfillment

// Phase is the warehouse fulfillment phase of a queued order
type Phase string

const (
	PhaseRevision  Phase = "revision"
	PhaseSeen      Phase = "visto"
	PhasePacking   Phase = "empaquetado"
	PhasePacked    Phase = "empaquetado_fin"
	PhaseReception Phase = "recepcion"
	PhaseDelivered Phase = "entregado"
)

// phaseOrder is the happy path; every phase has at most one successor
var phaseOrder = []Phase{
	PhaseRevision,
	PhaseSeen,
	PhasePacking,
	PhasePacked,
	PhaseReception,
	PhaseDelivered,
}

// AllPhases returns the phases in fulfillment order
func AllPhases() []Phase {
	out := make([]Phase, len(phaseOrder))
	copy(out, phaseOrder)
	return out
}

// Rank returns the position of the phase in the fulfillment order, or -1 if unknown
func (p Phase) Rank() int {
	for i, candidate := range phaseOrder {
		if candidate == p {
			return i
		}
	}
	return -1
}

// IsValid checks if the phase is known
func (p Phase) IsValid() bool {
	return p.Rank() >= 0
}

// Successor returns the unique legal next phase
func (p Phase) Successor() (Phase, bool) {
	rank := p.Rank()
	if rank < 0 || rank == len(phaseOrder)-1 {
		return "", false
	}
	return phaseOrder[rank+1], true
}

// Before reports whether p comes strictly earlier than other
func (p Phase) Before(other Phase) bool {
	return p.Rank() < other.Rank()
}

// IsTerminal returns true once the order has been handed over
func (p Phase) IsTerminal() bool {
	return p == PhaseDelivered
}

// IsItemDriven returns true for phases entered only through item completion
func (p Phase) IsItemDriven() bool {
	return p == PhasePacking || p == PhasePacked
}

// String returns the string representation of Phase
func (p Phase) String() string {
	return string(p)
}
