package fulfillment

// DraftStatus is the pre-fulfillment lifecycle of a saved cart
type DraftStatus string

const (
	// DraftStatusQuote is a saved cart with no fulfillment semantics
	DraftStatusQuote DraftStatus = "Borrador"
	// DraftStatusBudget is a quote handed to a customer; it behaves like DraftStatusQuote
	DraftStatusBudget DraftStatus = "Presupuesto"
	// DraftStatusQueued orders take part in warehouse fulfillment
	DraftStatusQueued DraftStatus = "Pendiente en deposito"
)

// IsValid checks if the status is known
func (s DraftStatus) IsValid() bool {
	switch s {
	case DraftStatusQuote, DraftStatusBudget, DraftStatusQueued:
		return true
	}
	return false
}

// IsQuote returns true for statuses that never enter fulfillment
func (s DraftStatus) IsQuote() bool {
	return s == DraftStatusQuote || s == DraftStatusBudget
}

// String returns the string representation of DraftStatus
func (s DraftStatus) String() string {
	return string(s)
}
