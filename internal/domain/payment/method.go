// Package payment holds the payment instruments accepted at the counter and the
// arithmetic that reconciles a set of payments against an amount due.
package payment

// Method is a payment instrument
type Method string

const (
	MethodCash     Method = "efectivo"
	MethodCard     Method = "tarjeta"
	MethodTransfer Method = "transferencia"
	MethodUala     Method = "uala"
	MethodBrubank  Method = "brubank"
)

// AllMethods returns every accepted instrument in display order
func AllMethods() []Method {
	return []Method{MethodCash, MethodCard, MethodTransfer, MethodUala, MethodBrubank}
}

// IsValid checks if the method is an accepted instrument
func (m Method) IsValid() bool {
	switch m {
	case MethodCash, MethodCard, MethodTransfer, MethodUala, MethodBrubank:
		return true
	}
	return false
}

// IsCash returns true for payments that land in the register drawer
func (m Method) IsCash() bool {
	return m == MethodCash
}

// String returns the string representation of Method
func (m Method) String() string {
	return string(m)
}
