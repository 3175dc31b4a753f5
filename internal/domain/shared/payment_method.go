package shared

// PaymentMethod is the channel money moved through
type PaymentMethod string

const (
	PaymentMethodCash        PaymentMethod = "Cash"
	PaymentMethodOrangeMoney PaymentMethod = "OrangeMoney"
	PaymentMethodCard        PaymentMethod = "Card"
)

// AllPaymentMethods returns the methods in reporting order
func AllPaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentMethodCash, PaymentMethodOrangeMoney, PaymentMethodCard}
}

// IsValid checks if the method is a known PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodOrangeMoney, PaymentMethodCard:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// IsElectronic is true for methods that carry an external transaction reference
func (m PaymentMethod) IsElectronic() bool {
	return m == PaymentMethodOrangeMoney || m == PaymentMethodCard
}
