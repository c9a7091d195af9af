package valueobjects

// PaymentMethodType is a provider payment method code.
type PaymentMethodType string

const (
	PaymentMethodTypeCard PaymentMethodType = "CARD"
)

// DefaultPaymentMethodTypes are offered on every hosted page.
func DefaultPaymentMethodTypes() []PaymentMethodType {
	return []PaymentMethodType{PaymentMethodTypeCard}
}

func (t PaymentMethodType) String() string {
	return string(t)
}
