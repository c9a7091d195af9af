package valueobjects

import "fmt"

// EndpointVariant is the provider endpoint used to create the hosted page.
// Both variants answer with the same entity.link shape.
type EndpointVariant string

const (
	EndpointVariantPaymentLink  EndpointVariant = "payment_link"
	EndpointVariantCheckoutPage EndpointVariant = "checkout_page"

	DefaultEndpointVariant = EndpointVariantPaymentLink
)

// NewEndpointVariant parses a configured variant. Empty selects the default.
func NewEndpointVariant(variant string) (EndpointVariant, error) {
	if variant == "" {
		return DefaultEndpointVariant, nil
	}
	v := EndpointVariant(variant)
	if !v.IsValid() {
		return "", fmt.Errorf("invalid endpoint variant: %s", variant)
	}
	return v, nil
}

func (v EndpointVariant) IsValid() bool {
	return v == EndpointVariantPaymentLink || v == EndpointVariantCheckoutPage
}

// Path is relative to the provider API base URL.
func (v EndpointVariant) Path() string {
	switch v {
	case EndpointVariantCheckoutPage:
		return "/checkout-page"
	default:
		return "/payment-link"
	}
}

// SendsCustomerFields reports whether name, email and phoneNumber are part
// of the request body.
func (v EndpointVariant) SendsCustomerFields() bool {
	return v == EndpointVariantPaymentLink
}

// SendsSessionTimeout reports whether sessionTimeout is part of the request body.
func (v EndpointVariant) SendsSessionTimeout() bool {
	return v == EndpointVariantCheckoutPage
}

func (v EndpointVariant) String() string {
	return string(v)
}
