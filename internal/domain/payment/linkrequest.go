package payment

import (
	"errors"
	"strings"

	vo "github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment/valueobjects"
)

// DefaultSessionTimeoutSeconds applies to the checkout-page variant.
const DefaultSessionTimeoutSeconds = 300

// PaymentLinkRequest is the provider request body. Customer fields and
// sessionTimeout are pointers so each variant sends exactly its own fields.
type PaymentLinkRequest struct {
	AmountMinorUnits   int64                  `json:"amount"`
	RedirectURI        string                 `json:"redirectUri"`
	CurrencyCode       string                 `json:"currencyCode"`
	PaymentMethodTypes []vo.PaymentMethodType `json:"paymentMethodType"`
	Meta               map[string]any         `json:"meta"`

	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`

	SessionTimeout *int `json:"sessionTimeout,omitempty"`
}

type BuildOptions struct {
	Variant               vo.EndpointVariant
	DefaultCurrency       string
	SessionTimeoutSeconds int
}

// BuildPaymentLinkRequest derives the provider body from an order snapshot.
func BuildPaymentLinkRequest(order *OrderSnapshot, opts BuildOptions) (*PaymentLinkRequest, error) {
	const op = "build payment link request"
	if order == nil {
		return nil, NewConfigError(op, errors.New("order snapshot is required"))
	}
	if strings.TrimSpace(order.ReturnURL()) == "" {
		return nil, NewConfigError(op, errors.New("order return url is required"))
	}

	variant := opts.Variant
	if variant == "" {
		variant = vo.DefaultEndpointVariant
	}
	if !variant.IsValid() {
		return nil, NewConfigError(op, errors.New("invalid endpoint variant: "+variant.String()))
	}

	money, err := order.Money(opts.DefaultCurrency)
	if err != nil {
		return nil, NewConfigError(op, err)
	}

	req := &PaymentLinkRequest{
		AmountMinorUnits:   money.MinorUnits(),
		RedirectURI:        order.ReturnURL(),
		CurrencyCode:       money.Currency(),
		PaymentMethodTypes: vo.DefaultPaymentMethodTypes(),
		Meta:               order.MetaPayload(),
	}

	if variant.SendsCustomerFields() {
		billing := order.Billing()
		name := billing.FullName()
		email := billing.Email
		phone := billing.Phone
		req.Name = &name
		req.Email = &email
		req.PhoneNumber = &phone
	}

	if variant.SendsSessionTimeout() {
		timeout := opts.SessionTimeoutSeconds
		if timeout <= 0 {
			timeout = DefaultSessionTimeoutSeconds
		}
		req.SessionTimeout = &timeout
	}

	return req, nil
}

// PaymentLinkResponse is the success half of a payment link request.
type PaymentLinkResponse struct {
	RedirectURL string
}
