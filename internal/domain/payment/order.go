package payment

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	vo "github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment/valueobjects"
)

// Host order statuses this service reads or writes.
const (
	OrderStatusPending = "pending"
	OrderStatusOnHold  = "on-hold"
)

type BillingDetails struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// FullName joins first and last name with a single space.
func (b BillingDetails) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(b.FirstName) + " " + strings.TrimSpace(b.LastName))
}

// OrderSnapshotParams carries the fields captured from the host order.
type OrderSnapshotParams struct {
	ID            string
	Total         decimal.Decimal
	CurrencyCode  string
	Billing       BillingDetails
	ReturnURL     string
	Status        string
	PaymentMethod string
	RawMeta       map[string]any
}

// OrderSnapshot is the immutable view of a host order at checkout time.
type OrderSnapshot struct {
	id            string
	total         decimal.Decimal
	currencyCode  string
	billing       BillingDetails
	returnURL     string
	status        string
	paymentMethod string
	rawMeta       map[string]any
}

// NewOrderSnapshot validates and captures an order. CurrencyCode may be empty,
// in which case the configured default applies when the request is built.
func NewOrderSnapshot(p OrderSnapshotParams) (*OrderSnapshot, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, fmt.Errorf("order id is required")
	}
	if p.Total.IsNegative() {
		return nil, fmt.Errorf("order total must not be negative")
	}

	currencyCode := ""
	if strings.TrimSpace(p.CurrencyCode) != "" {
		code, err := vo.NormalizeCurrencyCode(p.CurrencyCode)
		if err != nil {
			return nil, err
		}
		currencyCode = code
	}

	if p.ReturnURL != "" {
		u, err := url.Parse(p.ReturnURL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return nil, fmt.Errorf("return url must be an absolute URL")
		}
	}

	return &OrderSnapshot{
		id:            strings.TrimSpace(p.ID),
		total:         p.Total,
		currencyCode:  currencyCode,
		billing:       p.Billing,
		returnURL:     p.ReturnURL,
		status:        p.Status,
		paymentMethod: p.PaymentMethod,
		rawMeta:       deepCopyMap(p.RawMeta),
	}, nil
}

func (o *OrderSnapshot) ID() string               { return o.id }
func (o *OrderSnapshot) Total() decimal.Decimal   { return o.total }
func (o *OrderSnapshot) CurrencyCode() string     { return o.currencyCode }
func (o *OrderSnapshot) Billing() BillingDetails  { return o.billing }
func (o *OrderSnapshot) ReturnURL() string        { return o.returnURL }
func (o *OrderSnapshot) Status() string           { return o.status }
func (o *OrderSnapshot) PaymentMethod() string    { return o.paymentMethod }
func (o *OrderSnapshot) IsOnHold() bool           { return o.status == OrderStatusOnHold }
func (o *OrderSnapshot) HasSecureReturnURL() bool { return strings.HasPrefix(strings.ToLower(o.returnURL), "https://") }

// RawMeta returns a copy of the host's order document.
func (o *OrderSnapshot) RawMeta() map[string]any {
	return deepCopyMap(o.rawMeta)
}

// Money resolves the order total, falling back to defaultCurrency when the
// order carries none.
func (o *OrderSnapshot) Money(defaultCurrency string) (vo.Money, error) {
	code := o.currencyCode
	if code == "" {
		code = defaultCurrency
	}
	return vo.NewMoney(o.total, code)
}

// MetaPayload is the value sent as the request meta: the host's order
// document when one was captured, otherwise the snapshot's own fields.
func (o *OrderSnapshot) MetaPayload() map[string]any {
	if len(o.rawMeta) > 0 {
		return o.RawMeta()
	}
	return map[string]any{
		"id":       o.id,
		"total":    o.total.String(),
		"currency": o.currencyCode,
		"billing": map[string]any{
			"first_name": o.billing.FirstName,
			"last_name":  o.billing.LastName,
			"email":      o.billing.Email,
			"phone":      o.billing.Phone,
		},
	}
}

func deepCopyMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = deepCopyValue(v)
	}
	return dst
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}
