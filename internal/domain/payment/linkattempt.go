package payment

import (
	"fmt"
	"time"

	vo "github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment/valueobjects"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/biztime"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/id"
)

// PaymentLinkAttempt is the audit record of one call to the provider.
type PaymentLinkAttempt struct {
	id               uint
	sid              string
	orderID          string
	variant          vo.EndpointVariant
	mode             vo.GatewayMode
	amount           vo.Money
	amountMinorUnits int64
	status           vo.LinkStatus
	failureKind      ErrorKind
	failureReason    string
	redirectURL      string
	requestedAt      *time.Time
	completedAt      *time.Time
	metadata         map[string]any
	version          int
	createdAt        time.Time
	updatedAt        time.Time
}

func NewPaymentLinkAttempt(orderID string, variant vo.EndpointVariant, mode vo.GatewayMode, amount vo.Money) (*PaymentLinkAttempt, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order id is required")
	}
	if !variant.IsValid() {
		return nil, fmt.Errorf("invalid endpoint variant: %s", variant)
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("invalid gateway mode: %s", mode)
	}

	sid, err := id.NewLinkAttemptID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate SID: %w", err)
	}

	metadata := map[string]any{
		"endpoint":             variant.Path(),
		"payment_method_types": paymentMethodNames(vo.DefaultPaymentMethodTypes()),
	}

	now := biztime.NowUTC()
	return &PaymentLinkAttempt{
		sid:              sid,
		orderID:          orderID,
		variant:          variant,
		mode:             mode,
		amount:           amount,
		amountMinorUnits: amount.MinorUnits(),
		status:           vo.LinkStatusNotStarted,
		metadata:         metadata,
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// PaymentLinkAttemptParams carries persisted state for reconstruction.
type PaymentLinkAttemptParams struct {
	ID               uint
	SID              string
	OrderID          string
	Variant          vo.EndpointVariant
	Mode             vo.GatewayMode
	Amount           vo.Money
	AmountMinorUnits int64
	Status           vo.LinkStatus
	FailureKind      ErrorKind
	FailureReason    string
	RedirectURL      string
	RequestedAt      *time.Time
	CompletedAt      *time.Time
	Metadata         map[string]any
	Version          int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func ReconstructPaymentLinkAttempt(p PaymentLinkAttemptParams) *PaymentLinkAttempt {
	return &PaymentLinkAttempt{
		id:               p.ID,
		sid:              p.SID,
		orderID:          p.OrderID,
		variant:          p.Variant,
		mode:             p.Mode,
		amount:           p.Amount,
		amountMinorUnits: p.AmountMinorUnits,
		status:           p.Status,
		failureKind:      p.FailureKind,
		failureReason:    p.FailureReason,
		redirectURL:      p.RedirectURL,
		requestedAt:      p.RequestedAt,
		completedAt:      p.CompletedAt,
		metadata:         p.Metadata,
		version:          p.Version,
		createdAt:        p.CreatedAt,
		updatedAt:        p.UpdatedAt,
	}
}

func (a *PaymentLinkAttempt) transition(target vo.LinkStatus) error {
	if !a.status.CanTransitionTo(target) {
		return fmt.Errorf("cannot move payment link attempt from %s to %s", a.status, target)
	}
	a.status = target
	a.updatedAt = biztime.NowUTC()
	a.version++
	return nil
}

func (a *PaymentLinkAttempt) MarkRequestSent() error {
	if err := a.transition(vo.LinkStatusRequestSent); err != nil {
		return err
	}
	now := a.updatedAt
	a.requestedAt = &now
	return nil
}

func (a *PaymentLinkAttempt) MarkSucceeded(redirectURL string) error {
	if redirectURL == "" {
		return fmt.Errorf("redirect url is required")
	}
	if err := a.transition(vo.LinkStatusSucceeded); err != nil {
		return err
	}
	now := a.updatedAt
	a.redirectURL = redirectURL
	a.completedAt = &now
	return nil
}

// MarkFailed records the failure kind and an operator-facing reason. The
// reason must not contain credentials.
func (a *PaymentLinkAttempt) MarkFailed(kind ErrorKind, reason string) error {
	if err := a.transition(vo.LinkStatusFailed); err != nil {
		return err
	}
	now := a.updatedAt
	a.failureKind = kind
	a.failureReason = reason
	a.completedAt = &now
	return nil
}

// SetID sets the attempt ID (only for persistence layer use)
func (a *PaymentLinkAttempt) SetID(id uint) {
	a.id = id
}

func (a *PaymentLinkAttempt) ID() uint                    { return a.id }
func (a *PaymentLinkAttempt) SID() string                 { return a.sid }
func (a *PaymentLinkAttempt) OrderID() string             { return a.orderID }
func (a *PaymentLinkAttempt) Variant() vo.EndpointVariant { return a.variant }
func (a *PaymentLinkAttempt) Mode() vo.GatewayMode        { return a.mode }
func (a *PaymentLinkAttempt) Amount() vo.Money            { return a.amount }
func (a *PaymentLinkAttempt) AmountMinorUnits() int64     { return a.amountMinorUnits }
func (a *PaymentLinkAttempt) Status() vo.LinkStatus       { return a.status }
func (a *PaymentLinkAttempt) FailureKind() ErrorKind      { return a.failureKind }
func (a *PaymentLinkAttempt) FailureReason() string       { return a.failureReason }
func (a *PaymentLinkAttempt) RedirectURL() string         { return a.redirectURL }
func (a *PaymentLinkAttempt) RequestedAt() *time.Time     { return a.requestedAt }
func (a *PaymentLinkAttempt) CompletedAt() *time.Time     { return a.completedAt }
func (a *PaymentLinkAttempt) Metadata() map[string]any    { return deepCopyMap(a.metadata) }
func (a *PaymentLinkAttempt) Version() int                { return a.version }
func (a *PaymentLinkAttempt) CreatedAt() time.Time        { return a.createdAt }
func (a *PaymentLinkAttempt) UpdatedAt() time.Time        { return a.updatedAt }

func paymentMethodNames(types []vo.PaymentMethodType) []string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	return names
}
