package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/utils/logutil"
)

// GatewaySettingsResponse is the admin view of the settings form. Private
// keys are masked.
type GatewaySettingsResponse struct {
	Enabled            bool   `json:"enabled"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	Instructions       string `json:"instructions"`
	TestMode           bool   `json:"testmode"`
	TestPublishableKey string `json:"test_publishable_key"`
	TestPrivateKey     string `json:"test_private_key"` // masked display
	PublishableKey     string `json:"publishable_key"`
	PrivateKey         string `json:"private_key"` // masked display
	Mode               string `json:"mode"`
	Ready              bool   `json:"ready"`
}

func ToGatewaySettingsResponse(s payment.GatewaySettings) *GatewaySettingsResponse {
	return &GatewaySettingsResponse{
		Enabled:            s.Enabled,
		Title:              s.Title,
		Description:        s.Description,
		Instructions:       s.Instructions,
		TestMode:           s.TestMode,
		TestPublishableKey: s.TestPublishableKey,
		TestPrivateKey:     logutil.MaskSecret(s.TestPrivateKey),
		PublishableKey:     s.PublishableKey,
		PrivateKey:         logutil.MaskSecret(s.PrivateKey),
		Mode:               s.Mode().String(),
		Ready:              payment.ResolveGatewayConfig(s).Validate() == nil,
	}
}

// UpdateGatewaySettingsRequest is a partial update; nil fields are kept.
type UpdateGatewaySettingsRequest struct {
	Enabled            *bool   `json:"enabled"`
	Title              *string `json:"title" binding:"omitempty,max=200"`
	Description        *string `json:"description" binding:"omitempty,max=2000"`
	Instructions       *string `json:"instructions" binding:"omitempty,max=4000"`
	TestMode           *bool   `json:"testmode"`
	TestPublishableKey *string `json:"test_publishable_key" binding:"omitempty,max=255"`
	TestPrivateKey     *string `json:"test_private_key" binding:"omitempty,max=255"`
	PublishableKey     *string `json:"publishable_key" binding:"omitempty,max=255"`
	PrivateKey         *string `json:"private_key" binding:"omitempty,max=255"`
}

type BillingRequest struct {
	FirstName string `json:"first_name" binding:"max=200"`
	LastName  string `json:"last_name" binding:"max=200"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone" binding:"max=50"`
}

// OrderSnapshotRequest is an order captured by the caller, used by
// POST /payment-links and the link command.
type OrderSnapshotRequest struct {
	ID           string          `json:"id" binding:"required"`
	Total        decimal.Decimal `json:"total"`
	CurrencyCode string          `json:"currency_code" binding:"omitempty,currency_code"`
	Billing      BillingRequest  `json:"billing"`
	ReturnURL    string          `json:"return_url" binding:"required,url"`
	Meta         map[string]any  `json:"meta"`
}

func (r OrderSnapshotRequest) ToOrderSnapshot() (*payment.OrderSnapshot, error) {
	return payment.NewOrderSnapshot(payment.OrderSnapshotParams{
		ID:           r.ID,
		Total:        r.Total,
		CurrencyCode: r.CurrencyCode,
		Billing: payment.BillingDetails{
			FirstName: r.Billing.FirstName,
			LastName:  r.Billing.LastName,
			Email:     r.Billing.Email,
			Phone:     r.Billing.Phone,
		},
		ReturnURL: r.ReturnURL,
		RawMeta:   r.Meta,
	})
}

type PaymentLinkResponse struct {
	RedirectURL string `json:"redirect_url"`
	AttemptSID  string `json:"attempt_id,omitempty"`
}

// ProcessPaymentResponse mirrors the host checkout contract: either
// result=success with a redirect, or result=failure with a notice.
type ProcessPaymentResponse struct {
	Result   string `json:"result"`
	Redirect string `json:"redirect,omitempty"`
	Notice   string `json:"notice,omitempty"`
}

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

type PaymentFieldsResponse struct {
	Title           string `json:"title"`
	DescriptionHTML string `json:"description_html"`
	TestMode        bool   `json:"testmode"`
}

type InstructionsResponse struct {
	OrderID          string `json:"order_id"`
	Show             bool   `json:"show"`
	InstructionsHTML string `json:"instructions_html,omitempty"`
}

type PaymentLinkAttemptResponse struct {
	SID              string         `json:"id"`
	OrderID          string         `json:"order_id"`
	Variant          string         `json:"variant"`
	Mode             string         `json:"mode"`
	Amount           string         `json:"amount"`
	Currency         string         `json:"currency"`
	AmountMinorUnits int64          `json:"amount_minor_units"`
	Status           string         `json:"status"`
	FailureKind      string         `json:"failure_kind,omitempty"`
	FailureReason    string         `json:"failure_reason,omitempty"`
	RedirectURL      string         `json:"redirect_url,omitempty"`
	RequestedAt      *time.Time     `json:"requested_at,omitempty"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

func ToPaymentLinkAttemptResponse(a *payment.PaymentLinkAttempt) *PaymentLinkAttemptResponse {
	return &PaymentLinkAttemptResponse{
		SID:              a.SID(),
		OrderID:          a.OrderID(),
		Variant:          a.Variant().String(),
		Mode:             a.Mode().String(),
		Amount:           a.Amount().Amount().StringFixed(2),
		Currency:         a.Amount().Currency(),
		AmountMinorUnits: a.AmountMinorUnits(),
		Status:           a.Status().String(),
		FailureKind:      string(a.FailureKind()),
		FailureReason:    a.FailureReason(),
		RedirectURL:      a.RedirectURL(),
		RequestedAt:      a.RequestedAt(),
		CompletedAt:      a.CompletedAt(),
		Metadata:         a.Metadata(),
		CreatedAt:        a.CreatedAt(),
	}
}

func ToPaymentLinkAttemptResponses(attempts []*payment.PaymentLinkAttempt) []*PaymentLinkAttemptResponse {
	out := make([]*PaymentLinkAttemptResponse, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, ToPaymentLinkAttemptResponse(a))
	}
	return out
}
