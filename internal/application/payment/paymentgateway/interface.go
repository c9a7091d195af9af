package paymentgateway

import (
	"context"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment"
)

// PaymentLinkRequester obtains a hosted payment page for an order.
//
// Implementations make at most one provider call per invocation, never
// retry and never cache. Failures are *payment.GatewayError values:
// config (before any network call), connection, parse or cancelled.
type PaymentLinkRequester interface {
	RequestPaymentLink(ctx context.Context, order *payment.OrderSnapshot, cfg payment.GatewayConfig) (*payment.PaymentLinkResponse, error)
}

// RequesterFunc adapts a function to PaymentLinkRequester.
type RequesterFunc func(ctx context.Context, order *payment.OrderSnapshot, cfg payment.GatewayConfig) (*payment.PaymentLinkResponse, error)

func (f RequesterFunc) RequestPaymentLink(ctx context.Context, order *payment.OrderSnapshot, cfg payment.GatewayConfig) (*payment.PaymentLinkResponse, error) {
	return f(ctx, order, cfg)
}
