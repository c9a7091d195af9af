package handlers

import (
	"context"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/dto"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/usecases"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment"
)

// Use case interfaces for the payment handlers

type processPaymentUseCase interface {
	Execute(ctx context.Context, orderID string) (*dto.ProcessPaymentResponse, error)
}

type createPaymentLinkUseCase interface {
	Execute(ctx context.Context, order *payment.OrderSnapshot, settings payment.GatewaySettings) (*usecases.CreatePaymentLinkResult, error)
}

type gatewaySettingsLoader interface {
	Load(ctx context.Context) (payment.GatewaySettings, error)
}

type instructionsUseCase interface {
	PaymentFields(ctx context.Context) (*dto.PaymentFieldsResponse, error)
	ThankYou(ctx context.Context, orderID string) (*dto.InstructionsResponse, error)
}

type gatewaySettingsUseCase interface {
	Get(ctx context.Context) (*dto.GatewaySettingsResponse, error)
	Update(ctx context.Context, req dto.UpdateGatewaySettingsRequest, updatedBy string) (*dto.GatewaySettingsResponse, error)
}

type listAttemptsUseCase interface {
	ByOrder(ctx context.Context, orderID string) ([]*dto.PaymentLinkAttemptResponse, error)
	BySID(ctx context.Context, sid string) (*dto.PaymentLinkAttemptResponse, error)
}
