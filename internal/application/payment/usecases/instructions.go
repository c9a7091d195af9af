package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/dto"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/instructionsmailer"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/ordercollaborator"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/biztime"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/constants"
	apperrors "github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/errors"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/logger"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/services/markdown"
)

// InstructionsUseCase renders merchant text for the checkout form, the thank
// you page and the awaiting-payment email.
type InstructionsUseCase struct {
	settings GatewaySettingsLoader
	orders   ordercollaborator.OrderCollaborator
	markdown markdown.MarkdownService
	logger   logger.Interface
}

func NewInstructionsUseCase(
	settings GatewaySettingsLoader,
	orders ordercollaborator.OrderCollaborator,
	markdown markdown.MarkdownService,
	logger logger.Interface,
) *InstructionsUseCase {
	return &InstructionsUseCase{
		settings: settings,
		orders:   orders,
		markdown: markdown,
		logger:   logger,
	}
}

// PaymentFields is the text shown under the payment method at checkout. In
// test mode the test card notice is appended.
func (uc *InstructionsUseCase) PaymentFields(ctx context.Context) (*dto.PaymentFieldsResponse, error) {
	settings, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	description := settings.Description
	if settings.TestMode {
		description = strings.TrimSpace(description + " " + payment.TestModeNotice)
	}

	html, err := uc.markdown.ToHTMLSanitized(description)
	if err != nil {
		return nil, fmt.Errorf("failed to render description: %w", err)
	}

	return &dto.PaymentFieldsResponse{
		Title:           settings.Title,
		DescriptionHTML: html,
		TestMode:        settings.TestMode,
	}, nil
}

// ThankYou returns the instructions block for the order-received page.
func (uc *InstructionsUseCase) ThankYou(ctx context.Context, orderID string) (*dto.InstructionsResponse, error) {
	order, err := uc.orders.FetchOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, ordercollaborator.ErrOrderNotFound) {
			return nil, apperrors.NewNotFoundError("order not found", orderID)
		}
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}

	resp := &dto.InstructionsResponse{OrderID: order.ID()}
	if !ShouldShowInstructions(order, false) {
		return resp, nil
	}

	settings, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	instructions := settings.EffectiveInstructions()
	if strings.TrimSpace(instructions) == "" {
		return resp, nil
	}

	html, err := uc.markdown.ToHTMLSanitized(instructions)
	if err != nil {
		return nil, fmt.Errorf("failed to render instructions: %w", err)
	}
	resp.Show = true
	resp.InstructionsHTML = html
	return resp, nil
}

// ShouldShowInstructions is true for on-hold orders paid with this gateway,
// and never for copies sent to the store admin.
func ShouldShowInstructions(order *payment.OrderSnapshot, sentToAdmin bool) bool {
	return !sentToAdmin && order.PaymentMethod() == constants.GatewayID && order.IsOnHold()
}

// BuildEmail renders the awaiting-payment email for an order the caller has
// just put on hold. ok is false when there is nothing to send.
func (uc *InstructionsUseCase) BuildEmail(order *payment.OrderSnapshot, settings payment.GatewaySettings) (msg *instructionsmailer.InstructionsEmail, ok bool, err error) {
	if method := order.PaymentMethod(); method != "" && method != constants.GatewayID {
		return nil, false, nil
	}
	billing := order.Billing()
	if billing.Email == "" {
		return nil, false, nil
	}
	instructions := strings.TrimSpace(settings.EffectiveInstructions())
	if instructions == "" {
		return nil, false, nil
	}

	header := fmt.Sprintf("Order #%s placed on %s is awaiting payment.", order.ID(), biztime.FormatDate(biztime.NowUTC()))
	text := header + "\n\n" + instructions

	html, err := uc.markdown.ToHTMLSanitized(text)
	if err != nil {
		return nil, false, fmt.Errorf("failed to render instructions email: %w", err)
	}

	return &instructionsmailer.InstructionsEmail{
		To:       billing.Email,
		ToName:   billing.FullName(),
		Subject:  fmt.Sprintf("Your order #%s is awaiting payment", order.ID()),
		TextBody: text,
		HTMLBody: html,
	}, true, nil
}
