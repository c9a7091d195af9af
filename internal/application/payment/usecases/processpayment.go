package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/checkoutguard"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/dto"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/instructionsmailer"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/ordercollaborator"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/constants"
	apperrors "github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/errors"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/goroutine"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/logger"
)

const (
	// OnHoldNote is the order note written when the shopper is redirected.
	OnHoldNote = "Awaiting payment"

	NoticeOutOfStock = "Some items in your cart are no longer available."
	// NoticeAwaitingPayment answers a resubmission for an order this gateway
	// already put on hold.
	NoticeAwaitingPayment = "This order is already awaiting payment. Please use the payment link you received."
)

// PaymentLinkCreator is satisfied by CreatePaymentLinkUseCase.
type PaymentLinkCreator interface {
	Execute(ctx context.Context, order *payment.OrderSnapshot, settings payment.GatewaySettings) (*CreatePaymentLinkResult, error)
}

// ProcessPaymentUseCase runs checkout for one order.
//
// Stock is reserved before the provider is called. Only after a link was
// obtained is the order put on hold, the reservation committed and the cart
// emptied. Any failure releases the reservation and leaves the order as it
// was.
type ProcessPaymentUseCase struct {
	guard        checkoutguard.CheckoutGuard
	orders       ordercollaborator.OrderCollaborator
	settings     GatewaySettingsLoader
	links        PaymentLinkCreator
	instructions *InstructionsUseCase
	mailer       instructionsmailer.InstructionsMailer
	logger       logger.Interface
}

func NewProcessPaymentUseCase(
	guard checkoutguard.CheckoutGuard,
	orders ordercollaborator.OrderCollaborator,
	settings GatewaySettingsLoader,
	links PaymentLinkCreator,
	instructions *InstructionsUseCase,
	mailer instructionsmailer.InstructionsMailer,
	logger logger.Interface,
) *ProcessPaymentUseCase {
	return &ProcessPaymentUseCase{
		guard:        guard,
		orders:       orders,
		settings:     settings,
		links:        links,
		instructions: instructions,
		mailer:       mailer,
		logger:       logger,
	}
}

func success(redirect string) *dto.ProcessPaymentResponse {
	return &dto.ProcessPaymentResponse{Result: dto.ResultSuccess, Redirect: redirect}
}

func failure(notice string) *dto.ProcessPaymentResponse {
	return &dto.ProcessPaymentResponse{Result: dto.ResultFailure, Notice: notice}
}

// Execute returns a failure response (not an error) for anything the shopper
// can act on. Errors are reserved for unknown orders, concurrent submissions
// and host platform faults.
func (uc *ProcessPaymentUseCase) Execute(ctx context.Context, orderID string) (*dto.ProcessPaymentResponse, error) {
	if orderID == "" {
		return nil, apperrors.NewValidationError("order id is required")
	}

	if redirect, ok := uc.confirmedRedirect(ctx, orderID); ok {
		return success(redirect), nil
	}

	token, locked, err := uc.guard.Lock(ctx, orderID)
	if err != nil {
		uc.logger.Errorw("failed to take checkout lock", "order_id", orderID, "error", err)
		return nil, fmt.Errorf("failed to take checkout lock: %w", err)
	}
	if !locked {
		return nil, apperrors.NewConflictError("checkout already in progress for this order")
	}
	defer func() {
		if err := uc.guard.Unlock(context.WithoutCancel(ctx), orderID, token); err != nil {
			uc.logger.Warnw("failed to release checkout lock", "order_id", orderID, "error", err)
		}
	}()

	// A submission that finished between the lookup above and Lock has
	// already committed stock.
	if redirect, ok := uc.confirmedRedirect(ctx, orderID); ok {
		return success(redirect), nil
	}

	settings, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	cfg := payment.ResolveGatewayConfig(settings)
	if err := cfg.Validate(); err != nil {
		uc.logger.Warnw("checkout refused: gateway not usable", "order_id", orderID, "gateway", cfg, "error", err)
		return failure(payment.ShopperNotice(err)), nil
	}

	order, err := uc.orders.FetchOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, ordercollaborator.ErrOrderNotFound) {
			return nil, apperrors.NewNotFoundError("order not found", orderID)
		}
		uc.logger.Errorw("failed to fetch order", "order_id", orderID, "error", err)
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}

	if order.IsOnHold() && order.PaymentMethod() == constants.GatewayID {
		uc.logger.Warnw("checkout refused: order already awaiting payment", "order_id", orderID)
		return failure(NoticeAwaitingPayment), nil
	}

	if cfg.Mode.IsLive() && !order.HasSecureReturnURL() {
		uc.logger.Warnw("checkout refused: live mode requires https return url", "order_id", orderID)
		return failure(payment.NoticeInsecureReturn), nil
	}

	if err := uc.orders.ReserveStock(ctx, orderID); err != nil {
		if errors.Is(err, ordercollaborator.ErrInsufficientStock) {
			return failure(NoticeOutOfStock), nil
		}
		uc.logger.Errorw("failed to reserve stock", "order_id", orderID, "error", err)
		return nil, fmt.Errorf("failed to reserve stock: %w", err)
	}

	link, err := uc.links.Execute(ctx, order, settings)
	if err != nil {
		uc.releaseStock(ctx, orderID)
		kind, _ := payment.KindOf(err)
		uc.logger.Warnw("checkout failed: no payment link",
			"order_id", orderID,
			"failure_kind", kind,
			"error", err,
		)
		return failure(payment.ShopperNotice(err)), nil
	}

	uc.completeCheckout(ctx, order, settings, link.RedirectURL)

	return success(link.RedirectURL), nil
}

func (uc *ProcessPaymentUseCase) confirmedRedirect(ctx context.Context, orderID string) (string, bool) {
	redirect, ok, err := uc.guard.ConfirmedRedirect(ctx, orderID)
	if err != nil {
		uc.logger.Warnw("checkout guard lookup failed", "order_id", orderID, "error", err)
		return "", false
	}
	if ok {
		uc.logger.Infow("replaying confirmed payment link", "order_id", orderID)
	}
	return redirect, ok
}

func (uc *ProcessPaymentUseCase) releaseStock(ctx context.Context, orderID string) {
	if err := uc.orders.ReleaseStock(context.WithoutCancel(ctx), orderID); err != nil {
		uc.logger.Errorw("failed to release stock reservation", "order_id", orderID, "error", err)
	}
}

// completeCheckout applies the host-side effects of a successful link. The
// shopper is redirected even if one of them fails; each failure is logged
// for the operator.
func (uc *ProcessPaymentUseCase) completeCheckout(ctx context.Context, order *payment.OrderSnapshot, settings payment.GatewaySettings, redirect string) {
	ctx = context.WithoutCancel(ctx)
	orderID := order.ID()

	onHold := true
	if err := uc.orders.UpdateStatus(ctx, orderID, payment.OrderStatusOnHold, OnHoldNote); err != nil {
		onHold = false
		uc.logger.Errorw("failed to put order on hold", "order_id", orderID, "error", err)
	}
	if err := uc.orders.CommitStock(ctx, orderID); err != nil {
		uc.logger.Errorw("failed to commit stock reservation", "order_id", orderID, "error", err)
	}
	if err := uc.orders.EmptyCart(ctx, orderID); err != nil {
		uc.logger.Errorw("failed to empty cart", "order_id", orderID, "error", err)
	}
	if err := uc.guard.RememberRedirect(ctx, orderID, redirect); err != nil {
		uc.logger.Warnw("failed to remember payment link", "order_id", orderID, "error", err)
	}

	// Instructions go out only for orders this checkout put on hold.
	if !onHold || uc.mailer == nil || uc.instructions == nil || order.Billing().Email == "" {
		return
	}
	msg, ok, err := uc.instructions.BuildEmail(order, settings)
	if err != nil {
		uc.logger.Warnw("failed to render instructions email", "order_id", orderID, "error", err)
		return
	}
	if !ok {
		return
	}
	goroutine.SafeGoDetached(ctx, uc.logger, "instructions-email", func(ctx context.Context) {
		if err := uc.mailer.SendInstructions(ctx, *msg); err != nil {
			uc.logger.Warnw("failed to send instructions email", "order_id", orderID, "error", err)
		}
	})
}
