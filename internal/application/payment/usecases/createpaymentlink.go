package usecases

import (
	"context"
	"fmt"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/paymentgateway"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment"
	vo "github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment/valueobjects"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/logger"
)

// LinkOptions are the deployment-level request settings.
type LinkOptions struct {
	Variant         vo.EndpointVariant
	DefaultCurrency string
}

type CreatePaymentLinkResult struct {
	Attempt     *payment.PaymentLinkAttempt
	RedirectURL string
}

// CreatePaymentLinkUseCase requests one payment link and records the attempt.
type CreatePaymentLinkUseCase struct {
	requester   paymentgateway.PaymentLinkRequester
	attemptRepo payment.AttemptRepository
	logger      logger.Interface
	opts        LinkOptions
}

func NewCreatePaymentLinkUseCase(
	requester paymentgateway.PaymentLinkRequester,
	attemptRepo payment.AttemptRepository,
	logger logger.Interface,
	opts LinkOptions,
) *CreatePaymentLinkUseCase {
	if opts.Variant == "" {
		opts.Variant = vo.DefaultEndpointVariant
	}
	return &CreatePaymentLinkUseCase{
		requester:   requester,
		attemptRepo: attemptRepo,
		logger:      logger,
		opts:        opts,
	}
}

// Execute returns a *payment.GatewayError on every provider-side failure.
// The attempt is returned alongside errors whenever one was created.
func (uc *CreatePaymentLinkUseCase) Execute(ctx context.Context, order *payment.OrderSnapshot, settings payment.GatewaySettings) (*CreatePaymentLinkResult, error) {
	const op = "create payment link"

	cfg := payment.ResolveGatewayConfig(settings)

	money, err := order.Money(uc.opts.DefaultCurrency)
	if err != nil {
		return nil, payment.NewConfigError(op, err)
	}

	attempt, err := payment.NewPaymentLinkAttempt(order.ID(), uc.opts.Variant, cfg.Mode, money)
	if err != nil {
		return nil, payment.NewConfigError(op, err)
	}
	result := &CreatePaymentLinkResult{Attempt: attempt}

	if err := cfg.Validate(); err != nil {
		uc.logger.Warnw("payment link not requested: gateway not usable",
			"order_id", order.ID(),
			"gateway", cfg,
			"error", err,
		)
		uc.fail(ctx, attempt, err, false)
		return result, err
	}

	if err := attempt.MarkRequestSent(); err != nil {
		return result, fmt.Errorf("%s: %w", op, err)
	}
	if err := uc.attemptRepo.Create(ctx, attempt); err != nil {
		// The audit row is best effort; the shopper's checkout goes on.
		uc.logger.Errorw("failed to record payment link attempt", "order_id", order.ID(), "error", err)
	}

	resp, err := uc.requester.RequestPaymentLink(ctx, order, cfg)
	if err != nil {
		uc.fail(ctx, attempt, err, true)
		return result, err
	}

	if err := attempt.MarkSucceeded(resp.RedirectURL); err != nil {
		return result, payment.NewParseError(op, err)
	}
	uc.save(ctx, attempt, true)

	uc.logger.Infow("payment link created",
		"order_id", order.ID(),
		"attempt_id", attempt.SID(),
		"mode", cfg.Mode,
		"amount_minor_units", attempt.AmountMinorUnits(),
		"currency", money.Currency(),
	)

	result.RedirectURL = resp.RedirectURL
	return result, nil
}

func (uc *CreatePaymentLinkUseCase) fail(ctx context.Context, attempt *payment.PaymentLinkAttempt, cause error, persisted bool) {
	kind, ok := payment.KindOf(cause)
	if !ok {
		kind = payment.ErrorKindConnection
	}
	if err := attempt.MarkFailed(kind, cause.Error()); err != nil {
		uc.logger.Warnw("failed to mark payment link attempt failed", "attempt_id", attempt.SID(), "error", err)
		return
	}
	uc.save(ctx, attempt, persisted)
}

// save writes the attempt even when the caller's context is already done, so
// cancelled checkouts still leave an audit row.
func (uc *CreatePaymentLinkUseCase) save(ctx context.Context, attempt *payment.PaymentLinkAttempt, persisted bool) {
	ctx = context.WithoutCancel(ctx)
	var err error
	if persisted {
		err = uc.attemptRepo.Update(ctx, attempt)
	} else {
		err = uc.attemptRepo.Create(ctx, attempt)
	}
	if err != nil {
		uc.logger.Errorw("failed to record payment link attempt",
			"order_id", attempt.OrderID(),
			"attempt_id", attempt.SID(),
			"status", attempt.Status(),
			"error", err,
		)
	}
}
