package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/dto"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment"
	apperrors "github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/errors"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/logger"
)

// ListPaymentLinkAttemptsUseCase exposes the attempt audit log to operators.
type ListPaymentLinkAttemptsUseCase struct {
	attemptRepo payment.AttemptRepository
	logger      logger.Interface
}

func NewListPaymentLinkAttemptsUseCase(attemptRepo payment.AttemptRepository, logger logger.Interface) *ListPaymentLinkAttemptsUseCase {
	return &ListPaymentLinkAttemptsUseCase{
		attemptRepo: attemptRepo,
		logger:      logger,
	}
}

func (uc *ListPaymentLinkAttemptsUseCase) ByOrder(ctx context.Context, orderID string) ([]*dto.PaymentLinkAttemptResponse, error) {
	if orderID == "" {
		return nil, apperrors.NewValidationError("order_id is required")
	}
	attempts, err := uc.attemptRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		uc.logger.Errorw("failed to list payment link attempts", "order_id", orderID, "error", err)
		return nil, fmt.Errorf("failed to list payment link attempts: %w", err)
	}
	return dto.ToPaymentLinkAttemptResponses(attempts), nil
}

func (uc *ListPaymentLinkAttemptsUseCase) BySID(ctx context.Context, sid string) (*dto.PaymentLinkAttemptResponse, error) {
	attempt, err := uc.attemptRepo.GetBySID(ctx, sid)
	if err != nil {
		if errors.Is(err, payment.ErrAttemptNotFound) {
			return nil, apperrors.NewNotFoundError("payment link attempt not found", sid)
		}
		return nil, fmt.Errorf("failed to get payment link attempt: %w", err)
	}
	return dto.ToPaymentLinkAttemptResponse(attempt), nil
}
