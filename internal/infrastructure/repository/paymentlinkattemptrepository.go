package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/infrastructure/persistence/mappers"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/infrastructure/persistence/models"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/logger"
)

// maxAttemptsPerOrder caps ListByOrderID.
const maxAttemptsPerOrder = 100

// PaymentLinkAttemptRepository implements payment.AttemptRepository
type PaymentLinkAttemptRepository struct {
	db     *gorm.DB
	logger logger.Interface
	mapper mappers.PaymentLinkAttemptMapper
}

func NewPaymentLinkAttemptRepository(db *gorm.DB, logger logger.Interface) payment.AttemptRepository {
	return &PaymentLinkAttemptRepository{
		db:     db,
		logger: logger,
		mapper: mappers.NewPaymentLinkAttemptMapper(),
	}
}

func (r *PaymentLinkAttemptRepository) Create(ctx context.Context, attempt *payment.PaymentLinkAttempt) error {
	model, err := r.mapper.ToModel(attempt)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create payment link attempt", "sid", attempt.SID(), "error", err)
		return fmt.Errorf("failed to create payment link attempt: %w", err)
	}

	attempt.SetID(model.ID)
	return nil
}

// Update writes the attempt's mutable state, matched by SID so attempts whose
// Create failed are inserted instead.
func (r *PaymentLinkAttemptRepository) Update(ctx context.Context, attempt *payment.PaymentLinkAttempt) error {
	model, err := r.mapper.ToModel(attempt)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&models.PaymentLinkAttemptModel{}).
		Where("sid = ?", attempt.SID()).
		Updates(map[string]any{
			"status":         model.Status,
			"failure_kind":   model.FailureKind,
			"failure_reason": model.FailureReason,
			"redirect_url":   model.RedirectURL,
			"requested_at":   model.RequestedAt,
			"completed_at":   model.CompletedAt,
			"version":        model.Version,
			"updated_at":     model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update payment link attempt", "sid", attempt.SID(), "error", result.Error)
		return fmt.Errorf("failed to update payment link attempt: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return r.Create(ctx, attempt)
	}
	return nil
}

func (r *PaymentLinkAttemptRepository) GetBySID(ctx context.Context, sid string) (*payment.PaymentLinkAttempt, error) {
	var model models.PaymentLinkAttemptModel

	err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrAttemptNotFound
		}
		r.logger.Errorw("failed to get payment link attempt", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get payment link attempt: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *PaymentLinkAttemptRepository) ListByOrderID(ctx context.Context, orderID string) ([]*payment.PaymentLinkAttempt, error) {
	var modelList []*models.PaymentLinkAttemptModel

	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC, id DESC").
		Limit(maxAttemptsPerOrder).
		Find(&modelList).Error
	if err != nil {
		r.logger.Errorw("failed to list payment link attempts", "order_id", orderID, "error", err)
		return nil, fmt.Errorf("failed to list payment link attempts: %w", err)
	}

	return r.mapper.ToDomainList(modelList)
}
