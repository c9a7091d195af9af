package mappers

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment"
	vo "github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment/valueobjects"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/infrastructure/persistence/models"
)

// PaymentLinkAttemptMapper converts between the attempt aggregate and its row.
type PaymentLinkAttemptMapper interface {
	ToDomain(model *models.PaymentLinkAttemptModel) (*payment.PaymentLinkAttempt, error)
	ToModel(attempt *payment.PaymentLinkAttempt) (*models.PaymentLinkAttemptModel, error)
	ToDomainList(modelList []*models.PaymentLinkAttemptModel) ([]*payment.PaymentLinkAttempt, error)
}

type PaymentLinkAttemptMapperImpl struct{}

func NewPaymentLinkAttemptMapper() PaymentLinkAttemptMapper {
	return &PaymentLinkAttemptMapperImpl{}
}

func (m *PaymentLinkAttemptMapperImpl) ToDomain(model *models.PaymentLinkAttemptModel) (*payment.PaymentLinkAttempt, error) {
	if model == nil {
		return nil, nil
	}

	amount, err := decimal.NewFromString(model.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q for attempt %s: %w", model.Amount, model.SID, err)
	}
	money, err := vo.NewMoney(amount, model.Currency)
	if err != nil {
		return nil, fmt.Errorf("invalid money for attempt %s: %w", model.SID, err)
	}

	var metadata map[string]any
	if len(model.Metadata) > 0 {
		if err := json.Unmarshal(model.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata for attempt %s: %w", model.SID, err)
		}
	}

	return payment.ReconstructPaymentLinkAttempt(payment.PaymentLinkAttemptParams{
		ID:               model.ID,
		SID:              model.SID,
		OrderID:          model.OrderID,
		Variant:          vo.EndpointVariant(model.Variant),
		Mode:             vo.GatewayMode(model.Mode),
		Amount:           money,
		AmountMinorUnits: model.AmountMinorUnits,
		Status:           vo.LinkStatus(model.Status),
		FailureKind:      payment.ErrorKind(model.FailureKind),
		FailureReason:    model.FailureReason,
		RedirectURL:      model.RedirectURL,
		RequestedAt:      model.RequestedAt,
		CompletedAt:      model.CompletedAt,
		Metadata:         metadata,
		Version:          model.Version,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}), nil
}

func (m *PaymentLinkAttemptMapperImpl) ToModel(attempt *payment.PaymentLinkAttempt) (*models.PaymentLinkAttemptModel, error) {
	if attempt == nil {
		return nil, nil
	}

	var metadataJSON datatypes.JSON
	if metadata := attempt.Metadata(); len(metadata) > 0 {
		data, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadataJSON = data
	}

	return &models.PaymentLinkAttemptModel{
		ID:               attempt.ID(),
		SID:              attempt.SID(),
		OrderID:          attempt.OrderID(),
		Variant:          attempt.Variant().String(),
		Mode:             attempt.Mode().String(),
		Amount:           attempt.Amount().Amount().String(),
		Currency:         attempt.Amount().Currency(),
		AmountMinorUnits: attempt.AmountMinorUnits(),
		Status:           attempt.Status().String(),
		FailureKind:      string(attempt.FailureKind()),
		FailureReason:    attempt.FailureReason(),
		RedirectURL:      attempt.RedirectURL(),
		RequestedAt:      attempt.RequestedAt(),
		CompletedAt:      attempt.CompletedAt(),
		Metadata:         metadataJSON,
		Version:          attempt.Version(),
		CreatedAt:        attempt.CreatedAt(),
		UpdatedAt:        attempt.UpdatedAt(),
	}, nil
}

func (m *PaymentLinkAttemptMapperImpl) ToDomainList(modelList []*models.PaymentLinkAttemptModel) ([]*payment.PaymentLinkAttempt, error) {
	attempts := make([]*payment.PaymentLinkAttempt, 0, len(modelList))
	for _, model := range modelList {
		attempt, err := m.ToDomain(model)
		if err != nil {
			return nil, err
		}
		if attempt != nil {
			attempts = append(attempts, attempt)
		}
	}
	return attempts, nil
}
