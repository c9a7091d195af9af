package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/dto"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/setting"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/constants"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/errors"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/logger"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/utils/logutil"
)

// GatewaySettingsLoader reads the current gateway settings form.
type GatewaySettingsLoader interface {
	Load(ctx context.Context) (payment.GatewaySettings, error)
}

type settingSpec struct {
	valueType   setting.ValueType
	description string
}

var gatewaySettingSpecs = map[string]settingSpec{
	payment.SettingKeyEnabled:            {setting.ValueTypeBool, "Enable Swirepay Payment"},
	payment.SettingKeyTitle:              {setting.ValueTypeString, "Title the customer sees during checkout"},
	payment.SettingKeyDescription:        {setting.ValueTypeString, "Description the customer sees during checkout"},
	payment.SettingKeyInstructions:       {setting.ValueTypeString, "Instructions added to the thank you page and emails"},
	payment.SettingKeyTestMode:           {setting.ValueTypeBool, "Place the payment gateway in test mode using test API keys"},
	payment.SettingKeyTestPublishableKey: {setting.ValueTypeString, "Test publishable key"},
	payment.SettingKeyTestPrivateKey:     {setting.ValueTypeSecret, "Test private key"},
	payment.SettingKeyPublishableKey:     {setting.ValueTypeString, "Live publishable key"},
	payment.SettingKeyPrivateKey:         {setting.ValueTypeSecret, "Live private key"},
}

// GatewaySettingsUseCase loads and updates the gateway settings stored in
// the swirepay_gateway category.
type GatewaySettingsUseCase struct {
	settingRepo setting.Repository
	logger      logger.Interface
}

func NewGatewaySettingsUseCase(settingRepo setting.Repository, logger logger.Interface) *GatewaySettingsUseCase {
	return &GatewaySettingsUseCase{
		settingRepo: settingRepo,
		logger:      logger,
	}
}

// Load returns stored values merged over the form defaults.
func (uc *GatewaySettingsUseCase) Load(ctx context.Context) (payment.GatewaySettings, error) {
	stored, err := uc.loadCategory(ctx)
	if err != nil {
		return payment.GatewaySettings{}, err
	}
	values := make(map[string]string, len(stored))
	for key, s := range stored {
		values[key] = s.Value()
	}
	return payment.GatewaySettingsFromValues(values), nil
}

func (uc *GatewaySettingsUseCase) Get(ctx context.Context) (*dto.GatewaySettingsResponse, error) {
	s, err := uc.Load(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ToGatewaySettingsResponse(s), nil
}

// Update applies a partial update. A masked secret sent back unchanged is
// ignored so the admin UI can round-trip the read model.
func (uc *GatewaySettingsUseCase) Update(ctx context.Context, req dto.UpdateGatewaySettingsRequest, updatedBy string) (*dto.GatewaySettingsResponse, error) {
	stored, err := uc.loadCategory(ctx)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(stored))
	for key, s := range stored {
		values[key] = s.Value()
	}
	next := payment.GatewaySettingsFromValues(values)

	if req.Enabled != nil {
		next.Enabled = *req.Enabled
	}
	if req.TestMode != nil {
		next.TestMode = *req.TestMode
	}
	if req.Title != nil {
		next.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		next.Description = *req.Description
	}
	if req.Instructions != nil {
		next.Instructions = *req.Instructions
	}
	if req.TestPublishableKey != nil {
		next.TestPublishableKey = strings.TrimSpace(*req.TestPublishableKey)
	}
	if req.PublishableKey != nil {
		next.PublishableKey = strings.TrimSpace(*req.PublishableKey)
	}
	if req.TestPrivateKey != nil && !logutil.IsMaskedSecret(*req.TestPrivateKey) {
		next.TestPrivateKey = strings.TrimSpace(*req.TestPrivateKey)
	}
	if req.PrivateKey != nil && !logutil.IsMaskedSecret(*req.PrivateKey) {
		next.PrivateKey = strings.TrimSpace(*req.PrivateKey)
	}

	if err := validateGatewaySettings(next); err != nil {
		return nil, err
	}

	var changed []*setting.SystemSetting
	changes := make(map[string]any)
	for key, value := range next.Values() {
		current, exists := stored[key]
		if exists && current.Value() == value {
			continue
		}
		if !exists {
			spec := gatewaySettingSpecs[key]
			current, err = setting.NewSystemSetting(constants.SettingsCategoryGateway, key, spec.valueType, spec.description)
			if err != nil {
				return nil, fmt.Errorf("failed to create setting %s: %w", key, err)
			}
		}
		if err := current.SetValue(value, updatedBy); err != nil {
			return nil, errors.NewValidationError("invalid setting value", err.Error())
		}
		changed = append(changed, current)
		if current.IsSecret() {
			changes[key] = "[REDACTED]"
		} else {
			changes[key] = value
		}
	}

	if len(changed) > 0 {
		if err := uc.settingRepo.UpsertMany(ctx, changed); err != nil {
			uc.logger.Errorw("failed to save gateway settings", "error", err)
			return nil, fmt.Errorf("failed to save gateway settings: %w", err)
		}
		uc.logger.Infow("gateway settings updated", "updated_by", updatedBy, "changes", changes)
	}

	return dto.ToGatewaySettingsResponse(next), nil
}

func (uc *GatewaySettingsUseCase) loadCategory(ctx context.Context) (map[string]*setting.SystemSetting, error) {
	items, err := uc.settingRepo.GetByCategory(ctx, constants.SettingsCategoryGateway)
	if err != nil {
		uc.logger.Errorw("failed to load gateway settings", "error", err)
		return nil, fmt.Errorf("failed to load gateway settings: %w", err)
	}
	stored := make(map[string]*setting.SystemSetting, len(items))
	for _, item := range items {
		if _, known := gatewaySettingSpecs[item.Key()]; known {
			stored[item.Key()] = item
		}
	}
	return stored, nil
}

func validateGatewaySettings(s payment.GatewaySettings) error {
	if s.Title == "" {
		return errors.NewValidationError("title is required")
	}
	keys := map[string]string{
		payment.SettingKeyTestPublishableKey: s.TestPublishableKey,
		payment.SettingKeyTestPrivateKey:     s.TestPrivateKey,
		payment.SettingKeyPublishableKey:     s.PublishableKey,
		payment.SettingKeyPrivateKey:         s.PrivateKey,
	}
	for name, value := range keys {
		if strings.ContainsAny(value, " \t\r\n") {
			return errors.NewValidationError("invalid API key", name+" must not contain whitespace")
		}
	}
	return nil
}
