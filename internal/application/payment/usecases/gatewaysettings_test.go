package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/dto"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/setting"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/constants"
	apperrors "github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/errors"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/logger"
)

func storedSetting(key, value string, vt setting.ValueType) *setting.SystemSetting {
	now := time.Now().UTC()
	return setting.ReconstructSystemSetting(1, "setting_x", constants.SettingsCategoryGateway, key, value, vt, "", "seed", 1, now, now)
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestGatewaySettingsUseCase_Load(t *testing.T) {
	t.Run("defaults when nothing stored", func(t *testing.T) {
		repo := new(mockSettingRepo)
		repo.On("GetByCategory", mock.Anything, constants.SettingsCategoryGateway).Return([]*setting.SystemSetting{}, nil)

		uc := NewGatewaySettingsUseCase(repo, logger.NewNopLogger())
		s, err := uc.Load(context.Background())

		require.NoError(t, err)
		assert.Equal(t, payment.DefaultGatewaySettings(), s)
	})

	t.Run("stored values override defaults", func(t *testing.T) {
		repo := new(mockSettingRepo)
		repo.On("GetByCategory", mock.Anything, constants.SettingsCategoryGateway).Return([]*setting.SystemSetting{
			storedSetting(payment.SettingKeyTestMode, "no", setting.ValueTypeBool),
			storedSetting(payment.SettingKeyPrivateKey, "sk_live_4444dddd", setting.ValueTypeSecret),
			storedSetting("unrelated", "ignored", setting.ValueTypeString),
		}, nil)

		uc := NewGatewaySettingsUseCase(repo, logger.NewNopLogger())
		s, err := uc.Load(context.Background())

		require.NoError(t, err)
		assert.False(t, s.TestMode)
		assert.Equal(t, "sk_live_4444dddd", s.PrivateKey)
		assert.Equal(t, payment.DefaultTitle, s.Title)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(mockSettingRepo)
		repo.On("GetByCategory", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		uc := NewGatewaySettingsUseCase(repo, logger.NewNopLogger())
		_, err := uc.Load(context.Background())

		assert.Error(t, err)
	})
}

func TestGatewaySettingsUseCase_Get_MasksSecrets(t *testing.T) {
	repo := new(mockSettingRepo)
	repo.On("GetByCategory", mock.Anything, mock.Anything).Return([]*setting.SystemSetting{
		storedSetting(payment.SettingKeyTestPublishableKey, "pk_test_1111aaaa", setting.ValueTypeString),
		storedSetting(payment.SettingKeyTestPrivateKey, "sk_test_51Habcd1234", setting.ValueTypeSecret),
	}, nil)

	uc := NewGatewaySettingsUseCase(repo, logger.NewNopLogger())
	resp, err := uc.Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "sk_****1234", resp.TestPrivateKey)
	assert.Equal(t, "pk_test_1111aaaa", resp.TestPublishableKey)
	assert.Equal(t, "test", resp.Mode)
	assert.True(t, resp.Ready)
}

func TestGatewaySettingsUseCase_Update(t *testing.T) {
	t.Run("writes only changed keys", func(t *testing.T) {
		repo := new(mockSettingRepo)
		repo.On("GetByCategory", mock.Anything, mock.Anything).Return([]*setting.SystemSetting{
			storedSetting(payment.SettingKeyEnabled, "yes", setting.ValueTypeBool),
			storedSetting(payment.SettingKeyTitle, payment.DefaultTitle, setting.ValueTypeString),
			storedSetting(payment.SettingKeyDescription, payment.DefaultDescription, setting.ValueTypeString),
			storedSetting(payment.SettingKeyInstructions, "", setting.ValueTypeString),
			storedSetting(payment.SettingKeyTestMode, "yes", setting.ValueTypeBool),
			storedSetting(payment.SettingKeyTestPublishableKey, "", setting.ValueTypeString),
			storedSetting(payment.SettingKeyTestPrivateKey, "", setting.ValueTypeSecret),
			storedSetting(payment.SettingKeyPublishableKey, "", setting.ValueTypeString),
			storedSetting(payment.SettingKeyPrivateKey, "", setting.ValueTypeSecret),
		}, nil)

		var saved []*setting.SystemSetting
		repo.On("UpsertMany", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			saved = args.Get(1).([]*setting.SystemSetting)
		}).Return(nil)

		uc := NewGatewaySettingsUseCase(repo, logger.NewNopLogger())
		resp, err := uc.Update(context.Background(), dto.UpdateGatewaySettingsRequest{
			Title:          strPtr("  Pay by card  "),
			TestPrivateKey: strPtr("sk_test_2222bbbb"),
		}, "admin")

		require.NoError(t, err)
		assert.Equal(t, "Pay by card", resp.Title)
		assert.Equal(t, "sk_****bbbb", resp.TestPrivateKey)

		require.Len(t, saved, 2)
		keys := map[string]string{}
		for _, s := range saved {
			keys[s.Key()] = s.Value()
			assert.Equal(t, "admin", s.UpdatedBy())
		}
		assert.Equal(t, "Pay by card", keys[payment.SettingKeyTitle])
		assert.Equal(t, "sk_test_2222bbbb", keys[payment.SettingKeyTestPrivateKey])
	})

	t.Run("masked secret echoed back is ignored", func(t *testing.T) {
		repo := new(mockSettingRepo)
		repo.On("GetByCategory", mock.Anything, mock.Anything).Return([]*setting.SystemSetting{
			storedSetting(payment.SettingKeyPrivateKey, "sk_live_4444dddd", setting.ValueTypeSecret),
		}, nil)
		var saved []*setting.SystemSetting
		repo.On("UpsertMany", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			saved = args.Get(1).([]*setting.SystemSetting)
		}).Return(nil)

		uc := NewGatewaySettingsUseCase(repo, logger.NewNopLogger())
		_, err := uc.Update(context.Background(), dto.UpdateGatewaySettingsRequest{
			PrivateKey: strPtr("sk_****dddd"),
			Enabled:    boolPtr(false),
		}, "admin")

		require.NoError(t, err)
		for _, s := range saved {
			assert.NotEqual(t, payment.SettingKeyPrivateKey, s.Key())
		}
	})

	t.Run("new settings are created with their value type", func(t *testing.T) {
		repo := new(mockSettingRepo)
		repo.On("GetByCategory", mock.Anything, mock.Anything).Return([]*setting.SystemSetting{}, nil)
		var saved []*setting.SystemSetting
		repo.On("UpsertMany", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			saved = args.Get(1).([]*setting.SystemSetting)
		}).Return(nil)

		uc := NewGatewaySettingsUseCase(repo, logger.NewNopLogger())
		_, err := uc.Update(context.Background(), dto.UpdateGatewaySettingsRequest{
			PrivateKey: strPtr("sk_live_4444dddd"),
		}, "admin")

		require.NoError(t, err)
		var found bool
		for _, s := range saved {
			if s.Key() == payment.SettingKeyPrivateKey {
				found = true
				assert.True(t, s.IsSecret())
				assert.Equal(t, constants.SettingsCategoryGateway, s.Category())
			}
		}
		assert.True(t, found)
	})

	tests := []struct {
		name string
		req  dto.UpdateGatewaySettingsRequest
	}{
		{"empty title", dto.UpdateGatewaySettingsRequest{Title: strPtr("   ")}},
		{"whitespace inside key", dto.UpdateGatewaySettingsRequest{PublishableKey: strPtr("pk_live abc")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockSettingRepo)
			repo.On("GetByCategory", mock.Anything, mock.Anything).Return([]*setting.SystemSetting{}, nil)

			uc := NewGatewaySettingsUseCase(repo, logger.NewNopLogger())
			_, err := uc.Update(context.Background(), tt.req, "admin")

			require.Error(t, err)
			assert.True(t, apperrors.IsValidationError(err))
			repo.AssertNotCalled(t, "UpsertMany", mock.Anything, mock.Anything)
		})
	}

	t.Run("no changes skips write", func(t *testing.T) {
		repo := new(mockSettingRepo)
		repo.On("GetByCategory", mock.Anything, mock.Anything).Return([]*setting.SystemSetting{
			storedSetting(payment.SettingKeyEnabled, "yes", setting.ValueTypeBool),
			storedSetting(payment.SettingKeyTitle, payment.DefaultTitle, setting.ValueTypeString),
			storedSetting(payment.SettingKeyDescription, payment.DefaultDescription, setting.ValueTypeString),
			storedSetting(payment.SettingKeyInstructions, "", setting.ValueTypeString),
			storedSetting(payment.SettingKeyTestMode, "yes", setting.ValueTypeBool),
			storedSetting(payment.SettingKeyTestPublishableKey, "", setting.ValueTypeString),
			storedSetting(payment.SettingKeyTestPrivateKey, "", setting.ValueTypeSecret),
			storedSetting(payment.SettingKeyPublishableKey, "", setting.ValueTypeString),
			storedSetting(payment.SettingKeyPrivateKey, "", setting.ValueTypeSecret),
		}, nil)

		uc := NewGatewaySettingsUseCase(repo, logger.NewNopLogger())
		_, err := uc.Update(context.Background(), dto.UpdateGatewaySettingsRequest{Enabled: boolPtr(true)}, "admin")

		require.NoError(t, err)
		repo.AssertNotCalled(t, "UpsertMany", mock.Anything, mock.Anything)
	})
}
