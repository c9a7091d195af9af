package mappers

import (
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/setting"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/infrastructure/persistence/models"
)

// SystemSettingMapper converts stored setting rows. Gateway settings are one
// row per key under the gateway category.
type SystemSettingMapper interface {
	ToDomain(model *models.SystemSettingModel) *setting.SystemSetting
	ToModel(s *setting.SystemSetting) *models.SystemSettingModel
	ToDomainList(rows []*models.SystemSettingModel) []*setting.SystemSetting
}

type systemSettingMapper struct{}

func NewSystemSettingMapper() SystemSettingMapper {
	return systemSettingMapper{}
}

func (systemSettingMapper) ToDomain(row *models.SystemSettingModel) *setting.SystemSetting {
	if row == nil {
		return nil
	}
	return setting.ReconstructSystemSetting(
		row.ID, row.SID, row.Category, row.SettingKey, row.Value,
		setting.ValueType(row.ValueType), row.Description, row.UpdatedBy,
		row.Version, row.CreatedAt, row.UpdatedAt,
	)
}

func (systemSettingMapper) ToModel(s *setting.SystemSetting) *models.SystemSettingModel {
	if s == nil {
		return nil
	}
	row := &models.SystemSettingModel{
		ID:          s.ID(),
		SID:         s.SID(),
		Category:    s.Category(),
		SettingKey:  s.Key(),
		Value:       s.Value(),
		ValueType:   string(s.ValueType()),
		Description: s.Description(),
		UpdatedBy:   s.UpdatedBy(),
		Version:     s.Version(),
	}
	row.CreatedAt, row.UpdatedAt = s.CreatedAt(), s.UpdatedAt()
	return row
}

func (m systemSettingMapper) ToDomainList(rows []*models.SystemSettingModel) []*setting.SystemSetting {
	out := make([]*setting.SystemSetting, 0, len(rows))
	for _, row := range rows {
		if s := m.ToDomain(row); s != nil {
			out = append(out, s)
		}
	}
	return out
}
