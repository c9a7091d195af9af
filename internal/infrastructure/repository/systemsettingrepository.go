package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/setting"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/infrastructure/persistence/mappers"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/infrastructure/persistence/models"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/logger"
)

// SystemSettingRepository implements setting.Repository
type SystemSettingRepository struct {
	db     *gorm.DB
	logger logger.Interface
	mapper mappers.SystemSettingMapper
}

// NewSystemSettingRepository creates a new SystemSettingRepository
func NewSystemSettingRepository(db *gorm.DB, logger logger.Interface) setting.Repository {
	return &SystemSettingRepository{
		db:     db,
		logger: logger,
		mapper: mappers.NewSystemSettingMapper(),
	}
}

// GetByKey retrieves a setting by category and key
func (r *SystemSettingRepository) GetByKey(ctx context.Context, category, key string) (*setting.SystemSetting, error) {
	var model models.SystemSettingModel

	err := r.db.WithContext(ctx).
		Where("category = ? AND setting_key = ?", category, key).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, setting.ErrSettingNotFound
		}
		r.logger.Errorw("failed to get setting by key", "category", category, "key", key, "error", err)
		return nil, fmt.Errorf("failed to get setting by key: %w", err)
	}

	return r.mapper.ToDomain(&model), nil
}

// GetByCategory retrieves all settings in a category
func (r *SystemSettingRepository) GetByCategory(ctx context.Context, category string) ([]*setting.SystemSetting, error) {
	var modelList []*models.SystemSettingModel

	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("setting_key ASC").
		Find(&modelList).Error
	if err != nil {
		r.logger.Errorw("failed to get settings by category", "category", category, "error", err)
		return nil, fmt.Errorf("failed to get settings by category: %w", err)
	}

	return r.mapper.ToDomainList(modelList), nil
}

// Upsert creates or updates a setting
func (r *SystemSettingRepository) Upsert(ctx context.Context, s *setting.SystemSetting) error {
	if err := r.upsert(r.db.WithContext(ctx), s); err != nil {
		r.logger.Errorw("failed to upsert setting", "category", s.Category(), "key", s.Key(), "error", err)
		return fmt.Errorf("failed to upsert setting: %w", err)
	}
	return nil
}

// UpsertMany writes all settings in one transaction so a settings form is
// saved entirely or not at all.
func (r *SystemSettingRepository) UpsertMany(ctx context.Context, settings []*setting.SystemSetting) error {
	if len(settings) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, s := range settings {
			if err := r.upsert(tx, s); err != nil {
				return fmt.Errorf("setting %s/%s: %w", s.Category(), s.Key(), err)
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Errorw("failed to upsert settings", "count", len(settings), "error", err)
		return fmt.Errorf("failed to upsert settings: %w", err)
	}
	return nil
}

func (r *SystemSettingRepository) upsert(db *gorm.DB, s *setting.SystemSetting) error {
	model := r.mapper.ToModel(s)

	if s.ID() != 0 {
		return db.Model(&models.SystemSettingModel{}).
			Where("id = ?", s.ID()).
			Updates(map[string]any{
				"value":       model.Value,
				"value_type":  model.ValueType,
				"description": model.Description,
				"updated_by":  model.UpdatedBy,
				"version":     model.Version,
				"updated_at":  model.UpdatedAt,
			}).Error
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category"}, {Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "value_type", "description", "updated_by", "version", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return err
	}

	// Update the domain entity with the generated ID if it was an insert
	if s.ID() == 0 {
		s.SetID(model.ID)
	}
	return nil
}
