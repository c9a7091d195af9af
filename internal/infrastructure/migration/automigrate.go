package migration

import (
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists the models owned by this service.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.SystemSettingModel{},
		&models.PaymentLinkAttemptModel{},
	}
}
