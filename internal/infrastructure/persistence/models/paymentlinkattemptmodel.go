package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/constants"
)

// PaymentLinkAttemptModel is the GORM model for payment_link_attempts table
type PaymentLinkAttemptModel struct {
	ID               uint           `gorm:"primaryKey;autoIncrement"`
	SID              string         `gorm:"column:sid;type:varchar(50);not null;uniqueIndex"`
	OrderID          string         `gorm:"column:order_id;type:varchar(64);not null;index:idx_order_created"`
	Variant          string         `gorm:"column:variant;type:varchar(20);not null"`
	Mode             string         `gorm:"column:mode;type:varchar(10);not null"`
	Amount           string         `gorm:"column:amount;type:varchar(32);not null"`
	Currency         string         `gorm:"column:currency;type:varchar(3);not null"`
	AmountMinorUnits int64          `gorm:"column:amount_minor_units;not null"`
	Status           string         `gorm:"column:status;type:varchar(20);not null;index"`
	FailureKind      string         `gorm:"column:failure_kind;type:varchar(20)"`
	FailureReason    string         `gorm:"column:failure_reason;type:text"`
	RedirectURL      string         `gorm:"column:redirect_url;type:text"`
	RequestedAt      *time.Time     `gorm:"column:requested_at"`
	CompletedAt      *time.Time     `gorm:"column:completed_at"`
	Metadata         datatypes.JSON `gorm:"column:metadata"`
	Version          int            `gorm:"column:version;not null;default:1"`
	CreatedAt        time.Time      `gorm:"column:created_at;index:idx_order_created"`
	UpdatedAt        time.Time      `gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (PaymentLinkAttemptModel) TableName() string {
	return constants.TablePaymentLinkAttempt
}
