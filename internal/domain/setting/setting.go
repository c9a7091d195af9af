package setting

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/biztime"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/id"
)

// ValueType defines the type of a setting value
type ValueType string

const (
	ValueTypeString ValueType = "string"
	ValueTypeInt    ValueType = "int"
	ValueTypeBool   ValueType = "bool"
	// ValueTypeSecret is a string that read APIs must mask.
	ValueTypeSecret ValueType = "secret"
)

// SystemSetting is one key/value pair of a settings category.
type SystemSetting struct {
	id          uint
	sid         string
	category    string
	key         string
	value       string
	valueType   ValueType
	description string
	updatedBy   string // actor that last changed the value, e.g. "admin" or "cli"
	version     int
	createdAt   time.Time
	updatedAt   time.Time
}

// NewSystemSetting creates a new system setting
func NewSystemSetting(category, key string, valueType ValueType, description string) (*SystemSetting, error) {
	if strings.TrimSpace(category) == "" {
		return nil, ErrInvalidCategory
	}
	if strings.TrimSpace(key) == "" {
		return nil, ErrInvalidSettingKey
	}
	if !valueType.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidValueType, valueType)
	}

	sid, err := id.NewSettingID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate SID: %w", err)
	}

	now := biztime.NowUTC()
	return &SystemSetting{
		sid:         sid,
		category:    category,
		key:         key,
		valueType:   valueType,
		description: description,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructSystemSetting reconstructs a SystemSetting from persistence layer
func ReconstructSystemSetting(
	id uint,
	sid string,
	category string,
	key string,
	value string,
	valueType ValueType,
	description string,
	updatedBy string,
	version int,
	createdAt, updatedAt time.Time,
) *SystemSetting {
	return &SystemSetting{
		id:          id,
		sid:         sid,
		category:    category,
		key:         key,
		value:       value,
		valueType:   valueType,
		description: description,
		updatedBy:   updatedBy,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Getters
func (s *SystemSetting) ID() uint             { return s.id }
func (s *SystemSetting) SID() string          { return s.sid }
func (s *SystemSetting) Category() string     { return s.category }
func (s *SystemSetting) Key() string          { return s.key }
func (s *SystemSetting) Value() string        { return s.value }
func (s *SystemSetting) ValueType() ValueType { return s.valueType }
func (s *SystemSetting) Description() string  { return s.description }
func (s *SystemSetting) UpdatedBy() string    { return s.updatedBy }
func (s *SystemSetting) Version() int         { return s.version }
func (s *SystemSetting) CreatedAt() time.Time { return s.createdAt }
func (s *SystemSetting) UpdatedAt() time.Time { return s.updatedAt }
func (s *SystemSetting) IsSecret() bool       { return s.valueType == ValueTypeSecret }

// SetID sets the setting ID (only for persistence layer use)
func (s *SystemSetting) SetID(id uint) {
	s.id = id
}

// GetIntValue returns the value as an integer
func (s *SystemSetting) GetIntValue() (int, error) {
	if s.value == "" {
		return 0, nil
	}
	return strconv.Atoi(strings.TrimSpace(s.value))
}

// GetBoolValue returns the value as a boolean. The settings form stores
// checkboxes as "yes"/"no".
func (s *SystemSetting) GetBoolValue() (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s.value)) {
	case "":
		return false, nil
	case "yes":
		return true, nil
	case "no":
		return false, nil
	}
	return cast.ToBoolE(s.value)
}

// SetValue replaces the raw value. A no-op update does not bump the version.
func (s *SystemSetting) SetValue(value string, updatedBy string) error {
	if s.valueType == ValueTypeInt && value != "" {
		if _, err := strconv.Atoi(strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("%w: %q is not an int", ErrInvalidValueType, value)
		}
	}
	if s.value == value {
		return nil
	}
	s.value = value
	s.updatedBy = updatedBy
	s.version++
	s.updatedAt = biztime.NowUTC()
	return nil
}

func (vt ValueType) IsValid() bool {
	switch vt {
	case ValueTypeString, ValueTypeInt, ValueTypeBool, ValueTypeSecret:
		return true
	default:
		return false
	}
}
