package setting

import "errors"

var (
	ErrSettingNotFound   = errors.New("setting not found")
	ErrInvalidCategory   = errors.New("setting category is required")
	ErrInvalidSettingKey = errors.New("setting key is required")
	// ErrInvalidValueType covers unknown value types and values that do not
	// parse as their declared type.
	ErrInvalidValueType = errors.New("invalid setting value type")
)
