package payment

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/cast"

	vo "github.com/swirepay/swirepay-woocommerce-plugin/internal/domain/payment/valueobjects"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/utils/logutil"
)

// Gateway settings keys as stored in the settings category.
const (
	SettingKeyEnabled            = "enabled"
	SettingKeyTitle              = "title"
	SettingKeyDescription        = "description"
	SettingKeyInstructions       = "instructions"
	SettingKeyTestMode           = "testmode"
	SettingKeyTestPublishableKey = "test_publishable_key"
	SettingKeyTestPrivateKey     = "test_private_key"
	SettingKeyPublishableKey     = "publishable_key"
	SettingKeyPrivateKey         = "private_key"
)

const (
	DefaultTitle       = "Credit Card"
	DefaultDescription = "All shipments will be processed within 1 business day upon successful payment."

	// TestModeNotice is appended to the checkout description in test mode.
	TestModeNotice = "TEST MODE ENABLED. In test mode, you can use the card numbers listed in documentation."
)

// SecretSettingKeys are never returned unmasked.
var SecretSettingKeys = []string{SettingKeyTestPrivateKey, SettingKeyPrivateKey}

// GatewaySettings is the merchant-editable settings form.
type GatewaySettings struct {
	Enabled            bool
	Title              string
	Description        string
	Instructions       string
	TestMode           bool
	TestPublishableKey string
	TestPrivateKey     string
	PublishableKey     string
	PrivateKey         string
}

func DefaultGatewaySettings() GatewaySettings {
	return GatewaySettings{
		Enabled:     true,
		Title:       DefaultTitle,
		Description: DefaultDescription,
		TestMode:    true,
	}
}

// GatewaySettingsFromValues overlays stored values on the defaults. Missing
// keys keep their default; booleans accept yes/no as well as true/false.
func GatewaySettingsFromValues(values map[string]string) GatewaySettings {
	s := DefaultGatewaySettings()
	if v, ok := values[SettingKeyEnabled]; ok {
		s.Enabled = parseFlag(v, s.Enabled)
	}
	if v, ok := values[SettingKeyTestMode]; ok {
		s.TestMode = parseFlag(v, s.TestMode)
	}
	if v, ok := values[SettingKeyTitle]; ok {
		s.Title = v
	}
	if v, ok := values[SettingKeyDescription]; ok {
		s.Description = v
	}
	s.Instructions = values[SettingKeyInstructions]
	s.TestPublishableKey = strings.TrimSpace(values[SettingKeyTestPublishableKey])
	s.TestPrivateKey = strings.TrimSpace(values[SettingKeyTestPrivateKey])
	s.PublishableKey = strings.TrimSpace(values[SettingKeyPublishableKey])
	s.PrivateKey = strings.TrimSpace(values[SettingKeyPrivateKey])
	return s
}

// Values is the inverse of GatewaySettingsFromValues.
func (s GatewaySettings) Values() map[string]string {
	return map[string]string{
		SettingKeyEnabled:            formatFlag(s.Enabled),
		SettingKeyTitle:              s.Title,
		SettingKeyDescription:        s.Description,
		SettingKeyInstructions:       s.Instructions,
		SettingKeyTestMode:           formatFlag(s.TestMode),
		SettingKeyTestPublishableKey: s.TestPublishableKey,
		SettingKeyTestPrivateKey:     s.TestPrivateKey,
		SettingKeyPublishableKey:     s.PublishableKey,
		SettingKeyPrivateKey:         s.PrivateKey,
	}
}

// EffectiveInstructions falls back to the description when no instructions
// were entered.
func (s GatewaySettings) EffectiveInstructions() string {
	if strings.TrimSpace(s.Instructions) != "" {
		return s.Instructions
	}
	return s.Description
}

func (s GatewaySettings) Mode() vo.GatewayMode {
	return vo.GatewayModeFromTestFlag(s.TestMode)
}

func parseFlag(v string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "on":
		return true
	case "no", "off", "":
		return false
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return fallback
	}
	return b
}

func formatFlag(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// GatewayConfig is the resolved per-request gateway configuration. Only the
// key pair matching Mode is carried.
type GatewayConfig struct {
	Mode       vo.GatewayMode
	PublicKey  string
	PrivateKey string
	Enabled    bool
}

// ResolveGatewayConfig picks the test pair in test mode and the live pair
// otherwise.
func ResolveGatewayConfig(s GatewaySettings) GatewayConfig {
	cfg := GatewayConfig{
		Mode:    s.Mode(),
		Enabled: s.Enabled,
	}
	if cfg.Mode.IsTest() {
		cfg.PublicKey = s.TestPublishableKey
		cfg.PrivateKey = s.TestPrivateKey
	} else {
		cfg.PublicKey = s.PublishableKey
		cfg.PrivateKey = s.PrivateKey
	}
	return cfg
}

// Validate rejects a configuration that must not reach the network.
func (c GatewayConfig) Validate() error {
	const op = "validate gateway config"
	switch {
	case !c.Enabled:
		return NewConfigError(op, errors.New("gateway is disabled"))
	case !c.Mode.IsValid():
		return NewConfigError(op, errors.New("gateway mode is invalid"))
	case strings.TrimSpace(c.PublicKey) == "":
		return NewConfigError(op, errors.New(c.Mode.String()+" publishable key is missing"))
	case strings.TrimSpace(c.PrivateKey) == "":
		return NewConfigError(op, errors.New(c.Mode.String()+" private key is missing"))
	}
	return nil
}

// LogValue keeps the private key out of structured logs.
func (c GatewayConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("mode", c.Mode.String()),
		slog.Bool("enabled", c.Enabled),
		slog.String("public_key", logutil.MaskSecret(c.PublicKey)),
		slog.String("private_key", logutil.MaskSecret(c.PrivateKey)),
	)
}
