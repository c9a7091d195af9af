package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Mode     string `mapstructure:"mode"`
	Timezone string `mapstructure:"timezone"`

	// RateLimitPerMinute caps provider-bound requests per client IP; 0 disables.
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // "mysql" or "sqlite"
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	Path            string `mapstructure:"path"` // sqlite file path
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

// IsConfigured reports whether an SMTP host has been set.
func (e *EmailConfig) IsConfigured() bool {
	return e.SMTPHost != ""
}

// SwirepayConfig holds the provider API settings that are not editable from
// the admin settings store.
type SwirepayConfig struct {
	APIBaseURL            string `mapstructure:"api_base_url"`
	EndpointVariant       string `mapstructure:"endpoint_variant"` // "payment_link" or "checkout_page"
	DefaultCurrency       string `mapstructure:"default_currency"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`
	SessionTimeoutSeconds int    `mapstructure:"session_timeout_seconds"`
}

// RequestTimeout returns the outbound call timeout, defaulting to 45 seconds.
func (s *SwirepayConfig) RequestTimeout() time.Duration {
	if s.RequestTimeoutSeconds <= 0 {
		return 45 * time.Second
	}
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

// HostConfig points at the host commerce platform's order API.
type HostConfig struct {
	BaseURL               string `mapstructure:"base_url"`
	ConsumerKey           string `mapstructure:"consumer_key"`
	ConsumerSecret        string `mapstructure:"consumer_secret"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`
}

func (h *HostConfig) RequestTimeout() time.Duration {
	if h.RequestTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(h.RequestTimeoutSeconds) * time.Second
}

type CheckoutConfig struct {
	LockTTLSeconds   int `mapstructure:"lock_ttl_seconds"`
	ReplayTTLSeconds int `mapstructure:"replay_ttl_seconds"`
}

func (c *CheckoutConfig) LockTTL() time.Duration {
	if c.LockTTLSeconds <= 0 {
		return 180 * time.Second
	}
	return time.Duration(c.LockTTLSeconds) * time.Second
}

func (c *CheckoutConfig) ReplayTTL() time.Duration {
	if c.ReplayTTLSeconds <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.ReplayTTLSeconds) * time.Second
}

type AdminConfig struct {
	// TokenHash is the bcrypt hash of the admin bearer token.
	TokenHash string `mapstructure:"token_hash"`
}
