package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	sharedConfig "github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/config"
)

type Config struct {
	Server   sharedConfig.ServerConfig   `mapstructure:"server"`
	Database sharedConfig.DatabaseConfig `mapstructure:"database"`
	Logger   sharedConfig.LoggerConfig   `mapstructure:"logger"`
	Redis    sharedConfig.RedisConfig    `mapstructure:"redis"`
	Email    sharedConfig.EmailConfig    `mapstructure:"email"`
	Swirepay sharedConfig.SwirepayConfig `mapstructure:"swirepay"`
	Host     sharedConfig.HostConfig     `mapstructure:"host"`
	Checkout sharedConfig.CheckoutConfig `mapstructure:"checkout"`
	Admin    sharedConfig.AdminConfig    `mapstructure:"admin"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables.
// When configPath is empty the file "config.yaml" is searched in ./configs,
// ../configs and ../../configs. A missing file is not an error: defaults and
// SWIREPAY_* environment variables are enough to run.
func Load(env, configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("SWIREPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// checkoutHostCalls is the number of sequential host calls one checkout can
// make: fetch, reserve, then status, commit and cart on success.
const checkoutHostCalls = 5

// CheckoutLockTTL returns the checkout lock lifetime, raised when needed so
// the lock outlives the slowest checkout the configured timeouts allow.
func (c *Config) CheckoutLockTTL() time.Duration {
	floor := c.Swirepay.RequestTimeout() + checkoutHostCalls*c.Host.RequestTimeout() + 30*time.Second
	if ttl := c.Checkout.LockTTL(); ttl > floor {
		return ttl
	}
	return floor
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.timezone", "UTC")
	v.SetDefault("server.rate_limit_per_minute", 30)

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "swirepay.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "swirepay")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Email defaults (empty smtp_host disables instruction emails)
	v.SetDefault("email.smtp_host", "")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.smtp_user", "")
	v.SetDefault("email.smtp_password", "")
	v.SetDefault("email.from_address", "noreply@example.com")
	v.SetDefault("email.from_name", "Store")

	// Swirepay defaults
	v.SetDefault("swirepay.api_base_url", "https://api.swirepay.com/v1")
	v.SetDefault("swirepay.endpoint_variant", "payment_link")
	v.SetDefault("swirepay.default_currency", "USD")
	v.SetDefault("swirepay.request_timeout_seconds", 45)
	v.SetDefault("swirepay.session_timeout_seconds", 300)

	// Host platform defaults
	v.SetDefault("host.base_url", "http://localhost/wp-json/swirepay/v1")
	v.SetDefault("host.consumer_key", "")
	v.SetDefault("host.consumer_secret", "")
	v.SetDefault("host.request_timeout_seconds", 15)

	// Checkout guard defaults
	v.SetDefault("checkout.lock_ttl_seconds", 180)
	v.SetDefault("checkout.replay_ttl_seconds", 1800)

	// Admin API is disabled until a token hash is set
	v.SetDefault("admin.token_hash", "")
}
