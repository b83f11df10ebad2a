package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flexprice/gstbill/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	Redis      RedisConfig
	Auth       AuthConfig      `validate:"required"`
	Admin      AdminConfig     `validate:"required"`
	Invoicing  InvoicingConfig `validate:"required"`
	Overdue    OverdueConfig
	Razorpay   RazorpayConfig
	Cache      CacheConfig
	Sentry     SentryConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host                   string `mapstructure:"host"`
	Port                   int    `mapstructure:"port"`
	User                   string `mapstructure:"user"`
	Password               string `mapstructure:"password"`
	DBName                 string `mapstructure:"dbname"`
	SSLMode                string `mapstructure:"sslmode"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address" validate:"required_if=Enabled true"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	Secret             string `mapstructure:"secret" validate:"required"`
	TokenTTLHours      int    `mapstructure:"token_ttl_hours" validate:"min=1"`
	LoginRatePerMinute int    `mapstructure:"login_rate_per_minute" validate:"min=1"`
	// CronSecret guards the /cron routes through the X-Cron-Secret header
	CronSecret string `mapstructure:"cron_secret"`
}

// AdminConfig is the single platform administrator. The password is stored as a
// bcrypt hash; generate one with `admin hash-password`.
type AdminConfig struct {
	Username     string `mapstructure:"username" validate:"required"`
	PasswordHash string `mapstructure:"password_hash" validate:"required"`
}

type InvoicingConfig struct {
	NumberingStrategy types.NumberingStrategy `mapstructure:"numbering_strategy" validate:"required,oneof=counter timestamp"`
	CounterBackend    types.CounterBackend    `mapstructure:"counter_backend" validate:"required,oneof=postgres redis"`
	MaxNumberAttempts int                     `mapstructure:"max_number_attempts" validate:"min=1"`
	DefaultTaxRate    float64                 `mapstructure:"default_tax_rate" validate:"min=0,max=100"`
}

type OverdueConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalMinutes int  `mapstructure:"interval_minutes"`
	LockTTLSeconds  int  `mapstructure:"lock_ttl_seconds"`
	Workers         int  `mapstructure:"workers"`
}

type RazorpayConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	KeyID          string `mapstructure:"key_id"`
	KeySecret      string `mapstructure:"key_secret"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// SentryConfig turns on error reporting when a DSN is set
type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

func (c SentryConfig) Enabled() bool {
	return strings.TrimSpace(c.DSN) != ""
}

func NewConfig() (*Configuration, error) {
	// a missing .env is the normal case outside local development
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/gstbill")

	v.SetEnvPrefix("GSTBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime_minutes", 60)
	v.SetDefault("auth.token_ttl_hours", 24)
	v.SetDefault("auth.login_rate_per_minute", 10)
	v.SetDefault("invoicing.numbering_strategy", types.NumberingStrategyCounter)
	v.SetDefault("invoicing.counter_backend", types.CounterBackendPostgres)
	v.SetDefault("invoicing.max_number_attempts", types.DefaultMaxNumberAttempts)
	v.SetDefault("invoicing.default_tax_rate", types.DefaultTaxRate)
	v.SetDefault("overdue.interval_minutes", 60)
	v.SetDefault("overdue.lock_ttl_seconds", 300)
	v.SetDefault("overdue.workers", 4)
	v.SetDefault("razorpay.base_url", "https://api.razorpay.com")
	v.SetDefault("razorpay.timeout_seconds", 10)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("sentry.environment", types.ModeLocal)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Auth:       AuthConfig{TokenTTLHours: 24, LoginRatePerMinute: 10},
		Invoicing: InvoicingConfig{
			NumberingStrategy: types.NumberingStrategyCounter,
			CounterBackend:    types.CounterBackendPostgres,
			MaxNumberAttempts: types.DefaultMaxNumberAttempts,
			DefaultTaxRate:    types.DefaultTaxRate,
		},
		Overdue: OverdueConfig{IntervalMinutes: 60, LockTTLSeconds: 300, Workers: 4},
		Cache:   CacheConfig{Enabled: true},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}

func (c AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

func (c OverdueConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

func (c OverdueConfig) LockTTL() time.Duration {
	return time.Duration(c.LockTTLSeconds) * time.Second
}

func (c RazorpayConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
