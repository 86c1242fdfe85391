package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/hokedu/tuition-engine/pkg/utils"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Billing   BillingConfig   `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"DATABASE_HOST"`
	Port            string        `mapstructure:"DATABASE_PORT"`
	Name            string        `mapstructure:"DATABASE_NAME"`
	User            string        `mapstructure:"DATABASE_USER"`
	Password        string        `mapstructure:"DATABASE_PASSWORD"`
	SSLMode         string        `mapstructure:"DATABASE_SSLMODE"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	ReconcileSpec string `mapstructure:"SCHEDULER_RECONCILE_SPEC"`
	YearEndSpec   string `mapstructure:"SCHEDULER_YEAR_END_SPEC"`
	Timezone      string `mapstructure:"SCHEDULER_TIMEZONE"`
}

// BillingConfig describes the tuition billing window. Obligations are
// tracked for FirstMonth..LastMonth of each calendar year; the academic year
// itself starts on FiscalStartMonth (April).
type BillingConfig struct {
	FirstMonth       int           `mapstructure:"BILLING_FIRST_MONTH"`
	LastMonth        int           `mapstructure:"BILLING_LAST_MONTH"`
	FiscalStartMonth int           `mapstructure:"BILLING_FISCAL_START_MONTH"`
	ScheduleCacheTTL time.Duration `mapstructure:"SCHEDULE_CACHE_TTL"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	viper.SetDefault("DATABASE_HOST", "localhost")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_NAME", "tuition_engine")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SCHEDULER_RECONCILE_SPEC", "0 0 2 * * *")
	viper.SetDefault("SCHEDULER_YEAR_END_SPEC", "0 0 3 1 4 *")
	viper.SetDefault("SCHEDULER_TIMEZONE", "Asia/Tokyo")
	viper.SetDefault("BILLING_FIRST_MONTH", 2)
	viper.SetDefault("BILLING_LAST_MONTH", 10)
	viper.SetDefault("BILLING_FISCAL_START_MONTH", 4)
	viper.SetDefault("SCHEDULE_CACHE_TTL", "5m")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.Name == "" {
		return fmt.Errorf("DATABASE_NAME is required")
	}

	if c.Billing.FirstMonth < 1 || c.Billing.FirstMonth > 12 {
		return fmt.Errorf("BILLING_FIRST_MONTH must be a calendar month")
	}

	if c.Billing.LastMonth < c.Billing.FirstMonth || c.Billing.LastMonth > 12 {
		return fmt.Errorf("BILLING_LAST_MONTH must be a calendar month at or after BILLING_FIRST_MONTH")
	}

	if c.Billing.FiscalStartMonth < 1 || c.Billing.FiscalStartMonth > 12 {
		return fmt.Errorf("BILLING_FISCAL_START_MONTH must be a calendar month")
	}

	if c.Billing.ScheduleCacheTTL <= 0 {
		return fmt.Errorf("SCHEDULE_CACHE_TTL must be positive")
	}

	return nil
}

// DSN builds the Postgres connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=%s",
		c.Host, c.Port, c.Name, c.User, c.Password, c.SSLMode)
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// PeriodMonths returns the billing window as a month list
func (c *Config) PeriodMonths() []int {
	return utils.BillingMonths(c.Billing.FirstMonth, c.Billing.LastMonth)
}
