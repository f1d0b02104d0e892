package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type Config struct {
	Addr                   string        `mapstructure:"APP_ADDR"`
	Environment            string        `mapstructure:"APP_ENV"`
	StorageDriver          string        `mapstructure:"STORAGE_DRIVER"`
	DatabaseURL            string        `mapstructure:"DATABASE_URL"`
	JWTSecret              string        `mapstructure:"JWT_SECRET"`
	TokenTTL               time.Duration `mapstructure:"TOKEN_TTL"`
	DataEncryptionKey      string        `mapstructure:"DATA_ENCRYPTION_KEY"`
	FrontendDir            string        `mapstructure:"FRONTEND_DIR"`
	PayslipDir             string        `mapstructure:"PAYSLIP_DIR"`
	SeedAdminEmail         string        `mapstructure:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword      string        `mapstructure:"SEED_ADMIN_PASSWORD"`
	SeedDemoData           bool          `mapstructure:"SEED_DEMO_DATA"`
	RunMigrations          bool          `mapstructure:"RUN_MIGRATIONS"`
	EmailFrom              string        `mapstructure:"EMAIL_FROM"`
	EmailEnabled           bool          `mapstructure:"EMAIL_ENABLED"`
	SMTPHost               string        `mapstructure:"SMTP_HOST"`
	SMTPPort               int           `mapstructure:"SMTP_PORT"`
	SMTPUser               string        `mapstructure:"SMTP_USER"`
	SMTPPassword           string        `mapstructure:"SMTP_PASSWORD"`
	SMTPUseTLS             bool          `mapstructure:"SMTP_USE_TLS"`
	MaxBodyBytes           int64         `mapstructure:"MAX_BODY_BYTES"`
	RateLimitPerMinute     int           `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	LeaveRolloverInterval  time.Duration `mapstructure:"LEAVE_ROLLOVER_INTERVAL"`
	PayrollAutorunInterval time.Duration `mapstructure:"PAYROLL_AUTORUN_INTERVAL"`
	MetricsEnabled         bool          `mapstructure:"METRICS_ENABLED"`
}

var defaults = map[string]any{
	"APP_ADDR":                 ":8080",
	"APP_ENV":                  "development",
	"STORAGE_DRIVER":           DriverMemory,
	"DATABASE_URL":             "",
	"JWT_SECRET":               "",
	"TOKEN_TTL":                "12h",
	"DATA_ENCRYPTION_KEY":      "",
	"FRONTEND_DIR":             "frontend/dist",
	"PAYSLIP_DIR":              "storage/payslips",
	"SEED_ADMIN_EMAIL":         "admin@staffhive.local",
	"SEED_ADMIN_PASSWORD":      "",
	"SEED_DEMO_DATA":           true,
	"RUN_MIGRATIONS":           true,
	"EMAIL_FROM":               "no-reply@staffhive.local",
	"EMAIL_ENABLED":            false,
	"SMTP_HOST":                "",
	"SMTP_PORT":                587,
	"SMTP_USER":                "",
	"SMTP_PASSWORD":            "",
	"SMTP_USE_TLS":             true,
	"MAX_BODY_BYTES":           1048576,
	"RATE_LIMIT_PER_MINUTE":    60,
	"LEAVE_ROLLOVER_INTERVAL":  "24h",
	"PAYROLL_AUTORUN_INTERVAL": "0s",
	"METRICS_ENABLED":          true,
}

// Load reads .env (when present), an optional config.yaml in configDir and the
// process environment, in increasing order of precedence.
func Load(configDir string) (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	if configDir != "" {
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	switch c.StorageDriver {
	case DriverMemory:
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER is postgres")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q", DriverMemory, DriverPostgres)
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.IsProduction() {
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
		}
		if c.StorageDriver == DriverMemory {
			return fmt.Errorf("STORAGE_DRIVER=memory is not allowed in production")
		}
		if strings.TrimSpace(c.DataEncryptionKey) == "" {
			return fmt.Errorf("DATA_ENCRYPTION_KEY must be set in production for encryption at rest")
		}
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	return nil
}
