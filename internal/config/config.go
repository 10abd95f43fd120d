package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Backoffice"`
		Port     int    `envconfig:"PORT" default:"8080"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"backoffice"`
		Migrate  bool   `envconfig:"DB_MIGRATE" default:"true"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"*"`
	}

	Auth struct {
		// JWTSecret enables bearer token checks on the API when set.
		JWTSecret string `envconfig:"AUTH_JWT_SECRET"`
	}

	AMQP struct {
		URL      string `envconfig:"AMQP_URL"`
		Exchange string `envconfig:"AMQP_EXCHANGE" default:"backoffice"`
		Queue    string `envconfig:"AMQP_QUEUE" default:"notifications"`
	}

	Notify struct {
		// FinanceRecipients receive budget alerts.
		FinanceRecipients []string `envconfig:"NOTIFY_FINANCE_RECIPIENTS"`
	}

	Automation struct {
		BatchTimeout      time.Duration `envconfig:"AUTOMATION_BATCH_TIMEOUT" default:"5m"`
		RecurringInterval time.Duration `envconfig:"AUTOMATION_RECURRING_INTERVAL" default:"1h"`
		InvoiceInterval   time.Duration `envconfig:"AUTOMATION_INVOICE_INTERVAL" default:"24h"`
		BudgetInterval    time.Duration `envconfig:"AUTOMATION_BUDGET_INTERVAL" default:"6h"`
		AlertDebounce     time.Duration `envconfig:"AUTOMATION_ALERT_DEBOUNCE" default:"24h"`
		ErrorSampleSize   int           `envconfig:"AUTOMATION_ERROR_SAMPLE_SIZE" default:"5"`
	}

	Jobs struct {
		PollInterval time.Duration `envconfig:"JOBS_POLL_INTERVAL" default:"30s"`
		BatchSize    int           `envconfig:"JOBS_BATCH_SIZE" default:"20"`
		MaxAttempts  int           `envconfig:"JOBS_MAX_ATTEMPTS" default:"5"`
		BaseBackoff  time.Duration `envconfig:"JOBS_BASE_BACKOFF" default:"1m"`
		MaxBackoff   time.Duration `envconfig:"JOBS_MAX_BACKOFF" default:"1h"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Level maps LOG_LEVEL onto a slog level, falling back to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	return slog.LevelInfo
}

func (c *Config) validate() error {
	if c.Automation.BatchTimeout <= 0 {
		return fmt.Errorf("AUTOMATION_BATCH_TIMEOUT must be positive")
	}

	if c.Jobs.MaxAttempts < 1 {
		return fmt.Errorf("JOBS_MAX_ATTEMPTS must be at least 1")
	}

	if c.Jobs.BatchSize < 1 {
		return fmt.Errorf("JOBS_BATCH_SIZE must be at least 1")
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
