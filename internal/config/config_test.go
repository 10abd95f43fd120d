package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/backoffice/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 5*time.Minute, cfg.Automation.BatchTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Automation.AlertDebounce)
	assert.Equal(t, 5, cfg.Jobs.MaxAttempts)
	assert.Equal(t, "postgres://postgres:@localhost:5432/backoffice?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "ops")
	t.Setenv("AUTOMATION_ALERT_DEBOUNCE", "12h")
	t.Setenv("NOTIFY_FINANCE_RECIPIENTS", "cfo@example.com,ops@example.com")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 12*time.Hour, cfg.Automation.AlertDebounce)
	assert.Equal(t, []string{"cfo@example.com", "ops@example.com"}, cfg.Notify.FinanceRecipients)
	assert.Contains(t, cfg.ConnectionString(), "db.internal:5432/ops")
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("JOBS_MAX_ATTEMPTS", "0")

	_, err := config.Load()
	assert.Error(t, err)
}
