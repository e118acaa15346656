package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every override so tests see only file values and defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"STOCK_LIST", "MAX_WORKERS", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
		"CRON_DAILY", "SQLITE_PATH", "REPORT_DIR", "HTTPS_PROXY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Empty(t, cfg.Stocks)
	assert.Equal(t, 3, cfg.MaxWorkers)
	assert.Equal(t, "0 0 18 * * 1-5", cfg.Schedule.DailyCron)
	assert.Equal(t, 1.0, cfg.DataSource.SleepMinSeconds)
	assert.Equal(t, 3.0, cfg.DataSource.SleepMaxSeconds)
	assert.Equal(t, "reports", cfg.Report.OutputDir)
	assert.Empty(t, cfg.Database.SQLitePath)
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
stocks: ["600519", "000001"]
max_workers: 5
schedule:
  daily_cron: "0 30 17 * * 1-5"
telegram:
  bot_token: tok
  chat_id: "42"
database:
  sqlite_path: data/history.db
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"600519", "000001"}, cfg.Stocks)
	assert.Equal(t, 5, cfg.MaxWorkers)
	assert.Equal(t, "0 30 17 * * 1-5", cfg.Schedule.DailyCron)
	assert.Equal(t, "tok", cfg.Telegram.BotToken)
	assert.Equal(t, "42", cfg.Telegram.ChatID)
	assert.Equal(t, "data/history.db", cfg.Database.SQLitePath)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stocks: [\"600519\"]\nmax_workers: 5\n"), 0o644))

	t.Setenv("STOCK_LIST", " 000001, 300750 ,,")
	t.Setenv("MAX_WORKERS", "7")
	t.Setenv("REPORT_DIR", "out")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"000001", "300750"}, cfg.Stocks)
	assert.Equal(t, 7, cfg.MaxWorkers)
	assert.Equal(t, "out", cfg.Report.OutputDir)
}

func TestLoad_BadWorkerCountIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_WORKERS", "zero")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxWorkers)
}

func TestLoad_MalformedYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stocks: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	warnings := cfg.Validate()
	require.Len(t, warnings, 2)

	cfg.Stocks = []string{"600519"}
	cfg.Telegram.BotToken = "tok"
	cfg.Telegram.ChatID = "42"
	assert.Empty(t, cfg.Validate())
}
