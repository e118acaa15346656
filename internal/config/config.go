package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. Load resolves it once;
// the resolved value is passed explicitly into constructors, nothing
// reads configuration through package state.
type Config struct {
	Stocks     []string `yaml:"stocks"`
	MaxWorkers int      `yaml:"max_workers"`
	Schedule   struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	DataSource struct {
		KlineURL        string  `yaml:"kline_url"`
		QuoteURL        string  `yaml:"quote_url"`
		ChipURL         string  `yaml:"chip_url"`
		SleepMinSeconds float64 `yaml:"sleep_min_seconds"`
		SleepMaxSeconds float64 `yaml:"sleep_max_seconds"`
	} `yaml:"data_source"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Report struct {
		OutputDir string `yaml:"output_dir"`
	} `yaml:"report"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error: env and
// defaults alone are a valid configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("STOCK_LIST"); v != "" {
		cfg.Stocks = splitList(v)
	}
	if v := os.Getenv("MAX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxWorkers = n
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REPORT_DIR"); v != "" {
		cfg.Report.OutputDir = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = 3
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 0 18 * * 1-5"
	}
	if cfg.DataSource.SleepMinSeconds == 0 {
		cfg.DataSource.SleepMinSeconds = 1
	}
	if cfg.DataSource.SleepMaxSeconds == 0 {
		cfg.DataSource.SleepMaxSeconds = 3
	}
	if cfg.Report.OutputDir == "" {
		cfg.Report.OutputDir = "reports"
	}

	return cfg, nil
}

// Validate returns configuration warnings; none of them is fatal.
func (c *Config) Validate() []string {
	var warnings []string
	if len(c.Stocks) == 0 {
		warnings = append(warnings, "未配置 STOCK_LIST，股票列表为空")
	}
	if c.Telegram.BotToken == "" || c.Telegram.ChatID == "" {
		warnings = append(warnings, "未配置 Telegram，将跳过消息推送")
	}
	return warnings
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
