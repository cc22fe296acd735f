package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Dataset struct {
		CSVPath         string `yaml:"csv_path"`
		BootstrapWindow int    `yaml:"bootstrap_window"`
	} `yaml:"dataset"`
	Monitor struct {
		BaseVoltage     float64 `yaml:"base_voltage"`
		Gain            float64 `yaml:"gain"`
		Threshold       float64 `yaml:"threshold"`
		CooldownSeconds int     `yaml:"cooldown_seconds"`
		JitterVolts     float64 `yaml:"jitter_volts"`
		Area            string  `yaml:"area"`
	} `yaml:"monitor"`
	Schedule struct {
		StatusCron string `yaml:"status_cron"`
		HealthCron string `yaml:"health_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
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
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATASET_CSV_PATH"); v != "" {
		cfg.Dataset.CSVPath = v
	}
	if v := os.Getenv("MONITOR_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Monitor.Threshold = f
		}
	}
	if v := os.Getenv("MONITOR_COOLDOWN_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Monitor.CooldownSeconds = n
		}
	}
	if v := os.Getenv("MONITOR_AREA"); v != "" {
		cfg.Monitor.Area = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Dataset.CSVPath == "" {
		cfg.Dataset.CSVPath = "data/dc_current_log.csv"
	}
	if cfg.Dataset.BootstrapWindow == 0 {
		cfg.Dataset.BootstrapWindow = 100
	}
	if cfg.Monitor.BaseVoltage == 0 {
		cfg.Monitor.BaseVoltage = 220
	}
	if cfg.Monitor.Gain == 0 {
		cfg.Monitor.Gain = 100
	}
	if cfg.Monitor.Threshold == 0 {
		cfg.Monitor.Threshold = 250
	}
	if cfg.Monitor.CooldownSeconds == 0 {
		cfg.Monitor.CooldownSeconds = 300
	}
	if cfg.Monitor.JitterVolts == 0 {
		cfg.Monitor.JitterVolts = 10
	}
	if cfg.Monitor.Area == "" {
		cfg.Monitor.Area = "Unknown Area"
	}
	if cfg.Schedule.StatusCron == "" {
		cfg.Schedule.StatusCron = "0 0 9 * * *"
	}
	if cfg.Schedule.HealthCron == "" {
		cfg.Schedule.HealthCron = "0 */5 * * * *"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/voltsentinel.db"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}

	return cfg, nil
}

// Validate checks that the detector would start with defined comparison
// semantics. Telegram credentials are optional (demo mode).
func (c *Config) Validate() error {
	if c.Monitor.BaseVoltage <= 0 {
		return fmt.Errorf("monitor.base_voltage must be positive")
	}
	if c.Monitor.Gain <= 0 {
		return fmt.Errorf("monitor.gain must be positive")
	}
	if c.Monitor.Threshold <= 0 {
		return fmt.Errorf("monitor.threshold must be positive")
	}
	if c.Monitor.CooldownSeconds <= 0 {
		return fmt.Errorf("monitor.cooldown_seconds must be positive")
	}
	if c.Monitor.JitterVolts < 0 {
		return fmt.Errorf("monitor.jitter_volts must not be negative")
	}
	if c.Dataset.BootstrapWindow <= 0 {
		return fmt.Errorf("dataset.bootstrap_window must be positive")
	}
	return nil
}
