package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing config file should fall back to defaults: %v", err)
	}

	if cfg.Monitor.Threshold != 250 {
		t.Errorf("default threshold = %.0f, want 250", cfg.Monitor.Threshold)
	}
	if cfg.Monitor.CooldownSeconds != 300 {
		t.Errorf("default cooldown = %d, want 300", cfg.Monitor.CooldownSeconds)
	}
	if cfg.Monitor.BaseVoltage != 220 || cfg.Monitor.Gain != 100 {
		t.Errorf("default conversion constants = %.0f/%.0f, want 220/100", cfg.Monitor.BaseVoltage, cfg.Monitor.Gain)
	}
	if cfg.Dataset.BootstrapWindow != 100 {
		t.Errorf("default bootstrap window = %d, want 100", cfg.Dataset.BootstrapWindow)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("default server addr = %s, want :8080", cfg.Server.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_YAMLValues(t *testing.T) {
	path := writeConfig(t, `
monitor:
  threshold: 260
  cooldown_seconds: 120
  area: "Istanbul, Kadıköy"
dataset:
  csv_path: /tmp/readings.csv
  bootstrap_window: 50
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Monitor.Threshold != 260 || cfg.Monitor.CooldownSeconds != 120 {
		t.Errorf("yaml values not applied: %+v", cfg.Monitor)
	}
	if cfg.Monitor.Area != "Istanbul, Kadıköy" {
		t.Errorf("area = %q", cfg.Monitor.Area)
	}
	if cfg.Dataset.CSVPath != "/tmp/readings.csv" || cfg.Dataset.BootstrapWindow != 50 {
		t.Errorf("dataset values not applied: %+v", cfg.Dataset)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "monitor:\n  threshold: 260\n")
	t.Setenv("MONITOR_THRESHOLD", "270")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token-from-env")
	t.Setenv("SERVER_ADDR", ":9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Monitor.Threshold != 270 {
		t.Errorf("env override lost: threshold = %.0f", cfg.Monitor.Threshold)
	}
	if cfg.Telegram.BotToken != "token-from-env" {
		t.Errorf("env override lost: token = %q", cfg.Telegram.BotToken)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("env override lost: addr = %q", cfg.Server.Addr)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative threshold", func(c *Config) { c.Monitor.Threshold = -1 }},
		{"negative cooldown", func(c *Config) { c.Monitor.CooldownSeconds = -5 }},
		{"zero gain", func(c *Config) { c.Monitor.Gain = -2 }},
		{"negative jitter", func(c *Config) { c.Monitor.JitterVolts = -1 }},
		{"negative window", func(c *Config) { c.Dataset.BootstrapWindow = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
