package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.JSONPath != "indices_acumulados.json" {
		t.Errorf("json path = %q", cfg.Output.JSONPath)
	}
	if cfg.Sources.IBGE.StartPeriod != "200612" {
		t.Errorf("ibge start = %q", cfg.Sources.IBGE.StartPeriod)
	}
	if cfg.Sources.FIPE.StartYear != 2006 {
		t.Errorf("fipe start year = %d", cfg.Sources.FIPE.StartYear)
	}
	if cfg.Sources.FIPE.Timeout != 15*time.Second {
		t.Errorf("fipe timeout = %v", cfg.Sources.FIPE.Timeout)
	}
	if cfg.Sources.IPEA.ValueField != "VALVALOR" {
		t.Errorf("ipea value field = %q", cfg.Sources.IPEA.ValueField)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
output:
  json_path: out/series.json
sources:
  fipe:
    timeout: 5s
    value_field: IndiceGeral
log:
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.JSONPath != "out/series.json" {
		t.Errorf("json path = %q", cfg.Output.JSONPath)
	}
	if cfg.Sources.FIPE.Timeout != 5*time.Second {
		t.Errorf("fipe timeout = %v", cfg.Sources.FIPE.Timeout)
	}
	if cfg.Sources.FIPE.ValueField != "IndiceGeral" {
		t.Errorf("fipe value field = %q", cfg.Sources.FIPE.ValueField)
	}
	if cfg.Sources.FIPE.YearField != "Ano" {
		t.Errorf("untouched fields keep their default, got %q", cfg.Sources.FIPE.YearField)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OUTPUT_PATH", "/tmp/env.json")
	t.Setenv("SCHEDULE_CRON", "0 30 7 * * *")
	cfg, err := Load(writeConfig(t, "output:\n  json_path: file.json\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.JSONPath != "/tmp/env.json" {
		t.Errorf("env must win over the file, got %q", cfg.Output.JSONPath)
	}
	if cfg.Schedule.Cron != "0 30 7 * * *" {
		t.Errorf("cron = %q", cfg.Schedule.Cron)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "output: [unterminated")); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "Level"},
		{"bad start period", func(c *Config) { c.Sources.IBGE.StartPeriod = "2006" }, "StartPeriod"},
		{"bad base url", func(c *Config) { c.Sources.IPEA.BaseURL = "not a url" }, "BaseURL"},
		{"empty output", func(c *Config) { c.Output.JSONPath = "" }, "JSONPath"},
		{"token without chat", func(c *Config) { c.Telegram.BotToken = "x" }, "ChatID"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tc.mutate(cfg)
			err = cfg.Validate()
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}
