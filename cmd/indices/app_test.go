package main

import (
	"os"
	"path/filepath"
	"testing"

	"IndexTracker/internal/model"
)

func TestLoadConfig_FlagWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("output:\n  json_path: from-flag.json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", filepath.Join(dir, "missing.yaml"))
	t.Setenv("OUTPUT_PATH", "")
	old := *configPath
	*configPath = path
	defer func() { *configPath = old }()

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Output.JSONPath != "from-flag.json" {
		t.Errorf("JSONPath = %q", cfg.Output.JSONPath)
	}
}

func TestNewApp(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	t.Setenv("METRICS_TEXTFILE", "")
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	a, err := newApp(cfg)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.close()

	for _, src := range []model.Source{model.SourceIPEA, model.SourceIBGE, model.SourceFIPE} {
		if _, ok := a.collector.Fetchers[src]; !ok {
			t.Errorf("no fetcher for %s", src)
		}
	}
	if p := a.pipeline(); p.Notifier != nil {
		t.Error("telegram notifier must stay off without credentials")
	}
}
