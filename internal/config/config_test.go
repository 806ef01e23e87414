package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if len(cfg.Markets) != 2 || cfg.Markets[0] != "KOSPI" {
		t.Errorf("expected markets [KOSPI KOSDAQ], got %v", cfg.Markets)
	}
	if cfg.Collector.CutoffHour != 9 {
		t.Errorf("expected cutoff hour 9, got %d", cfg.Collector.CutoffHour)
	}
	if cfg.Collector.MaxPosts != 800 {
		t.Errorf("expected max_posts 800, got %d", cfg.Collector.MaxPosts)
	}
	if len(cfg.Threshold.Rules) != 3 {
		t.Errorf("expected 3 threshold rules, got %d", len(cfg.Threshold.Rules))
	}
	if len(cfg.Lexicon.Positive) == 0 || len(cfg.Lexicon.Negative) == 0 {
		t.Error("expected sentiment lexicons to be populated")
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Server.Port)
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
markets: [KOSDAQ]
universe:
  probe_cap: 5
server:
  port: 9000
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if len(cfg.Markets) != 1 || cfg.Markets[0] != "KOSDAQ" {
		t.Errorf("expected markets [KOSDAQ], got %v", cfg.Markets)
	}
	if cfg.Universe.ProbeCap != 5 {
		t.Errorf("expected probe_cap 5, got %d", cfg.Universe.ProbeCap)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	// Defaults should still be set for unspecified fields
	if cfg.Collector.MaxPages != 20 {
		t.Errorf("expected default max_pages 20, got %d", cfg.Collector.MaxPages)
	}
	if cfg.Threshold.Default != 10 {
		t.Errorf("expected default threshold 10, got %d", cfg.Threshold.Default)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Universe.Limit != 100 {
		t.Errorf("expected universe limit 100, got %d", cfg.Universe.Limit)
	}
}

func TestGetDataDir(t *testing.T) {
	cfg := &Config{}
	defaultDir := cfg.GetDataDir()
	if defaultDir == "" {
		t.Error("expected non-empty default data dir")
	}

	cfg.Output.DataDir = "/custom/path"
	if cfg.GetDataDir() != "/custom/path" {
		t.Errorf("expected '/custom/path', got %q", cfg.GetDataDir())
	}
}
