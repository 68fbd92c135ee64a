package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "environment: test\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("default port = %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("default log level = %q", cfg.Log.Level)
	}
	if cfg.Engine.ADRParity.DeadBandBPS != 50 {
		t.Fatalf("default dead band = %v", cfg.Engine.ADRParity.DeadBandBPS)
	}
	if cfg.Engine.ADRParity.StalenessWindow != 15*time.Minute {
		t.Fatalf("default staleness window = %v", cfg.Engine.ADRParity.StalenessWindow)
	}
	if cfg.Engine.Sim.MaintenancePct != 0.75 {
		t.Fatalf("default maintenance = %v", cfg.Engine.Sim.MaintenancePct)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
engine:
  adr_parity:
    dead_band_bps: 25
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
	if cfg.Engine.ADRParity.DeadBandBPS != 25 {
		t.Fatalf("dead band = %v", cfg.Engine.ADRParity.DeadBandBPS)
	}
}

func TestLoadRejectsBadWeights(t *testing.T) {
	path := writeConfig(t, `
engine:
  valuation:
    weights:
      pe: 0.9
      forward_pe: 0.9
      price_to_book: 0.3
      dividend_yield: 0.2
      returns: 0.1
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("weights not summing to 1 must fail validation")
	}
}

func TestLoadRejectsBadLevel(t *testing.T) {
	path := writeConfig(t, "log:\n  level: loud\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("unknown log level must fail validation")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "environment: test\n")
	t.Setenv("PORT", "7070")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Fatalf("env port not applied: %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("env log level not applied: %q", cfg.Log.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("missing file must fail")
	}
}
