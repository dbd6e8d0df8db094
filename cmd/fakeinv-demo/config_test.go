package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseConfigFromEnvDefaults(t *testing.T) {
	cfg, err := parseConfigFromEnv()
	if err != nil {
		t.Fatalf("parseConfigFromEnv() error: %v", err)
	}
	if cfg.LogLevel != "info" || cfg.ServerConfigPath != "config.toml" || !cfg.BehindPlayer {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if got := cfg.TickRate(); got != 50*time.Millisecond {
		t.Errorf("TickRate() = %v, want 50ms", got)
	}
}

func TestParseConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("FAKEINV_TICK_RATE_MS", "100")
	t.Setenv("FAKEINV_BEHIND_PLAYER", "false")
	t.Setenv("SHOP_TITLE", "Market")

	cfg, err := parseConfigFromEnv()
	if err != nil {
		t.Fatalf("parseConfigFromEnv() error: %v", err)
	}
	if cfg.TickRate() != 100*time.Millisecond || cfg.BehindPlayer || cfg.ShopTitle != "Market" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestParseConfigFromEnvRejectsTickRate(t *testing.T) {
	t.Setenv("FAKEINV_TICK_RATE_MS", "0")
	if _, err := parseConfigFromEnv(); err == nil {
		t.Error("zero tick rate accepted")
	}
}

func TestReadServerConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	created, err := readServerConfig(path)
	if err != nil {
		t.Fatalf("readServerConfig() error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}

	read, err := readServerConfig(path)
	if err != nil {
		t.Fatalf("reading the written config: %v", err)
	}
	if read.Network.Address != created.Network.Address || read.Server.Name != created.Server.Name {
		t.Errorf("round trip changed the config: %+v != %+v", read, created)
	}
}

func TestReadServerConfigUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("Bogus = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := readServerConfig(path)
	var unknown errUnknownConfig
	if !errors.As(err, &unknown) || len(unknown) != 1 || unknown[0] != "Bogus" {
		t.Errorf("readServerConfig() error = %v, want unknown key Bogus", err)
	}
}
