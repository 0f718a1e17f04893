package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type envTestConfig struct {
	Seed   int64  `env:"AVFLIGHT_TEST_SEED" envDefault:"42"`
	Output string `env:"AVFLIGHT_TEST_OUTPUT" envDefault:"data/analytics.json"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Seed != 42 {
		t.Fatalf("expected default seed 42, got %d", cfg.Seed)
	}
	if cfg.Output != "data/analytics.json" {
		t.Fatalf("expected default output, got %q", cfg.Output)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("AVFLIGHT_TEST_SEED", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadDotEnvSkipsMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("expected missing file to be skipped, got %v", err)
	}
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "AVFLIGHT_TEST_SEED=7\nAVFLIGHT_TEST_OUTPUT=out/from-file.json\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("AVFLIGHT_TEST_SEED", "9")
	// Registers cleanup so the file value does not leak into other tests.
	t.Setenv("AVFLIGHT_TEST_OUTPUT", "")
	if err := os.Unsetenv("AVFLIGHT_TEST_OUTPUT"); err != nil {
		t.Fatalf("unset env: %v", err)
	}

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Seed != 9 {
		t.Fatalf("expected environment seed 9 to win, got %d", cfg.Seed)
	}
	if cfg.Output != "out/from-file.json" {
		t.Fatalf("expected output from file, got %q", cfg.Output)
	}
}
