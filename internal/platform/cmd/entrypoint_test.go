package cmd

import (
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Output string `env:"AVFLIGHT_CMD_TEST_OUTPUT" envDefault:"data/analytics.json"`
	Seed   int64  `env:"AVFLIGHT_CMD_TEST_SEED" envDefault:"42"`
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("AVFLIGHT_CMD_TEST_OUTPUT", "env/out.json")
	t.Setenv("AVFLIGHT_CMD_TEST_SEED", "11")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg := testConfig{}
	if err := ParseConfig(&cfg); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs.StringVar(&cfg.Output, "out", cfg.Output, "output")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "seed")

	if err := ParseArgs(fs, []string{"-seed", "12"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfg.Seed != 12 {
		t.Fatalf("expected flag seed 12, got %d", cfg.Seed)
	}
	if cfg.Output != "env/out.json" {
		t.Fatalf("expected env output, got %q", cfg.Output)
	}
}

func TestParseConfigFromArgsReadsEnvAndFlags(t *testing.T) {
	t.Setenv("AVFLIGHT_CMD_TEST_SEED", "5")

	cfg := testConfig{}
	fs := flag.NewFlagSet("configargs", flag.ContinueOnError)
	fs.StringVar(&cfg.Output, "out", "", "output")
	fs.Int64Var(&cfg.Seed, "seed", 0, "seed")
	if err := ParseConfigFromArgs(&cfg, fs, []string{"-out", "flag.json"}); err != nil {
		t.Fatalf("parse config and args: %v", err)
	}
	if cfg.Output != "flag.json" {
		t.Fatalf("expected flag output, got %q", cfg.Output)
	}
	if cfg.Seed != 5 {
		t.Fatalf("expected env seed 5, got %d", cfg.Seed)
	}
}

func TestParseConfigLoadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, DotEnvFile), []byte("AVFLIGHT_CMD_TEST_SEED=77\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Chdir(dir)
	t.Setenv("AVFLIGHT_CMD_TEST_SEED", "")
	if err := os.Unsetenv("AVFLIGHT_CMD_TEST_SEED"); err != nil {
		t.Fatalf("unset env: %v", err)
	}

	cfg := testConfig{}
	if err := ParseConfig(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Seed != 77 {
		t.Fatalf("expected seed from .env, got %d", cfg.Seed)
	}
}

func TestParseConfigRejectsNilTarget(t *testing.T) {
	if err := ParseConfig[testConfig](nil); err == nil {
		t.Fatal("expected nil target error")
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetryAndOptions(context.Background(), "", RunOptions{}, func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetryAndOptions(context.Background(), ServiceGenerate, RunOptions{}, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}

func TestRunWithTelemetryReturnsRunError(t *testing.T) {
	t.Setenv("AVFLIGHT_OTEL_ENABLED", "false")
	want := errors.New("boom")
	called := false
	err := RunWithTelemetryAndOptions(context.Background(), ServiceGenerate, RunOptions{}, func(context.Context) error {
		called = true
		return want
	})
	if !called {
		t.Fatal("expected run function to be called")
	}
	if !errors.Is(err, want) {
		t.Fatalf("expected run error, got %v", err)
	}
}
