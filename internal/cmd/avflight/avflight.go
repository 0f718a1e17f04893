// Package avflight parses generator command flags and runs one dataset
// generation.
package avflight

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/avflight/internal/platform/cmd"
	apperrors "github.com/louisbranch/avflight/internal/platform/errors"
	"github.com/louisbranch/avflight/internal/platform/id"
	"github.com/louisbranch/avflight/internal/reserving/domain"
	"github.com/louisbranch/avflight/internal/reserving/generator"
	"github.com/louisbranch/avflight/internal/reserving/payload"
	"github.com/louisbranch/avflight/internal/reserving/storage/sqlite"
	"go.uber.org/zap"
)

const (
	defaultOutput  = "data/analytics.json"
	defaultPreview = 20
)

// Config holds generator command configuration.
type Config struct {
	Seed       int64  `env:"AVFLIGHT_SEED" envDefault:"42"`
	Output     string `env:"AVFLIGHT_OUTPUT" envDefault:"data/analytics.json"`
	DomainFile string `env:"AVFLIGHT_DOMAIN_FILE"`
	SQLitePath string `env:"AVFLIGHT_SQLITE_PATH"`
	Preview    int    `env:"AVFLIGHT_PREVIEW" envDefault:"20"`
	Verbose    bool   `env:"AVFLIGHT_VERBOSE"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.Int64Var(&cfg.Seed, "seed", generator.DefaultSeed, "Random seed (0 = fresh seed)")
	fs.StringVar(&cfg.Output, "out", defaultOutput, "JSON output path")
	fs.StringVar(&cfg.DomainFile, "domain", "", "YAML file overriding classes, cohorts and assumptions")
	fs.StringVar(&cfg.SQLitePath, "sqlite", "", "Also store the dataset in this SQLite database")
	fs.IntVar(&cfg.Preview, "preview", defaultPreview, "Print the first N records and dataset totals (0 = off)")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	// Env parsing runs after registration, so env values replace the flag
	// defaults and explicit flags still win.
	if err := entrypoint.ParseConfigFromArgs(&cfg, fs, args); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.Output) == "" {
		return Config{}, fmt.Errorf("output path is required")
	}
	if cfg.Preview < 0 {
		return Config{}, fmt.Errorf("preview must not be negative")
	}
	return cfg, nil
}

// Deps holds the collaborators Run needs from the process.
type Deps struct {
	Logger *zap.Logger
	Stdout io.Writer
	Now    func() time.Time
}

// Run generates one dataset and writes it to every configured sink.
func Run(ctx context.Context, cfg Config, deps Deps) error {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceGenerate, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		return generate(ctx, cfg, deps, logger)
	})
}

func generate(ctx context.Context, cfg Config, deps Deps, logger *zap.Logger) error {
	domainCfg := domain.Default()
	if path := strings.TrimSpace(cfg.DomainFile); path != "" {
		loaded, err := domain.LoadFile(path)
		if err != nil {
			return err
		}
		domainCfg = loaded
		logger.Info("loaded domain overrides", zap.String("path", path))
	}

	gen, err := generator.New(generator.Config{
		Seed:   cfg.Seed,
		Domain: domainCfg,
		Now:    deps.Now,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	if cfg.Seed == 0 {
		logger.Info("drew fresh seed", zap.Int64("seed", gen.Seed()))
	}
	res, err := gen.Run(ctx)
	if err != nil {
		return err
	}
	p := res.Payload()

	if err := payload.WriteFile(cfg.Output, p); err != nil {
		return apperrors.Wrap(apperrors.CodeExportFailed, "write dataset", err)
	}
	logger.Info("wrote dataset",
		zap.String("path", cfg.Output),
		zap.Int("records", len(p.Records)))

	if path := strings.TrimSpace(cfg.SQLitePath); path != "" {
		runID, err := saveSQLite(ctx, path, res.Seed, p)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeExportFailed, "store dataset", err)
		}
		logger.Info("stored dataset", zap.String("path", path), zap.String("run_id", runID))
	}

	if cfg.Preview > 0 && deps.Stdout != nil {
		if err := payload.WritePreview(deps.Stdout, p, cfg.Preview); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}
	}
	return nil
}

func saveSQLite(ctx context.Context, path string, seed int64, p payload.Payload) (string, error) {
	runID, err := id.NewID()
	if err != nil {
		return "", err
	}
	store, err := sqlite.Open(ctx, path)
	if err != nil {
		return "", err
	}
	defer store.Close()
	if err := store.SaveDataset(ctx, sqlite.Run{ID: runID, Seed: seed}, p); err != nil {
		return "", err
	}
	return runID, nil
}
