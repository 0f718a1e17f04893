// Package generator runs the full mock-data pipeline: development curves,
// method estimates, scores, claims, premiums and claim counts, all drawn
// from one seeded stream in a fixed order.
package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/avflight/internal/random"
	"github.com/louisbranch/avflight/internal/reserving/ancillary"
	"github.com/louisbranch/avflight/internal/reserving/development"
	"github.com/louisbranch/avflight/internal/reserving/domain"
	"github.com/louisbranch/avflight/internal/reserving/methods"
	"github.com/louisbranch/avflight/internal/reserving/payload"
	"github.com/louisbranch/avflight/internal/reserving/scoring"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/louisbranch/avflight/internal/reserving/generator"

// DefaultSeed matches the seed the dashboard fixtures were produced with.
const DefaultSeed = 42

// Config holds configuration for the generator.
type Config struct {
	Seed   int64 // 0 draws a fresh seed
	Domain domain.Config
	Now    func() time.Time // stamps last_updated; defaults to time.Now
	Logger *zap.Logger
}

// DefaultConfig returns a Config with the compiled-in domain tables.
func DefaultConfig() Config {
	return Config{
		Seed:   DefaultSeed,
		Domain: domain.Default(),
	}
}

// Generator owns the random stream for one run.
type Generator struct {
	config Config
	seed   int64
	src    random.Source
	logger *zap.Logger
	tracer trace.Tracer
}

// Result is the output of one run.
type Result struct {
	Seed          int64
	TrueUltimates development.TrueUltimates
	Tables        payload.Tables
}

// Payload assembles the serialized form of the run.
func (r Result) Payload() payload.Payload {
	return payload.Build(r.Tables)
}

// New validates cfg and seeds the stream.
func New(cfg Config) (*Generator, error) {
	seed := cfg.Seed
	if seed == 0 {
		fresh, err := random.NewSeed()
		if err != nil {
			return nil, err
		}
		seed = fresh
	}
	return NewWithSource(cfg, seed, random.NewSeeded(seed))
}

// NewWithSource builds a generator around an existing stream. seed is only
// reported, never used to reseed src.
func NewWithSource(cfg Config, seed int64, src random.Source) (*Generator, error) {
	if err := cfg.Domain.Validate(); err != nil {
		return nil, fmt.Errorf("domain config: %w", err)
	}
	if src == nil {
		return nil, fmt.Errorf("random source is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Generator{
		config: cfg,
		seed:   seed,
		src:    src,
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}, nil
}

// Seed returns the seed the stream was created from.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Run executes every stage once. The stream is consumed, so a Generator
// must not be run twice.
func (g *Generator) Run(ctx context.Context) (Result, error) {
	ctx, span := g.tracer.Start(ctx, "generate")
	defer span.End()
	span.SetAttributes(attribute.Int64("avflight.seed", g.seed))

	cfg := g.config.Domain
	g.logger.Info("generating dataset",
		zap.Int64("seed", g.seed),
		zap.Int("classes", len(cfg.Classes)),
		zap.Int("cohorts", len(cfg.Cohorts)),
		zap.String("valuation", cfg.Valuation.Label()))

	res := Result{Seed: g.seed}
	res.Tables.ClassParams = cfg.Classes

	// Stage order fixes the draw order; do not reorder.
	stages := []struct {
		name string
		run  func() int
	}{
		{"records", func() int {
			dev := development.Generate(g.src, cfg)
			res.Tables.Records = dev.Records
			res.TrueUltimates = dev.Ultimates
			return len(dev.Records)
		}},
		{"ultimates", func() int {
			est := methods.Generate(g.src, cfg.Grid, res.TrueUltimates)
			res.Tables.Ultimates = est.Current
			res.Tables.Priors = est.Prior
			return len(est.Current)
		}},
		{"scores", func() int {
			res.Tables.Scores = scoring.Generate(g.src, cfg.Classes, cfg.Grid)
			return len(res.Tables.Scores)
		}},
		{"claims", func() int {
			res.Tables.Claims = ancillary.Claims(g.src, res.TrueUltimates, ancillary.NewClaimIDs())
			return len(res.Tables.Claims)
		}},
		{"premiums", func() int {
			res.Tables.Premiums = ancillary.Premiums(g.src, res.TrueUltimates)
			return len(res.Tables.Premiums)
		}},
		{"claim_counts", func() int {
			res.Tables.ClaimCounts = ancillary.ClaimCounts(g.src, res.TrueUltimates, res.Tables.Claims)
			return len(res.Tables.ClaimCounts)
		}},
	}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		_, stageSpan := g.tracer.Start(ctx, "generate."+stage.name)
		rows := stage.run()
		stageSpan.SetAttributes(attribute.Int("avflight.rows", rows))
		stageSpan.End()
		g.logger.Debug("stage complete", zap.String("stage", stage.name), zap.Int("rows", rows))
	}

	res.Tables.GeneratedAt = g.config.Now()
	g.logger.Info("dataset generated",
		zap.Int("records", len(res.Tables.Records)),
		zap.Int("ultimates", len(res.Tables.Ultimates)),
		zap.Int("claims", len(res.Tables.Claims)))
	return res, nil
}
