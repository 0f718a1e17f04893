// Package main generates the reserving dashboard dataset.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	avflightcmd "github.com/louisbranch/avflight/internal/cmd/avflight"
	"github.com/louisbranch/avflight/internal/platform/config"
	apperrors "github.com/louisbranch/avflight/internal/platform/errors"
	"github.com/louisbranch/avflight/internal/platform/logging"
)

func main() {
	cfg, err := avflightcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	logger := logging.New(os.Stderr, cfg.Verbose)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := avflightcmd.Run(ctx, cfg, avflightcmd.Deps{Logger: logger, Stdout: os.Stdout}); err != nil {
		_ = logger.Sync()
		stop()
		config.ExitCodef(apperrors.CodeOf(err).ExitCode(), "generate dataset: %v", err)
	}
}
