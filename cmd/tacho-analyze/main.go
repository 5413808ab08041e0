package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tachoscope/tachoscope-backend/internal/cli"
	"github.com/tachoscope/tachoscope-backend/internal/tacho/service"
	"github.com/tachoscope/tachoscope-backend/pkg/config"
	"github.com/tachoscope/tachoscope-backend/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("tacho-analyze")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	// Logs go to stderr so stdout stays parseable. Quiet unless asked for.
	level := cfg.Server.LogLevel
	if os.Getenv(config.EnvKey("server.log_level")) == "" {
		level = "warn"
	}
	log := logger.NewWithWriter(os.Stderr, "tacho-analyze", cfg.Server.Environment, level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Analysis: service.NewService(cfg.Analysis, nil, log),
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
