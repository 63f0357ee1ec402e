package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/marquee-app/marquee/internal/api"
	"github.com/marquee-app/marquee/internal/config"
	"github.com/marquee-app/marquee/internal/logger"
	"github.com/marquee-app/marquee/internal/web"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.GetLogger()

	// The web shell has no process-wide session; each request carries its own
	client, err := api.New(cfg.API.BaseURL, nil,
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(log),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create API client")
	}

	srv, err := web.New(cfg, client, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create web shell")
	}

	log.Info().Str("version", version).Msg("Starting Marquee web shell...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Web shell failed")
	}
}
