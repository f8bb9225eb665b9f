package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"

	"github.com/desertthunder/spx/internal/covers"
	"github.com/desertthunder/spx/internal/playback"
	"github.com/desertthunder/spx/internal/services"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/urfave/cli/v3"
)

const configPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	config.ApplyEnv()

	httpClient := &http.Client{Timeout: config.Catalog.Timeout()}

	opts := RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		HTTPClient: httpClient,
		Logger:     logger,
		Backend:    playback.NewBeepBackend(httpClient, logger),
		Covers:     covers.NewFetcher(httpClient, logger),
	}

	if err := config.Validate(); errors.Is(err, shared.ErrMissingCredentials) {
		logger.Debug("catalog disabled", "error", err)
	} else if err != nil {
		logger.Fatal("invalid configuration", "path", configPath, "error", err)
	} else {
		spotify := config.Credentials.Spotify
		tokens, err := services.NewTokenManager(spotify.ClientID, spotify.ClientSecret, config.Catalog.TokenURL, httpClient, logger)
		if err != nil {
			logger.Fatal("invalid credentials", "error", err)
		}

		opts.Auth = tokens
		opts.Catalog = services.NewCatalogClient(services.ClientOpts{
			Tokens:            tokens,
			HTTPClient:        httpClient,
			BaseURL:           config.Catalog.BaseURL,
			Market:            config.Catalog.Market,
			RequestsPerSecond: config.Catalog.RequestsPerSecond,
			Logger:            logger,
		})
	}

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "spx",
		Usage:    "Browse an artist's albums and play track previews",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrAuth):
			logger.Fatal("authentication failed", "error", err)
		case errors.Is(err, context.Canceled):
			os.Exit(130)
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}
