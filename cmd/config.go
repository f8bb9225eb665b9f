package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/spx/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes the example configuration.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	return r.writePlain("Wrote %s. Add your Spotify client_id and client_secret.\n", path)
}

// ConfigShow prints the effective configuration.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	config := *r.config
	config.Credentials.Spotify.ClientID = mask(config.Credentials.Spotify.ClientID)
	config.Credentials.Spotify.ClientSecret = mask(config.Credentials.Spotify.ClientSecret)

	r.writePlainHeader(fmt.Sprintf("Configuration (%s)", r.configPathOrDefault()))
	return r.writeJSON(config, true)
}

func mask(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] + strings.Repeat("*", len(secret)-4)
}
