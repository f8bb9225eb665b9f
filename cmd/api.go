package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/spx/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct authenticated GET request to the catalog
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := strings.TrimSpace(cmd.StringArg("path"))
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	compact := cmd.Bool("json")

	if err := r.connect(ctx); err != nil {
		return err
	}

	r.logger.Info("GET request", "path", path, "params", cmd.String("params"))

	resp, err := r.catalog.Raw(ctx, path, cmd.String("params"))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrProtocol, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, !compact)
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}
