package main

import (
	"context"

	"github.com/desertthunder/spx/internal/formatter"
	"github.com/urfave/cli/v3"
)

// ExportCovers saves every album cover of an artist as PNG.
func (r *Runner) ExportCovers(ctx context.Context, cmd *cli.Command) error {
	result, err := r.searchArtist(ctx, r.artistArg(cmd))
	if err != nil {
		return err
	}

	dir := cmd.String("dir")
	if dir == "" {
		dir = r.config.Export.ImagesDir
	}
	workers := cmd.Int("workers")
	if workers <= 0 {
		workers = r.config.Export.Workers
	}

	r.logger.Info("exporting covers", "artist", result.Artist.Name, "albums", len(result.Albums), "dir", dir, "workers", workers)

	paths, err := r.covers.ExportAll(ctx, dir, result.Albums, workers)
	if err != nil {
		return err
	}

	r.writePlainHeader("Exported covers")
	for _, path := range paths {
		r.writePlain("%s\n", path)
	}
	return nil
}

// ExportListing writes the discography listing of an artist to a file.
func (r *Runner) ExportListing(ctx context.Context, cmd *cli.Command) error {
	result, err := r.searchArtist(ctx, r.artistArg(cmd))
	if err != nil {
		return err
	}

	d := formatter.Discography{Artist: result.Artist.Name, Albums: result.Albums}
	path, err := formatter.WriteExport(d, cmd.String("format"), cmd.String("output"))
	if err != nil {
		return err
	}

	return r.writePlain("Wrote %s\n", path)
}
