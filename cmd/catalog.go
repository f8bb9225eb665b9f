package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/spx/internal/formatter"
	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/services"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/urfave/cli/v3"
)

// artistArg returns the artist argument, falling back to playback.default_artist.
func (r *Runner) artistArg(cmd *cli.Command) string {
	if artist := strings.TrimSpace(cmd.StringArg("artist")); artist != "" {
		return artist
	}
	return r.config.Playback.DefaultArtist
}

func (r *Runner) searchArtist(ctx context.Context, artist string) (*services.SearchResult, error) {
	if err := r.connect(ctx); err != nil {
		return nil, err
	}

	r.logger.Info("searching artist", "artist", artist)
	result, err := r.catalog.SearchArtist(ctx, artist)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", artist, err)
	}
	return result, nil
}

// Search prints the discography of an artist.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	result, err := r.searchArtist(ctx, r.artistArg(cmd))
	if err != nil {
		return err
	}

	d := formatter.Discography{Artist: result.Artist.Name, Albums: result.Albums}

	if output := cmd.String("output"); output != "" {
		path, err := formatter.WriteExport(d, cmd.String("format"), output)
		if err != nil {
			return err
		}
		r.logger.Info("listing written", "path", path, "albums", len(result.Albums))
		return nil
	}

	data, err := formatter.Render(d, cmd.String("format"))
	if err != nil {
		return err
	}
	_, err = r.output.Write(data)
	return err
}

// Album prints a single album.
func (r *Runner) Album(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: album id", shared.ErrMissingArgument)
	}

	if err := r.connect(ctx); err != nil {
		return err
	}

	album, err := r.catalog.FetchAlbum(ctx, id)
	if err != nil {
		return fmt.Errorf("album %s: %w", id, err)
	}

	data, err := formatter.Render(formatter.Discography{Artist: album.ArtistName, Albums: []models.Album{album}}, cmd.String("format"))
	if err != nil {
		return err
	}
	_, err = r.output.Write(data)
	return err
}
