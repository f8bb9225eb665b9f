package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/playback"
	"github.com/desertthunder/spx/internal/services"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Play previews one track and prints session events until it stops.
//
// The preview stops at the end of the clip, after --for elapses, or when ctx is cancelled.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	result, err := r.searchArtist(ctx, r.artistArg(cmd))
	if err != nil {
		return err
	}

	track, album, err := pickTrack(result, cmd.String("track"))
	if err != nil {
		return err
	}

	session := r.newSession()
	defer session.Close()

	r.writePlainHeader(fmt.Sprintf("%s • %s", result.Artist.Name, album))

	if err := session.Play(ctx, track); err != nil {
		return fmt.Errorf("play %q: %w", track.Name, err)
	}
	if seek := cmd.Duration("seek"); seek > 0 {
		if err := session.Seek(seek); err != nil {
			return err
		}
	}

	var limit <-chan time.Time
	if d := cmd.Duration("for"); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		limit = timer.C
	}

	for {
		select {
		case ev, ok := <-session.Events():
			if !ok {
				return nil
			}
			r.printEvent(ev)
			if ev.Kind == playback.EventStopped {
				return nil
			}
		case <-limit:
			limit = nil
			if err := session.Stop(); err != nil && !errors.Is(err, shared.ErrNotPlaying) {
				return err
			}
		case <-ctx.Done():
			session.Stop()
			return ctx.Err()
		}
	}
}

func (r *Runner) printEvent(ev playback.Event) {
	position := shared.FormatDuration(int(ev.Position / time.Second))
	switch ev.Kind {
	case playback.EventStarted:
		r.writePlain("▶ %s\n", ev.Track.Name)
	case playback.EventProgress:
		r.writePlain("  %s\n", position)
	case playback.EventSeeked:
		r.writePlain("  → %s\n", position)
	case playback.EventStopped:
		r.writePlain("■ %s (%s at %s)\n", ev.Track.Name, ev.Reason, position)
	}
}

// pickTrack finds the first track whose name matches (case-insensitive), or the first track with a preview
// when name is empty.
func pickTrack(result *services.SearchResult, name string) (models.Track, string, error) {
	name = strings.TrimSpace(name)
	for _, album := range result.Albums {
		for _, track := range album.Tracks {
			if name == "" && track.HasPreview() {
				return track, album.Name, nil
			}
			if name != "" && strings.EqualFold(track.Name, name) {
				return track, album.Name, nil
			}
		}
	}

	if name == "" {
		return models.Track{}, "", fmt.Errorf("%w: %s has no previewable tracks", shared.ErrNoPreview, result.Artist.Name)
	}
	return models.Track{}, "", fmt.Errorf("%w: no track named %q by %s", shared.ErrNotFound, name, result.Artist.Name)
}
