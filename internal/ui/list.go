package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/shared"
)

var _ list.Item = trackItem{}

// trackItem wraps [models.Track] and its control state to implement [list.Item].
type trackItem struct {
	track   models.Track
	control Control
}

func (i trackItem) FilterValue() string { return i.track.Name }

func (i trackItem) Title() string {
	prefix := "  "
	if i.control.Playing {
		prefix = "▶ "
	}
	return fmt.Sprintf("%s%2d. %s", prefix, i.track.TrackNumber, i.track.Name)
}

func (i trackItem) Description() string {
	length := shared.FormatDuration(i.track.LengthSeconds)
	switch {
	case i.control.Playing:
		return fmt.Sprintf("%s • playing %s", length, shared.FormatDuration(int(i.control.Position.Seconds())))
	case !i.control.Enabled:
		return length + " • no preview"
	default:
		return length
	}
}

func trackItems(album models.Album, controls *Controls) []list.Item {
	items := make([]list.Item, len(album.Tracks))
	for i, track := range album.Tracks {
		items[i] = trackItem{track: track, control: controls.Get(track)}
	}
	return items
}
