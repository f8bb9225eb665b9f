package ui

import (
	"time"

	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/playback"
)

// Control is the on-screen state of one track's play control.
type Control struct {
	Enabled  bool
	Playing  bool
	Position time.Duration
}

// Controls maps track identity to control state for the current album list.
//
// Entries exist only for tracks of the current list. Events for any other track are ignored.
type Controls struct {
	entries map[models.TrackKey]Control
}

func NewControls() *Controls {
	return &Controls{entries: make(map[models.TrackKey]Control)}
}

// Reset drops every entry and creates fresh ones for albums. A control is enabled when its track has a preview.
func (c *Controls) Reset(albums []models.Album) {
	c.entries = make(map[models.TrackKey]Control)
	for _, album := range albums {
		for _, track := range album.Tracks {
			c.entries[track.Key()] = Control{Enabled: track.HasPreview()}
		}
	}
}

// Get returns the control for track, or a disabled zero value if it is not tracked.
func (c *Controls) Get(track models.Track) Control {
	return c.entries[track.Key()]
}

// Len returns the number of tracked controls.
func (c *Controls) Len() int {
	return len(c.entries)
}

// Apply updates the control named by ev and reports whether anything changed.
func (c *Controls) Apply(ev playback.Event) bool {
	key := ev.Track.Key()
	ctrl, ok := c.entries[key]
	if !ok {
		return false
	}

	switch ev.Kind {
	case playback.EventStarted:
		ctrl.Playing = true
		ctrl.Position = 0
	case playback.EventStopped:
		ctrl.Playing = false
		ctrl.Position = 0
	case playback.EventProgress, playback.EventSeeked:
		ctrl.Position = ev.Position
	}

	c.entries[key] = ctrl
	return true
}
