package playback

import (
	"context"
	"time"
)

// Player plays a single preview clip.
type Player interface {
	// Start begins playback. onEnd is called once, from another goroutine, when the media runs out.
	Start(onEnd func()) error

	// Stop halts playback and releases the clip. onEnd is not called after Stop.
	Stop() error

	// Seek moves the playhead to position from the start of the clip.
	Seek(position time.Duration) error
}

// Backend acquires players for preview URLs.
type Backend interface {
	Open(ctx context.Context, url string) (Player, error)
}
