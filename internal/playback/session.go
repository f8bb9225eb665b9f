package playback

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/shared"
)

// State is the coarse playback state.
type State int

const (
	Idle State = iota
	Playing
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	default:
		return "idle"
	}
}

// EventKind tells what an [Event] reports.
type EventKind int

const (
	EventStarted EventKind = iota
	EventStopped
	EventProgress
	EventSeeked
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventStopped:
		return "stopped"
	case EventProgress:
		return "progress"
	case EventSeeked:
		return "seeked"
	default:
		return "unknown"
	}
}

// StopReason explains an [EventStopped].
type StopReason int

const (
	ReasonNone StopReason = iota
	ReasonUser
	ReasonNaturalEnd
	ReasonSwitch
	ReasonClosed
)

func (r StopReason) String() string {
	switch r {
	case ReasonUser:
		return "user"
	case ReasonNaturalEnd:
		return "ended"
	case ReasonSwitch:
		return "switch"
	case ReasonClosed:
		return "closed"
	default:
		return ""
	}
}

// Event is an immutable record of a session change. State is the state after the change.
type Event struct {
	Kind     EventKind
	State    State
	Track    models.Track
	Position time.Duration
	Reason   StopReason
}

// Snapshot is a point-in-time copy of the session.
type Snapshot struct {
	State     State
	Track     models.Track
	StartedAt time.Time
	Position  time.Duration
}

// SessionOpts configures a [Session].
type SessionOpts struct {
	Backend      Backend
	TickInterval time.Duration
	Buffer       int
	Logger       *log.Logger
}

// Session is the single record of which preview, if any, is playing.
//
// All transitions hold mu for their full duration, including player teardown and acquisition.
// generation is bumped on every teardown; callbacks captured for an older generation are ignored.
type Session struct {
	mu         sync.Mutex
	backend    Backend
	interval   time.Duration
	logger     *log.Logger
	events     *eventQueue
	state      State
	track      models.Track
	player     Player
	ticker     *Ticker
	startedAt  time.Time
	generation uint64
	closed     bool
	now        func() time.Time
}

// NewSession creates an idle session.
func NewSession(opts SessionOpts) *Session {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 32
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	return &Session{
		backend:  opts.Backend,
		interval: opts.TickInterval,
		logger:   opts.Logger,
		events:   newEventQueue(opts.Buffer),
		now:      time.Now,
	}
}

// Events returns the notification stream. It is closed by [Session.Close] once queued events are delivered.
//
// Reading is optional: transitions never wait on the consumer. Transition events are delivered in
// order and never dropped; a progress event not yet delivered is superseded by the next one.
func (s *Session) Events() <-chan Event {
	return s.events.out
}

// Play starts track, toggles it off if it is already playing, or switches to it from another track.
func (s *Session) Play(ctx context.Context, track models.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return shared.ErrSessionClosed
	}

	if s.state == Playing {
		if s.track.Same(track) {
			s.teardown(ReasonUser)
			return nil
		}
		s.teardown(ReasonSwitch)
	}

	if !track.HasPreview() {
		return fmt.Errorf("%w: %q", shared.ErrNoPreview, track.Name)
	}
	if s.backend == nil {
		return fmt.Errorf("%w: no audio backend", shared.ErrPlayerFailed)
	}

	player, err := s.backend.Open(ctx, track.PreviewURL)
	if err != nil {
		s.logger.Warn("could not open preview", "track", track.Name, "error", err)
		return err
	}

	gen := s.generation
	if err := player.Start(func() { s.naturalEnd(gen) }); err != nil {
		if stopErr := player.Stop(); stopErr != nil {
			s.logger.Debug("stop after failed start", "error", stopErr)
		}
		return fmt.Errorf("%w: %v", shared.ErrPlayerFailed, err)
	}

	s.state = Playing
	s.track = track
	s.player = player
	s.startedAt = s.now()
	s.ticker = NewTicker(s.interval, func(n int) { s.tick(gen, n) })

	s.logger.Info("playing preview", "track", track.Name, "id", track.ID)
	s.emit(Event{Kind: EventStarted, State: Playing, Track: track})
	return nil
}

// Stop ends playback. It returns [shared.ErrNotPlaying] when idle.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Playing {
		return shared.ErrNotPlaying
	}
	s.teardown(ReasonUser)
	return nil
}

// Seek repositions the player and the progress counter. It returns [shared.ErrNotPlaying] when idle.
func (s *Session) Seek(position time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Playing {
		return shared.ErrNotPlaying
	}
	if position < 0 {
		position = 0
	}

	if err := s.player.Seek(position); err != nil {
		return fmt.Errorf("%w: seek: %v", shared.ErrPlayerFailed, err)
	}
	s.ticker.Reset(int(position / time.Second))

	s.emit(Event{Kind: EventSeeked, State: Playing, Track: s.track, Position: position})
	return nil
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{State: s.state}
	if s.state == Playing {
		snap.Track = s.track
		snap.StartedAt = s.startedAt
		snap.Position = time.Duration(s.ticker.Count()) * time.Second
	}
	return snap
}

// Close stops any playback and closes the event stream. Further Play calls fail with [shared.ErrSessionClosed].
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if s.state == Playing {
		s.teardown(ReasonClosed)
	}
	s.closed = true
	s.events.close()
}

// teardown cancels the ticker, stops the player and returns to Idle. Callers hold mu.
func (s *Session) teardown(reason StopReason) {
	track := s.track
	position := time.Duration(s.ticker.Count()) * time.Second

	s.ticker.Cancel()
	if err := s.player.Stop(); err != nil {
		s.logger.Warn("player did not stop cleanly", "track", track.Name, "error", err)
	}

	s.generation++
	s.state = Idle
	s.track = models.Track{}
	s.player = nil
	s.ticker = nil
	s.startedAt = time.Time{}

	s.logger.Debug("preview stopped", "track", track.Name, "reason", reason)
	s.emit(Event{Kind: EventStopped, State: Idle, Track: track, Position: position, Reason: reason})
}

func (s *Session) naturalEnd(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.generation != gen || s.state != Playing {
		return
	}
	s.teardown(ReasonNaturalEnd)
}

func (s *Session) tick(gen uint64, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.generation != gen || s.state != Playing {
		return
	}

	s.emit(Event{Kind: EventProgress, State: Playing, Track: s.track, Position: time.Duration(count) * time.Second})
}

// emit queues an event without blocking. Callers hold mu.
func (s *Session) emit(ev Event) {
	s.events.push(ev)
}
