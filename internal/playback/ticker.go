package playback

import (
	"sync"
	"time"
)

// Ticker counts seconds of playback.
//
// It fires on a fixed period with no drift correction; over a 30 second preview the error is negligible.
type Ticker struct {
	mu        sync.Mutex
	count     int
	cancelled bool
	done      chan struct{}
	once      sync.Once
}

// NewTicker starts a ticker that calls onTick with the updated counter every interval.
//
// onTick runs on the ticker's goroutine. Cancel is checked before every tick, so a tick that is
// already due when Cancel is called is dropped.
func NewTicker(interval time.Duration, onTick func(count int)) *Ticker {
	t := &Ticker{done: make(chan struct{})}
	go t.run(interval, onTick)
	return t
}

func (t *Ticker) run(interval time.Duration, onTick func(int)) {
	tk := time.NewTicker(interval)
	defer tk.Stop()

	for {
		select {
		case <-t.done:
			return
		case <-tk.C:
			t.mu.Lock()
			if t.cancelled {
				t.mu.Unlock()
				return
			}
			t.count++
			n := t.count
			t.mu.Unlock()

			onTick(n)
		}
	}
}

// Cancel stops the ticker. It is safe to call more than once and does not wait for the goroutine to exit.
func (t *Ticker) Cancel() {
	t.mu.Lock()
	t.cancelled = true
	t.mu.Unlock()
	t.once.Do(func() { close(t.done) })
}

// Reset moves the counter to seconds, e.g. after a seek.
func (t *Ticker) Reset(seconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count = max(seconds, 0)
}

// Count returns the number of seconds counted so far.
func (t *Ticker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// Cancelled reports whether Cancel has been called.
func (t *Ticker) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}
