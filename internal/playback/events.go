package playback

import "sync"

// eventQueue decouples event producers from the consumer of [Session.Events].
//
// push never blocks. Pending events are kept in an unbounded FIFO and moved to out by a single
// pump goroutine, so a consumer that stops reading never stalls the session. A progress event
// replaces a progress event still waiting at the tail, which bounds pending progress to one
// entry between transitions.
type eventQueue struct {
	mu      sync.Mutex
	pending []Event
	closed  bool
	wake    chan struct{}
	out     chan Event
}

func newEventQueue(buffer int) *eventQueue {
	q := &eventQueue{
		wake: make(chan struct{}, 1),
		out:  make(chan Event, buffer),
	}
	go q.run()
	return q
}

func (q *eventQueue) push(ev Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	if n := len(q.pending); n > 0 && ev.Kind == EventProgress && q.pending[n-1].Kind == EventProgress {
		q.pending[n-1] = ev
	} else {
		q.pending = append(q.pending, ev)
	}
	q.signal()
}

// close stops accepting events. Events already queued are still delivered before out is closed.
func (q *eventQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.signal()
}

// signal wakes the pump. Callers hold mu.
func (q *eventQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *eventQueue) pendingLen() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *eventQueue) run() {
	defer close(q.out)

	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			closed := q.closed
			q.mu.Unlock()
			if closed {
				return
			}
			<-q.wake
			continue
		}
		ev := q.pending[0]
		q.pending[0] = Event{}
		q.pending = q.pending[1:]
		q.mu.Unlock()

		q.out <- ev
	}
}
