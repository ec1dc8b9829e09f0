package channel

import (
	"sync"

	p2pgo "go-p2pgo"
)

// eventBufferSize is the per-subscriber bounded buffer (spec.md §5:
// "fixed buffer of 100 events; overflow drops the oldest item for the
// affected subscriber only").
const eventBufferSize = 100

// Subscription is a local receiver of one GameChannel's events.
type Subscription struct {
	ch     chan p2pgo.GameEvent
	bcast  *broadcaster
	closed bool
	mu     sync.Mutex
}

// Events returns the channel of GameEvents. The channel is closed when
// the subscription is cancelled.
func (s *Subscription) Events() <-chan p2pgo.GameEvent { return s.ch }

// Cancel unsubscribes; safe to call more than once.
func (s *Subscription) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.bcast.remove(s)
}

// broadcaster fans a GameChannel's events out to every live Subscription,
// grounded on the teacher's web/ws.go per-client websocket fan-out
// (each client has its own outbound queue so one slow reader cannot
// stall the others), generalized to an in-process bounded-buffer queue
// with oldest-drop-on-overflow, matching
// other_examples/84791da8_abrahamVado-DriftPursuit__go-broker-internal-events-stream.go.go's
// per-subscriber bounded channel pattern.
type broadcaster struct {
	mu   sync.Mutex
	subs map[*Subscription]bool
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[*Subscription]bool)}
}

func (b *broadcaster) subscribe() *Subscription {
	s := &Subscription{ch: make(chan p2pgo.GameEvent, eventBufferSize), bcast: b}
	b.mu.Lock()
	b.subs[s] = true
	b.mu.Unlock()
	return s
}

func (b *broadcaster) remove(s *Subscription) {
	b.mu.Lock()
	delete(b.subs, s)
	b.mu.Unlock()
	close(s.ch)
}

func (b *broadcaster) publish(ev p2pgo.GameEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for s := range b.subs {
		select {
		case s.ch <- ev:
		default:
			// Buffer full: drop the oldest queued event for this
			// subscriber only, then enqueue the new one.
			select {
			case <-s.ch:
			default:
			}
			select {
			case s.ch <- ev:
			default:
			}
		}
	}
}
