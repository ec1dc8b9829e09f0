// Package consensus implements spec.md §4.G: the acceptance window for
// a finished game's ScoreProof, tracking each side's acceptance and
// timing the window out after 180 seconds.
//
// The map-of-in-flight-state-guarded-by-a-mutex-plus-a-timer shape is
// grounded on the teacher's tourn.go/sched/sched.go bookkeeping idiom
// (a map from an in-progress unit of work to its accumulated result,
// mutated under one mutex, with timing handled by a timer rather than
// a busy-poll loop).
package consensus

import (
	"sync"
	"time"

	p2pgo "go-p2pgo"
)

// DefaultTimeout is spec.md §4.G/§5's 180-second acceptance window.
const DefaultTimeout = 180 * time.Second

// EventKind tags a Tracker observer event.
type EventKind uint8

const (
	EventScoreTimeout EventKind = iota
	EventScoreAcceptedByBoth
)

// Event is emitted to a Tracker's observer channel.
type Event struct {
	Kind      EventKind
	GameID    string
	BoardSize int
	Proof     p2pgo.ScoreProof
}

type entry struct {
	proof         p2pgo.ScoreProof
	boardSize     int
	ourAcceptance bool
	theirAccept   bool
	timer         *time.Timer
}

// Tracker manages the acceptance window for every game currently
// awaiting score consensus.
type Tracker struct {
	mu      sync.Mutex
	entries map[string]*entry
	timeout time.Duration
	events  chan Event
	now     func() time.Time
}

// New returns a Tracker with the default 180s timeout. Events is a
// buffered channel of observer notifications; callers should drain it.
func New() *Tracker {
	return NewWithTimeout(DefaultTimeout)
}

// NewWithTimeout lets tests use a short window instead of 180s.
func NewWithTimeout(timeout time.Duration) *Tracker {
	return &Tracker{
		entries: make(map[string]*entry),
		timeout: timeout,
		events:  make(chan Event, 32),
		now:     time.Now,
	}
}

// Events returns the channel Tracker publishes ScoreTimeout and
// ScoreAcceptedByBoth notifications on.
func (t *Tracker) Events() <-chan Event { return t.events }

// GameFinished opens a new acceptance window for gameID, started by the
// channel's GameFinished event (spec.md §4.G "Created when GameFinished
// fires").
func (t *Tracker) GameFinished(gameID string, boardSize int, proof p2pgo.ScoreProof) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if old, ok := t.entries[gameID]; ok {
		old.timer.Stop()
	}

	e := &entry{proof: proof, boardSize: boardSize}
	e.timer = time.AfterFunc(t.timeout, func() { t.onTimeout(gameID) })
	t.entries[gameID] = e
}

func (t *Tracker) onTimeout(gameID string) {
	t.mu.Lock()
	e, ok := t.entries[gameID]
	if !ok {
		t.mu.Unlock()
		return
	}
	delete(t.entries, gameID)
	t.mu.Unlock()

	t.events <- Event{Kind: EventScoreTimeout, GameID: gameID, BoardSize: e.boardSize}
}

// AcceptLocal records local acceptance of gameID's current proof
// (spec.md §4.G accept_local). Returns the accepted proof for training
// export and whether both sides have now accepted.
func (t *Tracker) AcceptLocal(gameID string) (p2pgo.ScoreProof, bool) {
	t.mu.Lock()
	e, ok := t.entries[gameID]
	if !ok {
		t.mu.Unlock()
		return p2pgo.ScoreProof{}, false
	}
	e.ourAcceptance = true
	both := e.ourAcceptance && e.theirAccept
	proof := e.proof
	if both {
		e.timer.Stop()
		delete(t.entries, gameID)
	}
	t.mu.Unlock()

	if both {
		t.events <- Event{Kind: EventScoreAcceptedByBoth, GameID: gameID, BoardSize: e.boardSize, Proof: proof}
	}
	return proof, both
}

// AcceptPeer records that the remote side accepted gameID's proof.
func (t *Tracker) AcceptPeer(gameID string) {
	t.mu.Lock()
	e, ok := t.entries[gameID]
	if !ok {
		t.mu.Unlock()
		return
	}
	e.theirAccept = true
	both := e.ourAcceptance && e.theirAccept
	proof := e.proof
	if both {
		e.timer.Stop()
		delete(t.entries, gameID)
	}
	t.mu.Unlock()

	if both {
		t.events <- Event{Kind: EventScoreAcceptedByBoth, GameID: gameID, BoardSize: e.boardSize, Proof: proof}
	}
}

// Recalculate replaces gameID's tracked proof (e.g. after a player
// re-marks dead stones) and resets both acceptance flags, per spec.md
// §4.G "Recalculation."
func (t *Tracker) Recalculate(gameID string, proof p2pgo.ScoreProof) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[gameID]
	if !ok {
		return
	}
	e.proof = proof
	e.ourAcceptance = false
	e.theirAccept = false
}
