package channel

import (
	"crypto/ed25519"
	"io"
	"sync"
	"testing"
	"time"

	"go-p2pgo/chain"

	p2pgo "go-p2pgo"
)

// pipeConn is an in-process PeerConn for tests: Send on one end
// delivers to Recv on the paired end.
type pipeConn struct {
	id   string
	out  chan Envelope
	in   chan Envelope
	once sync.Once
}

func newPipePair(idA, idB string) (*pipeConn, *pipeConn) {
	ab := make(chan Envelope, 16)
	ba := make(chan Envelope, 16)
	a := &pipeConn{id: idA, out: ab, in: ba}
	b := &pipeConn{id: idB, out: ba, in: ab}
	return a, b
}

func (p *pipeConn) Send(e Envelope) error { p.out <- e; return nil }
func (p *pipeConn) Recv() (Envelope, error) {
	e, ok := <-p.in
	if !ok {
		return Envelope{}, io.EOF
	}
	return e, nil
}
func (p *pipeConn) Close() error       { p.once.Do(func() { close(p.out) }); return nil }
func (p *pipeConn) RemoteID() string   { return p.id }

type nopTransport struct{}

func (nopTransport) BroadcastMove(gameID string, rec chain.MoveRecord) (chain.MoveRecord, error) {
	return rec, nil
}

func newTestChannel(t *testing.T) *GameChannel {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}
	gc := New(Config{
		GameID:     "test-game",
		BoardSize:  9,
		Komi:       5.5,
		Method:     p2pgo.ScoringTerritory,
		PrivateKey: priv,
		PublicKey:  pub,
		Transport:  nopTransport{},
	})
	t.Cleanup(gc.Close)
	return gc
}

func TestPushMoveEmitsMoveMade(t *testing.T) {
	gc := newTestChannel(t)
	sub := gc.Subscribe()
	defer sub.Cancel()

	if err := gc.PushMove(p2pgo.PlaceMove(p2pgo.Coordinate{X: 4, Y: 4}), ""); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-sub.Events():
		if ev.Kind != p2pgo.EventMoveMade {
			t.Fatalf("expected MoveMade, got %v", ev.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for MoveMade")
	}
}

func TestPushMoveRejectsIllegalMoveWithoutMutating(t *testing.T) {
	gc := newTestChannel(t)
	c := p2pgo.Coordinate{X: 0, Y: 0}
	if err := gc.PushMove(p2pgo.PlaceMove(c), ""); err != nil {
		t.Fatal(err)
	}
	if err := gc.PushMove(p2pgo.PlaceMove(c), ""); err != p2pgo.ErrOccupied {
		t.Fatalf("expected ErrOccupied, got %v", err)
	}
}

// TestDedupUnderReplayGossipAndDirect is spec.md §8 Scenario 5: the
// same signed record delivered twice (gossip then direct) only grows
// the chain by one and only fires one MoveMade.
func TestDedupUnderReplayGossipAndDirect(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}
	sender := chain.New()
	rec, err := sender.AppendLocal(p2pgo.PlaceMove(p2pgo.Coordinate{X: 2, Y: 2}), "", priv, pub, 1)
	if err != nil {
		t.Fatal(err)
	}

	gc := newTestChannel(t)
	sub := gc.Subscribe()
	defer sub.Cancel()

	if err := gc.IngestRecord(rec, ""); err != nil {
		t.Fatal(err)
	}
	if err := gc.IngestRecord(rec, "peer-b"); err != nil {
		t.Fatal(err)
	}

	gc.chainMu.Lock()
	length := gc.chain.Sequence()
	gc.chainMu.Unlock()
	if length != 1 {
		t.Fatalf("expected chain length 1 after duplicate delivery, got %d", length)
	}

	moveMadeCount := 0
	drain := true
	for drain {
		select {
		case ev := <-sub.Events():
			if ev.Kind == p2pgo.EventMoveMade {
				moveMadeCount++
			}
		default:
			drain = false
		}
	}
	if moveMadeCount != 1 {
		t.Fatalf("expected exactly one MoveMade event, got %d", moveMadeCount)
	}
}

// TestAckWatchdogRequestsSyncAfterTimeout is spec.md §8 Scenario 6: a
// push_move with no incoming ack past the timeout triggers a
// SyncRequest to the connected peer.
func TestAckWatchdogRequestsSyncAfterTimeout(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}
	gc := New(Config{
		GameID:          "watchdog-game",
		BoardSize:       9,
		Komi:            5.5,
		Method:          p2pgo.ScoringTerritory,
		PrivateKey:      priv,
		PublicKey:       pub,
		Transport:       nopTransport{},
		AckTimeout:      30 * time.Millisecond,
		AckTickInterval: 5 * time.Millisecond,
	})
	defer gc.Close()

	local, remote := newPipePair("local", "remote")
	gc.ConnectPeer(local)
	defer remote.Close()

	if err := gc.PushMove(p2pgo.PlaceMove(p2pgo.Coordinate{X: 1, Y: 1}), ""); err != nil {
		t.Fatal(err)
	}

	select {
	case env := <-remote.in:
		if env.Kind != WireMoveRecord {
			t.Fatalf("expected the move record itself first, got %v", env.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the move record")
	}

	select {
	case env := <-remote.in:
		if env.Kind != WireSyncRequest {
			t.Fatalf("expected a SyncRequest from the ack watchdog, got %v", env.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the ack watchdog's SyncRequest")
	}
}
