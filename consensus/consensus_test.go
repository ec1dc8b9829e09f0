package consensus

import (
	"testing"
	"time"

	p2pgo "go-p2pgo"
)

func TestAcceptByBothFiresOnSecondAcceptance(t *testing.T) {
	tr := New()
	proof := p2pgo.ScoreProof{FinalScore: 3.5}
	tr.GameFinished("g1", 9, proof)

	if _, both := tr.AcceptLocal("g1"); both {
		t.Fatal("expected no consensus yet after only the local acceptance")
	}
	tr.AcceptPeer("g1")

	select {
	case ev := <-tr.Events():
		if ev.Kind != EventScoreAcceptedByBoth || ev.GameID != "g1" {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for ScoreAcceptedByBoth")
	}
}

func TestTimeoutFiresWhenNeitherSideAccepts(t *testing.T) {
	tr := NewWithTimeout(20 * time.Millisecond)
	tr.GameFinished("g2", 19, p2pgo.ScoreProof{})

	select {
	case ev := <-tr.Events():
		if ev.Kind != EventScoreTimeout || ev.GameID != "g2" {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for ScoreTimeout")
	}
}

func TestRecalculateResetsAcceptanceFlags(t *testing.T) {
	tr := NewWithTimeout(time.Minute)
	tr.GameFinished("g3", 9, p2pgo.ScoreProof{FinalScore: 1})
	tr.AcceptLocal("g3")

	tr.Recalculate("g3", p2pgo.ScoreProof{FinalScore: -2})
	tr.AcceptPeer("g3") // peer alone should not be enough post-reset

	select {
	case ev := <-tr.Events():
		t.Fatalf("expected no consensus event yet, got %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}
