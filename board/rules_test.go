package board

import (
	"testing"

	p2pgo "go-p2pgo"
)

func place(t *testing.T, s *GameState, x, y int) {
	t.Helper()
	if _, err := ApplyMove(s, p2pgo.PlaceMove(p2pgo.Coordinate{X: x, Y: y})); err != nil {
		t.Fatalf("place(%d,%d): unexpected error: %v", x, y, err)
	}
}

func TestOccupiedRejected(t *testing.T) {
	s := NewGame(9)
	place(t, s, 2, 2)
	before := s.Board.Clone()
	_, err := ApplyMove(s, p2pgo.PlaceMove(p2pgo.Coordinate{X: 2, Y: 2}))
	if err != p2pgo.ErrOccupied {
		t.Fatalf("expected ErrOccupied, got %v", err)
	}
	if !s.Board.Equal(before) {
		t.Fatal("board mutated by a rejected move")
	}
}

func TestOutOfRangeRejected(t *testing.T) {
	s := NewGame(9)
	_, err := ApplyMove(s, p2pgo.PlaceMove(p2pgo.Coordinate{X: 9, Y: 0}))
	if err != p2pgo.ErrOutOfRange {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	_, err = ApplyMove(s, p2pgo.PlaceMove(p2pgo.Coordinate{X: -1, Y: 0}))
	if err != p2pgo.ErrOutOfRange {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

// TestSuicideRejection surrounds an empty point with four Black stones
// and shows White may not play there (spec.md §8 Scenario 2).
func TestSuicideRejection(t *testing.T) {
	s := NewGame(9)
	// Black surrounds (4,4) on all four sides.
	blackMoves := []p2pgo.Coordinate{{X: 3, Y: 4}, {X: 5, Y: 4}, {X: 4, Y: 3}, {X: 4, Y: 5}}
	whiteElsewhere := []p2pgo.Coordinate{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}}
	for i, bm := range blackMoves {
		place(t, s, bm.X, bm.Y)
		if i < len(whiteElsewhere) {
			place(t, s, whiteElsewhere[i].X, whiteElsewhere[i].Y)
		} else {
			// pass for white to keep turn order without affecting the board
			if _, err := ApplyMove(s, p2pgo.PassMove()); err != nil {
				t.Fatal(err)
			}
		}
	}
	// Black plays one unrelated filler stone so it is White's turn.
	place(t, s, 8, 8)
	if s.Current != p2pgo.White {
		t.Fatalf("expected white to move, got %v", s.Current)
	}
	_, err := ApplyMove(s, p2pgo.PlaceMove(p2pgo.Coordinate{X: 4, Y: 4}))
	if err != p2pgo.ErrSuicide {
		t.Fatalf("expected ErrSuicide, got %v", err)
	}
}

func TestCaptureOpensLiberty(t *testing.T) {
	// Black alone at (1,0). White plays (0,0): one liberty at (0,1).
	// Black plays (0,1), reducing White to zero liberties - captured.
	// (0,0) is then empty and Black's capture count is one.
	s := NewGame(9)
	place(t, s, 1, 0) // Black
	place(t, s, 0, 0) // White, liberties: (0,1)
	place(t, s, 0, 1) // Black captures white at (0,0)
	if s.Board.Occupied(p2pgo.Coordinate{X: 0, Y: 0}) {
		t.Fatal("expected white stone at (0,0) to be captured")
	}
	if s.CapturedByBlack != 1 {
		t.Fatalf("expected 1 capture by black, got %d", s.CapturedByBlack)
	}
}

func TestTwoPassTermination(t *testing.T) {
	s := NewGame(9)
	place(t, s, 4, 4) // Black single stone at E5 (0-indexed 4,4)
	_, err := ApplyMove(s, p2pgo.PassMove())
	if err != nil {
		t.Fatal(err)
	}
	if s.GameOver {
		t.Fatal("game should not be over after a single pass")
	}
	events, err := ApplyMove(s, p2pgo.PassMove())
	if err != nil {
		t.Fatal(err)
	}
	if !s.GameOver {
		t.Fatal("expected game over after two consecutive passes")
	}
	found := false
	for _, e := range events {
		if e.Kind == p2pgo.EventGameEnded {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a GameEnded event")
	}
}

func TestPassResetByPlace(t *testing.T) {
	s := NewGame(9)
	if _, err := ApplyMove(s, p2pgo.PassMove()); err != nil {
		t.Fatal(err)
	}
	place(t, s, 0, 0)
	if s.ConsecutivePasses != 0 {
		t.Fatalf("expected pass counter reset, got %d", s.ConsecutivePasses)
	}
}

func TestResignRecordsLoserAndEnds(t *testing.T) {
	s := NewGame(9)
	events, err := ApplyMove(s, p2pgo.ResignMove())
	if err != nil {
		t.Fatal(err)
	}
	if !s.GameOver || s.Resigner == nil || *s.Resigner != p2pgo.Black {
		t.Fatal("expected black to be recorded as resigner")
	}
	if len(events) != 2 || events[1].Kind != p2pgo.EventGameEnded {
		t.Fatal("expected MoveMade + GameEnded events")
	}
}

func TestNoMovesAfterGameOver(t *testing.T) {
	s := NewGame(9)
	if _, err := ApplyMove(s, p2pgo.ResignMove()); err != nil {
		t.Fatal(err)
	}
	if _, err := ApplyMove(s, p2pgo.PassMove()); err != p2pgo.ErrGameAlreadyOver {
		t.Fatalf("expected ErrGameAlreadyOver, got %v", err)
	}
}

// TestSimpleKo builds the classic diamond ko shape, confirms Black's
// capture is legal, White's immediate recapture is a KoViolation, and
// that the recapture succeeds once an unrelated move on each side has
// changed the whole-board position (spec.md §8 Scenario 1).
func TestSimpleKo(t *testing.T) {
	s := NewGame(9)

	// Ring stones, placed in alternating turn order (Black first),
	// with a harmless Black filler move to keep the count balanced
	// before White occupies the ko point.
	place(t, s, 1, 2) // B
	place(t, s, 1, 3) // W
	place(t, s, 3, 2) // B
	place(t, s, 3, 3) // W
	place(t, s, 2, 1) // B
	place(t, s, 2, 4) // W
	place(t, s, 0, 0) // B filler
	place(t, s, 2, 2) // W: the stone about to be captured, one liberty at (2,3)

	// Black captures the lone White stone at (2,2).
	events, err := ApplyMove(s, p2pgo.PlaceMove(p2pgo.Coordinate{X: 2, Y: 3}))
	if err != nil {
		t.Fatalf("expected legal capturing move, got %v", err)
	}
	capturedOne := false
	for _, e := range events {
		if e.Kind == p2pgo.EventStonesCaptured && e.CapturedCount == 1 {
			capturedOne = true
		}
	}
	if !capturedOne {
		t.Fatal("expected exactly one captured stone")
	}
	if s.Board.Occupied(p2pgo.Coordinate{X: 2, Y: 2}) {
		t.Fatal("expected (2,2) to be vacated by the capture")
	}

	// White's immediate recapture at (2,2) recreates a prior whole-board
	// position and must be rejected.
	before := s.Board.Clone()
	_, err = ApplyMove(s, p2pgo.PlaceMove(p2pgo.Coordinate{X: 2, Y: 2}))
	if err != p2pgo.ErrKoViolation {
		t.Fatalf("expected ErrKoViolation, got %v", err)
	}
	if !s.Board.Equal(before) {
		t.Fatal("board mutated by a rejected ko move")
	}

	// White plays elsewhere, Black responds, and now White's recapture
	// at (2,2) changes the whole-board position and is legal.
	place(t, s, 8, 8) // W, unrelated
	place(t, s, 8, 7) // B, unrelated
	if _, err := ApplyMove(s, p2pgo.PlaceMove(p2pgo.Coordinate{X: 2, Y: 2})); err != nil {
		t.Fatalf("expected recapture to succeed after an intervening move, got %v", err)
	}
}
