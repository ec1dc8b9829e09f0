package scoring

import (
	"testing"

	brd "go-p2pgo/board"

	p2pgo "go-p2pgo"
)

// TestSingleStoneTerritoryScenario is spec.md §8 Scenario 3: on 9x9 with
// only a single Black stone at E5 (zero-indexed (4,4)) and both players
// passing, the territory method awards all 80 empty points to Black, so
// Black wins by 80 minus the 9x9 komi.
func TestSingleStoneTerritoryScenario(t *testing.T) {
	state := brd.NewGame(9)
	if _, err := brd.ApplyMove(state, p2pgo.PlaceMove(p2pgo.Coordinate{X: 4, Y: 4})); err != nil {
		t.Fatal(err)
	}
	if _, err := brd.ApplyMove(state, p2pgo.PassMove()); err != nil {
		t.Fatal(err)
	}
	if _, err := brd.ApplyMove(state, p2pgo.PassMove()); err != nil {
		t.Fatal(err)
	}
	if !state.GameOver {
		t.Fatal("expected game over after two passes")
	}

	komi := p2pgo.DefaultKomi(9)
	proof := Score(state, nil, komi, p2pgo.ScoringTerritory)

	// The whole empty board is one connected region bordered solely by
	// Black (the single stone touches every empty point transitively
	// through the flood fill), so all 80 empty points are Black
	// territory; White's total is komi alone.
	wantBlack := float32(80)
	wantWhite := komi
	if proof.FinalScore != wantBlack-wantWhite {
		t.Fatalf("final score = %v, want %v", proof.FinalScore, wantBlack-wantWhite)
	}
	if proof.FinalScore <= 0 {
		t.Fatalf("expected a positive (black-favoring) margin before komi dominates; got %v", proof.FinalScore)
	}
}

func TestScoringDeterministic(t *testing.T) {
	state := brd.NewGame(9)
	brd.ApplyMove(state, p2pgo.PlaceMove(p2pgo.Coordinate{X: 2, Y: 2}))
	brd.ApplyMove(state, p2pgo.PlaceMove(p2pgo.Coordinate{X: 6, Y: 6}))

	komi := p2pgo.DefaultKomi(9)
	a := Score(state, nil, komi, p2pgo.ScoringTerritory)
	b := Score(state, nil, komi, p2pgo.ScoringTerritory)
	if a != b {
		t.Fatalf("expected byte-identical proofs, got %+v vs %+v", a, b)
	}
}

func TestFinalScoreSignMatchesWinner(t *testing.T) {
	state := brd.NewGame(9)
	// Black stones spread out to dominate most of the board.
	for _, c := range []p2pgo.Coordinate{{X: 1, Y: 1}, {X: 1, Y: 7}, {X: 7, Y: 1}, {X: 7, Y: 7}, {X: 4, Y: 4}} {
		if _, err := brd.ApplyMove(state, p2pgo.PlaceMove(c)); err != nil {
			t.Fatal(err)
		}
		if _, err := brd.ApplyMove(state, p2pgo.PassMove()); err != nil {
			t.Fatal(err)
		}
	}
	proof := Score(state, nil, p2pgo.DefaultKomi(9), p2pgo.ScoringTerritory)
	winner, draw := proof.Winner()
	if draw || winner != p2pgo.Black {
		t.Fatalf("expected black to win a dominated board, got winner=%v draw=%v score=%v", winner, draw, proof.FinalScore)
	}
}

func TestResignationProofSign(t *testing.T) {
	state := brd.NewGame(9)
	if _, err := brd.ApplyMove(state, p2pgo.ResignMove()); err != nil {
		t.Fatal(err)
	}
	proof := Score(state, nil, p2pgo.DefaultKomi(9), p2pgo.ScoringResignation)
	winner, draw := proof.Winner()
	if draw || winner != p2pgo.White {
		t.Fatalf("expected white to win on black's resignation, got winner=%v draw=%v", winner, draw)
	}
}

func TestDeadStoneRemoval(t *testing.T) {
	state := brd.NewGame(9)
	dead := p2pgo.Coordinate{X: 0, Y: 0}
	if _, err := brd.ApplyMove(state, p2pgo.PlaceMove(dead)); err != nil {
		t.Fatal(err)
	}
	if _, err := brd.ApplyMove(state, p2pgo.PlaceMove(p2pgo.Coordinate{X: 8, Y: 8})); err != nil {
		t.Fatal(err)
	}
	if _, err := brd.ApplyMove(state, p2pgo.PassMove()); err != nil {
		t.Fatal(err)
	}
	if _, err := brd.ApplyMove(state, p2pgo.PassMove()); err != nil {
		t.Fatal(err)
	}

	// With both stones alive, the open board borders both colors and is
	// neutral - neither side owns any territory yet.
	withStone := Score(state, nil, 0, p2pgo.ScoringTerritory)
	if withStone.TerritoryBlack != 0 || withStone.TerritoryWhite != 0 {
		t.Fatalf("expected a neutral, mixed-border empty region, got %+v", withStone)
	}

	// Marking Black's stone dead leaves White as the only stone on the
	// board; the whole remaining empty region borders White alone.
	withDead := Score(state, map[p2pgo.Coordinate]bool{dead: true}, 0, p2pgo.ScoringTerritory)
	if withDead.TerritoryBlack != 0 || withDead.TerritoryWhite == 0 {
		t.Fatalf("expected marking the stone dead to hand the whole board to white, got %+v", withDead)
	}
}
