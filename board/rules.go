package board

import p2pgo "go-p2pgo"

// ApplyMove validates and applies move to state, mutating it in place on
// success. On any rule violation it returns the error and leaves state
// completely unchanged (spec.md §4.A, §8 invariant 4). The returned
// events describe what a subscriber should be told happened; GameEvent
// is deliberately free of the authoritative ScoreProof — the channel
// component computes that via the scoring package once it sees a
// termination event, since the dependency order (spec.md §2) has D use
// C, not A use C.
func ApplyMove(state *GameState, move p2pgo.Move) ([]p2pgo.GameEvent, error) {
	if state.GameOver {
		return nil, p2pgo.ErrGameAlreadyOver
	}

	switch move.Kind {
	case p2pgo.MoveResign:
		return applyResign(state, move)
	case p2pgo.MovePass:
		return applyPass(state, move)
	case p2pgo.MovePlace:
		return applyPlace(state, move)
	default:
		return nil, p2pgo.ErrOutOfRange
	}
}

func applyResign(state *GameState, move p2pgo.Move) ([]p2pgo.GameEvent, error) {
	resigner := state.Current
	state.GameOver = true
	state.Resigner = &resigner
	state.Moves = append(state.Moves, move)

	return []p2pgo.GameEvent{
		p2pgo.MoveMadeEvent(move, resigner),
		p2pgo.GameEndedEvent("resignation"),
	}, nil
}

func applyPass(state *GameState, move p2pgo.Move) ([]p2pgo.GameEvent, error) {
	mover := state.Current
	state.ConsecutivePasses++
	state.Moves = append(state.Moves, move)
	state.Current = state.Current.Opposite()

	events := []p2pgo.GameEvent{p2pgo.MoveMadeEvent(move, mover)}
	if state.ConsecutivePasses >= 2 {
		state.GameOver = true
		events = append(events, p2pgo.GameEndedEvent("two consecutive passes"))
	}
	return events, nil
}

func applyPlace(state *GameState, move p2pgo.Move) ([]p2pgo.GameEvent, error) {
	c := move.Coord
	if !state.Board.InRange(c) {
		return nil, p2pgo.ErrOutOfRange
	}
	if state.Board.Occupied(c) {
		return nil, p2pgo.ErrOccupied
	}

	mover := state.Current
	opponent := mover.Opposite()

	work := state.Board.Clone()
	work.set(c, mover)

	// Capture any adjacent opposing groups left with no liberties.
	var capturedPositions []p2pgo.Coordinate
	for _, grp := range adjacentGroupsOf(work, c, opponent) {
		_, libs := group(work, grp[0])
		if len(libs) == 0 {
			for _, s := range grp {
				work.remove(s)
				capturedPositions = append(capturedPositions, s)
			}
		}
	}

	// Suicide check: the newly placed stone's own group must have a
	// liberty after captures are resolved.
	_, ownLibs := group(work, c)
	if len(ownLibs) == 0 {
		return nil, p2pgo.ErrSuicide
	}

	// Positional superko: the resulting position, with the *next*
	// player to move, must not recur.
	next := mover.Opposite()
	hash := work.Hash(next)
	for _, h := range state.History {
		if h == hash {
			return nil, p2pgo.ErrKoViolation
		}
	}

	// Commit.
	state.Board = work
	state.History = append(state.History, hash)
	state.ConsecutivePasses = 0
	if len(capturedPositions) > 0 {
		if mover == p2pgo.Black {
			state.CapturedByBlack += len(capturedPositions)
		} else {
			state.CapturedByWhite += len(capturedPositions)
		}
	}
	state.Moves = append(state.Moves, move)
	state.Current = next

	events := []p2pgo.GameEvent{p2pgo.MoveMadeEvent(move, mover)}
	if len(capturedPositions) > 0 {
		events = append(events, p2pgo.StonesCapturedEvent(capturedPositions, opponent))
	}
	return events, nil
}

// Replay rebuilds a GameState by applying moves in order from an empty
// board, used both by callers that need to reconstruct state from a
// MoveChain and by the round-trip invariant test (spec.md §8 invariant
// 1).
func Replay(size int, moves []p2pgo.Move) (*GameState, error) {
	state := NewGame(size)
	for _, m := range moves {
		if _, err := ApplyMove(state, m); err != nil {
			return nil, err
		}
	}
	return state, nil
}
