// Package p2pgo holds the vocabulary shared by every component of the
// engine: colors, coordinates, events, and the score proof format. Each
// component package (board, chain, scoring, channel, lobby, node,
// consensus, snapshot) imports this package for that shared vocabulary,
// the way go-kgp's components all import its root kgp package for
// Side/Outcome/Agent; packages higher in the dependency order (scoring,
// channel, lobby, snapshot) also import the lower ones directly.
package p2pgo

import "fmt"

// Color is a stone color.
type Color bool

const (
	Black Color = false
	White Color = true
)

// Opposite returns the other color.
func (c Color) Opposite() Color {
	return !c
}

func (c Color) String() string {
	if c == Black {
		return "Black"
	}
	return "White"
}

// Coordinate is a zero-based board position.
type Coordinate struct {
	X, Y int
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// MoveKind tags a Move variant.
type MoveKind uint8

const (
	MovePlace MoveKind = iota
	MovePass
	MoveResign
)

func (k MoveKind) String() string {
	switch k {
	case MovePlace:
		return "Place"
	case MovePass:
		return "Pass"
	case MoveResign:
		return "Resign"
	default:
		return "Unknown"
	}
}

// Move is a tagged union of the three move variants a player may make.
// Coord is only meaningful when Kind == MovePlace.
type Move struct {
	Kind  MoveKind
	Coord Coordinate
}

func PlaceMove(c Coordinate) Move { return Move{Kind: MovePlace, Coord: c} }
func PassMove() Move              { return Move{Kind: MovePass} }
func ResignMove() Move            { return Move{Kind: MoveResign} }

func (m Move) String() string {
	if m.Kind == MovePlace {
		return fmt.Sprintf("Place%s", m.Coord)
	}
	return m.Kind.String()
}

// ScoringMethod selects how Scoring counts the board.
type ScoringMethod uint8

const (
	ScoringTerritory ScoringMethod = iota
	ScoringArea
	ScoringResignation
)

func (m ScoringMethod) String() string {
	switch m {
	case ScoringTerritory:
		return "territory"
	case ScoringArea:
		return "area"
	case ScoringResignation:
		return "resignation"
	default:
		return "unknown"
	}
}

// ScoreProof is a deterministic, inspectable record of a final count.
type ScoreProof struct {
	TerritoryBlack uint32        `cbor:"territory_black" json:"territory_black"`
	TerritoryWhite uint32        `cbor:"territory_white" json:"territory_white"`
	CapturesBlack  uint16        `cbor:"captures_black" json:"captures_black"`
	CapturesWhite  uint16        `cbor:"captures_white" json:"captures_white"`
	Komi           float32       `cbor:"komi" json:"komi"`
	FinalScore     float32       `cbor:"final_score" json:"final_score"`
	Method         ScoringMethod `cbor:"method" json:"method"`
}

// Winner returns Black, White, or reports a draw.
func (p ScoreProof) Winner() (c Color, draw bool) {
	switch {
	case p.FinalScore > 0:
		return Black, false
	case p.FinalScore < 0:
		return White, false
	default:
		return Black, true
	}
}

// DefaultKomi returns the standard compensation for White by board size.
func DefaultKomi(boardSize int) float32 {
	switch boardSize {
	case 9:
		return 5.5
	case 13:
		return 6.5
	default:
		return 7.5
	}
}

// GameInfo is a lobby-level summary of a game.
type GameInfo struct {
	GameID    string `cbor:"gid" json:"gid"`
	BoardSize int    `cbor:"size" json:"size"`
	Host      string `cbor:"host" json:"host"`
	Started   int64  `cbor:"started" json:"started"`
	Bot       bool   `cbor:"bot" json:"bot"`
}

// GameEventKind tags a GameEvent variant.
type GameEventKind uint8

const (
	EventMoveMade GameEventKind = iota
	EventStonesCaptured
	EventGameFinished
	EventGameEnded
)

// GameEvent is a tagged union of the observable side effects a channel
// emits to its local subscribers.
type GameEvent struct {
	Kind GameEventKind

	// EventMoveMade
	Move Move
	By   Color

	// EventStonesCaptured
	CapturedCount     int
	CapturedPositions []Coordinate
	CapturedColor     Color

	// EventGameFinished / EventGameEnded
	BlackScore float32
	WhiteScore float32
	Proof      *ScoreProof
	Reason     string
}

func MoveMadeEvent(m Move, by Color) GameEvent {
	return GameEvent{Kind: EventMoveMade, Move: m, By: by}
}

func StonesCapturedEvent(positions []Coordinate, capturedColor Color) GameEvent {
	return GameEvent{
		Kind:              EventStonesCaptured,
		CapturedCount:     len(positions),
		CapturedPositions: positions,
		CapturedColor:     capturedColor,
	}
}

func GameFinishedEvent(proof ScoreProof) GameEvent {
	return GameEvent{
		Kind:       EventGameFinished,
		BlackScore: float32(proof.TerritoryBlack) + float32(proof.CapturesBlack),
		WhiteScore: float32(proof.TerritoryWhite) + float32(proof.CapturesWhite) + proof.Komi,
		Proof:      &proof,
	}
}

func GameEndedEvent(reason string) GameEvent {
	return GameEvent{Kind: EventGameEnded, Reason: reason}
}
