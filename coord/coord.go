// Package coord implements spec.md §6's human-readable coordinate text
// format: columns A-T skipping I, 1-based rows, and the "pass"/"resign"
// move keywords.
package coord

import (
	"fmt"
	"strconv"
	"strings"

	p2pgo "go-p2pgo"
)

// columnLetters are the 19 column letters in board order; "I" is
// skipped per spec.md §6 to avoid confusion with "1".
const columnLetters = "ABCDEFGHJKLMNOPQRST"

// FormatCoordinate renders a zero-indexed Coordinate as e.g. "D4".
func FormatCoordinate(c p2pgo.Coordinate) (string, error) {
	if c.X < 0 || c.X >= len(columnLetters) {
		return "", fmt.Errorf("coord: column %d out of range", c.X)
	}
	return fmt.Sprintf("%c%d", columnLetters[c.X], c.Y+1), nil
}

// ParseCoordinate parses e.g. "D4" into its zero-indexed Coordinate.
func ParseCoordinate(s string) (p2pgo.Coordinate, error) {
	if len(s) < 2 {
		return p2pgo.Coordinate{}, fmt.Errorf("coord: %q is too short", s)
	}
	col := strings.IndexByte(columnLetters, upperByte(s[0]))
	if col < 0 {
		return p2pgo.Coordinate{}, fmt.Errorf("coord: %q has an invalid column letter", s)
	}
	row, err := strconv.Atoi(s[1:])
	if err != nil || row < 1 {
		return p2pgo.Coordinate{}, fmt.Errorf("coord: %q has an invalid row", s)
	}
	return p2pgo.Coordinate{X: col, Y: row - 1}, nil
}

func upperByte(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// ParseMove parses a token into a Move: the case-insensitive keywords
// "pass" and "resign", or a coordinate naming a Place move.
func ParseMove(token string) (p2pgo.Move, error) {
	switch strings.ToLower(token) {
	case "pass":
		return p2pgo.PassMove(), nil
	case "resign":
		return p2pgo.ResignMove(), nil
	}
	c, err := ParseCoordinate(token)
	if err != nil {
		return p2pgo.Move{}, err
	}
	return p2pgo.PlaceMove(c), nil
}

// FormatMove renders a Move as the inverse of ParseMove.
func FormatMove(m p2pgo.Move) (string, error) {
	switch m.Kind {
	case p2pgo.MovePass:
		return "pass", nil
	case p2pgo.MoveResign:
		return "resign", nil
	case p2pgo.MovePlace:
		return FormatCoordinate(m.Coord)
	default:
		return "", fmt.Errorf("coord: unknown move kind %v", m.Kind)
	}
}
