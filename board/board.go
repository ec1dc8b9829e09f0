// Package board implements the immutable-in-spirit Go board: dimension,
// stone placement, and the four-connected adjacency the rules engine
// needs for liberties and capture.
//
// The map-based representation (rather than a bitboard) is grounded on
// the capture/suicide/ko *algorithm* of a Go-playing engine in the
// retrieval pack (other_examples/skybrian-Gongo/robot.go), adapted from
// its fixed-stride array to a plain coordinate map — the idiomatic Go
// shape for a sparse, resizable grid, matching the teacher's own
// Board type (go-kgp's board.go) in spirit: a small value type with
// query/mutate methods and a String() for debugging.
package board

import (
	"bytes"

	p2pgo "go-p2pgo"
)

// Board is a fixed-size 4-connected grid of optional stones.
type Board struct {
	Size  int
	cells map[p2pgo.Coordinate]p2pgo.Color
}

// New returns an empty board of the given extent (9, 13, or 19).
func New(size int) *Board {
	return &Board{
		Size:  size,
		cells: make(map[p2pgo.Coordinate]p2pgo.Color),
	}
}

// InRange reports whether c lies on the board.
func (b *Board) InRange(c p2pgo.Coordinate) bool {
	return c.X >= 0 && c.X < b.Size && c.Y >= 0 && c.Y < b.Size
}

// At returns the stone at c, if any.
func (b *Board) At(c p2pgo.Coordinate) (p2pgo.Color, bool) {
	col, ok := b.cells[c]
	return col, ok
}

// Occupied reports whether c carries a stone.
func (b *Board) Occupied(c p2pgo.Coordinate) bool {
	_, ok := b.cells[c]
	return ok
}

// Count returns the total number of stones on the board.
func (b *Board) Count() int {
	return len(b.cells)
}

func (b *Board) set(c p2pgo.Coordinate, col p2pgo.Color) {
	b.cells[c] = col
}

func (b *Board) remove(c p2pgo.Coordinate) {
	delete(b.cells, c)
}

// PlaceRaw sets a stone at c without any rule checking. Used only by
// snapshot restoration, which reconstructs an exact prior board from
// its recorded stones rather than replaying moves through ApplyMove.
func (b *Board) PlaceRaw(c p2pgo.Coordinate, col p2pgo.Color) {
	b.set(c, col)
}

// Remove takes a stone off the board, if present. Used by scoring to
// treat dead-stone coordinates as empty before flood-filling territory.
func (b *Board) Remove(c p2pgo.Coordinate) {
	b.remove(c)
}

// Clone returns an independent deep copy.
func (b *Board) Clone() *Board {
	nb := &Board{Size: b.Size, cells: make(map[p2pgo.Coordinate]p2pgo.Color, len(b.cells))}
	for c, col := range b.cells {
		nb.cells[c] = col
	}
	return nb
}

// Neighbors returns the up to four in-range points adjacent to c.
func (b *Board) Neighbors(c p2pgo.Coordinate) []p2pgo.Coordinate {
	cand := [4]p2pgo.Coordinate{
		{X: c.X - 1, Y: c.Y},
		{X: c.X + 1, Y: c.Y},
		{X: c.X, Y: c.Y - 1},
		{X: c.X, Y: c.Y + 1},
	}
	out := make([]p2pgo.Coordinate, 0, 4)
	for _, n := range cand {
		if b.InRange(n) {
			out = append(out, n)
		}
	}
	return out
}

// Equal reports whether two boards carry the same stones on the same size.
func (b *Board) Equal(o *Board) bool {
	if b.Size != o.Size || len(b.cells) != len(o.cells) {
		return false
	}
	for c, col := range b.cells {
		oc, ok := o.cells[c]
		if !ok || oc != col {
			return false
		}
	}
	return true
}

// Hash returns a collision-resistant digest of the board laid out
// row-major plus a trailing side-to-move byte, as required by spec.md
// §4.A for positional superko detection.
func (b *Board) Hash(sideToMove p2pgo.Color) [32]byte {
	var buf bytes.Buffer
	buf.Grow(b.Size*b.Size + 1)
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			col, ok := b.cells[p2pgo.Coordinate{X: x, Y: y}]
			switch {
			case !ok:
				buf.WriteByte(0)
			case col == p2pgo.Black:
				buf.WriteByte(1)
			default:
				buf.WriteByte(2)
			}
		}
	}
	if sideToMove == p2pgo.Black {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(2)
	}
	return canonicalHash(buf.Bytes())
}

func (b *Board) String() string {
	var buf bytes.Buffer
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			col, ok := b.cells[p2pgo.Coordinate{X: x, Y: y}]
			switch {
			case !ok:
				buf.WriteByte('.')
			case col == p2pgo.Black:
				buf.WriteByte('B')
			default:
				buf.WriteByte('W')
			}
		}
		if y != b.Size-1 {
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

// group performs a four-connected flood fill from start, returning every
// stone in its group and the set of empty points adjacent to the group
// (its liberties). start must be occupied.
func group(b *Board, start p2pgo.Coordinate) (stones []p2pgo.Coordinate, liberties map[p2pgo.Coordinate]bool) {
	color, ok := b.At(start)
	if !ok {
		return nil, nil
	}
	visited := map[p2pgo.Coordinate]bool{start: true}
	liberties = make(map[p2pgo.Coordinate]bool)
	queue := []p2pgo.Coordinate{start}
	stones = append(stones, start)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range b.Neighbors(cur) {
			nc, occ := b.At(n)
			if !occ {
				liberties[n] = true
				continue
			}
			if nc != color || visited[n] {
				continue
			}
			visited[n] = true
			stones = append(stones, n)
			queue = append(queue, n)
		}
	}
	return stones, liberties
}

// adjacentGroupsOf returns the distinct groups of color adjacent to c,
// deduplicated by group membership.
func adjacentGroupsOf(b *Board, c p2pgo.Coordinate, color p2pgo.Color) [][]p2pgo.Coordinate {
	seen := make(map[p2pgo.Coordinate]bool)
	var groups [][]p2pgo.Coordinate
	for _, n := range b.Neighbors(c) {
		nc, ok := b.At(n)
		if !ok || nc != color || seen[n] {
			continue
		}
		stones, _ := group(b, n)
		for _, s := range stones {
			seen[s] = true
		}
		groups = append(groups, stones)
	}
	return groups
}

func canonicalHash(data []byte) [32]byte {
	return sha256Sum(data)
}
