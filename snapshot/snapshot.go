// Package snapshot implements spec.md §4.H: periodic, crash-safe
// persistence of a game's GameState to disk.
//
// The atomic-write-then-rename discipline, with a copy-verify-delete
// fallback when rename isn't atomic (e.g. across filesystems), is
// grounded on the teacher's conf/io.go load/dump-to-disk pattern and
// db/db.go's transactional-write discipline, generalized here from
// config/SQL payloads to a whole-GameState CBOR blob.
package snapshot

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"

	brd "go-p2pgo/board"

	p2pgo "go-p2pgo"
)

// stonePosition is one occupied point, exported for CBOR encoding since
// board.Board keeps its cell map private.
type stonePosition struct {
	X, Y  int
	Color p2pgo.Color
}

// document is the on-disk canonical form of a GameState.
type document struct {
	BoardSize         int
	Stones            []stonePosition
	Current           p2pgo.Color
	CapturedByBlack   int
	CapturedByWhite   int
	Moves             []p2pgo.Move
	ConsecutivePasses int
	GameOver          bool
	Resigner          *p2pgo.Color
	History           [][]byte
}

func toDocument(state *brd.GameState) document {
	doc := document{
		BoardSize:         state.Board.Size,
		Current:           state.Current,
		CapturedByBlack:   state.CapturedByBlack,
		CapturedByWhite:   state.CapturedByWhite,
		Moves:             state.Moves,
		ConsecutivePasses: state.ConsecutivePasses,
		GameOver:          state.GameOver,
		Resigner:          state.Resigner,
	}
	for y := 0; y < state.Board.Size; y++ {
		for x := 0; x < state.Board.Size; x++ {
			c := p2pgo.Coordinate{X: x, Y: y}
			if col, ok := state.Board.At(c); ok {
				doc.Stones = append(doc.Stones, stonePosition{X: x, Y: y, Color: col})
			}
		}
	}
	for _, h := range state.History {
		doc.History = append(doc.History, append([]byte(nil), h[:]...))
	}
	return doc
}

// toGameState restores the board directly from its recorded stones
// rather than replaying doc.Moves through the rules engine, since a
// snapshot's whole point is to skip re-deriving state from history.
func (doc document) toGameState() (*brd.GameState, error) {
	state := brd.NewGame(doc.BoardSize)
	for _, s := range doc.Stones {
		state.Board.PlaceRaw(p2pgo.Coordinate{X: s.X, Y: s.Y}, s.Color)
	}
	state.Current = doc.Current
	state.CapturedByBlack = doc.CapturedByBlack
	state.CapturedByWhite = doc.CapturedByWhite
	state.Moves = doc.Moves
	state.ConsecutivePasses = doc.ConsecutivePasses
	state.GameOver = doc.GameOver
	state.Resigner = doc.Resigner
	for _, h := range doc.History {
		if len(h) != 32 {
			return nil, fmt.Errorf("snapshot: corrupt history hash length %d", len(h))
		}
		var arr [32]byte
		copy(arr[:], h)
		state.History = append(state.History, arr)
	}
	return state, nil
}

// Store persists GameStates under dir, one file per game ID.
type Store struct {
	dir string
}

// New returns a Store rooted at dir, creating it if necessary.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: create directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(gameID string) string {
	return filepath.Join(s.dir, gameID+".snapshot")
}

// Save writes state for gameID via write-temp-then-rename, falling
// back to copy-verify-size-then-delete-source if the rename fails
// (e.g. the temp file and destination are on different filesystems),
// per spec.md §4.H.
func (s *Store) Save(gameID string, state *brd.GameState) error {
	raw, err := cbor.Marshal(toDocument(state))
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}

	final := s.path(gameID)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("snapshot: write temp file: %w", err)
	}

	if err := os.Rename(tmp, final); err == nil {
		return nil
	}

	if err := copyThenVerifyThenDelete(tmp, final); err != nil {
		return fmt.Errorf("snapshot: fallback copy after failed rename: %w", err)
	}
	return nil
}

func copyThenVerifyThenDelete(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if n != srcInfo.Size() {
		return fmt.Errorf("copied %d bytes, expected %d", n, srcInfo.Size())
	}
	return os.Remove(src)
}

// Load reads back gameID's most recent snapshot.
func (s *Store) Load(gameID string) (*brd.GameState, error) {
	raw, err := os.ReadFile(s.path(gameID))
	if err != nil {
		return nil, fmt.Errorf("snapshot: read: %w", err)
	}
	var doc document
	if err := cbor.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	return doc.toGameState()
}
