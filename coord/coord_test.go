package coord

import (
	"testing"

	p2pgo "go-p2pgo"
)

func TestCoordinateRoundTrip(t *testing.T) {
	cases := []struct {
		text string
		c    p2pgo.Coordinate
	}{
		{"A1", p2pgo.Coordinate{X: 0, Y: 0}},
		{"H1", p2pgo.Coordinate{X: 7, Y: 0}},
		{"J1", p2pgo.Coordinate{X: 8, Y: 0}}, // I is skipped
		{"T19", p2pgo.Coordinate{X: 18, Y: 18}},
	}
	for _, tc := range cases {
		got, err := ParseCoordinate(tc.text)
		if err != nil {
			t.Fatalf("ParseCoordinate(%q): %v", tc.text, err)
		}
		if got != tc.c {
			t.Fatalf("ParseCoordinate(%q) = %+v, want %+v", tc.text, got, tc.c)
		}
		text, err := FormatCoordinate(tc.c)
		if err != nil {
			t.Fatal(err)
		}
		if text != tc.text {
			t.Fatalf("FormatCoordinate(%+v) = %q, want %q", tc.c, text, tc.text)
		}
	}
}

func TestParseMoveKeywordsCaseInsensitive(t *testing.T) {
	for _, token := range []string{"pass", "PASS", "Pass"} {
		m, err := ParseMove(token)
		if err != nil || m.Kind != p2pgo.MovePass {
			t.Fatalf("ParseMove(%q) = %+v, %v", token, m, err)
		}
	}
	for _, token := range []string{"resign", "RESIGN"} {
		m, err := ParseMove(token)
		if err != nil || m.Kind != p2pgo.MoveResign {
			t.Fatalf("ParseMove(%q) = %+v, %v", token, m, err)
		}
	}
}

func TestParseCoordinateRejectsI(t *testing.T) {
	if _, err := ParseCoordinate("I5"); err == nil {
		t.Fatal("expected the letter I to be rejected")
	}
}
