package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadAppliesOverridesOntoDefaults(t *testing.T) {
	r := strings.NewReader(`
debug = true

[game]
board_size = 13
komi = 6.5

[snapshot]
every_moves = 5

[timeouts]
ack_seconds = 1
`)
	cfg, err := Load(r)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Fatal("expected debug to be overridden to true")
	}
	if cfg.BoardSize != 13 || cfg.Komi != 6.5 {
		t.Fatalf("expected board_size=13 komi=6.5, got %d %v", cfg.BoardSize, cfg.Komi)
	}
	if cfg.SnapshotEvery != 5 {
		t.Fatalf("expected snapshot_every=5, got %d", cfg.SnapshotEvery)
	}
	if cfg.AckTimeout != time.Second {
		t.Fatalf("expected ack_timeout=1s, got %v", cfg.AckTimeout)
	}
	// Values left unset in the file fall through to Default().
	if cfg.ScoreAcceptTimeout != 180*time.Second {
		t.Fatalf("expected default score acceptance timeout, got %v", cfg.ScoreAcceptTimeout)
	}
}

func TestLoadFileMissingFallsBackToDefault(t *testing.T) {
	cfg, err := LoadFile("/nonexistent/path/to/config.toml")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BoardSize != Default().BoardSize {
		t.Fatalf("expected default board size, got %d", cfg.BoardSize)
	}
}
