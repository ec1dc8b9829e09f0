// Package config is this system's configuration layer, adapted from
// the teacher's conf package: an internal TOML-tagged struct decoded
// with github.com/BurntSushi/toml, translated into a public Config
// with the defaults and types the rest of the program actually wants
// (time.Duration instead of raw seconds, and so on).
package config

import (
	"time"
)

// tomlConfig is the on-disk TOML shape.
type tomlConfig struct {
	Debug bool `toml:"debug"`
	Node  struct {
		IdentityFile string `toml:"identity_file"`
		LogDir       string `toml:"log_dir"`
		Relay        string `toml:"relay"` // "default", "custom", "self"
		RelayAddrs   []string `toml:"relay_addrs"`
	} `toml:"node"`
	Game struct {
		BoardSize int     `toml:"board_size"`
		Komi      float32 `toml:"komi"`
	} `toml:"game"`
	Snapshot struct {
		Dir           string `toml:"dir"`
		EveryMoves    int    `toml:"every_moves"`
		EverySeconds  int    `toml:"every_seconds"`
	} `toml:"snapshot"`
	Timeouts struct {
		AckSeconds            int `toml:"ack_seconds"`
		ScoreAcceptanceSeconds int `toml:"score_acceptance_seconds"`
	} `toml:"timeouts"`
}

// Config is the program-wide, ready-to-use configuration.
type Config struct {
	Debug bool

	IdentityFile string
	LogDir       string
	RelayMode    string
	RelayAddrs   []string

	BoardSize int
	Komi      float32

	SnapshotDir    string
	SnapshotEvery  int
	SnapshotPeriod time.Duration

	AckTimeout     time.Duration
	ScoreAcceptTimeout time.Duration
}

// Default returns the configuration used when no file is present,
// mirroring the teacher's defaultConfig package-level value.
func Default() Config {
	return Config{
		IdentityFile:       defaultIdentityFile(),
		LogDir:             defaultLogDir(),
		RelayMode:          "default",
		BoardSize:          19,
		Komi:               7.5,
		SnapshotDir:        "./snapshots",
		SnapshotEvery:      10,
		SnapshotPeriod:     30 * time.Second,
		AckTimeout:         3 * time.Second,
		ScoreAcceptTimeout: 180 * time.Second,
	}
}

func (c Config) applyOverrides(t tomlConfig) Config {
	if t.Debug {
		c.Debug = true
	}
	if t.Node.IdentityFile != "" {
		c.IdentityFile = t.Node.IdentityFile
	}
	if t.Node.LogDir != "" {
		c.LogDir = t.Node.LogDir
	}
	if t.Node.Relay != "" {
		c.RelayMode = t.Node.Relay
	}
	if len(t.Node.RelayAddrs) > 0 {
		c.RelayAddrs = t.Node.RelayAddrs
	}
	if t.Game.BoardSize != 0 {
		c.BoardSize = t.Game.BoardSize
	}
	if t.Game.Komi != 0 {
		c.Komi = t.Game.Komi
	}
	if t.Snapshot.Dir != "" {
		c.SnapshotDir = t.Snapshot.Dir
	}
	if t.Snapshot.EveryMoves != 0 {
		c.SnapshotEvery = t.Snapshot.EveryMoves
	}
	if t.Snapshot.EverySeconds != 0 {
		c.SnapshotPeriod = time.Duration(t.Snapshot.EverySeconds) * time.Second
	}
	if t.Timeouts.AckSeconds != 0 {
		c.AckTimeout = time.Duration(t.Timeouts.AckSeconds) * time.Second
	}
	if t.Timeouts.ScoreAcceptanceSeconds != 0 {
		c.ScoreAcceptTimeout = time.Duration(t.Timeouts.ScoreAcceptanceSeconds) * time.Second
	}
	return c
}
