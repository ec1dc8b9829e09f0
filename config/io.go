package config

import (
	"io"
	"os"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Load decodes TOML from r and layers it over Default(), the same
// "decode into an internal struct, then project onto the public
// defaults" two-step the teacher's conf.load does.
func Load(r io.Reader) (Config, error) {
	var data tomlConfig
	if _, err := toml.NewDecoder(r).Decode(&data); err != nil {
		return Config{}, err
	}
	return Default().applyOverrides(data), nil
}

// LoadFile opens path and decodes it with Load; a missing file is not
// an error — it returns Default() unchanged, since a config file is
// optional per spec.md §6's "platform-appropriate conventions" note.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, err
	}
	defer f.Close()
	return Load(f)
}

// defaultLogDir follows spec.md §6's environment conventions: macOS
// gets the standard Library/Logs path, every other platform gets
// ./logs.
func defaultLogDir() string {
	if runtime.GOOS == "darwin" {
		if home, err := os.UserHomeDir(); err == nil {
			return home + "/Library/Logs/p2pgo-cli"
		}
	}
	return "./logs"
}

// defaultIdentityFile mirrors defaultLogDir's platform convention so a
// node's keypair survives restarts even with no config file present.
func defaultIdentityFile() string {
	if runtime.GOOS == "darwin" {
		if home, err := os.UserHomeDir(); err == nil {
			return home + "/Library/Application Support/p2pgo-cli/identity.key"
		}
	}
	return "./identity.key"
}
