// Package config loads the engine's optional startup configuration
// file (chesskit.toml), grounded on the TOML-based settings file
// TermChess reads at startup. cmd/chesskit-uci applies only HashMB and
// NNUEWeightsFile from it; the other fields are parsed but not applied.
// MoveTimeMS has no UCI setoption counterpart.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the engine's startup defaults.
type Config struct {
	HashMB          int    `toml:"hash_mb"`
	Depth           int    `toml:"depth"`
	MoveTimeMS      int    `toml:"move_time_ms"`
	QuiescenceLimit int    `toml:"quiescence_limit"`
	UseMTDF         bool   `toml:"use_mtdf"`
	Debug           bool   `toml:"debug"`
	NNUEWeightsFile string `toml:"nnue_weights_file"`
}

// Default returns the engine's built-in defaults, used when no config
// file is present or it fails to parse.
func Default() Config {
	return Config{
		HashMB:          64,
		Depth:           0,
		MoveTimeMS:      0,
		QuiescenceLimit: 0,
		UseMTDF:         true,
	}
}

// Load reads path as a TOML config file, filling in Default() for any
// field a parse error or missing file leaves unset. Load never returns
// an error for a missing file — an absent chesskit.toml simply means
// "use the defaults" — but does report a malformed one, so a typo in
// the file doesn't silently fall back.
func Load(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Default(), err
	}

	return cfg, nil
}
