package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadValidFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chesskit.toml")
	contents := `
hash_mb = 256
depth = 12
use_mtdf = false
debug = true
nnue_weights_file = "weights.bin"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 256, cfg.HashMB)
	require.Equal(t, 12, cfg.Depth)
	require.False(t, cfg.UseMTDF)
	require.True(t, cfg.Debug)
	require.Equal(t, "weights.bin", cfg.NNUEWeightsFile)
}

func TestLoadMalformedFileReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chesskit.toml")
	require.NoError(t, os.WriteFile(path, []byte("this is not valid toml::::"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}
