package enginestore

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	require.Equal(t, 64, s.HashMB)
	require.True(t, s.UseMTDF)
}

func TestStatsHitRate(t *testing.T) {
	s := &Stats{}
	require.Equal(t, 0.0, s.HitRate())

	s.TTProbes = 200
	s.TTHits = 50
	require.Equal(t, 0.25, s.HitRate())
}

func TestDataDirIsCreated(t *testing.T) {
	dataDir, err := DataDir()
	require.NoError(t, err)
	require.NotEmpty(t, dataDir)

	info, err := os.Stat(dataDir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestOpenSaveLoadSettingsRoundTrip(t *testing.T) {
	store, err := Open()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	settings := DefaultSettings()
	settings.HashMB = 128
	settings.Debug = true
	require.NoError(t, store.SaveSettings(settings))

	loaded, err := store.LoadSettings()
	require.NoError(t, err)
	require.Equal(t, 128, loaded.HashMB)
	require.True(t, loaded.Debug)
}

func TestRecordSearchAccumulates(t *testing.T) {
	store, err := Open()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	before, err := store.LoadStats()
	require.NoError(t, err)

	require.NoError(t, store.RecordSearch(1000, 500, 200))

	after, err := store.LoadStats()
	require.NoError(t, err)

	require.Equal(t, before.Searches+1, after.Searches)
	require.Equal(t, before.TotalNodes+1000, after.TotalNodes)
	require.Equal(t, before.TTProbes+500, after.TTProbes)
	require.Equal(t, before.TTHits+200, after.TTHits)
}
