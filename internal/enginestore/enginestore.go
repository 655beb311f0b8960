// Package enginestore persists engine-level setoption values and
// lifetime search statistics across chesskit-uci process restarts,
// using the same embedded-badger pattern the teacher's internal/
// storage package used for GUI preferences.
package enginestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const appName = "chesskit"

const (
	keySettings = "settings"
	keyStats    = "stats"
)

// Settings mirrors the setoption values spec.md §6 names: the engine's
// search configuration, persisted so the next process start resumes
// with the operator's last choices rather than hardcoded defaults.
// NNUEWeightsFile is recorded but not read back at startup:
// cmd/chesskit-uci takes the weights path from chesskit.toml.
type Settings struct {
	HashMB          int       `json:"hash_mb"`
	QuiescenceLimit int       `json:"quiescence_limit"`
	UseMTDF         bool      `json:"use_mtdf"`
	Debug           bool      `json:"debug"`
	NNUEWeightsFile string    `json:"nnue_weights_file"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DefaultSettings returns the engine's built-in settings, used when no
// store entry exists yet.
func DefaultSettings() *Settings {
	return &Settings{
		HashMB:  64,
		UseMTDF: true,
	}
}

// Stats tracks lifetime search totals across every search this process
// (and its predecessors, via the store) has run.
type Stats struct {
	Searches   uint64 `json:"searches"`
	TotalNodes uint64 `json:"total_nodes"`
	TTHits     uint64 `json:"tt_hits"`
	TTProbes   uint64 `json:"tt_probes"`
}

// HitRate returns the lifetime transposition-table hit rate as a
// fraction in [0, 1].
func (s *Stats) HitRate() float64 {
	if s.TTProbes == 0 {
		return 0
	}
	return float64(s.TTHits) / float64(s.TTProbes)
}

// Store wraps a BadgerDB instance holding Settings and Stats.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) the store's database directory.
func Open() (*Store, error) {
	dir, err := DatabaseDir()
	if err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("enginestore: open %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// LoadSettings loads persisted settings, or DefaultSettings if none
// have been saved yet.
func (s *Store) LoadSettings() (*Settings, error) {
	settings := DefaultSettings()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keySettings))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, settings)
		})
	})

	return settings, err
}

// SaveSettings persists settings, stamping UpdatedAt.
func (s *Store) SaveSettings(settings *Settings) error {
	settings.UpdatedAt = time.Now()

	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keySettings), data)
	})
}

// LoadStats loads persisted lifetime stats, or a zero Stats if none
// exist yet.
func (s *Store) LoadStats() (*Stats, error) {
	stats := &Stats{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyStats))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})

	return stats, err
}

// RecordSearch adds one completed search's node and TT-probe/hit
// counts to the lifetime totals and persists the result.
func (s *Store) RecordSearch(nodes, ttProbes, ttHits uint64) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.Searches++
	stats.TotalNodes += nodes
	stats.TTProbes += ttProbes
	stats.TTHits += ttHits

	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyStats), data)
	})
}

// DataDir returns the platform-specific data directory for the
// engine, creating it if necessary.
func DataDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(home, "Library", "Application Support")

	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(home, "AppData", "Roaming")
		}

	default:
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(home, ".local", "share")
		}
	}

	dataDir := filepath.Join(baseDir, appName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// DatabaseDir returns the directory holding the BadgerDB files,
// creating it if necessary.
func DatabaseDir() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	dbDir := filepath.Join(dataDir, "db")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}
	return dbDir, nil
}
