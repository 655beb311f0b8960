// Command chesskit-uci is the UCI front end over the search engine:
// it loads an optional chesskit.toml startup config, opens the
// engine-settings store, and runs the UCI command loop on stdin/stdout.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"

	"github.com/chesskit-engine/chesskit/internal/config"
	"github.com/chesskit-engine/chesskit/internal/enginestore"
	"github.com/chesskit-engine/chesskit/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	configFile = flag.String("config", "chesskit.toml", "path to optional TOML config file")
)

func main() {
	flag.Parse()

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Printf("warning: %s: %v (using built-in defaults)", *configFile, err)
	}

	store, err := enginestore.Open()
	if err != nil {
		log.Printf("warning: engine settings store unavailable: %v", err)
		store = nil
	}

	hashMB := cfg.HashMB
	if store != nil {
		if settings, err := store.LoadSettings(); err == nil && settings.HashMB > 0 {
			hashMB = settings.HashMB
		}
	}

	protocol := uci.New(hashMB, store)

	if cfg.NNUEWeightsFile != "" {
		if path, err := resolveWeightsPath(cfg.NNUEWeightsFile); err == nil {
			protocol.LoadNNUE(path)
		}
	}

	protocol.Run()
}

// resolveWeightsPath resolves a configured NNUE weights file path,
// falling back to the engine's own data directory if the given path
// does not exist as given.
func resolveWeightsPath(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	dataDir, err := enginestore.DataDir()
	if err != nil {
		return "", err
	}
	candidate := filepath.Join(dataDir, "nnue", path)
	if _, err := os.Stat(candidate); err != nil {
		return "", err
	}
	return candidate, nil
}
