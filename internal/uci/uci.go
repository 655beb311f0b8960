// Package uci implements the Universal Chess Interface protocol
// surface spec.md §6 names: the command loop, option handling, and
// `info`/`bestmove` reporting around an internal/search.Driver.
package uci

import (
	"bufio"
	"fmt"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/chesskit-engine/chesskit/internal/board"
	"github.com/chesskit-engine/chesskit/internal/enginestore"
	"github.com/chesskit-engine/chesskit/internal/nnue"
	"github.com/chesskit-engine/chesskit/internal/search"
	"github.com/chesskit-engine/chesskit/internal/tt"
)

// UCI implements the Universal Chess Interface protocol over the
// single-threaded search.Driver: one logical search at a time, per
// spec.md §5.
type UCI struct {
	tt       *tt.Table
	searcher *search.Searcher
	driver   *search.Driver
	evalFile string
	hashMB   int

	store *enginestore.Store

	position       *board.Position
	positionHashes []uint64

	mode search.Mode // built fresh from setoption values on every "go"

	searching     bool
	searchDone    chan struct{}
	stopRequested atomic.Bool
	deadline      *search.Deadline

	debug bool

	profileFile *os.File
}

// New creates a UCI handler with the given default hash table size in
// megabytes and an optional settings store (nil disables persistence).
func New(hashMB int, store *enginestore.Store) *UCI {
	u := &UCI{
		hashMB:   hashMB,
		store:    store,
		position: board.NewPosition(),
		mode:     search.Mode{UseMTDF: true},
	}
	if store != nil {
		if s, err := store.LoadSettings(); err == nil {
			u.mode.QuiescenceLimit = s.QuiescenceLimit
			u.mode.UseMTDF = s.UseMTDF
			u.debug = s.Debug
		}
	}
	u.rebuild(nil)
	return u
}

// rebuild replaces the table/searcher/driver, used at startup and
// whenever hash size or the NNUE evaluator changes — the Searcher
// binds both at construction time and neither is swappable in place.
func (u *UCI) rebuild(ev search.Evaluator) {
	u.tt = tt.New(u.hashMB)
	u.searcher = search.NewSearcher(u.tt, ev)
	u.searcher.SetDebug(u.debug)
	u.driver = search.NewDriver(u.searcher)
}

// LoadNNUE loads NNUE weights from path at startup, equivalent to a
// `setoption name EvalFile value path` line but callable before Run
// reads any UCI input. Errors are logged to stderr and otherwise
// ignored — a missing or mismatched weights file falls back to the
// simple evaluator rather than failing startup.
func (u *UCI) LoadNNUE(path string) {
	ev, err := nnue.NewEvaluator(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "info string failed to load NNUE weights %s: %v\n", path, err)
		return
	}
	u.evalFile = path
	u.rebuild(ev)
}

// Run starts the UCI main loop, reading commands from stdin until
// "quit". It runs on its own goroutine's stdin reader so a "stop" line
// can interrupt a search in progress, per spec.md §5's "separate input
// reader" — not a second search thread.
func (u *UCI) Run() {
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleQuit()
		case "setoption":
			u.handleSetOption(args)
		case "d":
			fmt.Println(u.position.String())
		case "perft":
			u.handlePerft(args)
		}
	}
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	fmt.Println("id name chesskit")
	fmt.Println("id author chesskit contributors")
	fmt.Println()
	fmt.Println("option name Hash type spin default 64 min 1 max 4096")
	fmt.Println("option name EvalFile type string default <empty>")
	fmt.Println("option name Depth type spin default 0 min 0 max 127")
	fmt.Println("option name QuiescentLimit type spin default 0 min 0 max 64")
	fmt.Println("option name MTDF type check default true")
	fmt.Println("option name Debug type check default false")
	fmt.Println("uciok")
}

// handleNewGame resets all search state that must not carry across
// games: killers, history, refutation tables, and the transposition
// table.
func (u *UCI) handleNewGame() {
	u.searcher.NewGame()
	u.position = board.NewPosition()
	u.positionHashes = []uint64{u.position.Hash}
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var moveStart int

	switch args[0] {
	case "startpos":
		u.position = board.NewPosition()
		moveStart = len(args)
		for i, arg := range args {
			if arg == "moves" {
				moveStart = i + 1
				break
			}
		}
	case "fen":
		fenEnd := len(args)
		for i, arg := range args[1:] {
			if arg == "moves" {
				fenEnd = i + 1
				break
			}
		}
		pos, err := board.ParseFEN(strings.Join(args[1:fenEnd], " "))
		if err != nil {
			fmt.Fprintf(os.Stderr, "info string invalid FEN: %v\n", err)
			return
		}
		u.position = pos
		moveStart = len(args)
		for i, arg := range args {
			if arg == "moves" {
				moveStart = i + 1
				break
			}
		}
	default:
		return
	}

	u.positionHashes = []uint64{u.position.Hash}

	for _, moveStr := range args[moveStart:] {
		move, err := board.ParseMove(moveStr, u.position)
		if err != nil {
			fmt.Fprintf(os.Stderr, "info string invalid move %s: %v\n", moveStr, err)
			return
		}
		u.position.MakeMove(move)
		u.positionHashes = append(u.positionHashes, u.position.Hash)
	}
}

// GoOptions holds parsed "go" command arguments.
type GoOptions struct {
	Depth     int
	Nodes     uint64
	MoveTime  time.Duration
	Infinite  bool
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
}

// handleGo starts a search with the given parameters in a background
// goroutine, so Run's stdin loop stays free to read a "stop" line.
func (u *UCI) handleGo(args []string) {
	opts := parseGoOptions(args)

	u.searcher.SetHistory(u.positionHashes)

	limits := search.Limits{
		Time:      [2]time.Duration{opts.WTime, opts.BTime},
		Inc:       [2]time.Duration{opts.WInc, opts.BInc},
		MovesToGo: opts.MovesToGo,
		MoveTime:  opts.MoveTime,
		Depth:     opts.Depth,
		Nodes:     opts.Nodes,
		Infinite:  opts.Infinite,
	}
	mode := u.mode
	if opts.Depth > 0 {
		mode.MaxDepth = opts.Depth
	}
	u.driver.Configure(mode)

	deadline := search.NewDeadline(limits, u.position.SideToMove, ply(u.positionHashes), time.Now())
	u.deadline = deadline

	u.searching = true
	u.stopRequested.Store(false)
	u.searchDone = make(chan struct{})

	pos := u.position.Copy()

	go func() {
		defer close(u.searchDone)

		bestMove, _ := u.driver.Run(pos, deadline, u.sendProgress)
		u.searching = false

		if u.store != nil {
			_ = u.store.RecordSearch(u.searcher.Nodes(), u.tt.Probes(), u.tt.Hits())
		}

		if bestMove == board.NoMove {
			fmt.Println("bestmove 0000")
			return
		}
		fmt.Printf("bestmove %s\n", bestMove.String())
	}()
}

// ply approximates the game ply from the recorded position history,
// used only to scale the deadline's moves-to-go estimate.
func ply(hashes []uint64) int {
	n := len(hashes) - 1
	if n < 0 {
		return 0
	}
	return n
}

func parseGoOptions(args []string) GoOptions {
	var opts GoOptions

	next := func(i int) (int, bool) {
		if i+1 < len(args) {
			n, _ := strconv.Atoi(args[i+1])
			return n, true
		}
		return 0, false
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if n, ok := next(i); ok {
				opts.Depth = n
				i++
			}
		case "nodes":
			if i+1 < len(args) {
				n, _ := strconv.ParseUint(args[i+1], 10, 64)
				opts.Nodes = n
				i++
			}
		case "movetime":
			if n, ok := next(i); ok {
				opts.MoveTime = time.Duration(n) * time.Millisecond
				i++
			}
		case "infinite":
			opts.Infinite = true
		case "wtime":
			if n, ok := next(i); ok {
				opts.WTime = time.Duration(n) * time.Millisecond
				i++
			}
		case "btime":
			if n, ok := next(i); ok {
				opts.BTime = time.Duration(n) * time.Millisecond
				i++
			}
		case "winc":
			if n, ok := next(i); ok {
				opts.WInc = time.Duration(n) * time.Millisecond
				i++
			}
		case "binc":
			if n, ok := next(i); ok {
				opts.BInc = time.Duration(n) * time.Millisecond
				i++
			}
		case "movestogo":
			if n, ok := next(i); ok {
				opts.MovesToGo = n
				i++
			}
		}
	}

	return opts
}

// sendProgress formats one completed iterative-deepening depth as a
// UCI "info" line.
func (u *UCI) sendProgress(p search.Progress) {
	var parts []string
	parts = append(parts, fmt.Sprintf("depth %d", p.Depth))

	switch {
	case p.Score > search.MateScore-search.MaxPly:
		mateIn := (search.MateScore - p.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	case p.Score < -search.MateScore+search.MaxPly:
		mateIn := -(search.MateScore + p.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	default:
		parts = append(parts, fmt.Sprintf("score cp %d", p.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", p.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", p.Elapsed.Milliseconds()))
	if p.Elapsed > 0 {
		nps := uint64(float64(p.Nodes) / p.Elapsed.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	parts = append(parts, fmt.Sprintf("hashfull %d", u.tt.HashFull()))

	if len(p.PV) > 0 {
		strs := make([]string, len(p.PV))
		for i, m := range p.PV {
			strs[i] = m.String()
		}
		parts = append(parts, "pv "+strings.Join(strs, " "))
	}

	fmt.Printf("info %s\n", strings.Join(parts, " "))
}

// handleStop stops the current search and blocks until it has
// finished unwinding.
func (u *UCI) handleStop() {
	if u.searching {
		u.stopRequested.Store(true)
		if u.deadline != nil {
			u.deadline.Abort()
		}
		<-u.searchDone
	}
}

// handleQuit exits the program.
func (u *UCI) handleQuit() {
	u.handleStop()
	if u.profileFile != nil {
		pprof.StopCPUProfile()
		u.profileFile.Close()
		fmt.Fprintf(os.Stderr, "info string CPU profile saved\n")
	}
	if u.store != nil {
		u.store.Close()
	}
	os.Exit(0)
}

// handleSetOption processes "setoption name X value Y" per spec.md §6:
// depth, quiescentlimit, mtdf, debug, plus the ambient Hash/EvalFile
// options every UCI engine carries.
func (u *UCI) handleSetOption(args []string) {
	var name, value string
	readingName, readingValue := false, false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName, readingValue = true, false
		case "value":
			readingName, readingValue = false, true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err == nil && mb >= 1 {
			u.hashMB = mb
			u.rebuild(u.currentEvaluator())
		}
	case "evalfile":
		u.evalFile = value
		ev, err := nnue.NewEvaluator(value)
		if err != nil {
			fmt.Fprintf(os.Stderr, "info string failed to load NNUE weights %s: %v\n", value, err)
			return
		}
		u.rebuild(ev)
	case "depth":
		depth, err := strconv.Atoi(value)
		if err == nil {
			u.mode.MaxDepth = depth
		}
	case "quiescentlimit":
		n, err := strconv.Atoi(value)
		if err == nil {
			u.mode.QuiescenceLimit = n
		}
	case "mtdf":
		u.mode.UseMTDF = strings.ToLower(value) == "true"
	case "debug":
		u.debug = strings.ToLower(value) == "true"
		u.searcher.SetDebug(u.debug)
		if u.debug {
			fmt.Fprintf(os.Stderr, "info string debug mode enabled\n")
		}
	case "cpuprofile":
		if u.profileFile != nil {
			pprof.StopCPUProfile()
			u.profileFile.Close()
			u.profileFile = nil
		}
		if value != "" && value != "stop" {
			f, err := os.Create(value)
			if err != nil {
				fmt.Fprintf(os.Stderr, "info string failed to create profile: %v\n", err)
				return
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				f.Close()
				fmt.Fprintf(os.Stderr, "info string failed to start profile: %v\n", err)
				return
			}
			u.profileFile = f
		}
	}

	u.persistSettings()
}

// currentEvaluator re-loads the NNUE evaluator from u.evalFile, or nil
// for the simple evaluator, so a Hash resize doesn't silently drop a
// previously loaded network.
func (u *UCI) currentEvaluator() search.Evaluator {
	if u.evalFile == "" {
		return nil
	}
	ev, err := nnue.NewEvaluator(u.evalFile)
	if err != nil {
		return nil
	}
	return ev
}

// persistSettings writes the current setoption values to the store,
// if one is configured.
func (u *UCI) persistSettings() {
	if u.store == nil {
		return
	}
	_ = u.store.SaveSettings(&enginestore.Settings{
		HashMB:          u.hashMB,
		QuiescenceLimit: u.mode.QuiescenceLimit,
		UseMTDF:         u.mode.UseMTDF,
		Debug:           u.debug,
		NNUEWeightsFile: u.evalFile,
	})
}

// handlePerft runs a perft test (debug command, no "go" limits).
func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}

	start := time.Now()
	nodes := perft(u.position, depth)
	elapsed := time.Since(start)

	fmt.Printf("Nodes: %d\n", nodes)
	fmt.Printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Printf("NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
}

func perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}
	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)
		undo := pos.MakeMove(move)
		if undo.Valid {
			nodes += perft(pos, depth-1)
		}
		pos.UnmakeMove(move, undo)
	}
	return nodes
}
