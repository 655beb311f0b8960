package search

import (
	"time"

	"github.com/chesskit-engine/chesskit/internal/board"
	"github.com/chesskit-engine/chesskit/internal/eval"
)

// Mode configures one Driver run: which driver features are active and
// how deep/wide it is allowed to go. A Mode is typically built once
// from UCI setoption/go parameters and reused across a game.
type Mode struct {
	UseMTDF         bool // false runs a plain full-window iterative-deepening search
	WindowWidth     int  // MTD(f) zero-width step W; 0 defaults to 25 centipawns
	MaxDepth        int  // 0 means MaxPly-1
	QuiescenceLimit int  // 0 uses the Searcher's default
	HardDeadline    bool // true returns as soon as the maximum deadline passes; false finishes the current depth
}

// Progress is reported once per completed iterative-deepening depth,
// in a shape the UCI collaborator can format directly into `info`
// lines.
type Progress struct {
	Depth   int
	Score   int
	Nodes   uint64
	PV      []board.Move
	Elapsed time.Duration
}

// ProgressFunc receives one Progress per completed depth.
type ProgressFunc func(Progress)

// Driver runs the top-level iterative-deepening (optionally MTD(f))
// loop over a Searcher.
type Driver struct {
	searcher *Searcher
	mode     Mode
}

// NewDriver creates a Driver over searcher, configured with the zero
// Mode (plain iterative deepening, no MTD(f), no depth cap).
func NewDriver(searcher *Searcher) *Driver {
	return &Driver{searcher: searcher}
}

// Configure replaces the Driver's Mode.
func (d *Driver) Configure(mode Mode) { d.mode = mode }

// Run searches pos under deadline, reporting progress through
// progress (which may be nil), and returns the best move and score at
// the last depth fully completed before the deadline. The driver
// searches depth 1 first and returns its move if nothing deeper
// finishes. Depth 1 polls the deadline like every other depth, so the
// result is "no move" only if the deadline cuts depth 1 off before its
// first root move has been searched.
func (d *Driver) Run(pos *board.Position, deadline *Deadline, progress ProgressFunc) (board.Move, int) {
	maxDepth := d.mode.MaxDepth
	if maxDepth <= 0 || maxDepth >= MaxPly {
		maxDepth = MaxPly - 1
	}
	width := d.mode.WindowWidth
	if width <= 0 {
		width = 25
	}
	if d.mode.QuiescenceLimit > 0 {
		d.searcher.SetQuiescenceLimit(d.mode.QuiescenceLimit)
	}
	d.searcher.SetStopFunc(func() bool { return deadline.Expired() })

	// Depth 1 runs first with the full window, independent of MTD(f)
	// mode: its move is what Run returns if no deeper iteration
	// completes. It polls the same deadline as the deeper iterations.
	bestMove, bestScore := d.searcher.Search(pos, 1, -Infinity, Infinity, board.NoMove)
	pv := d.searcher.GetPV()
	report(progress, 1, bestScore, d.searcher.Nodes(), pv, deadline)

	guess := bestScore
	if d.searcher.Stopped() {
		guess = staticGuess(pos)
	}
	hint := bestMove
	stability := 0
	changes := 0

	for depth := 2; depth <= maxDepth; depth++ {
		if deadline.Expired() {
			break
		}
		if !d.mode.HardDeadline && deadline.PastOptimum() {
			break
		}

		var move board.Move
		var score int
		if d.mode.UseMTDF {
			move, score = d.mtdf(pos, depth, guess, width, hint)
		} else {
			move, score = d.searcher.Search(pos, depth, -Infinity, Infinity, hint)
		}

		if d.searcher.Stopped() {
			break
		}

		if move == hint {
			stability++
			changes = 0
		} else {
			stability = 0
			changes++
		}
		deadline.Loosen(changes)
		deadline.Tighten(stability)

		bestMove, bestScore = move, score
		guess = score
		hint = move
		pv = d.searcher.GetPV()
		report(progress, depth, score, d.searcher.Nodes(), pv, deadline)

		if score > MateScore-MaxPly || score < -MateScore+MaxPly {
			break // a forced mate has been found; deeper search cannot improve on it
		}
	}

	return bestMove, bestScore
}

// mtdf runs the MTD(f) re-search loop at a fixed depth: negamax is
// invoked repeatedly through a width-W window anchored just below the
// current guess g and clamped to [lowerBound, upperBound], tightening
// whichever bound failed, until the bounds cross and g has converged
// to the minimax value.
func (d *Driver) mtdf(pos *board.Position, depth, guess, width int, hint board.Move) (board.Move, int) {
	g := guess
	lowerBound, upperBound := -Infinity, Infinity
	move := board.NoMove

	for lowerBound < upperBound {
		alpha := g - width
		if alpha < lowerBound {
			alpha = lowerBound
		}
		beta := alpha + width
		if beta > upperBound {
			beta = upperBound
		}
		if alpha >= beta {
			beta = alpha + 1
		}

		m, score := d.searcher.Search(pos, depth, alpha, beta, hint)
		g = score
		if d.searcher.Stopped() {
			break
		}
		move = m

		if g < beta {
			upperBound = g
		} else {
			lowerBound = g
		}
	}

	return move, g
}

func report(progress ProgressFunc, depth, score int, nodes uint64, pv []board.Move, deadline *Deadline) {
	if progress == nil {
		return
	}
	progress(Progress{Depth: depth, Score: score, Nodes: nodes, PV: pv, Elapsed: deadline.Elapsed()})
}

// staticGuess is the seed MTD(f) uses for the very first
// iterative-deepening iteration it runs, before any depth has
// produced a score of its own.
func staticGuess(pos *board.Position) int { return eval.Evaluate(pos) }
