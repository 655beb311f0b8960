package search

import (
	"sync/atomic"
	"time"

	"github.com/chesskit-engine/chesskit/internal/board"
)

// Limits mirrors the UCI `go` command's time-control parameters.
type Limits struct {
	Time      [2]time.Duration // wtime, btime: remaining time for each color
	Inc       [2]time.Duration // winc, binc: increment per move
	MovesToGo int              // moves until the next time control; 0 means sudden death
	MoveTime  time.Duration    // fixed time per move, overrides the other fields
	Depth     int              // `go depth` value; not read by Deadline (the depth cap is Mode.MaxDepth)
	Nodes     uint64           // `go nodes` value; no search component enforces it
	Infinite  bool
}

// Deadline converts Limits into a wall-clock optimum/maximum pair for
// one search, given the color to move and the current game ply.
type Deadline struct {
	optimum   time.Duration
	maximum   time.Duration
	startTime time.Time
	aborted   atomic.Bool
}

// NewDeadline computes a Deadline from limits. A zero startTime means
// "now"; callers that need a reproducible deadline for testing can
// stamp it explicitly.
func NewDeadline(limits Limits, us board.Color, ply int, start time.Time) *Deadline {
	if start.IsZero() {
		start = time.Now()
	}
	d := &Deadline{startTime: start}

	if limits.MoveTime > 0 {
		d.optimum, d.maximum = limits.MoveTime, limits.MoveTime
		return d
	}

	if limits.Infinite || limits.Time[us] == 0 {
		d.optimum, d.maximum = time.Hour, time.Hour
		return d
	}

	timeLeft := limits.Time[us]
	inc := limits.Inc[us]

	mtg := limits.MovesToGo
	if mtg == 0 {
		mtg = 50 - ply/4
		if mtg < 10 {
			mtg = 10
		}
		if mtg > 50 {
			mtg = 50
		}
	}

	base := timeLeft/time.Duration(mtg) + inc*9/10
	d.optimum = base
	if ply < 8 {
		d.optimum = base * 85 / 100
	}

	maxFromOptimum := d.optimum * 5
	maxFromRemaining := timeLeft * 8 / 10
	if maxFromOptimum < maxFromRemaining {
		d.maximum = maxFromOptimum
	} else {
		d.maximum = maxFromRemaining
	}

	safety := timeLeft * 95 / 100
	if d.maximum > safety {
		d.maximum = safety
	}

	if d.optimum < 10*time.Millisecond {
		d.optimum = 10 * time.Millisecond
	}
	if d.maximum < 50*time.Millisecond {
		d.maximum = 50 * time.Millisecond
	}
	return d
}

// Elapsed returns the time spent since the deadline was created.
func (d *Deadline) Elapsed() time.Duration { return time.Since(d.startTime) }

// Expired reports whether the hard (maximum) deadline has passed, or
// Abort was called — a UCI "stop"/"quit" line arriving on the input
// reader while a search is in progress (spec.md §5) forces this true
// regardless of elapsed time.
func (d *Deadline) Expired() bool { return d.aborted.Load() || d.Elapsed() >= d.maximum }

// Abort forces Expired to report true immediately, from any
// goroutine — used to implement UCI "stop".
func (d *Deadline) Abort() { d.aborted.Store(true) }

// PastOptimum reports whether the soft (optimum) deadline has passed:
// under soft cancellation, the driver finishes the depth already in
// progress rather than starting a new one.
func (d *Deadline) PastOptimum() bool { return d.Elapsed() >= d.optimum }

// Tighten shortens the optimum deadline in proportion to how stable
// the best move has been across recent iterative-deepening
// iterations — a best move unchanged for several depths in a row is
// unlikely to change again, so the driver can stop early.
func (d *Deadline) Tighten(stability int) {
	switch {
	case stability >= 6:
		d.optimum = d.optimum * 40 / 100
	case stability >= 4:
		d.optimum = d.optimum * 60 / 100
	case stability >= 2:
		d.optimum = d.optimum * 80 / 100
	}
}

// Loosen extends the optimum deadline (bounded by maximum) when the
// best move keeps changing between iterations.
func (d *Deadline) Loosen(changes int) {
	var factor int
	switch {
	case changes >= 4:
		factor = 200
	case changes >= 2:
		factor = 150
	default:
		return
	}
	d.optimum = d.optimum * time.Duration(factor) / 100
	if d.optimum > d.maximum {
		d.optimum = d.maximum
	}
}
