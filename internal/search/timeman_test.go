package search

import (
	"testing"
	"time"

	"github.com/chesskit-engine/chesskit/internal/board"
	"github.com/stretchr/testify/require"
)

func TestNewDeadlineMoveTimeFixesOptimumAndMaximum(t *testing.T) {
	limits := Limits{MoveTime: 500 * time.Millisecond}
	d := NewDeadline(limits, board.White, 0, time.Now())

	require.Equal(t, limits.MoveTime, d.optimum)
	require.Equal(t, limits.MoveTime, d.maximum)
	require.False(t, d.Expired())
	require.False(t, d.PastOptimum())
}

func TestNewDeadlineInfiniteNeverExpiresImmediately(t *testing.T) {
	limits := Limits{Infinite: true}
	d := NewDeadline(limits, board.White, 0, time.Now())

	require.False(t, d.Expired())
}

func TestDeadlineAbortForcesExpired(t *testing.T) {
	limits := Limits{Infinite: true}
	d := NewDeadline(limits, board.White, 0, time.Now())

	require.False(t, d.Expired())
	d.Abort()
	require.True(t, d.Expired(), "Abort must force Expired true regardless of elapsed time")
}

func TestDeadlineTightenShortensOptimum(t *testing.T) {
	limits := Limits{Time: [2]time.Duration{10 * time.Second, 10 * time.Second}}
	d := NewDeadline(limits, board.White, 0, time.Now())

	before := d.optimum
	d.Tighten(6)
	require.Less(t, d.optimum, before, "a stable best move should shorten the optimum deadline")
}

func TestDeadlineLoosenExtendsOptimumUpToMaximum(t *testing.T) {
	limits := Limits{Time: [2]time.Duration{10 * time.Second, 10 * time.Second}}
	d := NewDeadline(limits, board.White, 0, time.Now())

	before := d.optimum
	d.Loosen(5)
	require.GreaterOrEqual(t, d.optimum, before)
	require.LessOrEqual(t, d.optimum, d.maximum)
}
