package tt

import (
	"testing"

	"github.com/chesskit-engine/chesskit/internal/board"
	"github.com/stretchr/testify/require"
)

func TestProbeMissOnEmptyTable(t *testing.T) {
	table := New(1)
	_, ok := table.Probe(0x1234)
	require.False(t, ok)
	require.EqualValues(t, 1, table.Probes())
	require.EqualValues(t, 0, table.Hits())
}

func TestStoreThenProbeHits(t *testing.T) {
	table := New(1)
	move := board.NewMove(board.E2, board.E4)

	table.Store(0xABCD, 4, 100, BoundExact, move)
	entry, ok := table.Probe(0xABCD)

	require.True(t, ok)
	require.Equal(t, BoundExact, entry.Bound)
	require.EqualValues(t, 100, entry.Score)
	require.EqualValues(t, 4, entry.Depth)
	require.Equal(t, move, entry.Move)
	require.EqualValues(t, 1, table.Hits())
}

func TestShallowerResultDoesNotEvictDeeper(t *testing.T) {
	table := New(1)
	move := board.NewMove(board.E2, board.E4)

	table.Store(0xABCD, 8, 50, BoundExact, move)
	table.Store(0xABCD, 2, 999, BoundExact, move)

	entry, ok := table.Probe(0xABCD)
	require.True(t, ok)
	require.EqualValues(t, 8, entry.Depth, "a shallower store must not overwrite a deeper entry for the same key")
	require.EqualValues(t, 50, entry.Score)
}

func TestClearResetsStatisticsAndEntries(t *testing.T) {
	table := New(1)
	move := board.NewMove(board.E2, board.E4)
	table.Store(0xABCD, 4, 100, BoundExact, move)
	table.Probe(0xABCD)

	table.Clear()

	require.EqualValues(t, 0, table.Probes())
	require.EqualValues(t, 0, table.Hits())
	_, ok := table.Probe(0xABCD)
	require.False(t, ok)
}

func TestAdjustScoreToAndFromTTRoundTrips(t *testing.T) {
	cases := []struct {
		name  string
		score int
		ply   int
	}{
		{"non-mate score unaffected", 150, 5},
		{"mate-for-us score", MateScore - 3, 4},
		{"mate-against-us score", -MateScore + 3, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			toTT := AdjustScoreToTT(tc.score, tc.ply)
			back := AdjustScoreFromTT(toTT, tc.ply)
			require.Equal(t, tc.score, back)
		})
	}
}
