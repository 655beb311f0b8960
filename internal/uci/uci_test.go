package uci

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseGoOptionsMoveTimeAndDepth(t *testing.T) {
	opts := parseGoOptions([]string{"depth", "12", "movetime", "500"})

	require.Equal(t, 12, opts.Depth)
	require.Equal(t, 500*time.Millisecond, opts.MoveTime)
}

func TestParseGoOptionsClockFields(t *testing.T) {
	opts := parseGoOptions([]string{"wtime", "60000", "btime", "59000", "winc", "1000", "movestogo", "20"})

	require.Equal(t, 60*time.Second, opts.WTime)
	require.Equal(t, 59*time.Second, opts.BTime)
	require.Equal(t, time.Second, opts.WInc)
	require.Equal(t, 20, opts.MovesToGo)
}

func TestParseGoOptionsInfinite(t *testing.T) {
	opts := parseGoOptions([]string{"infinite"})
	require.True(t, opts.Infinite)
}

func TestPly(t *testing.T) {
	require.Equal(t, 0, ply([]uint64{1}))
	require.Equal(t, 2, ply([]uint64{1, 2, 3}))
}

func TestHandlePositionStartposWithMoves(t *testing.T) {
	u := New(1, nil)
	u.handlePosition([]string{"startpos", "moves", "e2e4", "e7e5"})

	require.Len(t, u.positionHashes, 3)
	require.NotEqual(t, u.positionHashes[0], u.positionHashes[2])
}

func TestHandlePositionFEN(t *testing.T) {
	u := New(1, nil)
	u.handlePosition([]string{"fen", "4k3/8/8/8/8/8/8/4K3", "w", "-", "-", "0", "1"})

	require.Len(t, u.positionHashes, 1)
}

func TestHandleSetOptionDepthQuiescentLimitMTDFDebug(t *testing.T) {
	u := New(1, nil)

	u.handleSetOption([]string{"name", "Depth", "value", "10"})
	require.Equal(t, 10, u.mode.MaxDepth)

	u.handleSetOption([]string{"name", "QuiescentLimit", "value", "16"})
	require.Equal(t, 16, u.mode.QuiescenceLimit)

	u.handleSetOption([]string{"name", "MTDF", "value", "false"})
	require.False(t, u.mode.UseMTDF)

	u.handleSetOption([]string{"name", "Debug", "value", "true"})
	require.True(t, u.debug)
}

func TestHandleSetOptionHashRebuildsTable(t *testing.T) {
	u := New(1, nil)
	before := u.tt

	u.handleSetOption([]string{"name", "Hash", "value", "8"})

	require.Equal(t, 8, u.hashMB)
	require.NotSame(t, before, u.tt, "changing Hash must rebuild the transposition table")
}

func TestHandleNewGameResetsPosition(t *testing.T) {
	u := New(1, nil)
	u.handlePosition([]string{"startpos", "moves", "e2e4"})
	require.Len(t, u.positionHashes, 2)

	u.handleNewGame()
	require.Len(t, u.positionHashes, 1)
}
