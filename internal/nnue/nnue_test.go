package nnue

import (
	"testing"

	"github.com/chesskit-engine/chesskit/internal/board"
	"github.com/stretchr/testify/require"
)

func TestClampedReLUBounds(t *testing.T) {
	require.Equal(t, uint8(0), ClampedReLU(-1))
	require.Equal(t, uint8(0), ClampedReLU(-32000))
	require.Equal(t, uint8(0), ClampedReLU(0))
	require.Equal(t, uint8(127), ClampedReLU(127))
	require.Equal(t, uint8(127), ClampedReLU(128))
	require.Equal(t, uint8(127), ClampedReLU(32000))
	require.Equal(t, uint8(64), ClampedReLU(64))
}

func TestNetworkForwardRandomWeightsDeterministic(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(1)

	pos, err := board.ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)

	var acc Accumulator
	acc.ComputeFull(pos, net)

	a := net.Forward(&acc, board.White)
	b := net.Forward(&acc, board.White)
	require.Equal(t, a, b, "Forward must be a pure function of the accumulator")
}

func TestEvaluatorPushPopRestoresAccumulator(t *testing.T) {
	ev, err := NewEvaluator("")
	require.NoError(t, err)

	pos, err := board.ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)

	before := ev.Evaluate(pos)

	ev.Push()
	move, err := board.ParseMove("e2e4", pos)
	require.NoError(t, err)
	undo := pos.MakeMove(move)
	ev.Update(pos, move, board.NoPiece)
	_ = ev.Evaluate(pos)

	pos.UnmakeMove(move, undo)
	ev.Pop()

	after := ev.Evaluate(pos)
	require.Equal(t, before, after, "Push/Pop must restore the pre-move accumulator exactly")
}
