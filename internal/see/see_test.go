package see

import (
	"testing"

	"github.com/chesskit-engine/chesskit/internal/board"
	"github.com/stretchr/testify/require"
)

func TestEvaluateFreePawnCaptureIsPositive(t *testing.T) {
	// White rook takes an undefended black pawn.
	pos, err := board.ParseFEN("4k3/8/8/3p4/8/8/8/3RK3 w - - 0 1")
	require.NoError(t, err)

	move, err := board.ParseMove("d1d5", pos)
	require.NoError(t, err)

	require.Equal(t, 1, Evaluate(pos, move), "capturing an undefended pawn for free must net exactly the pawn's value")
}

func TestEvaluateLosingExchangeIsNegative(t *testing.T) {
	// White queen captures a pawn defended by a black rook: a losing trade.
	pos, err := board.ParseFEN("3rk3/8/8/3p4/8/8/8/3QK3 w - - 0 1")
	require.NoError(t, err)

	move, err := board.ParseMove("d1d5", pos)
	require.NoError(t, err)

	require.Negative(t, Evaluate(pos, move), "trading a queen for a pawn defended by a rook must be a losing exchange")
}

func TestEvaluateNonCaptureIsZero(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/3RK3 w - - 0 1")
	require.NoError(t, err)

	move, err := board.ParseMove("d1d5", pos)
	require.NoError(t, err)

	require.Zero(t, Evaluate(pos, move))
}

func TestEvaluateEqualTradeIsZero(t *testing.T) {
	// Rook takes rook, recaptured by a rook: a dead-even trade.
	pos, err := board.ParseFEN("3rk3/8/8/3r4/8/8/8/3RK3 w - - 0 1")
	require.NoError(t, err)

	move, err := board.ParseMove("d1d5", pos)
	require.NoError(t, err)

	require.Zero(t, Evaluate(pos, move))
}
