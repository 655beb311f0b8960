package eval

import (
	"testing"

	"github.com/chesskit-engine/chesskit/internal/board"
	"github.com/stretchr/testify/require"
)

func TestEvaluateSymmetricStartingPositionIsZero(t *testing.T) {
	pos, err := board.ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)

	require.Zero(t, Evaluate(pos), "a symmetric starting position must evaluate to exactly zero")
}

func TestEvaluateFavorsMaterialAdvantage(t *testing.T) {
	// White is up a queen.
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	require.NoError(t, err)

	require.Positive(t, Evaluate(pos))
}

func TestEvaluateIsSideToMoveRelative(t *testing.T) {
	whiteUp, err := board.ParseFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	require.NoError(t, err)
	blackUp, err := board.ParseFEN("3qk3/8/8/8/8/8/8/4K3 b - - 0 1")
	require.NoError(t, err)

	require.Equal(t, Evaluate(whiteUp), Evaluate(blackUp),
		"the mirrored position from the other side's perspective must score identically")
}

func TestKingVsKingIsADraw(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	require.Zero(t, Evaluate(pos))
}

func TestDeltaEvaluateAddsCaptureGainAndFlipsSign(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/3p4/4Q3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	move, err := board.ParseMove("e4d5", pos)
	require.NoError(t, err)

	prevScore := Evaluate(pos)

	undo := pos.MakeMove(move)
	require.True(t, undo.Valid, "e4d5 must be a legal queen capture of the d5 pawn")
	delta := DeltaEvaluate(pos, move, prevScore)
	pos.UnmakeMove(move, undo)

	require.Equal(t, -(prevScore+21), delta, "capturing a pawn must add exactly its material value to the mover's prior score before the sign flips to the new side to move")
}
