package search

import (
	"testing"

	"github.com/chesskit-engine/chesskit/internal/board"
	"github.com/chesskit-engine/chesskit/internal/tt"
	"github.com/stretchr/testify/require"
)

func TestSearchFindsMateInOne(t *testing.T) {
	// White to move: Ra1-a8# is a back-rank mate in one.
	pos, err := board.ParseFEN("6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	require.NoError(t, err)

	s := NewSearcher(tt.New(1), nil)
	move, score := s.Search(pos, 3, -Infinity, Infinity, board.NoMove)

	require.NotEqual(t, board.NoMove, move)
	require.Greater(t, score, MateScore-10, "a mate-in-one position must score near +MateScore")
}

func TestSearchIsDeterministicForFixedDepth(t *testing.T) {
	const fen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

	pos1, err := board.ParseFEN(fen)
	require.NoError(t, err)
	s1 := NewSearcher(tt.New(1), nil)
	move1, score1 := s1.Search(pos1, 4, -Infinity, Infinity, board.NoMove)

	pos2, err := board.ParseFEN(fen)
	require.NoError(t, err)
	s2 := NewSearcher(tt.New(1), nil)
	move2, score2 := s2.Search(pos2, 4, -Infinity, Infinity, board.NoMove)

	require.Equal(t, move1, move2)
	require.Equal(t, score1, score2)
}

func TestSearchStopFuncAbortsEarly(t *testing.T) {
	pos, err := board.ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)

	s := NewSearcher(tt.New(1), nil)
	s.SetStopFunc(func() bool { return true })
	s.Search(pos, 10, -Infinity, Infinity, board.NoMove)

	require.True(t, s.Stopped())
}

func TestThreefoldRepetitionIsScoredAsDraw(t *testing.T) {
	pos, err := board.ParseFEN("6k1/8/8/8/8/8/8/R5K1 w - - 0 1")
	require.NoError(t, err)

	s := NewSearcher(tt.New(1), nil)
	hash := pos.Hash
	s.SetHistory([]uint64{hash, hash})

	// With the position already seen twice in the supplied history, its
	// current occurrence (checked here at ply 0) is the third, and
	// isDraw must report it as a draw.
	s.pos = pos
	s.rootLen = 2
	s.posHistory[0] = hash
	s.posHistory[1] = hash
	require.True(t, s.isDraw(0))
}

func TestIsDrawDetectsRepetitionWithinSearchPath(t *testing.T) {
	// A position visited once in the game history and once more while
	// descending the search tree is a repetition isDraw must catch at
	// the current ply, even though rootLen alone would miss it.
	pos, err := board.ParseFEN("6k1/8/8/8/8/8/8/R5K1 w - - 0 1")
	require.NoError(t, err)

	s := NewSearcher(tt.New(1), nil)
	s.pos = pos
	s.rootLen = 1
	s.posHistory[0] = pos.Hash  // game history: seen once already
	s.posHistory[1] = pos.Hash  // search path slot rootLen (ply 0), beyond the supplied history

	require.True(t, s.isDraw(1), "a repetition formed entirely within the search tree must be detected")
}
