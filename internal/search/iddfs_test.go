package search

import (
	"testing"
	"time"

	"github.com/chesskit-engine/chesskit/internal/board"
	"github.com/chesskit-engine/chesskit/internal/tt"
	"github.com/stretchr/testify/require"
)

func TestDriverRunReturnsMoveAtDepthOneUnderATightDeadline(t *testing.T) {
	pos, err := board.ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)

	searcher := NewSearcher(tt.New(1), nil)
	driver := NewDriver(searcher)
	driver.Configure(Mode{MaxDepth: 20})

	deadline := NewDeadline(Limits{MoveTime: time.Millisecond}, board.White, 0, time.Now())

	move, _ := driver.Run(pos, deadline, nil)
	require.NotEqual(t, board.NoMove, move, "depth 1 must complete and return a legal move regardless of the deadline")
}

func TestDriverRunReportsProgressPerDepth(t *testing.T) {
	pos, err := board.ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)

	searcher := NewSearcher(tt.New(1), nil)
	driver := NewDriver(searcher)
	driver.Configure(Mode{MaxDepth: 3, UseMTDF: true})

	deadline := NewDeadline(Limits{MoveTime: 2 * time.Second}, board.White, 0, time.Now())

	var depths []int
	driver.Run(pos, deadline, func(p Progress) { depths = append(depths, p.Depth) })

	require.Equal(t, []int{1, 2, 3}, depths)
}

func TestDriverRunPlainIterativeDeepeningMatchesMTDFMove(t *testing.T) {
	const fen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

	pos1, err := board.ParseFEN(fen)
	require.NoError(t, err)
	d1 := NewDriver(NewSearcher(tt.New(1), nil))
	d1.Configure(Mode{MaxDepth: 3, UseMTDF: false})
	move1, _ := d1.Run(pos1, NewDeadline(Limits{MoveTime: 2 * time.Second}, board.White, 0, time.Now()), nil)

	pos2, err := board.ParseFEN(fen)
	require.NoError(t, err)
	d2 := NewDriver(NewSearcher(tt.New(1), nil))
	d2.Configure(Mode{MaxDepth: 3, UseMTDF: true})
	move2, _ := d2.Run(pos2, NewDeadline(Limits{MoveTime: 2 * time.Second}, board.White, 0, time.Now()), nil)

	require.Equal(t, move1, move2, "MTD(f) and plain iterative deepening must converge on the same best move at a shallow fixed depth")
}
