package search

import (
	"github.com/chesskit-engine/chesskit/internal/board"
	"github.com/chesskit-engine/chesskit/internal/see"
)

// Move ordering score bands. Phases 1-2 (hint, TT move) are handled by
// giving those two moves a score above every other band. The rest of
// the legal list is scored once and selection-sorted (PickMove) with
// no generation pass per phase: captures by SEE (even or winning ones
// above quiet moves, losing ones below them), quiet moves by killer,
// refutation, history and follow-up, and any check-giving move gets
// checkBonus on top. This only approximates the check-captures,
// check-quiet, captures, quiet phase order: an even or winning capture
// still ranks above a quiet check, and a killer can too.
const (
	hintScore       = 20000000
	ttMoveScore     = 10000000
	goodCaptureBase = 1000000
	checkBonus      = 500000
	killerScore1    = 900000
	killerScore2    = 800000
	badCaptureBase  = -100000
)

// Sorter is one Search's pool entry for a single search-tree depth:
// killer moves, a scratch scores array, and a pair of move-list
// scratch buffers (one for pseudo-legal staging, one for the
// finalized legal/capture list). A fresh Sorter per ply would mean
// allocating history/killer state — and a fresh move list and score
// buffer — at every node, so Search keeps one Sorter per ply in a pool
// sized to MaxPly and reuses it across the whole search.
type Sorter struct {
	killers [2]board.Move
	scores  [256]int
	scratch board.MoveList
	moves   board.MoveList
}

// Orderer holds the move-ordering state shared across an entire
// search: killer moves per ply, the history heuristic, and the
// refutation/follow-up tables described in the Move Sorter contract.
type Orderer struct {
	pool [MaxPly]Sorter

	// history is the per-(from,to) beta-cutoff counter.
	history [64][64]int

	// refutation[piece][to] is the move that has most recently
	// refuted the opponent move landing a piece on that square.
	refutation [12][64]board.Move

	// followUp[prevPiece][prevTo][piece][to] biases toward quiet
	// moves that have succeeded following our own previous move.
	followUp [12][64][12][64]int
}

// NewOrderer creates an empty move orderer.
func NewOrderer() *Orderer {
	return &Orderer{}
}

// Clear resets killers and ages the history/follow-up tables for a
// new search (rather than zeroing them, so ordering quality carries
// over between iterative-deepening iterations within one search).
func (o *Orderer) Clear() {
	for i := range o.pool {
		o.pool[i].killers[0] = board.NoMove
		o.pool[i].killers[1] = board.NoMove
	}
	for i := range o.history {
		for j := range o.history[i] {
			o.history[i][j] /= 2
		}
	}
	for i := range o.refutation {
		for j := range o.refutation[i] {
			o.refutation[i][j] = board.NoMove
		}
	}
	for i := range o.followUp {
		for j := range o.followUp[i] {
			for k := range o.followUp[i][j] {
				for l := range o.followUp[i][j][k] {
					o.followUp[i][j][k][l] /= 2
				}
			}
		}
	}
}

// ScoreMoves assigns an ordering score to every move in ml. hint is
// the PV move carried from a shallower iterative-deepening iteration
// (phase 1); ttMove is the transposition table's stored move for this
// position (phase 2); prevMove is the move that led to this node,
// used for the refutation/follow-up lookup. The returned slice is
// backed by this ply's pooled Sorter, not a fresh allocation — it is
// only valid until the next ScoreMoves call at the same ply.
func (o *Orderer) ScoreMoves(pos *board.Position, ml *board.MoveList, ply int, hint, ttMove, prevMove board.Move) []int {
	var prevPiece board.Piece = board.NoPiece
	var refutationMove board.Move = board.NoMove
	if prevMove != board.NoMove {
		prevPiece = pos.PieceAt(prevMove.To())
		if prevPiece != board.NoPiece {
			refutationMove = o.refutation[prevPiece][prevMove.To()]
		}
	}

	sorter := &o.pool[ply%MaxPly]
	scores := sorter.scores[:ml.Len()]

	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		scores[i] = o.scoreMove(pos, m, sorter, hint, ttMove, refutationMove, prevPiece, prevMove)
	}
	return scores
}

// MoveLists returns this ply's pooled move-list scratch pair — a
// pseudo-legal staging buffer and the finalized legal/capture result
// buffer — for GenerateLegalMovesInto/GenerateCapturesInto. Reusing
// them across every node at ply keeps move generation off the heap on
// the search hot path.
func (o *Orderer) MoveLists(ply int) (scratch, moves *board.MoveList) {
	sorter := &o.pool[ply%MaxPly]
	return &sorter.scratch, &sorter.moves
}

func (o *Orderer) scoreMove(pos *board.Position, m board.Move, sorter *Sorter, hint, ttMove, refutationMove board.Move, prevPiece board.Piece, prevMove board.Move) int {
	if m == hint {
		return hintScore
	}
	if m == ttMove {
		return ttMoveScore
	}

	var score int
	isCapture := m.IsCapture(pos)

	switch {
	case isCapture:
		gain := see.Evaluate(pos, m)
		if gain >= 0 {
			score = goodCaptureBase + gain*1000
		} else {
			score = badCaptureBase + gain*1000
		}
	case m.IsPromotion():
		score = goodCaptureBase - 1000 + int(m.Promotion())*100
	case m == sorter.killers[0]:
		score = killerScore1
	case m == sorter.killers[1]:
		score = killerScore2
	case m == refutationMove:
		score = killerScore2 - 1000
	default:
		score = o.history[m.From()][m.To()]
		if prevMove != board.NoMove && prevPiece != board.NoPiece {
			movePiece := pos.PieceAt(m.From())
			if movePiece != board.NoPiece {
				score += o.followUp[prevPiece][prevMove.To()][movePiece][m.To()] / 2
			}
		}
	}

	// Moves giving check get a fixed bonus, which can lift them past
	// lower bands, without needing a second list: GivesCheck was
	// already established when the move was generated.
	if m.GivesCheck() {
		score += checkBonus
	}

	return score
}

// PickMove selects the best-scoring move at or after index and swaps
// it into place — lazy selection sort, so a beta cutoff can stop
// consuming the list without having sorted the remainder.
func PickMove(ml *board.MoveList, scores []int, index int) {
	best := index
	for j := index + 1; j < ml.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		ml.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}

// UpdateKillers records a quiet move that caused a beta cutoff at ply.
func (o *Orderer) UpdateKillers(m board.Move, ply int) {
	sorter := &o.pool[ply%MaxPly]
	if sorter.killers[0] == m {
		return
	}
	sorter.killers[1] = sorter.killers[0]
	sorter.killers[0] = m
}

// UpdateHistory adjusts the history score for a quiet move that was
// tried at depth: a bonus on a beta cutoff, a penalty otherwise (so
// moves that are tried often but never cut lose priority).
func (o *Orderer) UpdateHistory(m board.Move, depth int, good bool) {
	from, to := m.From(), m.To()
	bonus := depth * depth
	if good {
		o.history[from][to] += bonus
		if o.history[from][to] > 400000 {
			for i := range o.history {
				for j := range o.history[i] {
					o.history[i][j] /= 2
				}
			}
		}
	} else {
		o.history[from][to] -= bonus
		if o.history[from][to] < -400000 {
			o.history[from][to] = -400000
		}
	}
}

// UpdateRefutation records m as the move that refuted prevMove.
func (o *Orderer) UpdateRefutation(prevMove, m board.Move, pos *board.Position) {
	if prevMove == board.NoMove {
		return
	}
	piece := pos.PieceAt(prevMove.To())
	if piece == board.NoPiece {
		return
	}
	o.refutation[piece][prevMove.To()] = m
}

// UpdateFollowUp adjusts the follow-up history for a quiet move m
// that succeeded (or failed) after prevMove.
func (o *Orderer) UpdateFollowUp(prevMove, m board.Move, prevPiece, movePiece board.Piece, depth int, good bool) {
	if prevMove == board.NoMove || prevPiece == board.NoPiece || movePiece == board.NoPiece {
		return
	}
	prevTo, to := prevMove.To(), m.To()
	bonus := depth * depth
	if good {
		o.followUp[prevPiece][prevTo][movePiece][to] += bonus
	} else {
		o.followUp[prevPiece][prevTo][movePiece][to] -= bonus
	}
}
