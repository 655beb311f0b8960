// Package search implements the engine's single-threaded negamax
// search: alpha-beta pruning, quiescence, transposition-table lookup,
// and the Move Sorter ordering heuristics, wrapped by an
// iterative-deepening (optionally MTD(f)) driver in iddfs.go.
//
// There is exactly one Searcher per concurrent search. Lazy-SMP-style
// multi-worker search is out of scope: a chess engine that searches
// the same tree from several goroutines at once cannot reproduce a
// fixed score for a fixed position at a fixed depth, which is exactly
// the property this package's tests hold it to.
package search

import (
	"github.com/chesskit-engine/chesskit/internal/board"
	"github.com/chesskit-engine/chesskit/internal/eval"
	"github.com/chesskit-engine/chesskit/internal/see"
	"github.com/chesskit-engine/chesskit/internal/tt"
)

// Search-wide constants.
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128

	maxQuiescencePly = 32
	quiescenceDelta  = 900 // queen value, for stand-pat delta pruning
)

// Evaluator scores a position from the side-to-move's perspective.
// eval.Evaluate backs it through the simpleEvaluator adapter below; an NNUE-backed evaluator
// additionally wants to know about moves made and unmade so it can
// maintain its accumulator incrementally — Push/Pop/Update/Refresh
// exist for that, and are no-ops for the simple evaluator.
type Evaluator interface {
	Evaluate(pos *board.Position) int
	Push()
	Pop()
	Update(pos *board.Position, m board.Move, captured board.Piece)
	Refresh(pos *board.Position)
}

// simpleEvaluator adapts eval.Evaluate to the Evaluator interface; it
// has no incremental state, so the lifecycle hooks do nothing.
type simpleEvaluator struct{}

func (simpleEvaluator) Evaluate(pos *board.Position) int { return eval.Evaluate(pos) }
func (simpleEvaluator) Push()                            {}
func (simpleEvaluator) Pop()                             {}
func (simpleEvaluator) Update(*board.Position, board.Move, board.Piece) {}
func (simpleEvaluator) Refresh(*board.Position)          {}

// PVTable is the triangular principal-variation array negamax fills
// in as it searches: pv.moves[ply] is the best line found from ply
// onward, valid up to pv.length[ply].
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// Searcher runs one negamax search over one Position. It is not safe
// for concurrent use — that is the point: this engine runs one search
// at a time.
type Searcher struct {
	pos      *board.Position
	tt       *tt.Table
	orderer  *Orderer
	eval     Evaluator
	debug    bool
	quietLim int // quiescence ply limit; 0 means maxQuiescencePly

	nodes    uint64
	stopped  bool
	stopFn   func() bool

	pv PVTable

	undoStack [MaxPly]board.UndoInfo

	// posHistory is the Zobrist hash of every position from the game
	// root through the current search node, used for threefold
	// repetition detection. rootLen is the portion supplied by the
	// caller (the game played so far); entries beyond it are pushed
	// and popped as the search descends.
	posHistory [1024]uint64
	rootLen    int

	// rootBestMove is the best move found at ply 0, tracked directly
	// rather than read back out of the PV table: under a narrow MTD(f)
	// window the root call often fails low, leaving alpha (and so the
	// PV) untouched even though a best-so-far move is known.
	rootBestMove board.Move
}

// NewSearcher creates a Searcher backed by the given transposition
// table. Pass nil for ev to use the simple evaluator.
func NewSearcher(table *tt.Table, ev Evaluator) *Searcher {
	if ev == nil {
		ev = simpleEvaluator{}
	}
	return &Searcher{
		tt:      table,
		orderer: NewOrderer(),
		eval:    ev,
	}
}

// SetDebug enables logging of rejected pseudo-legal moves for the
// duration of searches started after this call (Position.DebugChecks,
// not a package-level flag).
func (s *Searcher) SetDebug(on bool) { s.debug = on }

// SetQuiescenceLimit overrides the quiescence search's ply cap.
func (s *Searcher) SetQuiescenceLimit(n int) { s.quietLim = n }

// SetStopFunc installs a predicate the search polls periodically
// (roughly every 4096 nodes) to decide whether to abort — typically a
// deadline check owned by the iterative-deepening driver.
func (s *Searcher) SetStopFunc(fn func() bool) { s.stopFn = fn }

// SetHistory seeds the repetition-detection buffer with the Zobrist
// hashes of every position played so far this game (root-inclusive).
func (s *Searcher) SetHistory(hashes []uint64) {
	n := len(hashes)
	if n > len(s.posHistory) {
		hashes = hashes[n-len(s.posHistory):]
		n = len(s.posHistory)
	}
	copy(s.posHistory[:n], hashes)
	s.rootLen = n
}

// NewGame clears all search state that is allowed to persist across
// iterative-deepening iterations within a search but not across games:
// killers, history, refutation/follow-up tables, and the
// transposition table.
func (s *Searcher) NewGame() {
	s.orderer = NewOrderer()
	s.tt.Clear()
	s.rootLen = 0
}

// Nodes returns the number of nodes visited by the most recent search.
func (s *Searcher) Nodes() uint64 { return s.nodes }

// Stopped reports whether the most recent search was aborted early.
func (s *Searcher) Stopped() bool { return s.stopped }

// reset prepares the Searcher for a fresh call to Search at pos.
func (s *Searcher) reset(pos *board.Position) {
	s.pos = pos
	s.pos.DebugChecks = s.debug
	s.nodes = 0
	s.stopped = false
	s.posHistory[s.rootLen] = pos.Hash
	s.eval.Refresh(pos)
}

// Search runs a single fixed-depth negamax search rooted at pos and
// returns the best move and its score. hint is the PV move carried
// from a shallower iterative-deepening iteration, if any. The caller
// supplies alpha/beta directly: the full window for a plain search, or
// a narrow one for MTD(f) re-searches (see iddfs.go).
func (s *Searcher) Search(pos *board.Position, depth, alpha, beta int, hint board.Move) (board.Move, int) {
	s.reset(pos)
	s.rootBestMove = board.NoMove
	score := s.negamax(depth, 0, alpha, beta, hint, board.NoMove)
	return s.rootBestMove, score
}

// GetPV returns the principal variation found by the most recent search.
func (s *Searcher) GetPV() []board.Move {
	pv := make([]board.Move, s.pv.length[0])
	copy(pv, s.pv.moves[0][:s.pv.length[0]])
	return pv
}

// negamax is the core alpha-beta search. hint is the shallower
// iteration's PV move for this node (phase 1 of the Move Sorter
// contract); prevMove is the move that led here, used for the
// refutation/follow-up heuristics.
func (s *Searcher) negamax(depth, ply int, alpha, beta int, hint, prevMove board.Move) int {
	if s.nodes&4095 == 0 && s.stopFn != nil && s.stopFn() {
		s.stopped = true
		return 0
	}

	s.nodes++
	s.pv.length[ply] = ply

	if ply > 0 && s.isDraw(ply) {
		return 0
	}

	var ttMove board.Move
	entry, found := s.tt.Probe(s.pos.Hash)
	if found {
		ttMove = entry.Move
		// No cutoff at the root: it must search its moves so that
		// rootBestMove is set.
		if ply > 0 && int(entry.Depth) >= depth {
			score := tt.AdjustScoreFromTT(int(entry.Score), ply)
			switch entry.Bound {
			case tt.BoundExact:
				return score
			case tt.BoundLower:
				if score > alpha {
					alpha = score
				}
			case tt.BoundUpper:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score
			}
		}
	}

	if depth <= 0 {
		return s.quiescence(ply, 0, alpha, beta)
	}

	inCheck := s.pos.InCheck()
	scratch, moveBuf := s.orderer.MoveLists(ply)
	moves := s.pos.GenerateLegalMovesInto(scratch, moveBuf)

	if moves.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	scores := s.orderer.ScoreMoves(s.pos, moves, ply, hint, ttMove, prevMove)

	bestScore := -Infinity
	bestMove := board.NoMove
	bound := tt.BoundUpper

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		s.undoStack[ply] = s.pos.MakeMove(move)
		if !s.undoStack[ply].Valid {
			continue
		}
		s.posHistory[s.rootLen+ply+1] = s.pos.Hash
		s.eval.Push()
		s.eval.Update(s.pos, move, s.undoStack[ply].CapturedPiece)

		score := -s.negamax(depth-1, ply+1, -beta, -alpha, board.NoMove, move)

		s.eval.Pop()
		s.pos.UnmakeMove(move, s.undoStack[ply])

		if s.stopped {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = move
			if ply == 0 {
				s.rootBestMove = move
			}

			if score > alpha {
				alpha = score
				bound = tt.BoundExact

				s.pv.moves[ply][ply] = move
				for j := ply + 1; j < s.pv.length[ply+1]; j++ {
					s.pv.moves[ply][j] = s.pv.moves[ply+1][j]
				}
				s.pv.length[ply] = s.pv.length[ply+1]
			}
		}

		if score >= beta {
			s.tt.Store(s.pos.Hash, depth, tt.AdjustScoreToTT(score, ply), tt.BoundLower, bestMove)

			if !move.IsCapture(s.pos) {
				s.orderer.UpdateKillers(move, ply)
				s.orderer.UpdateHistory(move, depth, true)
				s.orderer.UpdateRefutation(prevMove, move, s.pos)
				if prevMove != board.NoMove {
					prevPiece := s.pos.PieceAt(prevMove.To())
					movePiece := s.pos.PieceAt(move.From())
					s.orderer.UpdateFollowUp(prevMove, move, prevPiece, movePiece, depth, true)
				}
			}
			return score
		} else if !move.IsCapture(s.pos) {
			s.orderer.UpdateHistory(move, depth, false)
		}
	}

	s.tt.Store(s.pos.Hash, depth, tt.AdjustScoreToTT(bestScore, ply), bound, bestMove)
	return bestScore
}

// quiescence extends the search along capture sequences past the
// nominal horizon, to avoid misjudging a position mid-exchange. qdepth
// counts plies spent inside quiescence itself (distinct from ply, the
// absolute tree depth) and is capped independently via
// SetQuiescenceLimit. Stand-pat is skipped while in check, since a
// side in check has no safe "do nothing" option to compare captures
// against.
func (s *Searcher) quiescence(ply, qdepth int, alpha, beta int) int {
	limit := s.quietLim
	if limit == 0 {
		limit = maxQuiescencePly
	}
	if ply >= MaxPly-1 {
		return s.eval.Evaluate(s.pos)
	}

	if s.stopFn != nil && s.nodes&4095 == 0 && s.stopFn() {
		s.stopped = true
		return 0
	}
	s.nodes++

	inCheck := s.pos.InCheck()

	var standPat int
	if !inCheck {
		standPat = s.eval.Evaluate(s.pos)
		if standPat >= beta {
			return beta
		}
		if standPat > alpha {
			alpha = standPat
		}
		if standPat+quiescenceDelta < alpha {
			return alpha
		}
		if qdepth >= limit {
			return alpha
		}
	}

	scratch, moveBuf := s.orderer.MoveLists(ply)

	// Noisy moves only: captures everywhere, plus — on the first
	// quiescence ply — check-giving quiet moves too (Move Sorter
	// phases 3-4). Deeper quiescence plies stay capture-only so the
	// branching factor stays bounded the way a staged move generator
	// would bound it.
	var moves *board.MoveList
	generateQuietChecks := !inCheck && qdepth == 0
	if inCheck || generateQuietChecks {
		moves = s.pos.GenerateLegalMovesInto(scratch, moveBuf)
	} else {
		moves = s.pos.GenerateCapturesInto(scratch, moveBuf)
	}

	scores := s.orderer.ScoreMoves(s.pos, moves, ply, board.NoMove, board.NoMove, board.NoMove)

	best := alpha
	if inCheck {
		best = -Infinity
	}
	anyLegal := false

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		if !inCheck {
			isCapture := move.IsCapture(s.pos)
			if !isCapture {
				if !generateQuietChecks || !move.GivesCheck() {
					continue
				}
			} else if see.Evaluate(s.pos, move) < 0 {
				continue
			}
		}

		undo := s.pos.MakeMove(move)
		if !undo.Valid {
			continue
		}
		anyLegal = true
		s.eval.Push()
		s.eval.Update(s.pos, move, undo.CapturedPiece)

		score := -s.quiescence(ply+1, qdepth+1, -beta, -alpha)

		s.eval.Pop()
		s.pos.UnmakeMove(move, undo)

		if score >= beta {
			return beta
		}
		if score > best {
			best = score
			if score > alpha {
				alpha = score
			}
		}
	}

	if inCheck && !anyLegal {
		return -MateScore + ply
	}
	if inCheck {
		return best
	}
	return alpha
}

// isDraw reports the 50-move rule, the simple evaluator's material
// draw oracle, and threefold repetition against the search's position
// history (game history plus every position visited on the current
// search path up to and including ply).
func (s *Searcher) isDraw(ply int) bool {
	if s.pos.HalfMoveClock >= 100 {
		return true
	}
	if s.pos.IsInsufficientMaterial() {
		return true
	}

	hash := s.pos.Hash
	count := 0
	n := s.rootLen + ply
	for i := 0; i < n; i++ {
		if s.posHistory[i] == hash {
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return false
}
