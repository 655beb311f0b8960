// Package eval implements the simple hand-crafted material+structure
// evaluator. It is one of two scorers a Position can be judged by (the
// other being internal/nnue); callers pick between them, not this
// package.
//
// The coefficients below are fixed by the scoring contract this
// engine is built against, not tuned here — they intentionally do not
// match a textbook {1,3,3,5,9} material scale (see internal/see for
// the scale SEE actually uses, which does).
package eval

import (
	"github.com/chesskit-engine/chesskit/internal/board"
)

// Material coefficients, centipawns.
const (
	pawnValue   = 21
	knightValue = 47
	bishopValue = 11
	rookValue   = 48
	queenValue  = 100

	flankPawnPenalty = -2 // pawn on the a/h file

	passedPawnBonus   = 10
	isolatedPawnPenalty = -3
	doubledPawnPenalty  = -4

	knightCenterDistancePenalty = -4 // per unit of Chebyshev distance from the center
	bishopMobilityBonus         = 3  // per diagonal square reachable
	kingCentralizationPenalty   = -1 // per unit of distance from the center, favours a centralised king

	rookHalfOpenFileBonus = 9
	rookOpenFileBonus     = 14

	queenMobilityBonus = 1 // per diagonal square reachable
)

var materialValue = [6]int{pawnValue, knightValue, bishopValue, rookValue, queenValue, 0}

// Evaluate scores pos from the perspective of the side to move:
// positive favors the side to move.
func Evaluate(pos *board.Position) int {
	if isEndgameDraw(pos) {
		return 0
	}

	score := materialAndStructure(pos, board.White) - materialAndStructure(pos, board.Black)

	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}

// isEndgameDraw is the quick endgame oracle both evaluators consult:
// K vs K, or K+minor vs K, is scored a flat draw regardless of square
// placement.
func isEndgameDraw(pos *board.Position) bool {
	if pos.Pieces[board.White][board.Pawn]|pos.Pieces[board.Black][board.Pawn] != 0 {
		return false
	}
	if pos.Pieces[board.White][board.Rook]|pos.Pieces[board.Black][board.Rook] != 0 {
		return false
	}
	if pos.Pieces[board.White][board.Queen]|pos.Pieces[board.Black][board.Queen] != 0 {
		return false
	}

	wMinors := pos.Pieces[board.White][board.Knight].PopCount() + pos.Pieces[board.White][board.Bishop].PopCount()
	bMinors := pos.Pieces[board.Black][board.Knight].PopCount() + pos.Pieces[board.Black][board.Bishop].PopCount()

	if wMinors == 0 && bMinors == 0 {
		return true
	}
	if wMinors <= 1 && bMinors == 0 {
		return true
	}
	if bMinors <= 1 && wMinors == 0 {
		return true
	}
	return false
}

// materialAndStructure returns c's one-sided score: material plus the
// pawn-structure, piece-activity, and rook-file terms.
func materialAndStructure(pos *board.Position, c board.Color) int {
	score := 0

	pawns := pos.Pieces[c][board.Pawn]
	theirPawns := pos.Pieces[c.Other()][board.Pawn]

	score += pawns.PopCount() * pawnValue
	score += (pawns & (board.FileA | board.FileH)).PopCount() * flankPawnPenalty
	score += pawnStructureScore(pawns, theirPawns, c)

	score += pos.Pieces[c][board.Knight].PopCount() * knightValue
	knights := pos.Pieces[c][board.Knight]
	for knights != 0 {
		sq := knights.PopLSB()
		score += centerDistance(sq) * knightCenterDistancePenalty
	}

	score += pos.Pieces[c][board.Bishop].PopCount() * bishopValue
	bishops := pos.Pieces[c][board.Bishop]
	for bishops != 0 {
		sq := bishops.PopLSB()
		mobility := board.BishopAttacks(sq, pos.AllOccupied).PopCount()
		score += mobility * bishopMobilityBonus
	}

	score += pos.Pieces[c][board.Rook].PopCount() * rookValue
	rooks := pos.Pieces[c][board.Rook]
	for rooks != 0 {
		sq := rooks.PopLSB()
		score += rookFileScore(pos, sq, c)
	}

	score += pos.Pieces[c][board.Queen].PopCount() * queenValue
	queens := pos.Pieces[c][board.Queen]
	for queens != 0 {
		sq := queens.PopLSB()
		mobility := board.BishopAttacks(sq, pos.AllOccupied).PopCount()
		score += mobility * queenMobilityBonus
	}

	ksq := pos.KingSquare[c]
	score += centerDistance(ksq) * kingCentralizationPenalty

	return score
}

// centerDistance is the Chebyshev distance from sq to the nearest of
// the board's four center squares (d4/e4/d5/e5).
func centerDistance(sq board.Square) int {
	file, rank := sq.File(), sq.Rank()
	fd := fileDistanceToCenter(file)
	rd := fileDistanceToCenter(rank)
	if fd > rd {
		return fd
	}
	return rd
}

func fileDistanceToCenter(i int) int {
	// center files/ranks are indices 3,4 (d/e or 4/5)
	if i <= 3 {
		return 3 - i
	}
	return i - 4
}

// pawnStructureScore scores passed, isolated, and doubled pawns for
// the pawns bitboard of one side.
func pawnStructureScore(pawns, theirPawns board.Bitboard, c board.Color) int {
	score := 0
	bb := pawns
	for bb != 0 {
		sq := bb.PopLSB()
		file := sq.File()

		if isolated(pawns, file) {
			score += isolatedPawnPenalty
		}
		if doubled(pawns, sq, file) {
			score += doubledPawnPenalty
		}
		if passed(theirPawns, sq, file, c) {
			score += passedPawnBonus
		}
	}
	return score
}

func isolated(own board.Bitboard, file int) bool {
	var neighbors board.Bitboard
	if file > 0 {
		neighbors |= board.FileMask[file-1]
	}
	if file < 7 {
		neighbors |= board.FileMask[file+1]
	}
	return own&neighbors == 0
}

func doubled(own board.Bitboard, sq board.Square, file int) bool {
	return (own & board.FileMask[file]).PopCount() > 1
}

// passed reports whether the pawn at sq has no enemy pawn on its own
// or adjacent files ahead of it (toward promotion).
func passed(theirPawns board.Bitboard, sq board.Square, file int, c board.Color) bool {
	span := board.FileMask[file]
	if file > 0 {
		span |= board.FileMask[file-1]
	}
	if file < 7 {
		span |= board.FileMask[file+1]
	}

	var ahead board.Bitboard
	rank := sq.Rank()
	if c == board.White {
		for r := rank + 1; r < 8; r++ {
			ahead |= board.RankMask[r]
		}
	} else {
		for r := rank - 1; r >= 0; r-- {
			ahead |= board.RankMask[r]
		}
	}

	return theirPawns&span&ahead == 0
}

// rookFileScore returns the half-open/open file bonus for a rook on sq.
func rookFileScore(pos *board.Position, sq board.Square, c board.Color) int {
	file := sq.File()
	f := board.FileMask[file]
	ownPawns := pos.Pieces[c][board.Pawn] & f
	theirPawns := pos.Pieces[c.Other()][board.Pawn] & f

	if ownPawns == 0 && theirPawns == 0 {
		return rookOpenFileBonus
	}
	if ownPawns == 0 {
		return rookHalfOpenFileBonus
	}
	return 0
}

// DeltaEvaluate incrementally adjusts prevScore (the side-to-move
// relative score before m) by the material and mobility change m
// causes, without rescanning the whole board. pos must already have
// had m applied. This is an approximation of Evaluate valid for
// quiescence's capture-only leaves, where positional terms other than
// material rarely swing the picture the way a capture's material
// delta does.
func DeltaEvaluate(pos *board.Position, m board.Move, prevScore int) int {
	capturedType := m.CapturedPieceKind()
	var captureGain int
	if m.IsEnPassant() {
		captureGain = pawnValue
	} else if capturedType != board.NoPieceType {
		captureGain = materialValue[capturedType]
	}

	promoGain := 0
	if m.IsPromotion() {
		promoGain = materialValue[m.Promotion()] - pawnValue
	}

	// prevScore is relative to the side that was to move before m;
	// after m, SideToMove has flipped, so the mover's gain flips sign
	// from the new side-to-move's perspective.
	return -(prevScore + captureGain + promoGain)
}
