// Package see implements static exchange evaluation: estimating the
// net material result of a capture sequence on a single square
// without searching it. It is shared by quiescence (to discard
// obviously-losing captures) and the Move Sorter (to order captures
// by their likely material outcome).
package see

import (
	"github.com/chesskit-engine/chesskit/internal/board"
)

// Standard capture-value scale, distinct from the simple evaluator's
// centipawn coefficients in internal/eval: SEE only needs to compare
// captures against each other, so it uses the textbook {1,3,3,5,9,0}
// scale for {P,N,B,R,Q,K}.
var pieceValue = [7]int{1, 3, 3, 5, 9, 0, 0}

// Evaluate returns the estimated material gain of playing m, from the
// perspective of the side making it. Positive means the exchange
// sequence on m's destination square nets material; negative means it
// loses material.
func Evaluate(pos *board.Position, m board.Move) int {
	from := m.From()
	to := m.To()

	attacker := pos.PieceAt(from)
	if attacker == board.NoPiece {
		return 0
	}

	var capturedValue int
	if m.IsEnPassant() {
		capturedValue = pieceValue[board.Pawn]
	} else {
		victim := pos.PieceAt(to)
		if victim == board.NoPiece {
			return 0 // not a capture
		}
		capturedValue = pieceValue[victim.Type()]
	}

	if m.IsPromotion() {
		capturedValue += pieceValue[m.Promotion()] - pieceValue[board.Pawn]
	}

	return swap(pos, to, from, attacker, capturedValue)
}

// swap runs the least-valuable-attacker recapture expansion on
// target, alternating sides, and negamaxes the resulting gain array.
func swap(pos *board.Position, target, excludeFrom board.Square, firstAttacker board.Piece, initialGain int) int {
	var gain [32]int
	d := 0
	gain[d] = initialGain

	occupied := pos.AllOccupied &^ board.SquareBB(excludeFrom)
	attackerValue := pieceValue[firstAttacker.Type()]
	side := firstAttacker.Color().Other()

	for {
		d++
		gain[d] = attackerValue - gain[d-1]

		if max(-gain[d-1], gain[d]) < 0 {
			break
		}

		attackerSq, attackerPiece := leastValuableAttacker(pos, target, side, occupied)
		if attackerSq == board.NoSquare {
			break
		}

		occupied &^= board.SquareBB(attackerSq)
		attackerValue = pieceValue[attackerPiece.Type()]
		side = side.Other()
	}

	for d--; d > 0; d-- {
		gain[d-1] = -max(-gain[d-1], gain[d])
	}

	return gain[0]
}

// leastValuableAttacker finds side's cheapest piece attacking target
// given occupied, checking piece classes in ascending value order so
// the swap always recaptures with the weakest available piece.
func leastValuableAttacker(pos *board.Position, target board.Square, side board.Color, occupied board.Bitboard) (board.Square, board.Piece) {
	pawnAttackers := pos.Pieces[side][board.Pawn] & board.PawnAttacks(target, side.Other()) & occupied
	if pawnAttackers != 0 {
		return pawnAttackers.LSB(), board.NewPiece(board.Pawn, side)
	}

	knightAttackers := pos.Pieces[side][board.Knight] & board.KnightAttacks(target) & occupied
	if knightAttackers != 0 {
		return knightAttackers.LSB(), board.NewPiece(board.Knight, side)
	}

	bishopAttacks := board.BishopAttacks(target, occupied)
	bishopAttackers := pos.Pieces[side][board.Bishop] & bishopAttacks & occupied
	if bishopAttackers != 0 {
		return bishopAttackers.LSB(), board.NewPiece(board.Bishop, side)
	}

	rookAttacks := board.RookAttacks(target, occupied)
	rookAttackers := pos.Pieces[side][board.Rook] & rookAttacks & occupied
	if rookAttackers != 0 {
		return rookAttackers.LSB(), board.NewPiece(board.Rook, side)
	}

	queenAttackers := pos.Pieces[side][board.Queen] & (bishopAttacks | rookAttacks) & occupied
	if queenAttackers != 0 {
		return queenAttackers.LSB(), board.NewPiece(board.Queen, side)
	}

	kingAttackers := pos.Pieces[side][board.King] & board.KingAttacks(target) & occupied
	if kingAttackers != 0 {
		return kingAttackers.LSB(), board.NewPiece(board.King, side)
	}

	return board.NoSquare, board.NoPiece
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
