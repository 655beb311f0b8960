package nnue

import "github.com/chesskit-engine/chesskit/internal/board"

// GetActiveFeatures returns every active feature index for pos, from
// both perspectives, using whichever of FeatureIndex (HalfKP or
// HalfKA-single) this build selected.
func GetActiveFeatures(pos *board.Position) (white, black []int) {
	white = make([]int, 0, 32)
	black = make([]int, 0, 32)

	whiteKingSq := pos.KingSquare[board.White]
	blackKingSq := pos.KingSquare[board.Black]

	for color := board.White; color <= board.Black; color++ {
		for pt := board.Pawn; pt <= board.King; pt++ {
			if pt == board.King && !KingHasFeature {
				continue
			}
			pieces := pos.Pieces[color][pt]
			for pieces != 0 {
				sq := pieces.PopLSB()

				if idx := FeatureIndex(board.White, whiteKingSq, pt, color, sq); idx >= 0 && idx < FeatureWidth {
					white = append(white, idx)
				}
				if idx := FeatureIndex(board.Black, blackKingSq, pt, color, sq); idx >= 0 && idx < FeatureWidth {
					black = append(black, idx)
				}
			}
		}
	}

	return white, black
}

// GetChangedFeatures returns the features to add/remove from each
// perspective's accumulator for a move already applied to pos. A king
// move returns nothing (whiteAdd etc. all empty) when KingHasFeature
// is false: the caller must do a full refresh in that case, since
// every other piece's feature depends on the king's square too.
func GetChangedFeatures(pos *board.Position, m board.Move, captured board.Piece) (
	whiteAdd, whiteRem, blackAdd, blackRem []int) {

	whiteKingSq := pos.KingSquare[board.White]
	blackKingSq := pos.KingSquare[board.Black]

	from := m.From()
	to := m.To()
	movedPiece := pos.PieceAt(to)
	if movedPiece == board.NoPiece {
		return
	}

	movingPT := movedPiece.Type()
	movingColor := movedPiece.Color()

	if movingPT == board.King && !KingHasFeature {
		return // caller must ComputeFull
	}

	add := func(pt board.PieceType, c board.Color, sq board.Square, toAdd bool) {
		idxW := FeatureIndex(board.White, whiteKingSq, pt, c, sq)
		idxB := FeatureIndex(board.Black, blackKingSq, pt, c, sq)
		if toAdd {
			if idxW >= 0 && idxW < FeatureWidth {
				whiteAdd = append(whiteAdd, idxW)
			}
			if idxB >= 0 && idxB < FeatureWidth {
				blackAdd = append(blackAdd, idxB)
			}
			return
		}
		if idxW >= 0 && idxW < FeatureWidth {
			whiteRem = append(whiteRem, idxW)
		}
		if idxB >= 0 && idxB < FeatureWidth {
			blackRem = append(blackRem, idxB)
		}
	}

	add(movingPT, movingColor, from, false)

	destPT := movingPT
	if m.IsPromotion() {
		destPT = m.Promotion()
	}
	add(destPT, movingColor, to, true)

	if m.IsCastling() {
		rank := from.Rank()
		rookFrom, rookTo := board.NewSquare(7, rank), board.NewSquare(5, rank)
		if to.File() < from.File() {
			rookFrom, rookTo = board.NewSquare(0, rank), board.NewSquare(3, rank)
		}
		add(board.Rook, movingColor, rookFrom, false)
		add(board.Rook, movingColor, rookTo, true)
	}

	if captured != board.NoPiece && captured.Type() != board.King {
		capturedSq := to
		if m.IsEnPassant() {
			if movingColor == board.White {
				capturedSq = to - 8
			} else {
				capturedSq = to + 8
			}
		}
		add(captured.Type(), captured.Color(), capturedSq, false)
	}

	return
}
