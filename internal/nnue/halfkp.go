//go:build !halfka

package nnue

import "github.com/chesskit-engine/chesskit/internal/board"

// FeatureWidth is the HalfKP input dimension: 64 perspective king squares
// times 10 (piece type, relative color) combinations times 64 piece
// squares. This is the default compile-time feature set; build with
// -tags halfka to select HalfKA-single instead.
const FeatureWidth = NumKingSquares * NumPieceTypes * NumPieceSquares

// KingHasFeature is false under HalfKP: the king square selects which
// perspective bucket every other piece's feature falls into, but the
// king itself has no feature row, so a king move always forces a full
// accumulator rebuild.
const KingHasFeature = false

// FeatureIndex computes the HalfKP feature index for a piece of type pt
// and color c on square sq, from perspective's point of view with its
// king on kingSq: k*640 + (pt + (c==perspective ? 0 : 5))*64 + s',
// where k and s' are mirrored for Black's perspective so both sides
// see the board the same way. The king itself has no feature.
func FeatureIndex(perspective board.Color, kingSq board.Square, pt board.PieceType, c board.Color, sq board.Square) int {
	if pt == board.King {
		return -1
	}
	k, s := int(kingSq), int(sq)
	if perspective == board.Black {
		k, s = int(kingSq.Mirror()), int(sq.Mirror())
	}
	half := 0
	if c != perspective {
		half = 5
	}
	return k*(NumPieceTypes*NumPieceSquares) + (int(pt)+half)*NumPieceSquares + s
}
