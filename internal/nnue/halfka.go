//go:build halfka

package nnue

import "github.com/chesskit-engine/chesskit/internal/board"

// FeatureWidth is the HalfKA-single input dimension: 12 (piece type,
// relative color) combinations, including the king itself, times 64
// piece squares — no king-square factor, since HalfKA-single does not
// multiply by the perspective king's own square. Selected by building
// with -tags halfka.
const FeatureWidth = 12 * NumPieceSquares

// KingHasFeature is true under HalfKA-single: features are
// king-square-independent, so the king has a feature row of its own
// and a king move can be updated incrementally like any other piece.
const KingHasFeature = true

// FeatureIndex computes the HalfKA-single feature index: (pt +
// (c==perspective ? 0 : 6))*64 + s', mirrored for Black's perspective.
// Unlike HalfKP, the king has a feature of its own (so king moves are
// incrementally updatable the same as any other piece, at the cost of
// a wider input layer).
func FeatureIndex(perspective board.Color, kingSq board.Square, pt board.PieceType, c board.Color, sq board.Square) int {
	s := int(sq)
	if perspective == board.Black {
		s = int(sq.Mirror())
	}
	half := 0
	if c != perspective {
		half = 6
	}
	return (int(pt)+half)*NumPieceSquares + s
}
