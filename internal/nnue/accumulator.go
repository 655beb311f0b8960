package nnue

import "github.com/chesskit-engine/chesskit/internal/board"

// Accumulator stores the accumulated hidden layer values for incremental updates.
// Each side has its own accumulator from its perspective.
type Accumulator struct {
	// Hidden layer values for white and black perspectives
	// Stored as int16 for quantized arithmetic
	White [L1Size]int16
	Black [L1Size]int16

	// PSQTWhite/PSQTBlack are the scalar PSQT accumulator, maintained
	// in parallel to White/Black via the same active-feature set.
	PSQTWhite int32
	PSQTBlack int32

	// Track if accumulator is computed
	Computed bool
}

// AccumulatorStack manages accumulators during search.
type AccumulatorStack struct {
	stack [128]Accumulator // One per ply
	top   int
}

// NewAccumulatorStack creates a new accumulator stack.
func NewAccumulatorStack() *AccumulatorStack {
	return &AccumulatorStack{}
}

// Push saves current accumulator state.
func (s *AccumulatorStack) Push() {
	if s.top < 127 {
		s.stack[s.top+1] = s.stack[s.top]
		s.top++
	}
}

// Pop restores previous accumulator state.
func (s *AccumulatorStack) Pop() {
	if s.top > 0 {
		s.top--
	}
}

// Current returns the current accumulator.
func (s *AccumulatorStack) Current() *Accumulator {
	return &s.stack[s.top]
}

// Reset resets the stack to initial state.
func (s *AccumulatorStack) Reset() {
	s.top = 0
	s.stack[0].Computed = false
}

// ComputeFull computes the accumulator from scratch for a position.
func (acc *Accumulator) ComputeFull(pos *board.Position, net *Network) {
	// Get active features
	whiteFeatures, blackFeatures := GetActiveFeatures(pos)

	// Start with bias
	copy(acc.White[:], net.L1Bias[:])
	copy(acc.Black[:], net.L1Bias[:])
	acc.PSQTWhite, acc.PSQTBlack = 0, 0

	// Add active feature weights
	for _, idx := range whiteFeatures {
		if idx >= 0 && idx < FeatureWidth {
			for i := 0; i < L1Size; i++ {
				acc.White[i] += net.L1Weights[idx][i]
			}
			acc.PSQTWhite += net.PSQTWeights[idx]
		}
	}

	for _, idx := range blackFeatures {
		if idx >= 0 && idx < FeatureWidth {
			for i := 0; i < L1Size; i++ {
				acc.Black[i] += net.L1Weights[idx][i]
			}
			acc.PSQTBlack += net.PSQTWeights[idx]
		}
	}

	acc.Computed = true
}

// UpdateIncremental updates the accumulator incrementally for a move.
// This is the key efficiency optimization - O(changed pieces) instead of O(all pieces).
// Should be called AFTER the move has been made on the position.
func (acc *Accumulator) UpdateIncremental(pos *board.Position, m board.Move, captured board.Piece, net *Network) {
	if !acc.Computed {
		acc.ComputeFull(pos, net)
		return
	}

	movedPiece := pos.PieceAt(m.To())
	if movedPiece == board.NoPiece {
		// Invalid state, recompute
		acc.Computed = false
		return
	}

	// Under HalfKP every other piece's feature depends on the king's
	// own square, so a king move forces a full rebuild; under
	// HalfKA-single features are king-square-independent and the king
	// move is just another incremental add/remove (see features.go).
	if movedPiece.Type() == board.King && !KingHasFeature {
		acc.ComputeFull(pos, net)
		return
	}

	// Get changed features
	whiteAdd, whiteRem, blackAdd, blackRem := GetChangedFeatures(pos, m, captured)

	// Apply removals
	for _, idx := range whiteRem {
		if idx >= 0 && idx < FeatureWidth {
			for i := 0; i < L1Size; i++ {
				acc.White[i] -= net.L1Weights[idx][i]
			}
			acc.PSQTWhite -= net.PSQTWeights[idx]
		}
	}
	for _, idx := range blackRem {
		if idx >= 0 && idx < FeatureWidth {
			for i := 0; i < L1Size; i++ {
				acc.Black[i] -= net.L1Weights[idx][i]
			}
			acc.PSQTBlack -= net.PSQTWeights[idx]
		}
	}

	// Apply additions
	for _, idx := range whiteAdd {
		if idx >= 0 && idx < FeatureWidth {
			for i := 0; i < L1Size; i++ {
				acc.White[i] += net.L1Weights[idx][i]
			}
			acc.PSQTWhite += net.PSQTWeights[idx]
		}
	}
	for _, idx := range blackAdd {
		if idx >= 0 && idx < FeatureWidth {
			for i := 0; i < L1Size; i++ {
				acc.Black[i] += net.L1Weights[idx][i]
			}
			acc.PSQTBlack += net.PSQTWeights[idx]
		}
	}
}
