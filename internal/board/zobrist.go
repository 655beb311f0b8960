package board

// Zobrist hash keys for position hashing.
//
// The table holds exactly 781 keys: 12*64 piece-square keys, 1
// side-to-move key, 4 independent castle-right keys, and 8
// en-passant-file keys. Each castle-right key is XORed independently
// when that single right is gained or lost, rather than looked up
// from a precomputed table of right-combinations — this keeps the
// hash an XOR of independently-togglable feature keys, matching a
// position's castling rights being four independent booleans.
//
// Uses a PRNG with a fixed seed for reproducibility: any two binaries
// built from this source share the same hash table, which is required
// for a shared transposition table to mean anything across processes.
var (
	zobristPiece      [2][6][64]uint64 // [Color][PieceType][Square]
	zobristEnPassant  [8]uint64        // one per file
	zobristCastle     [4]uint64        // WK, WQ, BK, BQ independently
	zobristSideToMove uint64           // XOR when black to move
)

func init() {
	initZobrist()
}

// prng is a reproducible xorshift64* generator for Zobrist keys.
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}

	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}

	for i := 0; i < 4; i++ {
		zobristCastle[i] = rng.next()
	}

	zobristSideToMove = rng.next()
}

// ZobristPiece returns the Zobrist key for a piece on a square.
func ZobristPiece(c Color, pt PieceType, sq Square) uint64 {
	return zobristPiece[c][pt][sq]
}

// ZobristEnPassant returns the Zobrist key for an en passant file.
func ZobristEnPassant(file int) uint64 {
	return zobristEnPassant[file]
}

// ZobristCastleRight returns the independent key for a single castle
// right bit (WhiteKingSideCastle, WhiteQueenSideCastle,
// BlackKingSideCastle, or BlackQueenSideCastle).
func ZobristCastleRight(right CastlingRights) uint64 {
	switch right {
	case WhiteKingSideCastle:
		return zobristCastle[0]
	case WhiteQueenSideCastle:
		return zobristCastle[1]
	case BlackKingSideCastle:
		return zobristCastle[2]
	case BlackQueenSideCastle:
		return zobristCastle[3]
	}
	return 0
}

// ZobristCastling returns the XOR of the independent keys for every
// right set in cr. Hashing a castling-rights value is therefore the
// XOR of up to four independent feature keys, not a lookup into a
// combined table.
func ZobristCastling(cr CastlingRights) uint64 {
	var h uint64
	if cr&WhiteKingSideCastle != 0 {
		h ^= zobristCastle[0]
	}
	if cr&WhiteQueenSideCastle != 0 {
		h ^= zobristCastle[1]
	}
	if cr&BlackKingSideCastle != 0 {
		h ^= zobristCastle[2]
	}
	if cr&BlackQueenSideCastle != 0 {
		h ^= zobristCastle[3]
	}
	return h
}

// ZobristSideToMove returns the Zobrist key for side to move.
func ZobristSideToMove() uint64 {
	return zobristSideToMove
}
