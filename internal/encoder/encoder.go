// Package encoder converts a parsed chess position into the fixed input
// tensor layout the network expects, together with the orientation
// transform that was applied. The same transform must be handed to the
// policy decoder; encode and decode are only consistent in pairs.
package encoder

import (
	"github.com/notnil/chess"

	"github.com/discochess/netprobe/internal/moveindex"
)

// InputFormat identifies the tensor layout a network requires. It is
// obtained from the network's capability descriptor and passed unchanged
// to every Encode call.
type InputFormat int

const (
	// Classical112 is the plain 112-plane layout. The orientation
	// transform is always NoTransform.
	Classical112 InputFormat = iota + 1

	// Canonical112 is the 112-plane layout with positional
	// canonicalization: when neither side retains castling rights and the
	// side-to-move king sits on files a-d, the board is mirrored
	// horizontally so equivalent positions share one encoding.
	Canonical112
)

// HistoryMode controls how the eight history steps are populated when a
// position arrives without prior history.
type HistoryMode int

const (
	// HistoryFilled duplicates the current snapshot into every history
	// step (FEN-only fill).
	HistoryFilled HistoryMode = iota

	// HistoryNone leaves the seven prior steps zeroed.
	HistoryNone
)

// Tensor geometry.
const (
	PlaneCount   = 112
	HistorySteps = 8

	planesPerStep = 13
	auxBase       = HistorySteps * planesPerStep

	// SlotFloats is the number of float32 values in one encoded slot.
	SlotFloats = PlaneCount * 64
)

// Slot is the encoded tensor representation of a single position plus the
// orientation transform that was applied while encoding it.
type Slot struct {
	Planes    []float32
	Transform moveindex.Transform
}

// Encode builds the input slot for a position. The board is always encoded
// from the side to move's perspective (vertical flip for black); the
// returned transform captures any additional canonicalization.
func Encode(pos *chess.Position, format InputFormat, history HistoryMode) Slot {
	stm := pos.Turn()
	transform := selectTransform(pos, format)

	planes := make([]float32, SlotFloats)
	board := pos.Board()

	// Current snapshot into history step 0.
	for sq := 0; sq < 64; sq++ {
		piece := board.Piece(chess.Square(sq))
		if piece == chess.NoPiece {
			continue
		}
		plane := piecePlane(piece, stm)
		rsq := sq
		if stm == chess.Black {
			rsq ^= 56
		}
		planes[plane*64+transform.Apply(rsq)] = 1
	}

	if history == HistoryFilled {
		step0 := planes[:planesPerStep*64]
		for step := 1; step < HistorySteps; step++ {
			copy(planes[step*planesPerStep*64:(step+1)*planesPerStep*64], step0)
		}
	}

	rights := pos.CastleRights()
	us, them := stm, stm.Other()
	if rights.CanCastle(us, chess.QueenSide) {
		fillPlane(planes, auxBase+0, 1)
	}
	if rights.CanCastle(us, chess.KingSide) {
		fillPlane(planes, auxBase+1, 1)
	}
	if rights.CanCastle(them, chess.QueenSide) {
		fillPlane(planes, auxBase+2, 1)
	}
	if rights.CanCastle(them, chess.KingSide) {
		fillPlane(planes, auxBase+3, 1)
	}
	if stm == chess.Black {
		fillPlane(planes, auxBase+4, 1)
	}
	fillPlane(planes, auxBase+5, float32(pos.HalfMoveClock()))
	// auxBase+6 stays zero (move count, unused by modern nets).
	fillPlane(planes, auxBase+7, 1)

	return Slot{Planes: planes, Transform: transform}
}

// selectTransform returns the canonicalization transform for a position.
// Castling rights pin the king's frame, so canonicalization only applies
// once both sides have lost them.
func selectTransform(pos *chess.Position, format InputFormat) moveindex.Transform {
	if format != Canonical112 {
		return moveindex.NoTransform
	}
	rights := pos.CastleRights()
	for _, c := range [2]chess.Color{chess.White, chess.Black} {
		if rights.CanCastle(c, chess.KingSide) || rights.CanCastle(c, chess.QueenSide) {
			return moveindex.NoTransform
		}
	}
	king := kingSquare(pos.Board(), pos.Turn())
	if pos.Turn() == chess.Black {
		king ^= 56
	}
	if king%8 < 4 {
		return moveindex.FlipTransform
	}
	return moveindex.NoTransform
}

// piecePlane returns the history-step-0 plane index for a piece: our
// pieces occupy planes 0-5 (P N B R Q K), theirs 6-11, with plane 12
// reserved for repetitions.
func piecePlane(piece chess.Piece, stm chess.Color) int {
	var offset int
	if piece.Color() != stm {
		offset = 6
	}
	switch piece.Type() {
	case chess.Pawn:
		return offset + 0
	case chess.Knight:
		return offset + 1
	case chess.Bishop:
		return offset + 2
	case chess.Rook:
		return offset + 3
	case chess.Queen:
		return offset + 4
	default:
		return offset + 5
	}
}

func kingSquare(board *chess.Board, c chess.Color) int {
	for sq := 0; sq < 64; sq++ {
		piece := board.Piece(chess.Square(sq))
		if piece != chess.NoPiece && piece.Type() == chess.King && piece.Color() == c {
			return sq
		}
	}
	return 0
}

func fillPlane(planes []float32, plane int, v float32) {
	base := plane * 64
	for i := 0; i < 64; i++ {
		planes[base+i] = v
	}
}
