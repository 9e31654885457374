// Package moveindex maps chess moves onto the fixed 1858-slot index space
// the network's policy head is defined over.
//
// The space enumerates every (from, to) pair reachable by queen or knight
// geometry (1792 slots) followed by every underpromotion: each pawn push or
// capture from the seventh rank combined with a knight, bishop or rook
// promotion piece (66 slots). Promotions to a queen share the bare
// from-to slot. Indices are always expressed from the side to move's
// perspective: the board is flipped vertically for black before the
// orientation transform is applied.
package moveindex

import (
	"github.com/notnil/chess"
)

// SpaceSize is the number of slots in the global move-index space.
const SpaceSize = 1858

var (
	table   []string
	indexOf map[string]int
)

func init() {
	table = make([]string, 0, SpaceSize)
	for from := 0; from < 64; from++ {
		for to := 0; to < 64; to++ {
			if to == from || (!queenReach(from, to) && !knightReach(from, to)) {
				continue
			}
			table = append(table, squareName(from)+squareName(to))
		}
	}
	for file := 0; file < 8; file++ {
		from := 48 + file
		for _, df := range [3]int{-1, 0, 1} {
			tf := file + df
			if tf < 0 || tf > 7 {
				continue
			}
			to := 56 + tf
			for _, promo := range [3]byte{'n', 'b', 'r'} {
				table = append(table, squareName(from)+squareName(to)+string(promo))
			}
		}
	}
	indexOf = make(map[string]int, len(table))
	for i, uci := range table {
		indexOf[uci] = i
	}
}

// FromMove computes the global index of a legal move under the given side
// to move and orientation transform. It returns -1 when the move is not
// representable in the index space.
func FromMove(m *chess.Move, stm chess.Color, t Transform) int {
	from, to := int(m.S1()), int(m.S2())
	if stm == chess.Black {
		from ^= 56
		to ^= 56
	}
	from, to = t.Apply(from), t.Apply(to)

	uci := squareName(from) + squareName(to)
	switch m.Promo() {
	case chess.NoPieceType, chess.Queen:
		// Queen promotions use the bare from-to slot.
	case chess.Knight:
		uci += "n"
	case chess.Bishop:
		uci += "b"
	case chess.Rook:
		uci += "r"
	default:
		return -1
	}

	idx, ok := indexOf[uci]
	if !ok {
		return -1
	}
	return idx
}

// ToMove inverts FromMove: it recovers the from/to squares and promotion
// piece, expressed in the position's own frame, for a global index. A bare
// slot reports chess.NoPieceType; whether it stands for a quiet move or a
// queen promotion is resolved by the caller against the legal-move set.
// ok is false for indices outside [0, SpaceSize).
func ToMove(idx int, stm chess.Color, t Transform) (from, to int, promo chess.PieceType, ok bool) {
	if idx < 0 || idx >= len(table) {
		return 0, 0, chess.NoPieceType, false
	}
	uci := table[idx]
	from = parseSquare(uci[0:2])
	to = parseSquare(uci[2:4])
	promo = chess.NoPieceType
	if len(uci) == 5 {
		switch uci[4] {
		case 'n':
			promo = chess.Knight
		case 'b':
			promo = chess.Bishop
		case 'r':
			promo = chess.Rook
		}
	}

	from, to = t.Invert(from), t.Invert(to)
	if stm == chess.Black {
		from ^= 56
		to ^= 56
	}
	return from, to, promo, true
}

// UCI returns the canonical move string for a slot, in the network frame.
// ok is false for indices outside [0, SpaceSize).
func UCI(idx int) (string, bool) {
	if idx < 0 || idx >= len(table) {
		return "", false
	}
	return table[idx], true
}

func queenReach(from, to int) bool {
	df := to%8 - from%8
	dr := to/8 - from/8
	if df == 0 || dr == 0 {
		return true
	}
	if df < 0 {
		df = -df
	}
	if dr < 0 {
		dr = -dr
	}
	return df == dr
}

func knightReach(from, to int) bool {
	df := to%8 - from%8
	dr := to/8 - from/8
	if df < 0 {
		df = -df
	}
	if dr < 0 {
		dr = -dr
	}
	return (df == 1 && dr == 2) || (df == 2 && dr == 1)
}

func squareName(sq int) string {
	return string([]byte{'a' + byte(sq%8), '1' + byte(sq/8)})
}

func parseSquare(s string) int {
	return int(s[0]-'a') + int(s[1]-'1')*8
}
