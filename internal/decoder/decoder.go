// Package decoder maps the network's dense policy output back onto moves.
//
// Two mutually exclusive output shapes are supported. Legal-restricted
// decoding filters the 1858-slot row down to the moves legal in the source
// position, invariant: the same orientation transform that was used while
// encoding must be supplied here, otherwise scores attach to the wrong
// moves. Unrestricted top-set decoding ignores legality entirely and
// reports every slot whose softmax probability clears a threshold, which
// exposes raw network output including illegal-move leakage.
package decoder

import (
	"math"
	"sort"

	"github.com/notnil/chess"
	"gonum.org/v1/gonum/floats"

	"github.com/discochess/netprobe/internal/moveindex"
)

// Scored is one (global move index, score) pair. In legal-restricted mode
// the score is the raw logit; in top-set mode it is a softmax probability.
type Scored struct {
	Index int
	Score float32
}

// Legal returns the scored legal moves of pos, ordered by ascending global
// index. Moves whose index falls outside the space are unrepresentable and
// silently dropped.
func Legal(pos *chess.Position, transform moveindex.Transform, row []float32) []Scored {
	moves := pos.ValidMoves()
	out := make([]Scored, 0, len(moves))
	for _, m := range moves {
		idx := moveindex.FromMove(m, pos.Turn(), transform)
		if idx < 0 || idx >= len(row) {
			continue
		}
		out = append(out, Scored{Index: idx, Score: row[idx]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// TopSet softmaxes the whole row and returns every slot with probability
// strictly above threshold, ordered by descending probability; exact ties
// order by ascending index.
func TopSet(row []float32, threshold float32) []Scored {
	probs := softmax(row)
	out := make([]Scored, 0, 16)
	for idx, p := range probs {
		if p > float64(threshold) {
			out = append(out, Scored{Index: idx, Score: float32(p)})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Index < out[j].Index
	})
	return out
}

func softmax(row []float32) []float64 {
	x := make([]float64, len(row))
	for i, v := range row {
		x[i] = float64(v)
	}
	max := floats.Max(x)
	for i := range x {
		x[i] = math.Exp(x[i] - max)
	}
	sum := floats.Sum(x)
	floats.Scale(1/sum, x)
	return x
}
