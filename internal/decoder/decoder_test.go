package decoder

import (
	"math"
	"testing"

	"github.com/notnil/chess"

	"github.com/discochess/netprobe/internal/moveindex"
)

func positionFromFEN(t *testing.T, fen string) *chess.Position {
	t.Helper()
	pos := &chess.Position{}
	if err := pos.UnmarshalText([]byte(fen)); err != nil {
		t.Fatalf("parsing FEN %q: %v", fen, err)
	}
	return pos
}

func testRow() []float32 {
	row := make([]float32, moveindex.SpaceSize)
	for i := range row {
		row[i] = float32(math.Sin(float64(i) * 0.31))
	}
	return row
}

func TestLegalOrderingAndSubset(t *testing.T) {
	pos := positionFromFEN(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	row := testRow()

	got := Legal(pos, moveindex.NoTransform, row)
	if len(got) != 20 {
		t.Fatalf("got %d scored moves, want 20", len(got))
	}

	legal := make(map[int]bool)
	for _, m := range pos.ValidMoves() {
		legal[moveindex.FromMove(m, pos.Turn(), moveindex.NoTransform)] = true
	}
	for i, s := range got {
		if !legal[s.Index] {
			t.Errorf("index %d does not correspond to a legal move", s.Index)
		}
		if s.Score != row[s.Index] {
			t.Errorf("index %d score = %v, want %v", s.Index, s.Score, row[s.Index])
		}
		if i > 0 && got[i-1].Index >= s.Index {
			t.Errorf("indices not strictly ascending: %d then %d", got[i-1].Index, s.Index)
		}
	}
}

// The transform changes which slot a move lands in; decoding with the
// encoder's transform must stay within the legal set computed under that
// same transform.
func TestLegalRespectsTransform(t *testing.T) {
	pos := positionFromFEN(t, "8/8/8/8/8/8/8/k1K5 w - - 0 1")
	row := testRow()

	plain := Legal(pos, moveindex.NoTransform, row)
	flipped := Legal(pos, moveindex.FlipTransform, row)
	if len(plain) != len(flipped) {
		t.Fatalf("move counts differ: %d vs %d", len(plain), len(flipped))
	}
	same := true
	for i := range plain {
		if plain[i].Index != flipped[i].Index {
			same = false
		}
	}
	if same {
		t.Error("flip transform produced identical indices")
	}
}

func TestLegalDropsUnrepresentable(t *testing.T) {
	// Underpromotions become unrepresentable under a vertical mirror.
	pos := positionFromFEN(t, "1n1q2k1/2P5/8/8/8/8/6K1/8 w - - 0 1")
	row := testRow()

	under := 0
	for _, m := range pos.ValidMoves() {
		switch m.Promo() {
		case chess.Knight, chess.Bishop, chess.Rook:
			under++
		}
	}
	if under == 0 {
		t.Fatal("position generated no underpromotions")
	}

	all := Legal(pos, moveindex.NoTransform, row)
	mirrored := Legal(pos, moveindex.MirrorTransform, row)
	if len(mirrored) != len(all)-under {
		t.Errorf("mirrored decode kept %d moves, want %d", len(mirrored), len(all)-under)
	}
}

func TestTopSetOrdering(t *testing.T) {
	row := make([]float32, moveindex.SpaceSize)
	// Three clear spikes; everything else stays near-uniform noise floor.
	row[100] = 8
	row[50] = 9
	row[1700] = 7

	got := TopSet(row, 0.01)
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3: %v", len(got), got)
	}
	wantOrder := []int{50, 100, 1700}
	for i, s := range got {
		if s.Index != wantOrder[i] {
			t.Errorf("entry %d index = %d, want %d", i, s.Index, wantOrder[i])
		}
		if i > 0 && got[i-1].Score < s.Score {
			t.Errorf("scores not descending at entry %d", i)
		}
	}
}

func TestTopSetTieBreak(t *testing.T) {
	row := make([]float32, moveindex.SpaceSize)
	// Two identical spikes: equal probabilities, index order must decide.
	row[900] = 10
	row[40] = 10

	got := TopSet(row, 0.01)
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].Index != 40 || got[1].Index != 900 {
		t.Errorf("tie order = [%d %d], want [40 900]", got[0].Index, got[1].Index)
	}
}

func TestTopSetProbabilities(t *testing.T) {
	row := testRow()
	got := TopSet(row, 0)
	var sum float64
	for _, s := range got {
		if s.Score <= 0 || s.Score > 1 {
			t.Fatalf("probability %v out of range", s.Score)
		}
		sum += float64(s.Score)
	}
	if math.Abs(sum-1) > 1e-3 {
		t.Errorf("probabilities sum to %v, want ~1", sum)
	}
}
