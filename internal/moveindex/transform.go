package moveindex

// Transform identifies the board symmetry applied while encoding a position.
// It is a bitfield; the individual transforms compose and each one is its
// own inverse, but they do not commute, so Apply and Invert fix the order.
type Transform uint8

const (
	// NoTransform leaves the board as-is.
	NoTransform Transform = 0

	// FlipTransform mirrors the board horizontally (file a <-> file h).
	FlipTransform Transform = 1

	// MirrorTransform mirrors the board vertically (rank 1 <-> rank 8).
	MirrorTransform Transform = 2

	// TransposeTransform reflects the board across the a1-h8 diagonal.
	TransposeTransform Transform = 4
)

// Apply maps a square (0..63, a1=0) into the transformed frame.
// Flip is applied first, then mirror, then transpose.
func (t Transform) Apply(sq int) int {
	if t&FlipTransform != 0 {
		sq ^= 7
	}
	if t&MirrorTransform != 0 {
		sq ^= 56
	}
	if t&TransposeTransform != 0 {
		sq = (sq&7)<<3 | sq>>3
	}
	return sq
}

// Invert maps a square from the transformed frame back to the original one.
func (t Transform) Invert(sq int) int {
	if t&TransposeTransform != 0 {
		sq = (sq&7)<<3 | sq>>3
	}
	if t&MirrorTransform != 0 {
		sq ^= 56
	}
	if t&FlipTransform != 0 {
		sq ^= 7
	}
	return sq
}
