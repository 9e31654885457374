// Package fen provides cheap FEN (Forsyth-Edwards Notation) sanity checks.
// The pipeline runs them before handing a line to the full parser, so
// obviously malformed input is rejected with a clear diagnostic instead of
// a parser error deep in a batch.
package fen

import (
	"errors"
	"strings"
)

// ErrInvalidFEN indicates the FEN string is malformed.
var ErrInvalidFEN = errors.New("invalid FEN notation")

// Validate checks the structural shape of a FEN line. Piece placement and
// side to move are required; castling rights, en passant target and the
// move counters are checked only when present. Chess-level legality (king
// counts, reachability) is left to the full parser.
func Validate(fen string) error {
	parts := strings.Fields(fen)
	if len(parts) < 2 || len(parts) > 6 {
		return ErrInvalidFEN
	}
	if !validPlacement(parts[0]) {
		return ErrInvalidFEN
	}
	if parts[1] != "w" && parts[1] != "b" {
		return ErrInvalidFEN
	}
	if len(parts) > 2 && !validCastling(parts[2]) {
		return ErrInvalidFEN
	}
	if len(parts) > 3 && !validEnPassant(parts[3]) {
		return ErrInvalidFEN
	}
	if len(parts) > 4 {
		for _, counter := range parts[4:] {
			if !validCounter(counter) {
				return ErrInvalidFEN
			}
		}
	}
	return nil
}

// validPlacement checks the board field: eight slash-separated ranks, each
// summing to exactly eight squares of digits and piece letters.
func validPlacement(placement string) bool {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return false
	}
	for _, rank := range ranks {
		squares := 0
		for _, ch := range rank {
			switch {
			case ch >= '1' && ch <= '8':
				squares += int(ch - '0')
			case strings.ContainsRune("PNBRQKpnbrqk", ch):
				squares++
			default:
				return false
			}
		}
		if squares != 8 {
			return false
		}
	}
	return true
}

func validCastling(rights string) bool {
	if rights == "-" {
		return true
	}
	if rights == "" || len(rights) > 4 {
		return false
	}
	for _, ch := range rights {
		if !strings.ContainsRune("KQkq", ch) {
			return false
		}
	}
	return true
}

func validEnPassant(target string) bool {
	if target == "-" {
		return true
	}
	if len(target) != 2 {
		return false
	}
	// An en passant target can only sit behind a double pawn push.
	return target[0] >= 'a' && target[0] <= 'h' && (target[1] == '3' || target[1] == '6')
}

func validCounter(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
