// Package epd encodes board states as position keys.
//
// An EPD key holds piece placement, side to move, castling rights and the
// en-passant square. The en-passant square is written only when an
// en-passant capture is legal, so transposed positions get equal keys.
// FEN keys additionally carry the half-move clock and the full-move number.
package epd

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

type Notation int

const (
	EPD Notation = iota
	FEN
)

func (n Notation) String() string {
	switch n {
	case EPD:
		return "epd"
	case FEN:
		return "fen"
	}
	return fmt.Sprintf("Notation(%d)", int(n))
}

func ParseNotation(s string) (Notation, error) {
	switch strings.ToLower(s) {
	case "epd":
		return EPD, nil
	case "fen":
		return FEN, nil
	}
	return EPD, fmt.Errorf("unknown notation %q", s)
}

// Op is an EPD operation written as "opcode operand;".
type Op struct {
	Opcode  string
	Operand string
}

func Key(pos *chess.Position, notation Notation) string {
	var fields = fenFields(pos)
	if notation == FEN {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:4], " ")
}

// Encode returns the EPD of pos followed by ops.
func Encode(pos *chess.Position, ops ...Op) string {
	var sb = &strings.Builder{}
	sb.WriteString(Key(pos, EPD))
	for _, op := range ops {
		sb.WriteString(" ")
		sb.WriteString(op.Opcode)
		if op.Operand != "" {
			sb.WriteString(" ")
			sb.WriteString(op.Operand)
		}
		sb.WriteString(";")
	}
	return sb.String()
}

func fenFields(pos *chess.Position) []string {
	var fields = strings.Fields(pos.String())
	if fields[3] != "-" && !hasEnPassantCapture(pos) {
		fields[3] = "-"
	}
	return fields
}

func hasEnPassantCapture(pos *chess.Position) bool {
	for _, move := range pos.ValidMoves() {
		if move.HasTag(chess.EnPassant) {
			return true
		}
	}
	return false
}
