package pgn

import (
	"errors"
	"regexp"
	"strings"

	"github.com/notnil/chess"
)

var errIllegalMove = errors.New("illegal or ambiguous move")

func decodeSAN(pos *chess.Position, san string) (*chess.Move, error) {
	if move, err := (chess.AlgebraicNotation{}).Decode(pos, san); err == nil {
		return move, nil
	}
	// strict decoder rejects over-disambiguated moves like Ngf3
	if move := matchSAN(pos, san); move != nil {
		return move, nil
	}
	return nil, errIllegalMove
}

func matchSAN(pos *chess.Position, san string) *chess.Move {
	san = strings.TrimRight(san, "+#")

	switch san {
	case "O-O":
		return findMove(pos, func(m *chess.Move) bool { return m.HasTag(chess.KingSideCastle) })
	case "O-O-O":
		return findMove(pos, func(m *chess.Move) bool { return m.HasTag(chess.QueenSideCastle) })
	}

	var match = sanRegex.FindStringSubmatch(san)
	if match == nil {
		return nil
	}
	var pieceType = chess.Pawn
	if match[1] != "" {
		pieceType = sanPieceTypes[match[1]]
	}
	var promo = chess.NoPieceType
	if match[5] != "" {
		promo = sanPieceTypes[match[5]]
	}
	var fromFile, fromRank, to = match[2], match[3], match[4]

	return findMove(pos, func(m *chess.Move) bool {
		if m.S2().String() != to ||
			m.Promo() != promo ||
			pos.Board().Piece(m.S1()).Type() != pieceType {
			return false
		}
		var from = m.S1().String()
		return (fromFile == "" || from[:1] == fromFile) &&
			(fromRank == "" || from[1:] == fromRank)
	})
}

// findMove returns the only legal move accepted by filter.
func findMove(pos *chess.Position, filter func(*chess.Move) bool) *chess.Move {
	var result *chess.Move
	for _, move := range pos.ValidMoves() {
		if !filter(move) {
			continue
		}
		if result != nil {
			return nil
		}
		result = move
	}
	return result
}

var sanRegex = regexp.MustCompile(`^([NBRQK])?([a-h])?([1-8])?x?([a-h][1-8])=?([NBRQ])?$`)

var sanPieceTypes = map[string]chess.PieceType{
	"N": chess.Knight,
	"B": chess.Bishop,
	"R": chess.Rook,
	"Q": chess.Queen,
	"K": chess.King,
}
