package pgn

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

var (
	errVariationWithoutMove  = errors.New("variation before first move")
	errUnbalancedVariation   = errors.New("unbalanced variation")
	errUnterminatedVariation = errors.New("unterminated variation")
	errTokensAfterResult     = errors.New("movetext after game result")
)

// ParseGame builds the move tree of a game.
// Any move that can not be replayed fails the whole game.
func ParseGame(raw GameRaw) (*Game, error) {
	var fail = func(token string, err error) error {
		return &ParseError{Game: raw.Index, Line: raw.Line, Token: token, Err: err}
	}

	var start = chess.StartingPosition()
	if fen, fenFound := tagValue(raw.Tags, "FEN"); fenFound {
		var err error
		start, err = PositionFromFEN(fen)
		if err != nil {
			return nil, fail("", fmt.Errorf("parse FEN tag failed: %w", err))
		}
	}

	tokens, err := Tokenize(raw.Movetext)
	if err != nil {
		return nil, fail("", err)
	}

	var game = &Game{
		Tags:   raw.Tags,
		Root:   &Node{position: start},
		Result: GameResultNone,
	}
	if result, resultFound := tagValue(raw.Tags, "Result"); resultFound {
		game.Result = result
	}

	var cur = game.Root
	var variations []*Node
	var ended bool

	for _, token := range tokens {
		if ended && token.Kind != TokenComment {
			return nil, fail(token.Value, errTokensAfterResult)
		}
		switch token.Kind {
		case TokenMove:
			move, err := decodeSAN(cur.position, token.Value)
			if err != nil {
				return nil, fail(token.Value, err)
			}
			cur = cur.addVariation(token.Value, move)
		case TokenComment:
			if ended {
				continue
			}
			if cur.Comment != "" {
				cur.Comment += " "
			}
			cur.Comment += token.Value
		case TokenNag:
			cur.Nags = append(cur.Nags, token.Nag)
		case TokenVariationStart:
			if cur.Parent == nil {
				return nil, fail(token.Value, errVariationWithoutMove)
			}
			variations = append(variations, cur)
			cur = cur.Parent
		case TokenVariationEnd:
			if len(variations) == 0 {
				return nil, fail(token.Value, errUnbalancedVariation)
			}
			cur = variations[len(variations)-1]
			variations = variations[:len(variations)-1]
		case TokenResult:
			if len(variations) != 0 {
				return nil, fail(token.Value, errUnterminatedVariation)
			}
			game.Result = token.Value
			ended = true
		}
	}

	if len(variations) != 0 {
		return nil, fail("", errUnterminatedVariation)
	}
	return game, nil
}

// PositionFromFEN accepts full FEN and 4-field EPD.
func PositionFromFEN(fen string) (*chess.Position, error) {
	var fields = strings.Fields(fen)
	if len(fields) == 4 {
		fields = append(fields, "0", "1")
	}
	opt, err := chess.FEN(strings.Join(fields, " "))
	if err != nil {
		return nil, err
	}
	return chess.NewGame(opt).Position(), nil
}
