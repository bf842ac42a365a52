package pgn

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

type TokenKind int

const (
	TokenMove TokenKind = iota
	TokenComment
	TokenNag
	TokenVariationStart
	TokenVariationEnd
	TokenResult
)

type Token struct {
	Kind  TokenKind
	Value string
	Nag   int
}

var (
	errUnterminatedComment = errors.New("unterminated comment")
	errUnbalancedComment   = errors.New("unbalanced comment")
)

// Tokenize splits movetext into tokens. Move numbers are dropped,
// suffix annotations become NAG tokens.
func Tokenize(movetext string) ([]Token, error) {
	var result []Token
	var i = 0
	for i < len(movetext) {
		var c = movetext[i]
		switch {
		case c == '{':
			var end = strings.IndexByte(movetext[i+1:], '}')
			if end < 0 {
				return nil, errUnterminatedComment
			}
			result = append(result, Token{Kind: TokenComment, Value: strings.TrimSpace(movetext[i+1 : i+1+end])})
			i += end + 2
		case c == ';':
			var end = strings.IndexByte(movetext[i:], '\n')
			if end < 0 {
				end = len(movetext) - i
			}
			result = append(result, Token{Kind: TokenComment, Value: strings.TrimSpace(movetext[i+1 : i+end])})
			i += end
		case c == '}':
			return nil, errUnbalancedComment
		case c == '(':
			result = append(result, Token{Kind: TokenVariationStart, Value: "("})
			i++
		case c == ')':
			result = append(result, Token{Kind: TokenVariationEnd, Value: ")"})
			i++
		case c == '$':
			var j = i + 1
			for j < len(movetext) && '0' <= movetext[j] && movetext[j] <= '9' {
				j++
			}
			if nag, err := strconv.Atoi(movetext[i+1 : j]); err == nil {
				result = append(result, Token{Kind: TokenNag, Value: movetext[i:j], Nag: nag})
			}
			i = j
		case isSpace(c):
			i++
		default:
			var j = i
			for j < len(movetext) && !isDelimiter(movetext[j]) {
				j++
			}
			result = appendSymbol(result, movetext[i:j])
			i = j
		}
	}
	return result, nil
}

func appendSymbol(tokens []Token, symbol string) []Token {
	if isResult(symbol) {
		return append(tokens, Token{Kind: TokenResult, Value: symbol})
	}

	symbol = moveNumberRegex.ReplaceAllString(symbol, "")
	if symbol == "" {
		return tokens
	}

	var san = strings.TrimRight(symbol, "!?")
	var annotation = symbol[len(san):]
	if san != "" {
		if strings.HasPrefix(san, "0-0") {
			san = strings.ReplaceAll(san, "0", "O")
		}
		tokens = append(tokens, Token{Kind: TokenMove, Value: san})
	}
	if nag, found := suffixNags[annotation]; found {
		tokens = append(tokens, Token{Kind: TokenNag, Value: annotation, Nag: nag})
	}
	return tokens
}

func isResult(symbol string) bool {
	switch symbol {
	case GameResultWhiteWin, GameResultBlackWin, GameResultDraw, GameResultNone:
		return true
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDelimiter(c byte) bool {
	return isSpace(c) || strings.IndexByte("{}();$", c) >= 0
}

var moveNumberRegex = regexp.MustCompile(`^\d*\.+`)

var suffixNags = map[string]int{
	"!":  1,
	"?":  2,
	"!!": 3,
	"??": 4,
	"!?": 5,
	"?!": 6,
}
