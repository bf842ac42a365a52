package pgn

import (
	"bufio"
	"context"
	"io"
	"regexp"
	"strings"
)

const maxLineSize = 16 * 1024 * 1024

// Splitter cuts a PGN stream into games.
// A tag line that follows movetext starts the next game.
type Splitter struct {
	scanner     *bufio.Scanner
	line        int
	gameCount   int
	pending     string
	hasPending  bool
	pendingLine int
}

func NewSplitter(r io.Reader) *Splitter {
	var scanner = bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return &Splitter{scanner: scanner}
}

// Next returns the next game or io.EOF.
func (s *Splitter) Next() (GameRaw, error) {
	var raw GameRaw
	var body = &strings.Builder{}
	var hasBody bool
	var state movetextState

	for {
		var line, lineNumber, ok = s.readLine()
		if !ok {
			break
		}
		if strings.HasPrefix(line, "%") {
			continue
		}
		var trimmed = strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !state.inComment && strings.HasPrefix(trimmed, "[") {
			if hasBody {
				s.unreadLine(line, lineNumber)
				break
			}
			if raw.Line == 0 {
				raw.Line = lineNumber
			}
			if tag, ok := parseTag(trimmed); ok {
				raw.Tags = append(raw.Tags, tag)
			}
			continue
		}
		if raw.Line == 0 {
			raw.Line = lineNumber
		}
		hasBody = true
		body.WriteString(line)
		body.WriteString("\n")
		state.scan(line)
		if state.ended {
			break
		}
	}

	if err := s.scanner.Err(); err != nil {
		return GameRaw{}, err
	}
	if raw.Line == 0 {
		return GameRaw{}, io.EOF
	}
	s.gameCount++
	raw.Index = s.gameCount
	raw.Movetext = body.String()
	return raw, nil
}

func (s *Splitter) readLine() (string, int, bool) {
	if s.hasPending {
		s.hasPending = false
		return s.pending, s.pendingLine, true
	}
	if !s.scanner.Scan() {
		return "", 0, false
	}
	s.line++
	return s.scanner.Text(), s.line, true
}

func (s *Splitter) unreadLine(line string, lineNumber int) {
	s.pending = line
	s.pendingLine = lineNumber
	s.hasPending = true
}

// movetextState follows movetext line by line. A game ends at a result
// token outside comments and variations.
type movetextState struct {
	inComment bool
	depth     int
	ended     bool
}

func (st *movetextState) scan(line string) {
	var i = 0
	for i < len(line) && !st.ended {
		var c = line[i]
		if st.inComment {
			if c == '}' {
				st.inComment = false
			}
			i++
			continue
		}
		switch {
		case c == '{':
			st.inComment = true
			i++
		case c == ';':
			return
		case c == '(':
			st.depth++
			i++
		case c == ')':
			st.depth--
			i++
		case isDelimiter(c):
			i++
		default:
			var j = i
			for j < len(line) && !isDelimiter(line[j]) {
				j++
			}
			if st.depth <= 0 && isResult(line[i:j]) {
				st.ended = true
			}
			i = j
		}
	}
}

func parseTag(line string) (Tag, bool) {
	var match = tagPairRegex.FindStringSubmatch(line)
	if match == nil {
		return Tag{}, false
	}
	return Tag{Key: match[1], Value: tagValueReplacer.Replace(match[2])}, true
}

// LoadGames sends every game of the stream into games.
func LoadGames(ctx context.Context, r io.Reader, games chan<- GameRaw) error {
	var splitter = NewSplitter(r)
	for {
		var raw, err = splitter.Next()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case games <- raw:
		}
	}
}

var (
	tagPairRegex     = regexp.MustCompile(`^\[\s*(\w+)\s+"(.*)"\s*\]`)
	tagValueReplacer = strings.NewReplacer(`\"`, `"`, `\\`, `\`)
)
