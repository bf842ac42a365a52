package extract

import (
	"io"

	"github.com/ChizhovVadim/pgntools/internal/epd"
	"github.com/ChizhovVadim/pgntools/internal/pgn"
)

// GameReader yields games one at a time and returns io.EOF at the end.
type GameReader interface {
	ReadGame() (*pgn.Game, error)
}

type Options struct {
	SkipDepth  int
	UniqueOnly bool
	Notation   epd.Notation
}

type Stats struct {
	Games      int
	Emitted    int
	TooShort   int
	Duplicates int
}

// Extractor picks one starting position per game:
// the position after SkipDepth main-line plies, if the game goes on from there.
type Extractor struct {
	options Options
	seen    *PositionSet
	stats   Stats
}

// NewExtractor uses seen for de-duplication. A nil seen gets a fresh set.
func NewExtractor(options Options, seen *PositionSet) *Extractor {
	if seen == nil {
		seen = NewPositionSet()
	}
	return &Extractor{options: options, seen: seen}
}

func (e *Extractor) Stats() Stats {
	return e.stats
}

// Extract returns the key of the game's starting position and whether it should be emitted.
func (e *Extractor) Extract(game *pgn.Game) (string, bool) {
	e.stats.Games++

	var node = game.Root
	for i := 0; i < e.options.SkipDepth; i++ {
		var next = node.MainLine()
		if next == nil {
			break
		}
		node = next
	}

	if len(node.Variations) == 0 {
		e.stats.TooShort++
		return "", false
	}

	var key = epd.Key(node.Board(), e.options.Notation)
	if e.options.UniqueOnly {
		if !e.seen.Add(key) {
			e.stats.Duplicates++
			return "", false
		}
	}
	e.stats.Emitted++
	return key, true
}

// Stream is a lazy sequence of position keys.
type Stream struct {
	games     GameReader
	extractor *Extractor
}

func NewStream(games GameReader, extractor *Extractor) *Stream {
	return &Stream{games: games, extractor: extractor}
}

// Next returns the next emitted key, io.EOF at the end of input,
// or the first read error.
func (s *Stream) Next() (string, error) {
	for {
		game, err := s.games.ReadGame()
		if err != nil {
			return "", err
		}
		if key, ok := s.extractor.Extract(game); ok {
			return key, nil
		}
	}
}

// WriteAll writes every key of the stream to w, one per line.
func (s *Stream) WriteAll(w io.Writer) error {
	for {
		key, err := s.Next()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if _, err = io.WriteString(w, key+"\n"); err != nil {
			return err
		}
	}
}
