package extract

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChizhovVadim/pgntools/internal/epd"
	"github.com/ChizhovVadim/pgntools/internal/pgn"
)

const (
	startEPD      = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -"
	fourKnightEPD = "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq -"
)

// Games 1 and 2 transpose into the same position after 4 plies and go on,
// game 3 ends right after 4 plies.
const transpositions = `[Event "1"]

1. e4 e5 2. Nf3 Nc6 3. Bb5 *

[Event "2"]

1. Nf3 Nc6 2. e4 (2. d4 d5) 2... e5 3. Bc4 *

[Event "3"]

1. d4 d5 2. c4 e6 *
`

func extractAll(t *testing.T, input string, options Options) []string {
	t.Helper()
	var out bytes.Buffer
	var stream = NewStream(pgn.NewReader(strings.NewReader(input)), NewExtractor(options, nil))
	require.NoError(t, stream.WriteAll(&out))
	if out.Len() == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
}

func TestExtractTranspositions(t *testing.T) {
	assert.Equal(t,
		[]string{fourKnightEPD},
		extractAll(t, transpositions, Options{SkipDepth: 4, UniqueOnly: true}))
	assert.Equal(t,
		[]string{fourKnightEPD, fourKnightEPD},
		extractAll(t, transpositions, Options{SkipDepth: 4, UniqueOnly: false}))
}

func TestExtractSkipZero(t *testing.T) {
	const input = `[Event "one move"]

1. e4 *

[Event "no moves"]

*
`
	assert.Equal(t, []string{startEPD}, extractAll(t, input, Options{SkipDepth: 0}))
}

func TestExtractShortGames(t *testing.T) {
	assert.Empty(t, extractAll(t, transpositions, Options{SkipDepth: 5}))
	assert.Empty(t, extractAll(t, transpositions, Options{SkipDepth: 100}))
}

func TestExtractFollowsMainLineOnly(t *testing.T) {
	// the side line is longer than the main line
	const input = "[Event \"1\"]\n\n1. e4 (1. d4 d5 2. c4 e6) 1... e5 *\n"
	assert.Empty(t, extractAll(t, input, Options{SkipDepth: 2}))
	assert.Equal(t,
		[]string{"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq -"},
		extractAll(t, input, Options{SkipDepth: 1}))
}

func TestExtractFEN(t *testing.T) {
	assert.Equal(t,
		[]string{
			"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
			"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 0 3",
		},
		extractAll(t, transpositions, Options{SkipDepth: 4, UniqueOnly: true, Notation: epd.FEN}))
}

func TestExtractProperties(t *testing.T) {
	for skip := 0; skip <= 6; skip++ {
		var all = extractAll(t, transpositions, Options{SkipDepth: skip})
		var unique = extractAll(t, transpositions, Options{SkipDepth: skip, UniqueOnly: true})

		var longGames = 0
		var reader = pgn.NewReader(strings.NewReader(transpositions))
		for {
			game, err := reader.ReadGame()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			if len(game.MainLine()) > skip {
				longGames++
			}
		}
		assert.Len(t, all, longGames, "skip %v", skip)

		assert.Equal(t, deduplicate(all), unique, "skip %v", skip)
	}
}

func TestExtractUniqueRunsConcatenated(t *testing.T) {
	for skip := 0; skip <= 6; skip++ {
		var options = Options{SkipDepth: skip, UniqueOnly: true}
		var concatenated = append(
			extractAll(t, transpositions, options),
			extractAll(t, transpositions, options)...)
		var all = extractAll(t, transpositions, Options{SkipDepth: skip})

		assert.Equal(t, append(deduplicate(all), deduplicate(all)...), concatenated, "skip %v", skip)
		assert.Equal(t, deduplicate(all), deduplicate(concatenated), "skip %v", skip)
	}
}

func TestExtractorSharedSet(t *testing.T) {
	var seen = NewPositionSet()
	var options = Options{SkipDepth: 4, UniqueOnly: true}

	var first = NewExtractor(options, seen)
	var second = NewExtractor(options, seen)
	var games, err = readGames(transpositions)
	require.NoError(t, err)

	_, ok := first.Extract(games[0])
	assert.True(t, ok)
	_, ok = second.Extract(games[1])
	assert.False(t, ok)
	assert.Equal(t, 1, seen.Len())
	assert.True(t, seen.Contains(fourKnightEPD))

	assert.Equal(t, Stats{Games: 1, Duplicates: 1}, second.Stats())
}

func TestExtractorStats(t *testing.T) {
	var extractor = NewExtractor(Options{SkipDepth: 4, UniqueOnly: true}, nil)
	var games, err = readGames(transpositions)
	require.NoError(t, err)
	for _, game := range games {
		extractor.Extract(game)
	}
	assert.Equal(t, Stats{Games: 3, Emitted: 1, TooShort: 1, Duplicates: 1}, extractor.Stats())
}

func TestStreamStopsOnParseError(t *testing.T) {
	const input = `[Event "1"]

1. e4 e5 *

[Event "2"]

1. e4 Ke7?? 2. Qh5 Qe8 3. Kxe8 *

[Event "3"]

1. d4 d5 *
`
	var out bytes.Buffer
	var stream = NewStream(pgn.NewReader(strings.NewReader(input)), NewExtractor(Options{}, nil))
	var err = stream.WriteAll(&out)

	var parseErr *pgn.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 2, parseErr.Game)
	assert.Equal(t, startEPD+"\n", out.String())
}

func TestStreamEOF(t *testing.T) {
	var stream = NewStream(pgn.NewReader(strings.NewReader("")), NewExtractor(Options{}, nil))
	_, err := stream.Next()
	assert.Equal(t, io.EOF, err)
}

func deduplicate(keys []string) []string {
	var seen = make(map[string]bool)
	var result []string
	for _, key := range keys {
		if !seen[key] {
			seen[key] = true
			result = append(result, key)
		}
	}
	return result
}

func readGames(input string) ([]*pgn.Game, error) {
	var result []*pgn.Game
	var reader = pgn.NewReader(strings.NewReader(input))
	for {
		game, err := reader.ReadGame()
		if err == io.EOF {
			return result, nil
		}
		if err != nil {
			return nil, err
		}
		result = append(result, game)
	}
}
