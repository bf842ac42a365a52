package pgn

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCompressed(t *testing.T, path string, wrap func(io.Writer) (io.WriteCloser, error)) {
	t.Helper()
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	w, err := wrap(file)
	require.NoError(t, err)
	_, err = io.WriteString(w, twoGames)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestOpenInput(t *testing.T) {
	var dir = t.TempDir()
	var tests = []struct {
		name string
		wrap func(io.Writer) (io.WriteCloser, error)
	}{
		{
			name: "games.pgn",
			wrap: func(w io.Writer) (io.WriteCloser, error) {
				return nopWriteCloser{w}, nil
			},
		},
		{
			name: "games.pgn.gz",
			wrap: func(w io.Writer) (io.WriteCloser, error) {
				return gzip.NewWriter(w), nil
			},
		},
		{
			name: "games.pgn.bz2",
			wrap: func(w io.Writer) (io.WriteCloser, error) {
				return bzip2.NewWriter(w, nil)
			},
		},
		{
			name: "games.pgn.zst",
			wrap: func(w io.Writer) (io.WriteCloser, error) {
				return zstd.NewWriter(w)
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var path = filepath.Join(dir, test.name)
			writeCompressed(t, path, test.wrap)

			input, err := OpenInput(path)
			require.NoError(t, err)
			defer input.Close()

			var counter = NewCountingReader(input)
			data, err := io.ReadAll(counter)
			require.NoError(t, err)
			assert.Equal(t, twoGames, string(data))
			assert.Equal(t, int64(len(twoGames)), counter.Count())
		})
	}
}

func TestOpenInputMissing(t *testing.T) {
	_, err := OpenInput(filepath.Join(t.TempDir(), "missing.pgn"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenInputCorrupted(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "broken.pgn.gz")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 64)), 0644))
	_, err := OpenInput(path)
	assert.Error(t, err)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
