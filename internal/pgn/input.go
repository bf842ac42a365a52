package pgn

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// OpenInput opens a PGN source. "-" is standard input,
// .gz, .bz2 and .zst files are decompressed on the fly.
func OpenInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var r io.ReadCloser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		r, err = gzip.NewReader(file)
	case ".bz2":
		r, err = bzip2.NewReader(file, nil)
	case ".zst":
		var zr *zstd.Decoder
		zr, err = zstd.NewReader(file)
		if err == nil {
			r = zr.IOReadCloser()
		}
	default:
		return file, nil
	}
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("open %v: %w", path, err)
	}
	return &decompressReader{ReadCloser: r, file: file}, nil
}

type decompressReader struct {
	io.ReadCloser
	file *os.File
}

func (r *decompressReader) Close() error {
	var err = r.ReadCloser.Close()
	if fileErr := r.file.Close(); err == nil {
		err = fileErr
	}
	return err
}

// CountingReader counts consumed bytes. Count is safe to call from another goroutine.
type CountingReader struct {
	r io.Reader
	n atomic.Int64
}

func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{r: r}
}

func (c *CountingReader) Read(p []byte) (int, error) {
	var n, err = c.r.Read(p)
	c.n.Add(int64(n))
	return n, err
}

func (c *CountingReader) Count() int64 {
	return c.n.Load()
}
