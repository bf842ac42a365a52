package pgn

import (
	"context"
	"io"
)

// Reader parses games from a PGN stream one at a time.
type Reader struct {
	splitter *Splitter
}

func NewReader(r io.Reader) *Reader {
	return &Reader{splitter: NewSplitter(r)}
}

// ReadGame returns io.EOF after the last game.
func (r *Reader) ReadGame() (*Game, error) {
	raw, err := r.splitter.Next()
	if err != nil {
		return nil, err
	}
	return ParseGame(raw)
}

// ChannelReader parses games produced by LoadGames.
type ChannelReader struct {
	ctx   context.Context
	games <-chan GameRaw
}

func NewChannelReader(ctx context.Context, games <-chan GameRaw) *ChannelReader {
	return &ChannelReader{ctx: ctx, games: games}
}

func (r *ChannelReader) ReadGame() (*Game, error) {
	select {
	case <-r.ctx.Done():
		return nil, r.ctx.Err()
	case raw, ok := <-r.games:
		if !ok {
			return nil, io.EOF
		}
		return ParseGame(raw)
	}
}
