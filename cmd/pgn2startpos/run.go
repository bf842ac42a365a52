package main

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/inhies/go-bytesize"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ChizhovVadim/pgntools/internal/extract"
	"github.com/ChizhovVadim/pgntools/internal/pgn"
)

const progressInterval = 5 * time.Second

func run(
	ctx context.Context,
	settings Settings,
	stdout io.Writer,
	logger *zap.SugaredLogger,
) error {
	logger.Infow("extract started", "settings", settings)
	defer logger.Info("extract finished")

	input, err := pgn.OpenInput(settings.InputPath)
	if err != nil {
		return err
	}
	defer input.Close()

	var counter = pgn.NewCountingReader(input)
	var extractor = extract.NewExtractor(settings.Options, extract.NewPositionSet())

	g, ctx := errgroup.WithContext(ctx)

	var games = make(chan pgn.GameRaw, 128)
	var done = make(chan struct{})

	g.Go(func() error {
		defer close(games)
		return pgn.LoadGames(ctx, counter, games)
	})

	g.Go(func() error {
		defer close(done)
		var w = bufio.NewWriter(stdout)
		var stream = extract.NewStream(pgn.NewChannelReader(ctx, games), extractor)
		var err = stream.WriteAll(w)
		if flushErr := w.Flush(); err == nil {
			err = flushErr
		}
		return err
	})

	g.Go(func() error {
		var ticker = time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-done:
				return nil
			case <-ticker.C:
				logger.Infow("progress",
					"read", bytesize.New(float64(counter.Count())).String())
			}
		}
	})

	err = g.Wait()

	var stats = extractor.Stats()
	logger.Infow("extract stats",
		"games", stats.Games,
		"emitted", stats.Emitted,
		"tooShort", stats.TooShort,
		"duplicates", stats.Duplicates,
		"read", bytesize.New(float64(counter.Count())).String())
	return err
}
