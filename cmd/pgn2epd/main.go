package main

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/notnil/chess"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ChizhovVadim/pgntools/internal/epd"
	"github.com/ChizhovVadim/pgntools/internal/extract"
	"github.com/ChizhovVadim/pgntools/internal/logging"
	"github.com/ChizhovVadim/pgntools/internal/pgn"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var logLevel string

	var cmd = &cobra.Command{
		Use:   "pgn2epd <PGN file>",
		Short: "Print every main-line position of PGN games as EPD with the move played",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			logger, err := logging.New(logLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()
			return run(cmd.Context(), args[0], cmd.OutOrStdout(), logger)
		},
	}
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level")
	return cmd
}

func run(ctx context.Context, inputPath string, stdout io.Writer, logger *zap.SugaredLogger) error {
	input, err := pgn.OpenInput(inputPath)
	if err != nil {
		return err
	}
	defer input.Close()

	g, ctx := errgroup.WithContext(ctx)

	var games = make(chan pgn.GameRaw, 128)
	var gameCount, positionCount int

	g.Go(func() error {
		defer close(games)
		return pgn.LoadGames(ctx, input, games)
	})

	g.Go(func() error {
		var w = bufio.NewWriter(stdout)
		var err = writePositions(pgn.NewChannelReader(ctx, games), w, &gameCount, &positionCount)
		if flushErr := w.Flush(); err == nil {
			err = flushErr
		}
		return err
	})

	err = g.Wait()
	logger.Infow("pgn2epd finished",
		"games", gameCount,
		"positions", positionCount)
	return err
}

// writePositions prints the position before every main line move,
// with the move in standard algebraic notation.
func writePositions(games extract.GameReader, w io.Writer, gameCount, positionCount *int) error {
	for {
		game, err := games.ReadGame()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		*gameCount++
		for node := game.Root; node.MainLine() != nil; node = node.MainLine() {
			var san = chess.AlgebraicNotation{}.Encode(node.Board(), node.MainLine().Move)
			var line = epd.Encode(node.Board(), epd.Op{Opcode: "sm", Operand: san})
			if _, err = io.WriteString(w, line+"\n"); err != nil {
				return err
			}
			*positionCount++
		}
	}
}
