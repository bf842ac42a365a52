package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ChizhovVadim/pgntools/internal/epd"
	"github.com/ChizhovVadim/pgntools/internal/extract"
	"github.com/ChizhovVadim/pgntools/internal/logging"
)

type Settings struct {
	InputPath string
	Options   extract.Options
}

func newRootCommand() *cobra.Command {
	var notation string
	var logLevel string

	var cmd = &cobra.Command{
		Use:   "pgn2startpos <PGN file> <start position after # of moves> <unique only?>",
		Short: "Extract starting positions from PGN games",
		Long: "Prints the position reached after the given number of main-line moves for every game " +
			"that continues past it. \"-\" reads PGN from standard input.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := parseSettings(args, notation)
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true

			logger, err := logging.New(logLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			return run(cmd.Context(), settings, cmd.OutOrStdout(), logger)
		},
	}
	cmd.Flags().StringVar(&notation, "notation", epd.EPD.String(), "Position key notation: epd or fen")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level")
	return cmd
}

func parseSettings(args []string, notation string) (Settings, error) {
	skipDepth, err := strconv.ParseUint(args[1], 10, 31)
	if err != nil {
		return Settings{}, fmt.Errorf("parse start position after # of moves: %w", err)
	}
	uniqueOnly, err := strconv.Atoi(args[2])
	if err != nil {
		return Settings{}, fmt.Errorf("parse unique only: %w", err)
	}
	keyNotation, err := epd.ParseNotation(notation)
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		InputPath: args[0],
		Options: extract.Options{
			SkipDepth:  int(skipDepth),
			UniqueOnly: uniqueOnly != 0,
			Notation:   keyNotation,
		},
	}, nil
}
