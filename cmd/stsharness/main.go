package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ChizhovVadim/pgntools/internal/config"
	"github.com/ChizhovVadim/pgntools/internal/harness"
	"github.com/ChizhovVadim/pgntools/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var cfgPath string
	var logLevel string

	var cmd = &cobra.Command{
		Use:   "stsharness",
		Short: "Score every trained network listed in the training log that is not tested yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			logger, err := logging.New(logLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := config.LoadHarness(viper.New(), cfgPath)
			if err != nil {
				return err
			}
			logger.Infow("config", "settings", cfg)

			var runner = &harness.Runner{
				TrainingLog: cfg.TrainingLog,
				TestingLog:  cfg.TestingLog,
				EvalTarget:  cfg.EvalTarget,
				Scorer: &harness.CommandScorer{
					Command: cfg.Scorer.Command,
					Args:    cfg.Scorer.Args,
					Env:     cfg.Scorer.Env,
				},
				Logger: logger,
			}
			return runner.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "Path to config file (yaml, json or toml)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level")
	return cmd
}
