// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the review-engine CLI.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/review-engine/internal/config"
	"github.com/pdiddy/review-engine/internal/secrets"
	"github.com/pdiddy/review-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the configuration resolved before every command runs.
	cfg *types.EngineConfig

	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets map[string]string
)

// rootCmd is the base command for the review-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "review-engine",
	Short: "Reference deduplication and screening for systematic reviews",
	Long: `review-engine manages the reference records of a systematic literature
review: import bibliographic exports, collapse duplicates, screen records at
the title/abstract and full-text stages, extract data from included studies,
and report the PRISMA flow.

Records and projects live in a local SQLite database (--db). Select the
project to work on with --project or the project key in review-engine.yaml.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func setup(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	c, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	cfg = c

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)

	s, err := secrets.Load(secrets.DefaultDir, logger)
	if err != nil {
		return err
	}
	loadedSecrets = s
	if len(s) > 0 {
		logger.Debug("loaded secrets", zap.Int("count", len(s)))
	}
	return nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./review-engine.yaml or ~/.config/review-engine/review-engine.yaml)")
	pf.String("project", "", "ID of the review project to operate on")
	pf.String("db", "", "path to the SQLite database (default: review.db)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
