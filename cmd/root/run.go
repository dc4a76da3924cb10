package root

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/parley-ai/parley/pkg/agent/provider"
	"github.com/parley-ai/parley/pkg/app"
	"github.com/parley-ai/parley/pkg/config"
	"github.com/parley-ai/parley/pkg/debate"
	"github.com/parley-ai/parley/pkg/environment"
	"github.com/parley-ai/parley/pkg/problem"
	"github.com/parley-ai/parley/pkg/store"
)

type runFlags struct {
	configPath string
}

func newRunCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run debates over the configured problem set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDebates(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "parley.yaml", "Path to the run configuration file")

	return cmd
}

func runDebates(ctx context.Context, flags runFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}

	problems, err := problem.Load(cfg.Problems.Path, cfg.Problems.Skip, cfg.Problems.Take)
	if err != nil {
		return err
	}

	agents, err := provider.NewAll(ctx, cfg.Agents, environment.NewOSProvider())
	if err != nil {
		return err
	}

	if dir := filepath.Dir(cfg.StorePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	st, err := store.NewSQLiteStore(cfg.StorePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("Failed to close store", "error", err)
		}
	}()

	opts := debate.Options{
		MaxConcurrency:    int64(cfg.MaxConcurrency),
		AssessmentTimeout: time.Duration(cfg.Timeouts.AssessmentSec) * time.Second,
		SolveTimeout:      time.Duration(cfg.Timeouts.SolveSec) * time.Second,
		ReviewTimeout:     time.Duration(cfg.Timeouts.ReviewSec) * time.Second,
		RefineTimeout:     time.Duration(cfg.Timeouts.RefineSec) * time.Second,
		LogInterval:       time.Duration(cfg.LogIntervalSec) * time.Second,
	}

	runner := app.New(agents, st, cfg.OutputDir, int64(cfg.MaxSessions), opts)
	return runner.Run(ctx, problems)
}
