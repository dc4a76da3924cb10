// Package root wires the parley command tree.
package root

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var debugMode bool

// NewRootCmd builds the top-level command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parley",
		Short: "Run multi-agent debates over a problem set",
		Long: `parley runs structured debates between LLM agents.

For each problem, the agents assess themselves for a role, one is
elected Judge, and the rest solve the problem, review each other's
solutions and refine their own. Every step is persisted.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func setupLogging() {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
