package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/barysiuk/agentkit/internal/logger"
	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "agentkit",
	Short: "Install agent and skill packages into AI coding tools",
	Long: `agentkit installs curated packages of agents, skills, resources and hooks
into Claude Code, OpenCode, Amp and Droid.

Each package comes in three variants (lite, standard, pro). Installs are
transactional: files that would be overwritten are backed up first and any
failure rolls the target back. Only files agentkit installed are ever
removed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		if err := logger.SetLogLevel(level); err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", level, err)
		}
		format, _ := cmd.Flags().GetString("log-format")
		logger.SetLogFormat(format)
		logger.SetLogOutput(cmd.ErrOrStderr())
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "agentkit %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("packages", "", "Package root directory (default: $AGENTKIT_PACKAGES, config, ./packages)")
	pf.String("log-level", "warn", "Log level (debug, info, warn, error)")
	pf.String("log-format", "fmt", "Log format (fmt or json)")
	pf.BoolP("yes", "y", false, "Answer yes to every confirmation")
	pf.BoolP("quiet", "q", false, "Suppress progress output")
	pf.Bool("plain", false, "Use line-based output even on a terminal")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
// An interrupt cancels the command's context so operations roll back.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
