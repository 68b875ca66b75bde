package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/barysiuk/agentkit/internal/core/engine"
	"github.com/barysiuk/agentkit/internal/core/state"
	"github.com/spf13/cobra"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Continue an interrupted installation",
	Long: `Continue the installation session recorded in ~/.agentkit/install-state.json.

Completed tools are skipped, a tool that was interrupted continues with the
files it had not copied yet, and failed tools are installed again from the
start. --discard drops the session without installing anything.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		discard, _ := cmd.Flags().GetBool("discard")
		if discard {
			if _, err := d.store.Load(); err != nil {
				return err
			}
			if err := d.store.Clear(); err != nil {
				return err
			}
			outln(cmd, "Discarded the interrupted installation.")
			return nil
		}

		if _, err := d.store.Load(); err != nil {
			return err
		}
		sum, err := d.store.ResumeSummary()
		if err != nil {
			return err
		}
		printSummary(cmd, d, sum)

		prompt := fmt.Sprintf("Resume installing %s into %d remaining tool(s)?", sum.Variant, sum.Remaining)
		if !d.ui.Confirm(prompt) {
			return engine.ErrCancelled
		}

		start := time.Now()
		var res *engine.RunResult
		runErr := d.ui.Track(cmd.Context(), "resuming "+sum.Variant, func(ctx context.Context) error {
			var err error
			res, err = engine.NewRunner(d.engine, d.store).Resume(ctx, d.ui.Progress)
			return err
		})
		return reportRun(cmd, d, res, runErr, start)
	},
}

// printSummary describes a recorded session.
func printSummary(cmd *cobra.Command, d *deps, sum state.Summary) {
	outf(cmd, "Session %s: %s, started %s ago\n", sum.SessionID, sum.Variant, sum.Elapsed.Round(time.Second))
	for _, t := range sum.Tools {
		line := fmt.Sprintf("  %-9s %-11s %s", t.Tool, t.Status, d.paths.Display(t.Path))
		if t.Status == state.StatusInProgress && t.TotalFiles > 0 {
			line += fmt.Sprintf("  %d/%d files", t.FilesCompleted, t.TotalFiles)
		}
		if t.Error != "" {
			line += "  (" + t.Error + ")"
		}
		outln(cmd, line)
	}
}

func init() {
	resumeCmd.Flags().Bool("discard", false, "Drop the recorded session instead of resuming it")
	rootCmd.AddCommand(resumeCmd)
}
