package cmd

import (
	"github.com/barysiuk/agentkit/internal/core/engine"
	"github.com/barysiuk/agentkit/internal/tui"
	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore a target from a backup",
	Long: `Return a tool's target to the state saved in a backup. Without --backup the
most recent backup is used. What the target holds now is saved in an
uninstall backup first, and the restored backup is removed afterwards.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		tool, target, err := toolTarget(cmd, d)
		if err != nil {
			return err
		}
		backup, _ := cmd.Flags().GetString("backup")
		if backup != "" {
			backup = d.paths.Expand(backup)
		}

		res, err := d.engine.Restore(cmd.Context(), tool, target, engine.RestoreOptions{
			BackupPath: backup,
			Confirm:    d.ui.Confirm,
			Progress:   d.ui.Progress,
		})
		if err != nil {
			return err
		}

		outf(cmd, "%s Restored %d file(s) into %s from %s.\n", mark(true), res.FilesRestored, d.paths.Display(res.Path), d.paths.Display(res.RestoredFrom))
		if res.Manifest != nil {
			outf(cmd, "  now on %s\n", tui.Bold(res.Manifest.Variant))
		}
		if res.SafetyBackup != "" {
			outf(cmd, "  %s\n", tui.Muted("previous state saved in "+d.paths.Display(res.SafetyBackup)))
		}
		return nil
	},
}

func init() {
	addToolFlags(restoreCmd)
	restoreCmd.Flags().StringP("backup", "b", "", "Backup directory to restore (default: the most recent)")
	rootCmd.AddCommand(restoreCmd)
}
