package cmd

import (
	"strings"

	"github.com/barysiuk/agentkit/internal/core/engine"
	"github.com/barysiuk/agentkit/internal/telemetry"
	"github.com/barysiuk/agentkit/internal/tui"
	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove an agentkit installation from a tool",
	Long: `Remove exactly the items listed in the target's manifest, then the manifest.
Files you added yourself are left in place. The removed items are backed up
next to the target first; 'agentkit restore' brings them back.`,
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

		res, err := d.engine.Uninstall(cmd.Context(), tool, target, engine.UninstallOptions{
			Confirm:  d.ui.Confirm,
			Progress: d.ui.Progress,
		})
		d.telemetry.Record(cmd.Context(), telemetry.Uninstallation(err == nil))
		if err != nil {
			return err
		}

		outf(cmd, "%s Removed the %s installation from %s (%d file(s)).\n", mark(true), res.Variant, d.paths.Display(res.Path), res.FilesRemoved)
		if res.BackupPath != "" {
			outf(cmd, "  %s\n", tui.Muted("backup: "+d.paths.Display(res.BackupPath)))
		}
		if len(res.Preserved) > 0 {
			outf(cmd, "  kept: %s\n", strings.Join(res.Preserved, ", "))
		}
		for _, w := range res.Warnings {
			outf(cmd, "  %s %s\n", tui.Warning("warning:"), w)
		}
		return nil
	},
}

func init() {
	addToolFlags(uninstallCmd)
	rootCmd.AddCommand(uninstallCmd)
}
