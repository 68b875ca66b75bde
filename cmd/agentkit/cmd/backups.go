package cmd

import (
	"fmt"

	"github.com/barysiuk/agentkit/internal/core/catalog"
	"github.com/barysiuk/agentkit/internal/core/engine"
	"github.com/barysiuk/agentkit/internal/tui"
	"github.com/spf13/cobra"
)

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List the backups of a tool's target",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		_, target, err := toolTarget(cmd, d)
		if err != nil {
			return err
		}
		abs, err := d.paths.Sanitize(target)
		if err != nil {
			return err
		}

		list, err := engine.ListBackups(abs)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			outf(cmd, "No backups of %s.\n", d.paths.Display(abs))
			return nil
		}
		for _, b := range list {
			outf(cmd, "%-16s %s  %s\n", b.Kind, d.paths.Display(b.Path),
				tui.Muted(fmt.Sprintf("%s, %d file(s)", catalog.FormatBytes(b.Size), b.Files)))
		}
		return nil
	},
}

func init() {
	addToolFlags(backupsCmd)
	rootCmd.AddCommand(backupsCmd)
}
