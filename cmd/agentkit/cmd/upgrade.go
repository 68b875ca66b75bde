package cmd

import (
	"fmt"

	"github.com/barysiuk/agentkit/internal/core/catalog"
	"github.com/barysiuk/agentkit/internal/core/engine"
	"github.com/barysiuk/agentkit/internal/telemetry"
	"github.com/barysiuk/agentkit/internal/tui"
	"github.com/spf13/cobra"
)

var upgradeCmd = &cobra.Command{
	Use:     "upgrade",
	Aliases: []string{"downgrade"},
	Short:   "Switch an installation to another variant",
	Long: `Move a tool's installation to another variant. Items the new variant lacks
are removed, new ones are added and shared items are left untouched. The
result is verified and rolled back if verification fails.`,
	Example: `  agentkit upgrade --tool claude --variant pro
  agentkit downgrade --tool droid --variant lite`,
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
		variant, _ := cmd.Flags().GetString("variant")

		res, err := d.engine.UpgradeVariant(cmd.Context(), tool, target, variant, engine.UpgradeOptions{
			Confirm:  d.ui.Confirm,
			Progress: d.ui.Progress,
		})
		from := ""
		if res != nil {
			from = res.FromVariant
		}
		d.telemetry.Record(cmd.Context(), telemetry.Upgrade(from, variant, err == nil))
		if err != nil {
			return err
		}
		if res.Unchanged() {
			outf(cmd, "%s is already on %s; nothing to do.\n", tool, variant)
			return nil
		}

		outf(cmd, "%s %s: %s → %s\n", mark(true), tool, res.FromVariant, tui.Bold(res.ToVariant))
		printContent(cmd, "+", res.Added)
		printContent(cmd, "-", res.Removed)
		outf(cmd, "  %d file(s) added, %d removed\n", res.FilesAdded, res.FilesRemoved)
		if res.BackupPath != "" {
			outf(cmd, "  %s\n", tui.Muted("backup: "+d.paths.Display(res.BackupPath)))
		}
		if v := res.Verification; v != nil {
			for _, w := range v.Warnings {
				outf(cmd, "  %s %s\n", tui.Warning("warning:"), w)
			}
		}
		return nil
	},
}

// printContent prints one line per item, prefixed with sign.
func printContent(cmd *cobra.Command, sign string, c catalog.Content) {
	for _, cat := range catalog.Categories {
		for _, id := range c.Get(cat) {
			line := fmt.Sprintf("  %s %s %s", sign, cat.Singular(), id)
			if sign == "-" {
				line = tui.Muted(line)
			}
			outln(cmd, line)
		}
	}
}

func init() {
	addToolFlags(upgradeCmd)
	upgradeCmd.Flags().StringP("variant", "v", "", "Target variant (lite, standard, pro)")
	_ = upgradeCmd.MarkFlagRequired("variant")
	rootCmd.AddCommand(upgradeCmd)
}
