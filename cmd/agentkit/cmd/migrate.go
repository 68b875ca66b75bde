package cmd

import (
	"github.com/barysiuk/agentkit/internal/tui"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Adopt an installation made without a manifest",
	Long: `Write a manifest for a target that holds agents and skills but no
manifest.json, so agentkit can upgrade, verify and uninstall it. The items
found on disk are recorded as installed. The variant is guessed from the
item counts unless --variant is given.`,
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

		legacy, err := d.paths.DetectLegacy(tool, target)
		if err != nil {
			return err
		}
		if legacy.IsLegacy {
			c := legacy.Components
			outf(cmd, "Found %d agent(s), %d skill(s), %d resource(s), %d hook(s) in %s.\n",
				c.Agents, c.Skills, c.Resources, c.Hooks, d.paths.Display(legacy.Path))
			guess := variant
			if guess == "" {
				guess = legacy.SuggestedVariant
			}
			if !d.ui.Confirm("Record them as the " + guess + " variant?") {
				return nil
			}
		}

		m, err := d.engine.AdoptLegacy(cmd.Context(), tool, target, variant)
		if err != nil {
			return err
		}
		outf(cmd, "%s %s is now managed as %s (%d item(s)).\n", mark(true), d.paths.Display(legacy.Path), tui.Bold(m.Variant), m.InstalledFiles.Total())
		return nil
	},
}

func init() {
	addToolFlags(migrateCmd)
	migrateCmd.Flags().StringP("variant", "v", "", "Variant to record (default: guessed from the installed items)")
	rootCmd.AddCommand(migrateCmd)
}
