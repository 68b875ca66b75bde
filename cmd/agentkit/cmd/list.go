package cmd

import (
	"fmt"

	"github.com/barysiuk/agentkit/internal/core/catalog"
	"github.com/barysiuk/agentkit/internal/tui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the packages and their variants",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		tools, err := d.catalog.Tools()
		if err != nil {
			return err
		}
		if len(tools) == 0 {
			outf(cmd, "No packages in %s.\n", d.paths.Display(d.packagesDir))
			return nil
		}

		for i, tool := range tools {
			if i > 0 {
				outln(cmd)
			}
			outln(cmd, tui.SectionHeader(tool))
			for _, name := range catalog.VariantNames {
				info, err := d.catalog.VariantInfo(tool, name)
				if err != nil {
					outf(cmd, "  %s %-9s %v\n", mark(false), name, err)
					continue
				}
				fs, err := d.catalog.FileSet(cmd.Context(), tool, name)
				if err != nil {
					outf(cmd, "  %s %-9s %v\n", mark(false), name, err)
					continue
				}
				c := fs.Items
				counts := fmt.Sprintf("%d agents, %d skills, %d resources, %d hooks, %s",
					len(c.Agents), len(c.Skills), len(c.Resources), len(c.Hooks), catalog.FormatBytes(fs.Size()))
				outf(cmd, "  %-9s %s\n", tui.Bold(name), info.Description)
				outf(cmd, "  %-9s %s\n", "", tui.Muted(counts))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
