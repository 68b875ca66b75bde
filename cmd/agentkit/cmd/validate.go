package cmd

import (
	"fmt"

	"github.com/barysiuk/agentkit/internal/tui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [tool...]",
	Short: "Check that packages contain what their variants select",
	Long: `Check every variant of each tool's package: variants.json must be well formed
and every agent, skill, resource and hook a variant names must exist.
Without arguments every package under the package root is checked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		tools := args
		if len(tools) == 0 {
			if tools, err = d.catalog.Tools(); err != nil {
				return err
			}
			if len(tools) == 0 {
				return fmt.Errorf("no packages found in %s", d.paths.Display(d.packagesDir))
			}
		}
		for _, tool := range tools {
			if _, err := requireTool(tool); err != nil {
				return err
			}
		}

		var invalid int
		for _, tool := range tools {
			for _, v := range d.catalog.ValidateAll(cmd.Context(), tool) {
				outf(cmd, "%s %-9s %-9s %s\n", mark(v.Valid), tool, v.Variant, tui.Muted(fmt.Sprintf("%d item(s) checked", v.CheckedFiles)))
				for _, issue := range v.Issues {
					outf(cmd, "    %s %s\n", tui.Error("issue:"), issue)
				}
				for _, w := range v.Warnings {
					outf(cmd, "    %s %s\n", tui.Warning("warning:"), w)
				}
				if !v.Valid {
					invalid++
				}
			}
		}
		if invalid > 0 {
			return fmt.Errorf("%d variant(s) invalid", invalid)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
