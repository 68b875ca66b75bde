package cmd

import (
	"errors"
	"fmt"

	"github.com/barysiuk/agentkit/internal/core/engine"
	"github.com/barysiuk/agentkit/internal/core/manifest"
	"github.com/barysiuk/agentkit/internal/core/system"
	"github.com/barysiuk/agentkit/internal/tui"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check installations against their manifests",
	Long: `Check that every item a manifest lists is present in its target. Items in a
target that the manifest does not list are reported as warnings. Without
--tool every installed tool is checked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		type check struct{ tool, target string }
		var checks []check
		if name, _ := cmd.Flags().GetString("tool"); name != "" {
			tool, target, err := toolTarget(cmd, d)
			if err != nil {
				return err
			}
			checks = append(checks, check{tool, target})
		} else {
			for _, s := range system.All() {
				target, err := d.target(s.Name(), "")
				if err != nil {
					return err
				}
				target = d.paths.Expand(target)
				if manifest.Exists(target) {
					checks = append(checks, check{s.Name(), target})
				}
			}
			if len(checks) == 0 {
				outln(cmd, "Nothing installed.")
				return nil
			}
		}

		var failed int
		for _, c := range checks {
			v, err := d.engine.Verify(cmd.Context(), c.tool, c.target)
			if err != nil {
				if errors.Is(err, engine.ErrNotInstalled) && len(checks) > 1 {
					continue
				}
				return err
			}
			outf(cmd, "%s %-9s %s %s\n", mark(v.Valid), v.Tool, v.Variant, d.paths.Display(v.Path))
			for _, cc := range v.Categories {
				if cc.Expected == 0 && cc.Found == 0 {
					continue
				}
				outf(cmd, "    %-10s %d/%d\n", cc.Category, cc.Found, cc.Expected)
			}
			for _, issue := range v.Issues {
				outf(cmd, "    %s %s\n", tui.Error("issue:"), issue)
			}
			for _, w := range v.Warnings {
				outf(cmd, "    %s %s\n", tui.Warning("warning:"), w)
			}
			if !v.Valid {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d installation(s) failed verification", failed)
		}
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringP("tool", "t", "", "Tool to verify (default: every installed tool)")
	verifyCmd.Flags().StringP("path", "p", "", "Installation directory (default: the tool's default)")
	rootCmd.AddCommand(verifyCmd)
}
