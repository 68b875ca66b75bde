package cmd

import (
	"errors"
	"fmt"

	"github.com/barysiuk/agentkit/internal/core/manifest"
	"github.com/barysiuk/agentkit/internal/core/state"
	"github.com/barysiuk/agentkit/internal/core/system"
	"github.com/barysiuk/agentkit/internal/tui"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what is installed for every tool",
	Long: `Show, for every supported tool, whether its target directory holds an
agentkit installation, which variant, and how many items of each kind.
An interrupted installation session is reported as well.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		outf(cmd, "Packages: %s\n\n", d.paths.Display(d.packagesDir))
		outln(cmd, tui.SectionHeader("TOOLS"))
		for _, s := range system.All() {
			target, err := d.target(s.Name(), "")
			if err != nil {
				return err
			}
			target = d.paths.Expand(target)
			outf(cmd, "  %-9s %s\n", s.Name(), d.paths.Display(target))

			ex, err := d.paths.CheckExisting(target)
			if err != nil {
				outf(cmd, "    %s %v\n", tui.Warning("unreadable manifest:"), err)
				continue
			}
			if ex.Manifest != nil {
				printManifest(cmd, ex.Manifest)
				continue
			}
			legacy, err := d.paths.DetectLegacy(s.Name(), target)
			if err == nil && legacy.IsLegacy && legacy.Components.Total() > 0 {
				outf(cmd, "    %s (%s); run 'agentkit migrate --tool %s'\n", tui.Warning("unmanaged installation"), legacy.Reason, s.Name())
				continue
			}
			outf(cmd, "    %s\n", tui.Muted("not installed"))
		}

		if _, err := d.store.Load(); err == nil {
			sum, _ := d.store.ResumeSummary()
			outln(cmd)
			outln(cmd, tui.SectionHeader("INTERRUPTED"))
			printSummary(cmd, d, sum)
			outln(cmd, "Run 'agentkit resume' to continue.")
		} else if !errors.Is(err, state.ErrNoSession) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", tui.Warning("warning:"), err)
		}
		return nil
	},
}

func printManifest(cmd *cobra.Command, m *manifest.Manifest) {
	c := m.Components
	outf(cmd, "    %s %s (version %s, installed %s)\n", mark(true), tui.Bold(m.Variant), m.Version, m.InstalledAt.Format("2006-01-02 15:04"))
	outf(cmd, "    %d agent(s), %d skill(s), %d resource(s), %d hook(s)\n", c.Agents, c.Skills, c.Resources, c.Hooks)
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
