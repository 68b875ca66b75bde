package cmd

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/barysiuk/agentkit/internal/core/catalog"
	"github.com/barysiuk/agentkit/internal/core/engine"
	"github.com/barysiuk/agentkit/internal/core/plan"
	"github.com/barysiuk/agentkit/internal/core/state"
	"github.com/barysiuk/agentkit/internal/telemetry"
	"github.com/barysiuk/agentkit/internal/tui"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install a package variant into one or more tools",
	Long: `Install a variant (lite, standard or pro) of each selected tool's package.

Tools default to the ones detected on this machine. Each tool installs to
its default directory unless --path tool=dir is given. A plan file (YAML or
JSON) can replace --variant, --tools and --path.

Tools are installed one after another. A failing tool is rolled back and the
others still run; 'agentkit resume' retries what did not finish.`,
	Example: `  agentkit install --variant pro --tools claude,droid
  agentkit install --variant lite --tools claude --path claude=~/work/.claude
  agentkit install --plan team.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		batch, err := batchFromFlags(cmd, d)
		if err != nil {
			return err
		}

		if _, err := d.store.Load(); err == nil && d.store.HasInterrupted() {
			sum, _ := d.store.ResumeSummary()
			return fmt.Errorf("an interrupted installation of %s is pending (%d tool(s) left); run 'agentkit resume' or 'agentkit resume --discard'", sum.Variant, sum.Remaining)
		} else if err != nil && !errors.Is(err, state.ErrNoSession) {
			return err
		}

		prompt := fmt.Sprintf("Install the %s variant into %s?", batch.Variant, strings.Join(batch.Tools, ", "))
		if !d.ui.Confirm(prompt) {
			return engine.ErrCancelled
		}

		start := time.Now()
		var res *engine.RunResult
		runErr := d.ui.Track(cmd.Context(), "installing "+batch.Variant, func(ctx context.Context) error {
			var err error
			res, err = engine.NewRunner(d.engine, d.store).Run(ctx, batch, d.ui.Progress)
			return err
		})
		return reportRun(cmd, d, res, runErr, start)
	},
}

// batchFromFlags builds the batch from --plan or --variant/--tools/--path.
func batchFromFlags(cmd *cobra.Command, d *deps) (engine.Batch, error) {
	planPath, _ := cmd.Flags().GetString("plan")
	if planPath != "" {
		p, err := plan.Load(d.paths.Expand(planPath))
		if err != nil {
			return engine.Batch{}, err
		}
		return engine.Batch{Variant: p.Variant, Tools: p.Tools, Paths: withConfiguredPaths(d, p.Tools, p.Paths)}, nil
	}

	variant, _ := cmd.Flags().GetString("variant")
	if !catalog.IsVariant(variant) {
		return engine.Batch{}, fmt.Errorf("%w %q; expected one of %s", catalog.ErrUnknownVariant, variant, strings.Join(catalog.VariantNames, ", "))
	}
	toolsFlag, _ := cmd.Flags().GetString("tools")
	tools, err := parseTools(toolsFlag)
	if err != nil {
		return engine.Batch{}, err
	}
	pathFlags, _ := cmd.Flags().GetStringToString("path")
	for tool := range pathFlags {
		if !slices.Contains(tools, tool) {
			return engine.Batch{}, fmt.Errorf("--path given for %s, which is not in --tools", tool)
		}
	}
	return engine.Batch{Variant: variant, Tools: tools, Paths: withConfiguredPaths(d, tools, pathFlags)}, nil
}

// withConfiguredPaths fills in targets configured in config.json for tools
// without an explicit one.
func withConfiguredPaths(d *deps, tools []string, explicit map[string]string) map[string]string {
	out := make(map[string]string, len(tools))
	for _, tool := range tools {
		if p := explicit[tool]; p != "" {
			out[tool] = p
		} else if p := d.cfg.Paths[tool]; p != "" {
			out[tool] = p
		}
	}
	return out
}

// reportRun prints a batch result and records telemetry.
func reportRun(cmd *cobra.Command, d *deps, res *engine.RunResult, runErr error, start time.Time) error {
	if res == nil {
		d.telemetry.Record(cmd.Context(), telemetry.Installation("", 0, time.Since(start), false, 1, 0))
		return runErr
	}

	var warnings int
	outln(cmd)
	outln(cmd, tui.SectionHeader("TOOLS"))
	for _, o := range res.Outcomes {
		switch {
		case o.Skipped:
			outf(cmd, "  %s %-9s %s\n", mark(true), o.Tool, tui.Muted("already installed in this session"))
		case o.Err != nil:
			outf(cmd, "  %s %-9s %v\n", mark(false), o.Tool, o.Err)
		default:
			r := o.Result
			detail := fmt.Sprintf("%d file(s), %s", r.Files, catalog.FormatBytes(r.Bytes))
			if o.Resumed {
				detail += fmt.Sprintf(", resumed (%d already in place)", r.Skipped)
			}
			outf(cmd, "  %s %-9s %s  %s\n", mark(true), o.Tool, d.paths.Display(r.Path), tui.Muted(detail))
			if r.BackupPath != "" {
				outf(cmd, "    %s\n", tui.Muted("backup: "+d.paths.Display(r.BackupPath)))
			}
			for _, m := range r.Dropped {
				warnings++
				outf(cmd, "    %s %s not in package, skipped\n", tui.Warning("warning:"), m)
			}
		}
	}

	failed := res.Failed()
	d.telemetry.Record(cmd.Context(), telemetry.Installation(res.Variant, len(res.Outcomes), time.Since(start), len(failed) == 0, len(failed), warnings))
	if runErr == nil {
		outln(cmd)
		outf(cmd, "%s %s installed.\n", tui.Success("Done."), res.Variant)
		return nil
	}
	if errors.Is(runErr, tui.ErrAborted) || errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("installation interrupted; run 'agentkit resume' to continue: %w", runErr)
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d tool(s) failed; run 'agentkit resume' to retry: %w", len(failed), len(res.Outcomes), runErr)
	}
	return runErr
}

func init() {
	installCmd.Flags().StringP("variant", "v", "", "Variant to install (lite, standard, pro)")
	installCmd.Flags().StringP("tools", "t", "", "Comma-separated tool names (default: detected tools)")
	installCmd.Flags().StringToStringP("path", "p", nil, "Installation directory per tool, as tool=dir")
	installCmd.Flags().String("plan", "", "Plan file (YAML or JSON) listing variant, tools and paths")
	installCmd.MarkFlagsMutuallyExclusive("plan", "variant")
	installCmd.MarkFlagsMutuallyExclusive("plan", "tools")
	installCmd.MarkFlagsMutuallyExclusive("plan", "path")
	rootCmd.AddCommand(installCmd)
}
