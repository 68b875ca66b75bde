package cmd

import (
	"fmt"
	"strings"

	"github.com/barysiuk/agentkit/internal/core/catalog"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <tool> <variant>",
	Short: "Describe a variant and the items it installs",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		tool, err := requireTool(args[0])
		if err != nil {
			return err
		}
		variant := args[1]

		info, err := d.catalog.VariantInfo(tool, variant)
		if err != nil {
			return err
		}
		items, err := d.catalog.Describe(cmd.Context(), tool, variant)
		if err != nil {
			return err
		}
		md := variantMarkdown(tool, variant, info, items)

		raw, _ := cmd.Flags().GetBool("raw")
		if raw {
			outf(cmd, "%s", md)
			return nil
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			return fmt.Errorf("creating renderer: %w", err)
		}
		out, err := r.Render(md)
		if err != nil {
			return fmt.Errorf("rendering: %w", err)
		}
		outf(cmd, "%s", out)
		return nil
	},
}

// variantMarkdown renders a variant card as markdown.
func variantMarkdown(tool, variant string, info catalog.VariantInfo, items []catalog.ItemInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s: %s\n\n", tool, variant, info.Name)
	if info.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", info.Description)
	}
	if info.UseCase != "" {
		fmt.Fprintf(&b, "**Use case:** %s\n\n", info.UseCase)
	}
	if info.TargetUsers != "" {
		fmt.Fprintf(&b, "**For:** %s\n\n", info.TargetUsers)
	}

	var size int64
	for _, cat := range catalog.Categories {
		var rows []catalog.ItemInfo
		for _, it := range items {
			if it.Category == cat {
				rows = append(rows, it)
			}
		}
		if len(rows) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s (%d)\n\n", strings.ToUpper(string(cat[:1]))+string(cat[1:]), len(rows))
		for _, it := range rows {
			size += it.Size
			line := "- **" + it.ID + "**"
			if it.Description != "" {
				line += ": " + it.Description
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "_Total size: %s_\n", catalog.FormatBytes(size))
	return b.String()
}

func init() {
	showCmd.Flags().Bool("raw", false, "Print the markdown without rendering it")
	rootCmd.AddCommand(showCmd)
}
