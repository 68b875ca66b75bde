package cmd

import (
	"fmt"
	"strings"

	"github.com/barysiuk/agentkit/internal/core/system"
	"github.com/barysiuk/agentkit/internal/tui"
	"github.com/spf13/cobra"
)

// parseTools splits a comma-separated --tools value and checks every name.
// An empty value selects the tools detected on this machine.
func parseTools(flag string) ([]string, error) {
	if strings.TrimSpace(flag) == "" {
		detected := system.Names(system.Detect())
		if len(detected) == 0 {
			return nil, fmt.Errorf("no supported tools detected; pass --tools (available: %s)", strings.Join(system.Names(system.All()), ", "))
		}
		return detected, nil
	}
	names := strings.Split(flag, ",")
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}
	systems, err := system.ByNames(names)
	if err != nil {
		return nil, err
	}
	return system.Names(systems), nil
}

// requireTool checks a single tool name argument.
func requireTool(name string) (string, error) {
	if _, ok := system.ByName(name); !ok {
		return "", fmt.Errorf("unknown tool %q; available: %s", name, strings.Join(system.Names(system.All()), ", "))
	}
	return name, nil
}

// addToolFlags adds --tool and --path to a single-target command.
func addToolFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("tool", "t", "", "Tool name (claude, opencode, ampcode, droid)")
	cmd.Flags().StringP("path", "p", "", "Installation directory (default: the tool's default)")
	_ = cmd.MarkFlagRequired("tool")
}

// toolTarget reads --tool and --path and returns the tool and its target.
func toolTarget(cmd *cobra.Command, d *deps) (string, string, error) {
	name, _ := cmd.Flags().GetString("tool")
	tool, err := requireTool(name)
	if err != nil {
		return "", "", err
	}
	explicit, _ := cmd.Flags().GetString("path")
	target, err := d.target(tool, explicit)
	if err != nil {
		return "", "", err
	}
	return tool, d.paths.Expand(target), nil
}

func outf(cmd *cobra.Command, format string, a ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, a...)
}

func outln(cmd *cobra.Command, a ...any) {
	fmt.Fprintln(cmd.OutOrStdout(), a...)
}

// mark renders a check or a cross.
func mark(ok bool) string {
	if ok {
		return tui.Success("✓")
	}
	return tui.Error("✗")
}
