package cmd

import (
	"time"

	"github.com/barysiuk/agentkit/internal/core/config"
	"github.com/spf13/cobra"
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Manage anonymous local usage statistics",
	Long: `agentkit can record anonymous usage events (variant, tool count, duration,
success) in ~/.agentkit/telemetry.log. Nothing is recorded until you opt in
and nothing leaves your machine.`,
}

var telemetryOnCmd = &cobra.Command{
	Use:   "on",
	Short: "Enable telemetry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTelemetry(cmd, true)
	},
}

var telemetryOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Disable telemetry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTelemetry(cmd, false)
	},
}

var telemetryStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether telemetry is enabled",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		switch {
		case !d.cfg.TelemetryDecided():
			outln(cmd, "Telemetry: not configured (off)")
		case d.cfg.TelemetryEnabled():
			outln(cmd, "Telemetry: on")
		default:
			outln(cmd, "Telemetry: off")
		}
		if d.cfg.TelemetryConsentDate != nil {
			outf(cmd, "Decided: %s\n", d.cfg.TelemetryConsentDate.Format(time.RFC3339))
		}
		outf(cmd, "Events recorded: %d (%s)\n", d.telemetry.Count(), d.paths.Display(d.telemetry.Path()))
		return nil
	},
}

var telemetryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete recorded telemetry events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		if err := d.telemetry.Clear(); err != nil {
			return err
		}
		outln(cmd, "Telemetry log cleared.")
		return nil
	},
}

func setTelemetry(cmd *cobra.Command, enabled bool) error {
	d, err := newDeps(cmd)
	if err != nil {
		return err
	}
	if _, err := d.config.Update(func(cfg *config.Config) error {
		cfg.SetTelemetry(enabled, time.Now())
		return nil
	}); err != nil {
		return err
	}
	if enabled {
		outln(cmd, "Telemetry enabled.")
	} else {
		outln(cmd, "Telemetry disabled.")
	}
	return nil
}

func init() {
	telemetryCmd.AddCommand(telemetryOnCmd, telemetryOffCmd, telemetryStatusCmd, telemetryClearCmd)
	rootCmd.AddCommand(telemetryCmd)
}
