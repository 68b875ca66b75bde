package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/barysiuk/agentkit/internal/core/catalog"
	"github.com/barysiuk/agentkit/internal/core/config"
	"github.com/barysiuk/agentkit/internal/core/engine"
	"github.com/barysiuk/agentkit/internal/core/paths"
	"github.com/barysiuk/agentkit/internal/core/state"
	"github.com/barysiuk/agentkit/internal/logger"
	"github.com/barysiuk/agentkit/internal/telemetry"
	"github.com/barysiuk/agentkit/internal/tui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// deps holds shared dependencies for CLI commands.
type deps struct {
	config      *config.Manager
	cfg         *config.Config
	packagesDir string
	catalog     *catalog.Catalog
	paths       *paths.Resolver
	engine      *engine.Engine
	store       *state.Store
	telemetry   *telemetry.FileSink
	ui          tui.Interaction
}

// newDeps creates shared dependencies. Called lazily by commands that need them.
func newDeps(cmd *cobra.Command) (*deps, error) {
	cm, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("initializing config: %w", err)
	}
	cfg, err := cm.Load()
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("log-level") && cfg.LogLevel != "" {
		if err := logger.SetLogLevel(cfg.LogLevel); err != nil {
			return nil, fmt.Errorf("invalid logLevel in %s: %w", cm.Path(), err)
		}
	}

	flag, _ := cmd.Flags().GetString("packages")
	pkgDir, source, err := config.ResolvePackagesDir(flag, cfg)
	if err != nil {
		return nil, err
	}
	logger.L.WithFields(logrus.Fields{"dir": pkgDir, "source": source}).Debug("package root resolved")

	resolver, err := paths.NewResolver()
	if err != nil {
		return nil, err
	}
	cat := catalog.New(pkgDir)

	yes, _ := cmd.Flags().GetBool("yes")
	quiet, _ := cmd.Flags().GetBool("quiet")
	plain, _ := cmd.Flags().GetBool("plain")

	return &deps{
		config:      cm,
		cfg:         cfg,
		packagesDir: pkgDir,
		catalog:     cat,
		paths:       resolver,
		engine:      engine.New(cat, resolver, engine.WithVersion(Version)),
		store:       state.NewStore(filepath.Join(cm.Dir(), state.FileName)),
		telemetry:   telemetry.NewFileSink(filepath.Join(cm.Dir(), telemetry.FileName), cfg.TelemetryEnabled(), Version),
		ui: tui.New(tui.Options{
			In:        cmd.InOrStdin(),
			Out:       cmd.OutOrStdout(),
			AssumeYes: yes,
			Quiet:     quiet,
			Plain:     plain,
		}),
	}, nil
}

// target returns the directory a tool installs to: the explicit path, the
// configured override, or the tool's default.
func (d *deps) target(tool, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if p := d.cfg.Paths[tool]; p != "" {
		return p, nil
	}
	return d.paths.DefaultPath(tool)
}
