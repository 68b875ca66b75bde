package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/barysiuk/agentkit/internal/core/catalog"
	"github.com/barysiuk/agentkit/internal/core/manifest"
	"github.com/barysiuk/agentkit/internal/logger"
)

// MigratedFromLegacy marks manifests written for pre-manifest installations.
const MigratedFromLegacy = "legacy"

// AdoptLegacy writes a manifest for an installation made before manifests
// existed, so later operations can manage it. The files on disk are taken as
// the installed items. An empty variant uses the detected suggestion.
func (e *Engine) AdoptLegacy(ctx context.Context, tool, target, variant string) (*manifest.Manifest, error) {
	if target != "" {
		abs, err := e.paths.Sanitize(target)
		if err != nil {
			return nil, err
		}
		target = abs
	}
	legacy, err := e.paths.DetectLegacy(tool, target)
	if err != nil {
		return nil, err
	}
	if !legacy.IsLegacy {
		if !legacy.Exists {
			return nil, fmt.Errorf("%w: %s does not exist", ErrNotInstalled, legacy.Path)
		}
		return nil, fmt.Errorf("%s is not a legacy installation: %s", legacy.Path, legacy.Reason)
	}

	if variant == "" {
		variant = legacy.SuggestedVariant
	}
	if !catalog.IsVariant(variant) {
		return nil, fmt.Errorf("%w: %q (expected one of %s)", catalog.ErrUnknownVariant, variant, strings.Join(catalog.VariantNames, ", "))
	}

	info, err := e.catalog.VariantInfo(tool, variant)
	if err != nil {
		logger.G(ctx).WithError(err).WithField("tool", tool).Warn("variant metadata unavailable; recording name only")
		info = catalog.VariantInfo{Name: variant}
	}

	m := manifest.New(tool, variant, e.version, info, legacy.Content, e.now())
	m.MigratedFrom = MigratedFromLegacy
	if err := manifest.Write(legacy.Path, m); err != nil {
		return nil, err
	}
	logger.G(ctx).WithField("tool", tool).WithField("variant", variant).
		WithField("items", m.InstalledFiles.Total()).Info("adopted legacy installation")
	return m, nil
}
