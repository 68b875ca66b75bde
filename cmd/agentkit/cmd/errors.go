package cmd

import (
	"errors"
	"strings"

	"github.com/barysiuk/agentkit/internal/core/catalog"
	"github.com/barysiuk/agentkit/internal/core/engine"
	"github.com/barysiuk/agentkit/internal/core/manifest"
	"github.com/barysiuk/agentkit/internal/core/paths"
	"github.com/barysiuk/agentkit/internal/core/plan"
	"github.com/barysiuk/agentkit/internal/core/state"
)

// errorCategory groups errors by what the user can do about them.
type errorCategory string

const (
	categoryPermission errorCategory = "permission"
	categoryDiskSpace  errorCategory = "disk space"
	categoryPackage    errorCategory = "missing package"
	categoryPath       errorCategory = "path"
	categoryInput      errorCategory = "invalid input"
	categoryState      errorCategory = "installation state"
	categoryUnknown    errorCategory = "unknown"
)

func categorize(err error) errorCategory {
	var pathErr *paths.PathError
	if errors.As(err, &pathErr) {
		if pathErr.Kind == paths.PathNotWritable {
			return categoryPermission
		}
		return categoryPath
	}
	switch engine.ErrnoName(err) {
	case "EACCES", "EPERM", "EROFS":
		return categoryPermission
	case "ENOSPC", "EDQUOT":
		return categoryDiskSpace
	}

	var notFound *catalog.ItemNotFoundError
	switch {
	case errors.As(err, &notFound),
		errors.Is(err, catalog.ErrConfigNotFound),
		errors.Is(err, catalog.ErrPackageNotFound),
		errors.Is(err, catalog.ErrConfigMalformed),
		errors.Is(err, catalog.ErrConfigIncomplete),
		errors.Is(err, catalog.ErrConfigTooLarge):
		return categoryPackage
	case errors.Is(err, catalog.ErrUnknownVariant),
		errors.Is(err, plan.ErrInvalid):
		return categoryInput
	case errors.Is(err, engine.ErrNotInstalled),
		errors.Is(err, engine.ErrToolMismatch),
		errors.Is(err, engine.ErrNoBackup),
		errors.Is(err, state.ErrNoSession),
		errors.Is(err, state.ErrCorrupt),
		errors.Is(err, manifest.ErrMalformed),
		errors.Is(err, engine.ErrOutsideTarget):
		return categoryState
	}
	return categoryUnknown
}

// Advice returns a hint for err, or "" when there is nothing useful to add.
func Advice(err error) string {
	var b strings.Builder
	switch categorize(err) {
	case categoryPermission:
		b.WriteString("Check that you own the target directory, or pass --path to install somewhere you can write.")
	case categoryDiskSpace:
		b.WriteString("Free some disk space and run the command again; the target was rolled back.")
	case categoryPackage:
		b.WriteString("Check the package root (--packages or $AGENTKIT_PACKAGES) and run 'agentkit validate'.")
	case categoryPath:
		var pathErr *paths.PathError
		if errors.As(err, &pathErr) && pathErr.Remedy != "" {
			b.WriteString(pathErr.Remedy)
		} else {
			b.WriteString("Targets must be inside your home directory or the temp directory.")
		}
	case categoryInput:
		b.WriteString("Variants are lite, standard and pro; run 'agentkit list' to see them.")
	case categoryState:
		switch {
		case errors.Is(err, engine.ErrNotInstalled):
			b.WriteString("Run 'agentkit status' to see where agentkit is installed.")
		case errors.Is(err, engine.ErrToolMismatch):
			b.WriteString("The directory belongs to another tool; pass the right --tool or --path.")
		case errors.Is(err, engine.ErrNoBackup):
			b.WriteString("Run 'agentkit backups' to list the backups of a target.")
		case errors.Is(err, state.ErrNoSession):
			b.WriteString("There is nothing to resume.")
		case errors.Is(err, manifest.ErrMalformed), errors.Is(err, engine.ErrOutsideTarget):
			b.WriteString("The target's manifest.json was edited by hand; restore it from 'agentkit backups' or remove the listed items yourself.")
		default:
			b.WriteString("Run 'agentkit resume --discard' to drop the recorded session.")
		}
	}

	var opErr *engine.OpError
	if errors.As(err, &opErr) && opErr.BackupPath != "" && !opErr.RolledBack {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Rollback was incomplete; your previous files are in " + opErr.BackupPath + ".")
	}
	return b.String()
}
