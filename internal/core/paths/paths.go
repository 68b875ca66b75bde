// Package paths turns user supplied installation targets into absolute,
// checked paths. Targets must live below the user's home directory or the
// system temp directory and must not reach into reserved system directories.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/barysiuk/agentkit/internal/core/system"
	"github.com/hashicorp/go-multierror"
)

// probeFile is written and removed to confirm a target is really writable.
const probeFile = ".install-test"

// systemDirs must not appear below a sanctioned root.
var systemDirs = []string{
	"/etc/", "/var/", "/usr/", "/bin/", "/sbin/",
	"/root/", "/boot/", "/dev/", "/proc/", "/sys/",
}

// Resolver expands and checks installation targets.
type Resolver struct {
	home  string
	tmp   string
	roots []string
}

// NewResolver returns a Resolver for the current user's home directory and
// the system temp directory.
func NewResolver() (*Resolver, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	return NewResolverWithRoots(home, os.TempDir()), nil
}

// NewResolverWithRoots returns a Resolver with explicit sanctioned roots.
func NewResolverWithRoots(home, tmp string) *Resolver {
	r := &Resolver{home: filepath.Clean(home), tmp: filepath.Clean(tmp)}
	for _, root := range []string{r.home, r.tmp} {
		r.addRoot(root)
		// Roots reached through a symlink (macOS /var -> /private/var)
		// are accepted in their resolved form too.
		if real, err := filepath.EvalSymlinks(root); err == nil {
			r.addRoot(real)
		}
	}
	return r
}

func (r *Resolver) addRoot(root string) {
	for _, existing := range r.roots {
		if existing == root {
			return
		}
	}
	r.roots = append(r.roots, root)
}

// Home returns the home directory used for "~" expansion.
func (r *Resolver) Home() string { return r.home }

// Expand replaces a leading "~" with the home directory. Other paths are
// returned unchanged.
func (r *Resolver) Expand(p string) string {
	if p == "~" {
		return r.home
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		return filepath.Join(r.home, p[2:])
	}
	return p
}

// Display renders p relative to the home directory as "~/..." when possible.
func (r *Resolver) Display(p string) string {
	p = r.Expand(p)
	if p == r.home {
		return "~"
	}
	if rel, ok := under(r.home, p); ok {
		return "~" + rel
	}
	return p
}

// DefaultPath returns the expanded default installation target of a tool.
func (r *Resolver) DefaultPath(tool string) (string, error) {
	s, ok := system.ByName(tool)
	if !ok {
		return "", fmt.Errorf("unknown tool %q; available: %s", tool, strings.Join(system.Names(system.All()), ", "))
	}
	return r.Expand(s.DefaultTarget()), nil
}

// Sanitize expands p to an absolute, cleaned path and checks it against the
// sandbox rules. It does not touch the filesystem.
func (r *Resolver) Sanitize(p string) (string, error) {
	if strings.ContainsRune(p, 0) {
		return "", &PathError{
			Kind:   PathUnsafe,
			Path:   strings.ReplaceAll(p, "\x00", `\0`),
			Reason: "path contains null bytes",
			Remedy: "Remove control characters from the path",
		}
	}
	if strings.TrimSpace(p) == "" {
		return "", &PathError{
			Kind:   PathUnsafe,
			Path:   p,
			Reason: "path is empty",
			Remedy: "Pass an absolute path or one starting with ~",
		}
	}

	abs, err := filepath.Abs(r.Expand(p))
	if err != nil {
		return "", &PathError{Kind: PathUnsafe, Path: p, Reason: "cannot make path absolute", Err: err}
	}

	root, rest, ok := r.sandboxed(abs)
	if !ok {
		return "", &PathError{
			Kind:   PathOutsideSandbox,
			Path:   abs,
			Reason: fmt.Sprintf("path must be within the home directory (%s) or the temp directory (%s)", r.home, r.tmp),
			Remedy: "Choose a directory under " + r.Display(r.home) + "/",
		}
	}
	if rest == "" {
		return "", &PathError{
			Kind:   PathUnsafe,
			Path:   abs,
			Reason: fmt.Sprintf("refusing to install directly into %s", root),
			Remedy: "Choose a subdirectory, for example " + filepath.Join(root, ".agentkit-target"),
		}
	}

	check := filepath.ToSlash(rest) + "/"
	for _, dir := range systemDirs {
		if strings.Contains(check, dir) {
			return "", &PathError{
				Kind:   PathUnsafe,
				Path:   abs,
				Reason: "path contains reserved system directory " + dir,
				Remedy: "Choose a directory that does not contain " + strings.Trim(dir, "/"),
			}
		}
	}
	return abs, nil
}

// sandboxed finds the sanctioned root containing abs and returns the part of
// abs below it ("" when abs is the root itself). The longest root wins.
func (r *Resolver) sandboxed(abs string) (root, rest string, ok bool) {
	for _, candidate := range r.roots {
		if abs == candidate {
			if !ok || len(candidate) > len(root) {
				root, rest, ok = candidate, "", true
			}
			continue
		}
		if sub, in := under(candidate, abs); in && (!ok || len(candidate) > len(root)) {
			root, rest, ok = candidate, sub, true
		}
	}
	return root, rest, ok
}

// under reports whether p is strictly below root and returns the remainder
// starting with a separator.
func under(root, p string) (string, bool) {
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if !strings.HasPrefix(p, prefix) {
		return "", false
	}
	return string(filepath.Separator) + p[len(prefix):], true
}

// ValidateWritable sanitizes p, checks that symlinks do not escape the
// sandbox, creates the directory if needed and probes it with a real write.
// The returned path is the sanitized (not symlink-resolved) form.
func (r *Resolver) ValidateWritable(p string) (string, error) {
	abs, err := r.Sanitize(p)
	if err != nil {
		return "", err
	}

	real, existing, err := resolveReal(abs)
	if err != nil {
		return "", &PathError{Kind: PathNotWritable, Path: abs, Reason: "cannot resolve path", Err: err}
	}
	if _, err := r.Sanitize(real); err != nil {
		var pe *PathError
		reason := err.Error()
		if errors.As(err, &pe) {
			reason = pe.Reason
		}
		return "", &PathError{
			Kind:   PathUnsafe,
			Path:   abs,
			Reason: fmt.Sprintf("resolves to %s: %s", real, reason),
			Remedy: "Remove the symlink or choose a different directory",
		}
	}

	if info, err := os.Stat(existing); err != nil || !info.IsDir() {
		return "", &PathError{
			Kind:   PathNotWritable,
			Path:   abs,
			Reason: existing + " is not a directory",
			Remedy: "Choose a path whose parent is a directory",
		}
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", &PathError{
			Kind:   PathNotWritable,
			Path:   abs,
			Reason: "cannot create directory",
			Remedy: "Fix the permissions of " + r.Display(filepath.Dir(abs)) + " or choose a different directory",
			Err:    err,
		}
	}

	probe := filepath.Join(abs, probeFile)
	if err := os.WriteFile(probe, []byte("test"), 0o600); err != nil {
		return "", &PathError{
			Kind:   PathNotWritable,
			Path:   abs,
			Reason: "write test failed",
			Remedy: "Fix the permissions of " + r.Display(abs) + " or choose a different directory",
			Err:    err,
		}
	}
	if err := os.Remove(probe); err != nil {
		return "", &PathError{Kind: PathNotWritable, Path: abs, Reason: "cannot remove write test file", Err: err}
	}
	return abs, nil
}

// resolveReal evaluates symlinks in p. When p does not exist yet, the
// nearest existing ancestor is resolved and the missing tail re-appended.
// It also returns that nearest existing path.
func resolveReal(p string) (real, existing string, err error) {
	if real, err := filepath.EvalSymlinks(p); err == nil {
		return real, p, nil
	}

	var tail []string
	cur := p
	for {
		if _, err := os.Lstat(cur); err == nil {
			resolved, err := filepath.EvalSymlinks(cur)
			if err != nil {
				return "", "", err
			}
			parts := append([]string{resolved}, reverse(tail)...)
			return filepath.Join(parts...), cur, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", "", fmt.Errorf("no existing ancestor of %s", p)
		}
		tail = append(tail, filepath.Base(cur))
		cur = parent
	}
}

func reverse(s []string) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

// Result is the outcome of validating one target in a batch.
type Result struct {
	Tool  string
	Input string
	Path  string
	Err   error
}

// OK reports whether the target passed validation.
func (r Result) OK() bool { return r.Err == nil }

// ValidateAll validates every tool's target and returns one Result per tool,
// in the order given, plus an aggregate of all failures.
func (r *Resolver) ValidateAll(tools []string, targets map[string]string) ([]Result, error) {
	var (
		results []Result
		errs    *multierror.Error
	)
	for _, tool := range tools {
		input := targets[tool]
		res := Result{Tool: tool, Input: input}
		if input == "" {
			def, err := r.DefaultPath(tool)
			if err != nil {
				res.Err = err
				errs = multierror.Append(errs, fmt.Errorf("%s: %w", tool, err))
				results = append(results, res)
				continue
			}
			res.Input = def
		}

		path, err := r.ValidateWritable(res.Input)
		if err != nil {
			res.Err = err
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", tool, err))
		}
		res.Path = path
		results = append(results, res)
	}
	return results, errs.ErrorOrNil()
}
