package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Catalog reads package content from a packages root laid out as
// <root>/<tool>/{agents,skills,resources,hooks,variants.json}.
//
// Parsed variant declarations are cached per tool. The cache belongs to the
// Catalog value; use Invalidate when a package changes on disk.
type Catalog struct {
	root string

	mu    sync.Mutex
	cache map[string]Variants
}

// New returns a Catalog reading packages under root.
func New(root string) *Catalog {
	return &Catalog{
		root:  root,
		cache: make(map[string]Variants),
	}
}

// Root returns the packages root directory.
func (c *Catalog) Root() string { return c.root }

// PackageDir returns the package directory of a tool.
func (c *Catalog) PackageDir(tool string) string {
	return filepath.Join(c.root, tool)
}

// ConfigPath returns the path of a tool's variants.json.
func (c *Catalog) ConfigPath(tool string) string {
	return filepath.Join(c.PackageDir(tool), ConfigFileName)
}

// Load returns the variant declarations of a tool, reading and caching
// variants.json on first use.
func (c *Catalog) Load(tool string) (Variants, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.cache[tool]; ok {
		return v, nil
	}

	v, err := c.read(tool)
	if err != nil {
		return nil, err
	}
	c.cache[tool] = v
	return v, nil
}

func (c *Catalog) read(tool string) (Variants, error) {
	path := c.ConfigPath(tool)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: tool %s: %s", ErrConfigNotFound, tool, path)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > MaxConfigSize {
		return nil, fmt.Errorf("%w: tool %s: %s is %d bytes (limit %d)", ErrConfigTooLarge, tool, path, info.Size(), MaxConfigSize)
	}

	// Read one byte past the limit in case the file grew after Stat.
	data, err := io.ReadAll(io.LimitReader(f, MaxConfigSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) > MaxConfigSize {
		return nil, fmt.Errorf("%w: tool %s: %s exceeds %d bytes", ErrConfigTooLarge, tool, path, MaxConfigSize)
	}

	v, err := ParseVariants(tool, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// Invalidate drops the cached declarations of one tool.
func (c *Catalog) Invalidate(tool string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, tool)
}

// InvalidateAll empties the cache.
func (c *Catalog) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]Variants)
}

// Variant returns one variant declaration of a tool.
func (c *Catalog) Variant(tool, variant string) (Variant, error) {
	vs, err := c.Load(tool)
	if err != nil {
		return Variant{}, err
	}
	v, ok := vs[variant]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q for tool %s (expected one of %v)", ErrUnknownVariant, variant, tool, VariantNames)
	}
	return v, nil
}

// VariantInfo returns the descriptive metadata of a variant.
func (c *Catalog) VariantInfo(tool, variant string) (VariantInfo, error) {
	v, err := c.Variant(tool, variant)
	if err != nil {
		return VariantInfo{}, err
	}
	return v.VariantInfo, nil
}

// Tools lists the tools under the packages root that carry a variants.json,
// sorted by name.
func (c *Catalog) Tools() ([]string, error) {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: packages directory %s", ErrPackageNotFound, c.root)
		}
		return nil, fmt.Errorf("reading packages directory: %w", err)
	}

	var tools []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(c.ConfigPath(e.Name())); err == nil {
			tools = append(tools, e.Name())
		}
	}
	sort.Strings(tools)
	return tools, nil
}

// HasPackage reports whether a tool has a package directory with a
// variants.json.
func (c *Catalog) HasPackage(tool string) bool {
	_, err := os.Stat(c.ConfigPath(tool))
	return err == nil
}
