package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/barysiuk/agentkit/internal/fsutil"
	"gopkg.in/yaml.v3"
)

// SkillFile is the entry document of a skill directory.
const SkillFile = "SKILL.md"

// ItemInfo describes one item for listings.
type ItemInfo struct {
	Category    Category
	ID          string
	Name        string
	Description string
	Size        int64
}

// frontmatter holds the fields read from agent and skill documents.
type frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Describe lists the items of a variant with the name and description taken
// from their YAML frontmatter, when present.
func (c *Catalog) Describe(ctx context.Context, tool, variant string) ([]ItemInfo, error) {
	fs, err := c.FileSet(ctx, tool, variant)
	if err != nil {
		return nil, err
	}

	var out []ItemInfo
	for _, e := range fs.Entries() {
		info := ItemInfo{
			Category: e.Category,
			ID:       e.ID,
			Name:     e.ID,
			Size:     fsutil.TreeSize(e.Source),
		}

		var doc string
		switch e.Category {
		case Agents:
			doc = e.Source
		case Skills:
			doc = filepath.Join(e.Source, SkillFile)
		}
		if doc != "" {
			if fm, err := readFrontmatter(doc); err == nil {
				if fm.Name != "" {
					info.Name = fm.Name
				}
				info.Description = fm.Description
			}
		}
		out = append(out, info)
	}
	return out, nil
}

// readFrontmatter parses the leading "---" delimited YAML block of a
// markdown document.
func readFrontmatter(path string) (frontmatter, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return frontmatter{}, err
	}
	return parseFrontmatter(string(raw), path)
}

func parseFrontmatter(content, source string) (frontmatter, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, "---\n") {
		return frontmatter{}, fmt.Errorf("no frontmatter in %s", source)
	}
	rest := content[len("---\n"):]

	end := strings.Index(rest, "\n---")
	if end < 0 {
		return frontmatter{}, fmt.Errorf("no closing frontmatter delimiter in %s", source)
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return frontmatter{}, fmt.Errorf("parsing frontmatter in %s: %w", source, err)
	}
	fm.Description = strings.TrimSpace(fm.Description)
	return fm, nil
}
