// Package catalogtest builds package trees on disk for tests.
package catalogtest

import (
	"os"
	"path/filepath"
	"testing"
)

// Package describes the content of one tool package. Skills map a skill name
// to its files (relative path to content).
type Package struct {
	Agents    []string
	Skills    map[string]map[string]string
	Resources []string
	Hooks     []string
	// Variants is the raw variants.json; empty writes no file.
	Variants string
}

// DefaultVariants selects three agents for lite, four agents and one skill
// for standard, and everything for pro.
const DefaultVariants = `{
  // comments are allowed
  "lite": {
    "name": "Lite",
    "description": "Core agents only",
    "useCase": "Getting started",
    "targetUsers": "Individuals",
    "agents": ["master", "orchestrator", "scrum-master"],
    "skills": [],
    "resources": "*",
    "hooks": "*"
  },
  "standard": {
    "name": "Standard",
    "description": "Core agents plus development",
    "useCase": "Daily development",
    "targetUsers": "Developers",
    "agents": ["master", "orchestrator", "scrum-master", "dev"],
    "skills": ["docx"],
    "resources": "*",
    "hooks": "*"
  },
  "pro": {
    "name": "Pro",
    "description": "Everything",
    "useCase": "Full workflows",
    "targetUsers": "Teams",
    "agents": "*",
    "skills": "*",
    "resources": "*",
    "hooks": "*",
  },
}
`

// Default returns the package used by most tests: five agents, two skills
// (docx with three files, xlsx with one), one resource and one hook.
func Default() Package {
	return Package{
		Agents: []string{"master", "orchestrator", "scrum-master", "dev", "qa"},
		Skills: map[string]map[string]string{
			"docx": {
				"SKILL.md":           "---\nname: docx\ndescription: Word documents\n---\n# docx\n",
				"reference/guide.md": "# Guide\n",
				"scripts/convert.py": "print('convert')\n",
			},
			"xlsx": {
				"SKILL.md": "---\nname: xlsx\ndescription: Spreadsheets\n---\n# xlsx\n",
			},
		},
		Resources: []string{"checklist.md"},
		Hooks:     []string{"session-start.js"},
		Variants:  DefaultVariants,
	}
}

// Write creates root/tool with the package content and returns its path.
func Write(t testing.TB, root, tool string, p Package) string {
	t.Helper()
	dir := filepath.Join(root, tool)

	for _, a := range p.Agents {
		body := "---\nname: " + a + "\ndescription: The " + a + " agent\n---\n\n# " + a + "\n"
		writeFile(t, filepath.Join(dir, "agents", a+".md"), body)
	}
	for name, files := range p.Skills {
		for rel, content := range files {
			writeFile(t, filepath.Join(dir, "skills", name, filepath.FromSlash(rel)), content)
		}
	}
	for _, r := range p.Resources {
		writeFile(t, filepath.Join(dir, "resources", r), "resource "+r+"\n")
	}
	for _, h := range p.Hooks {
		writeFile(t, filepath.Join(dir, "hooks", h), "// hook "+h+"\n")
	}
	if p.Variants != "" {
		writeFile(t, filepath.Join(dir, "variants.json"), p.Variants)
	}
	return dir
}

func writeFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
