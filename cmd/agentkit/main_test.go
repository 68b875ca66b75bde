package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/barysiuk/agentkit/cmd/agentkit/cmd"
	"github.com/rogpeppe/go-internal/testscript"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"agentkit": func() {
			if err := cmd.Execute(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				if advice := cmd.Advice(err); advice != "" {
					fmt.Fprintln(os.Stderr, advice)
				}
				os.Exit(1)
			}
		},
	})
}

func TestScript(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:                 filepath.Join("testdata", "script"),
		RequireExplicitExec: true,
		Setup: func(e *testscript.Env) error {
			// Set HOME to WORK so ~/.agentkit/ and tool targets are created inside the temp dir
			e.Vars = append(e.Vars,
				"HOME="+e.WorkDir,
				"XDG_CONFIG_HOME="+filepath.Join(e.WorkDir, ".config"),
				"AGENTKIT_PACKAGES="+filepath.Join(e.WorkDir, "packages"),
			)
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			// setup-packages writes a package for each tool under <root>.
			// Usage: setup-packages <root> <tool...>
			"setup-packages": cmdSetupPackages,

			// file-contains asserts that a file contains (or doesn't contain) a substring.
			// Usage: [!] file-contains <path> <substring>
			"file-contains": cmdFileContains,

			// dir-not-exists asserts that a directory does not exist.
			// Usage: [!] dir-not-exists <path>
			"dir-not-exists": cmdDirNotExists,

			// json-field asserts a field of a JSON document, addressed by a
			// dotted path (array elements by index).
			// Usage: [!] json-field <path> <field.path> <value>
			"json-field": cmdJSONField,

			// json-set rewrites a field of a JSON document in place.
			// Usage: json-set <path> <field.path> <value>
			"json-set": cmdJSONSet,

			// count-glob asserts how many paths match a glob.
			// Usage: count-glob <pattern> <n>
			"count-glob": cmdCountGlob,
		},
	})
}

const testVariants = `{
  // three agents, one skill, everything
  "lite": {
    "name": "Lite",
    "description": "Core agents only",
    "agents": ["master", "orchestrator", "scrum-master"],
    "skills": [],
    "resources": "*",
    "hooks": "*"
  },
  "standard": {
    "name": "Standard",
    "description": "Core agents plus development",
    "agents": ["master", "orchestrator", "scrum-master", "dev"],
    "skills": ["docx"],
    "resources": "*",
    "hooks": "*"
  },
  "pro": {
    "name": "Pro",
    "description": "Everything",
    "agents": "*",
    "skills": "*",
    "resources": "*",
    "hooks": "*"
  }
}
`

// cmdSetupPackages writes five agents, two skills, one resource and one hook
// per tool.
func cmdSetupPackages(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("setup-packages does not support negation")
	}
	if len(args) < 2 {
		ts.Fatalf("usage: setup-packages <root> <tool...>")
	}
	root := ts.MkAbs(args[0])

	files := map[string]string{
		"variants.json":              testVariants,
		"skills/docx/SKILL.md":       "---\nname: docx\ndescription: Word documents\n---\n# docx\n",
		"skills/docx/scripts/run.py": "print('docx')\n",
		"skills/xlsx/SKILL.md":       "---\nname: xlsx\ndescription: Spreadsheets\n---\n# xlsx\n",
		"resources/checklist.md":     "# Checklist\n",
		"hooks/session-start.js":     "// hook\n",
	}
	for _, a := range []string{"master", "orchestrator", "scrum-master", "dev", "qa"} {
		files["agents/"+a+".md"] = "---\nname: " + a + "\ndescription: The " + a + " agent\n---\n# " + a + "\n"
	}

	for _, tool := range args[1:] {
		for rel, content := range files {
			path := filepath.Join(root, tool, filepath.FromSlash(rel))
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				ts.Fatalf("creating dir: %v", err)
			}
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				ts.Fatalf("writing %s: %v", rel, err)
			}
		}
	}
}

// cmdFileContains checks if a file contains a substring.
func cmdFileContains(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) < 2 {
		ts.Fatalf("usage: file-contains <path> <substring>")
	}
	path := ts.MkAbs(args[0])
	substr := args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		ts.Fatalf("reading %s: %v", args[0], err)
	}

	contains := strings.Contains(string(data), substr)
	if neg {
		if contains {
			ts.Fatalf("file %s contains %q (expected not to)", args[0], substr)
		}
	} else {
		if !contains {
			ts.Fatalf("file %s does not contain %q\nContent:\n%s", args[0], substr, string(data))
		}
	}
}

// cmdDirNotExists checks that a directory does not exist.
func cmdDirNotExists(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 1 {
		ts.Fatalf("usage: dir-not-exists <path>")
	}
	path := ts.MkAbs(args[0])
	_, err := os.Stat(path)
	doesNotExist := os.IsNotExist(err)

	if neg {
		// ! dir-not-exists == dir exists
		if doesNotExist {
			ts.Fatalf("%s does not exist (expected it to exist)", args[0])
		}
	} else {
		if !doesNotExist {
			ts.Fatalf("%s exists (expected it not to)", args[0])
		}
	}
}

// cmdJSONField compares one field of a JSON file, addressed by a gjson
// path, with a value.
func cmdJSONField(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 3 {
		ts.Fatalf("usage: json-field <path> <field.path> <value>")
	}
	data, err := os.ReadFile(ts.MkAbs(args[0]))
	if err != nil {
		ts.Fatalf("reading %s: %v", args[0], err)
	}
	if !gjson.ValidBytes(data) {
		ts.Fatalf("%s is not valid JSON", args[0])
	}
	res := gjson.GetBytes(data, args[1])
	if !res.Exists() {
		ts.Fatalf("%s has no field %s", args[0], args[1])
	}

	got := res.String()
	if neg {
		if got == args[2] {
			ts.Fatalf("%s %s = %s (expected otherwise)", args[0], args[1], got)
		}
	} else if got != args[2] {
		ts.Fatalf("%s %s = %s, want %s", args[0], args[1], got, args[2])
	}
}

// cmdJSONSet rewrites one field of a JSON file. Values that parse as JSON
// (numbers, booleans, objects) are stored as such, anything else as a string.
func cmdJSONSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("json-set does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: json-set <path> <field.path> <value>")
	}
	path := ts.MkAbs(args[0])
	data, err := os.ReadFile(path)
	if err != nil {
		ts.Fatalf("reading %s: %v", args[0], err)
	}
	if json.Valid([]byte(args[2])) {
		data, err = sjson.SetRawBytes(data, args[1], []byte(args[2]))
	} else {
		data, err = sjson.SetBytes(data, args[1], args[2])
	}
	if err != nil {
		ts.Fatalf("setting %s: %v", args[1], err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		ts.Fatalf("writing %s: %v", args[0], err)
	}
}

// cmdCountGlob counts the paths matching a glob.
func cmdCountGlob(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 2 {
		ts.Fatalf("usage: count-glob <pattern> <n>")
	}
	matches, err := filepath.Glob(ts.MkAbs(args[0]))
	if err != nil {
		ts.Fatalf("bad pattern %s: %v", args[0], err)
	}
	got := fmt.Sprint(len(matches))
	if neg && got == args[1] {
		ts.Fatalf("%s matches %s path(s), expected otherwise", args[0], got)
	}
	if !neg && got != args[1] {
		ts.Fatalf("%s matches %s path(s) %v, want %s", args[0], got, matches, args[1])
	}
}
