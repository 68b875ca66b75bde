// Package plan reads batch installation plans: which variant to install into
// which tools, with optional per-tool targets. Plans are YAML or JSON (JSONC
// accepted).
package plan

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/barysiuk/agentkit/internal/core/catalog"
	"github.com/barysiuk/agentkit/internal/core/system"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every plan validation failure.
var ErrInvalid = errors.New("invalid plan")

// Plan is one batch installation request.
type Plan struct {
	Variant string            `yaml:"variant" json:"variant"`
	Tools   []string          `yaml:"tools" json:"tools"`
	Paths   map[string]string `yaml:"paths,omitempty" json:"paths,omitempty"`
}

// Load reads and validates a plan file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan: %w", err)
	}
	p, err := Parse(filepath.Ext(path), data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a plan. ext selects the format (".yaml", ".yml", ".json",
// ".jsonc"); any other value sniffs the content. Unknown fields are
// rejected.
func Parse(ext string, data []byte) (*Plan, error) {
	var (
		p   Plan
		err error
	)
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = decodeYAML(data, &p)
	case ".json", ".jsonc":
		err = decodeJSON(data, &p)
	default:
		if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
			err = decodeJSON(data, &p)
		} else {
			err = decodeYAML(data, &p)
		}
	}
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func decodeYAML(data []byte, p *Plan) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("parsing plan: empty document")
		}
		return fmt.Errorf("parsing plan: %w", err)
	}
	return nil
}

func decodeJSON(data []byte, p *Plan) error {
	std, err := hujson.Standardize(data)
	if err != nil {
		return fmt.Errorf("parsing plan: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(std))
	dec.DisallowUnknownFields()
	if err := dec.Decode(p); err != nil {
		return fmt.Errorf("parsing plan: %w", err)
	}
	return nil
}

// Validate checks the variant, the tool names and that every path belongs
// to a listed tool.
func (p *Plan) Validate() error {
	if !catalog.IsVariant(p.Variant) {
		return fmt.Errorf("%w: variant %q (expected one of %s)", ErrInvalid, p.Variant, strings.Join(catalog.VariantNames, ", "))
	}
	if len(p.Tools) == 0 {
		return fmt.Errorf("%w: no tools listed", ErrInvalid)
	}
	if _, err := system.ByNames(p.Tools); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	for tool := range p.Paths {
		if !slices.Contains(p.Tools, tool) {
			return fmt.Errorf("%w: path given for %s, which is not in tools", ErrInvalid, tool)
		}
	}
	return nil
}
