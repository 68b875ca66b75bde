package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/tailscale/hujson"
)

const (
	// ConfigFileName is the per-tool variant declaration.
	ConfigFileName = "variants.json"

	// MaxConfigSize bounds variants.json; anything larger is treated as
	// corrupt rather than parsed.
	MaxConfigSize = 1 << 20
)

// Variant names every tool must declare.
const (
	Lite     = "lite"
	Standard = "standard"
	Pro      = "pro"
)

// VariantNames lists the required variants from smallest to largest.
var VariantNames = []string{Lite, Standard, Pro}

// IsVariant reports whether name is one of the known variants.
func IsVariant(name string) bool { return slices.Contains(VariantNames, name) }

// requiredFields must be present in every variant object. useCase and
// targetUsers are descriptive only and may be omitted.
var requiredFields = []string{"name", "description", "agents", "skills", "resources", "hooks"}

// VariantInfo is the descriptive part of a variant, copied into manifests.
type VariantInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	UseCase     string `json:"useCase,omitempty"`
	TargetUsers string `json:"targetUsers,omitempty"`
}

// Variant is one (tool, variant) declaration from variants.json.
type Variant struct {
	VariantInfo
	Agents    Selector `json:"agents"`
	Skills    Selector `json:"skills"`
	Resources Selector `json:"resources"`
	Hooks     Selector `json:"hooks"`
}

// Selector returns the selector for one category.
func (v Variant) Selector(cat Category) Selector {
	switch cat {
	case Agents:
		return v.Agents
	case Skills:
		return v.Skills
	case Resources:
		return v.Resources
	case Hooks:
		return v.Hooks
	}
	return Exactly()
}

// Variants maps a variant name to its declaration.
type Variants map[string]Variant

// ParseVariants decodes a variants.json document. Comments and trailing
// commas are accepted. The tool name is only used in error messages.
func ParseVariants(tool string, data []byte) (Variants, error) {
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, fmt.Errorf("%w: tool %s: contains null bytes", ErrConfigMalformed, tool)
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: tool %s: invalid JSON: %v", ErrConfigMalformed, tool, err)
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(std, &root); err != nil || root == nil {
		return nil, fmt.Errorf("%w: tool %s: must contain a JSON object", ErrConfigMalformed, tool)
	}

	variants := make(Variants, len(VariantNames))
	for _, name := range VariantNames {
		raw, ok := root[name]
		if !ok {
			return nil, fmt.Errorf("%w: tool %s: required variant '%s' not found", ErrConfigIncomplete, tool, name)
		}
		v, err := parseVariant(tool, name, raw)
		if err != nil {
			return nil, err
		}
		variants[name] = v
	}
	return variants, nil
}

func parseVariant(tool, name string, raw json.RawMessage) (Variant, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Variant{}, fmt.Errorf("%w: tool %s: variant '%s' must be an object", ErrConfigMalformed, tool, name)
	}
	for _, f := range requiredFields {
		if _, ok := fields[f]; !ok {
			return Variant{}, fmt.Errorf("%w: tool %s: required field '%s' missing in '%s' variant", ErrConfigIncomplete, tool, f, name)
		}
	}

	var v Variant
	strFields := []struct {
		key string
		dst *string
	}{
		{"name", &v.Name},
		{"description", &v.Description},
		{"useCase", &v.UseCase},
		{"targetUsers", &v.TargetUsers},
	}
	for _, sf := range strFields {
		raw, ok := fields[sf.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, sf.dst); err != nil {
			return Variant{}, fmt.Errorf("%w: tool %s: field '%s' in '%s' variant must be a string", ErrConfigMalformed, tool, sf.key, name)
		}
	}

	selFields := []struct {
		cat Category
		dst *Selector
	}{
		{Agents, &v.Agents},
		{Skills, &v.Skills},
		{Resources, &v.Resources},
		{Hooks, &v.Hooks},
	}
	for _, sf := range selFields {
		if err := json.Unmarshal(fields[string(sf.cat)], sf.dst); err != nil {
			return Variant{}, fmt.Errorf("%w: tool %s: '%s' in '%s' variant: %v", ErrConfigMalformed, tool, sf.cat, name, err)
		}
	}
	return v, nil
}
