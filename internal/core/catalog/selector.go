package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Wildcard is the selector literal meaning "every available item".
const Wildcard = "*"

// Selector picks the items of one category for a variant: either every
// available item, or exactly the listed identifiers (possibly none).
type Selector struct {
	all   bool
	items []string
}

// All returns the wildcard selector.
func All() Selector { return Selector{all: true} }

// Exactly returns a selector for the given identifiers, in order.
// Exactly() with no arguments selects nothing.
func Exactly(ids ...string) Selector {
	return Selector{items: append([]string{}, ids...)}
}

// IsAll reports whether the selector is the wildcard.
func (s Selector) IsAll() bool { return s.all }

// Items returns the explicit identifiers. It is empty for the wildcard.
func (s Selector) Items() []string { return slices.Clone(s.items) }

// String renders the selector the way it appears in variants.json.
func (s Selector) String() string {
	if s.all {
		return Wildcard
	}
	return fmt.Sprintf("%v", s.items)
}

// UnmarshalJSON accepts the literal "*" or an array of strings. Anything
// else is rejected so a typo cannot silently select nothing.
func (s *Selector) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		if str != Wildcard {
			return fmt.Errorf("selector must be %q or an array of strings, got %q", Wildcard, str)
		}
		*s = All()
		return nil
	}
	if len(data) == 0 || data[0] != '[' {
		return fmt.Errorf("selector must be %q or an array of strings, got %s", Wildcard, string(data))
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("selector must be %q or an array of strings: %w", Wildcard, err)
	}
	*s = Exactly(items...)
	return nil
}

// MarshalJSON writes the selector back in its variants.json form.
func (s Selector) MarshalJSON() ([]byte, error) {
	if s.all {
		return json.Marshal(Wildcard)
	}
	if s.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.items)
}
