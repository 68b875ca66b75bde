package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Configuration errors. They are always detected before anything is written
// and are wrapped with the tool name and file path.
var (
	ErrConfigNotFound   = errors.New("variants file not found")
	ErrConfigTooLarge   = errors.New("variants file too large")
	ErrConfigMalformed  = errors.New("variants file malformed")
	ErrConfigIncomplete = errors.New("variants file incomplete")
	ErrUnknownVariant   = errors.New("unknown variant")
	ErrPackageNotFound  = errors.New("package not found")
)

// MissingItem names one identifier a variant asks for that the package lacks.
type MissingItem struct {
	Category Category
	ID       string
}

func (m MissingItem) String() string {
	return fmt.Sprintf("%s '%s'", m.Category.Singular(), m.ID)
}

// ItemNotFoundError reports every explicitly selected item that is absent
// from the package, not just the first.
type ItemNotFoundError struct {
	Tool      string
	Variant   string
	Missing   []MissingItem
	Available Content
}

func (e *ItemNotFoundError) Error() string {
	var b strings.Builder
	if e.Tool != "" {
		fmt.Fprintf(&b, "tool %s: ", e.Tool)
	}
	fmt.Fprintf(&b, "%s variant references %d item(s) not found in package: ", e.Variant, len(e.Missing))

	names := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		names[i] = m.String()
	}
	b.WriteString(strings.Join(names, ", "))

	for _, cat := range e.categories() {
		avail := e.Available.Get(cat)
		if len(avail) == 0 {
			fmt.Fprintf(&b, "; available %s: none", cat)
			continue
		}
		fmt.Fprintf(&b, "; available %s: %s", cat, strings.Join(avail, ", "))
	}
	return b.String()
}

// IDs returns the missing identifiers of one category.
func (e *ItemNotFoundError) IDs(cat Category) []string {
	var ids []string
	for _, m := range e.Missing {
		if m.Category == cat {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

func (e *ItemNotFoundError) categories() []Category {
	seen := map[Category]bool{}
	var cats []Category
	for _, m := range e.Missing {
		if !seen[m.Category] {
			seen[m.Category] = true
			cats = append(cats, m.Category)
		}
	}
	sort.Slice(cats, func(i, j int) bool { return categoryIndex(cats[i]) < categoryIndex(cats[j]) })
	return cats
}

func categoryIndex(c Category) int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return len(Categories)
}
