// Package tags turns the comma-separated tag field of the memo form into a
// normalized tag set.
package tags

import (
	"strings"

	"github.com/snowman-se/bad-memo-app/internal/model"
)

// Parse splits raw on commas, trims and lower-cases each name, drops empties
// and duplicates. Order of first occurrence is preserved.
func Parse(raw string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		name := Normalize(part)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Normalize returns the canonical form of a single tag name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(model.CleanText(name)))
}

// Join renders a tag set back into the form field representation.
func Join(names []string) string {
	return strings.Join(names, ",")
}
