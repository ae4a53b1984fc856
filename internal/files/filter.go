package files

import (
	"strings"

	"github.com/gobwas/glob"
)

// Matcher decides whether an entry name passes a filter.
type Matcher func(name string) bool

// NewMatcher compiles filter text. Text containing glob metacharacters
// (`*`, `?`, `[`, `{`) is matched as a case-insensitive glob against the whole
// name; anything else is a case-insensitive substring match. An empty filter
// matches everything. A glob that does not compile falls back to substring
// matching.
func NewMatcher(filter string) Matcher {
	if filter == "" {
		return func(string) bool { return true }
	}
	lower := strings.ToLower(filter)
	if strings.ContainsAny(lower, "*?[{") {
		if g, err := glob.Compile(lower); err == nil {
			return func(name string) bool {
				return g.Match(strings.ToLower(name))
			}
		}
	}
	return func(name string) bool {
		return strings.Contains(strings.ToLower(name), lower)
	}
}

// Filter returns the entries whose names pass filter, keeping their relative
// order.
func Filter(entries []Entry, filter string) []Entry {
	if filter == "" {
		return entries
	}
	match := NewMatcher(filter)
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if match(e.Name) {
			out = append(out, e)
		}
	}
	return out
}
