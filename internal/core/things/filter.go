package things

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Hide returns tasks whose names match none of patterns. Matching is
// case-insensitive doublestar globbing against the whole name, so "*" stops
// at a "/" in the name while "**" does not. Invalid patterns never match.
func Hide(tasks []Task, patterns []string) []Task {
	if len(patterns) == 0 {
		return tasks
	}

	lowered := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			lowered = append(lowered, strings.ToLower(p))
		}
	}

	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if !hidden(strings.ToLower(t.Name), lowered) {
			out = append(out, t)
		}
	}
	return out
}

func hidden(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
