package sanitizer

import "strings"

// Tag lowercases t and reduces it to single-line text.
func Tag(t string) string {
	return strings.ToLower(SingleLine(t))
}

// Tags normalizes every entry with Tag, then drops empties and duplicates
// keeping first-seen order. The result is never nil.
func Tags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = Tag(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Limit returns at most n leading elements of items.
func Limit[T any](items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(items) <= n {
		return items
	}
	return items[:n]
}
