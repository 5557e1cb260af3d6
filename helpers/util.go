package helpers

import "strings"

// NormalizeSpace collapses runs of whitespace into single spaces and trims the ends
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// JoinNonEmpty joins the non-empty parts with sep, skipping empty strings
func JoinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// Truncate shortens s to max runes, appending an ellipsis when cut
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
