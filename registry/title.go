package registry

import "strings"

// IsEmptyTitle reports whether title is empty once surrounding whitespace is trimmed.
func IsEmptyTitle(title string) bool {
	return strings.TrimSpace(title) == ""
}

// TitlesEqual reports whether a and b name the same item. The comparison is exact and case-sensitive.
func TitlesEqual(a, b string) bool {
	return a == b
}
