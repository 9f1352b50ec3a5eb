package theme

import (
	"regexp"
	"strings"
)

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]*$`)

// NormalizeName trims and lowercases a component name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidName reports whether a normalized name is usable as a registry key
// and storage path segment.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}
