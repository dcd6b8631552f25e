package stringsx

import (
	"regexp"
	"strings"
)

var spaceRun = regexp.MustCompile(`\s+`)

// FirstNonEmpty returns the first string in vals that is non-empty when trimmed.
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// CollapseSpace replaces every run of whitespace with a single space.
func CollapseSpace(s string) string {
	return spaceRun.ReplaceAllString(s, " ")
}
