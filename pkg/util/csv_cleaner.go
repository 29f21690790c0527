package util

import (
	"regexp"
	"strings"
)

var (
	// multiSpacePattern matches runs of whitespace inside a header cell
	multiSpacePattern = regexp.MustCompile(`\s+`)
)

const utf8BOM = "\ufeff"

// CleanHeader normalizes a CSV header cell: drops a UTF-8 byte order mark,
// trims the cell and collapses inner whitespace runs to one space.
// Case is preserved; header lookups stay case-sensitive.
func CleanHeader(s string) string {
	s = strings.TrimPrefix(s, utf8BOM)
	s = multiSpacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CleanHeaders applies CleanHeader to every cell of a header row.
func CleanHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = CleanHeader(h)
	}
	return out
}

// CleanValue trims surrounding whitespace, including stray carriage returns
// left by files with mixed line endings.
func CleanValue(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(s, "\r", ""))
}

// NeedsCleanup reports whether a header row carries noise CleanHeaders would remove.
func NeedsCleanup(headers []string) bool {
	for _, h := range headers {
		if strings.HasPrefix(h, utf8BOM) ||
			h != strings.TrimSpace(h) ||
			strings.Contains(h, "  ") ||
			strings.ContainsAny(h, "\t\r\n") {
			return true
		}
	}
	return false
}
