package storage

import (
	"strings"
)

// NormalizeRaw cleans up a payload as it comes out of a scanner: surrounding
// whitespace (line endings included) and a UTF-8 BOM are dropped.
func NormalizeRaw(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.TrimSpace(s)
	return s
}

// SplitScans splits scanner output into one payload per non-empty line.
func SplitScans(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = NormalizeRaw(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
