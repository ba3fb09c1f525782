package utils

import (
	"regexp"
	"strings"
)

// SplitThatEnsuresGlobsAreSafe splits a string by any of the given separators,
// but does not split within brace-delimited glob patterns like {group1,group2}.
// Empty parts are dropped and the rest are trimmed.
func SplitThatEnsuresGlobsAreSafe(s string, separators []rune) []string {
	if len(separators) == 0 {
		return []string{s}
	}

	var parts []string
	var current strings.Builder
	braceLevel := 0

	flush := func() {
		if part := strings.TrimSpace(current.String()); part != "" {
			parts = append(parts, part)
		}
		current.Reset()
	}

	for _, char := range s {
		switch {
		case char == '{':
			braceLevel++
		case char == '}':
			if braceLevel > 0 {
				braceLevel--
			}
		case braceLevel == 0 && strings.ContainsRune(string(separators), char):
			flush()
			continue
		}
		current.WriteRune(char)
	}
	flush()
	return parts
}

var invalidPathCharsRegex = regexp.MustCompile(`[^\w\.\-]+`)

// ReplaceInvalidPathChars replaces runs of characters other than word
// characters, dots and hyphens with an underscore.
func ReplaceInvalidPathChars(path string) string {
	return invalidPathCharsRegex.ReplaceAllString(path, "_")
}
