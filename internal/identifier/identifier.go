// Package identifier derives the year-page token shared by the two halves of a benchmark page.
package identifier

import (
	"regexp"
	"strconv"
)

// DefaultPrefixLength is the length of the model-comparison prefix carried by exported filenames.
const DefaultPrefixLength = 92

var (
	yearPagePattern = regexp.MustCompile(`^\d{4}-\d{4}`)
	partPattern     = regexp.MustCompile(`^\d{4}-\d{4}-(\d+)`)
)

// remainder drops the first prefixLength characters (not bytes) of filename.
func remainder(filename string, prefixLength int) (string, bool) {
	if prefixLength <= 0 {
		return filename, true
	}
	runes := []rune(filename)
	if len(runes) < prefixLength {
		return "", false
	}
	return string(runes[prefixLength:]), true
}

// Extract returns the DDDD-DDDD token found immediately after the prefix.
// Anything following the token is ignored.
func Extract(filename string, prefixLength int) (string, bool) {
	rest, ok := remainder(filename, prefixLength)
	if !ok {
		return "", false
	}
	token := yearPagePattern.FindString(rest)
	if token == "" {
		return "", false
	}
	return token, true
}

// Part returns the half number that follows the identifier, e.g. 2 for "...1887-0029-2.tsv".
func Part(filename string, prefixLength int) (int, bool) {
	rest, ok := remainder(filename, prefixLength)
	if !ok {
		return 0, false
	}
	m := partPattern.FindStringSubmatch(rest)
	if len(m) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
