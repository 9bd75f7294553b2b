package quote

import (
	"regexp"
	"strings"
)

var (
	doubleNearSpace = regexp.MustCompile(`(\s")|("\s)`)
	singleNearSpace = regexp.MustCompile(`(\s')|('\s)`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

// reservedLead are characters that change how the scanner reads a word
// when they come first.
const reservedLead = "#_$'\";"

// Classify returns the quoting style value needs to be read back unchanged.
//
// Rules, in priority order:
//   - empty text is None (it renders as the null placeholder ".")
//   - a line break forces Semicolon
//   - quotes of both kinds next to whitespace force Semicolon
//   - a single quote next to whitespace gives Double
//   - a double quote next to whitespace gives Single
//   - any other whitespace gives Single
//   - a reserved leading character or keyword gives Single
//   - everything else is a bareword (None)
func Classify(value string) Style {
	if value == "" {
		return None
	}
	if strings.ContainsAny(value, "\n\r") {
		return Semicolon
	}

	hasDQ := doubleNearSpace.MatchString(value)
	hasSQ := singleNearSpace.MatchString(value)
	switch {
	case hasDQ && hasSQ:
		return Semicolon
	case hasSQ:
		return Double
	case hasDQ:
		return Single
	}

	if strings.IndexFunc(value, isSpace) >= 0 {
		return Single
	}
	if isReserved(value) {
		return Single
	}
	return None
}

// isReserved reports whether a whitespace-free value would be read as
// something other than a bareword.
func isReserved(value string) bool {
	if strings.ContainsRune(reservedLead, rune(value[0])) {
		return true
	}
	lower := strings.ToLower(value)
	if strings.HasPrefix(lower, "data_") || strings.HasPrefix(lower, "save_") {
		return true
	}
	lower = strings.TrimRightFunc(lower, isSpace)
	return lower == "loop_" || lower == "stop_"
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
