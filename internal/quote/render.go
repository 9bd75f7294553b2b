package quote

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotBareword is returned when a save-frame pointer value cannot be
// written as a $bareword.
var ErrNotBareword = errors.New("value must be a bareword reference")

// Null and Unknown are the placeholder values.
const (
	Null    = "."
	Unknown = "?"
)

// Dictionary answers the one schema question the codec needs.
type Dictionary interface {
	// IsSaveframePointer reports whether _table.column holds a framecode.
	IsSaveframePointer(table, column string) bool
}

// DictionaryFunc adapts a plain function to Dictionary.
type DictionaryFunc func(table, column string) bool

// IsSaveframePointer calls f(table, column).
func (f DictionaryFunc) IsSaveframePointer(table, column string) bool {
	return f(table, column)
}

// MapDictionary is a Dictionary backed by a set of "table.column" names.
type MapDictionary map[string]bool

// IsSaveframePointer reports whether "table.column" is in the set.
func (m MapDictionary) IsSaveframePointer(table, column string) bool {
	return m[table+"."+column]
}

// ReferenceError describes a save-frame pointer value that needs quoting.
type ReferenceError struct {
	Table  string
	Column string
	Value  string
}

// Error returns the message including the offending tag and value.
func (e *ReferenceError) Error() string {
	return fmt.Sprintf("bad value for tag _%s.%s: %v: %q", e.Table, e.Column, ErrNotBareword, e.Value)
}

// Unwrap returns ErrNotBareword.
func (e *ReferenceError) Unwrap() error {
	return ErrNotBareword
}

// Quote renders value in the style Classify picks for it.
func Quote(value string) string {
	return Render(value, Classify(value))
}

// Render writes value in the given style.
//
// Empty text renders as ".". Semicolon blocks are opened with "\n;" and
// closed with ";\n", adding a newline on either side only when the value
// does not already supply one. Other styles trim surrounding whitespace
// first; a value that trims to nothing renders as ".".
func Render(value string, style Style) string {
	if value == "" {
		return Null
	}

	if style == Semicolon {
		var b strings.Builder
		b.Grow(len(value) + 6)
		if isSpace(rune(value[0])) {
			b.WriteString("\n;")
		} else {
			b.WriteString("\n;\n")
		}
		b.WriteString(value)
		if strings.HasSuffix(value, "\n") {
			b.WriteString(";\n")
		} else {
			b.WriteString("\n;\n")
		}
		return b.String()
	}

	trimmed := strings.TrimFunc(value, isSpace)
	if trimmed == "" {
		return Null
	}

	switch style {
	case Double:
		return `"` + trimmed + `"`
	case Single:
		return "'" + trimmed + "'"
	default:
		return trimmed
	}
}

// RenderReference renders the value of _table.column.
//
// Columns the dictionary does not flag as save-frame pointers go through
// Quote. Pointer values keep the placeholders as they are; anything else
// has whitespace runs replaced by underscores and a leading $ dropped, and
// is written as $name. A pointer that still needs quoting after that
// returns a *ReferenceError.
func RenderReference(dict Dictionary, table, column, value string) (string, error) {
	rendered := Quote(value)
	if dict == nil || !dict.IsSaveframePointer(table, column) {
		return rendered, nil
	}
	if rendered == Null || rendered == Unknown {
		return rendered, nil
	}

	candidate := whitespaceRun.ReplaceAllString(strings.TrimFunc(value, isSpace), "_")
	candidate = strings.TrimPrefix(candidate, "$")
	if candidate == "" || Classify(candidate) != None {
		return "", &ReferenceError{Table: table, Column: column, Value: value}
	}
	return "$" + candidate, nil
}
