package star

import "github.com/shapestone/shape-star/internal/quote"

// Style is the delimiter form of a value.
type Style = quote.Style

// Value styles.
const (
	StyleNone      = quote.None
	StyleSingle    = quote.Single
	StyleDouble    = quote.Double
	StyleSemicolon = quote.Semicolon
	StyleFramecode = quote.Framecode
)

// Placeholder values.
const (
	Null    = quote.Null
	Unknown = quote.Unknown
)

// Dictionary marks the tags whose values are save-frame pointers.
type Dictionary = quote.Dictionary

// DictionaryFunc adapts a plain function to Dictionary.
type DictionaryFunc = quote.DictionaryFunc

// MapDictionary is a Dictionary backed by a set of "table.column" names.
type MapDictionary = quote.MapDictionary

// ReferenceError describes a save-frame pointer value that cannot be
// written as $name. It unwraps to ErrNotBareword.
type ReferenceError = quote.ReferenceError

// Classify returns the delimiter style value needs to survive a write
// and re-read.
func Classify(value string) Style {
	return quote.Classify(value)
}

// Quote renders value with the style Classify picks.
func Quote(value string) string {
	return quote.Quote(value)
}

// QuoteStyle renders value with the given style.
func QuoteStyle(value string, style Style) string {
	return quote.Render(value, style)
}

// QuoteReference renders the value of tag _table.column, writing
// save-frame pointers as $name when dict says the column holds one.
func QuoteReference(dict Dictionary, table, column, value string) (string, error) {
	return quote.RenderReference(dict, table, column, value)
}
