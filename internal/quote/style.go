// Package quote implements the value quoting codec for STAR and CIF output.
//
// Classify picks the delimiter a value needs to survive a round trip through
// the scanner; Render applies it. RenderReference additionally handles
// save-frame pointer values, which must always be written as $barewords.
package quote

import "fmt"

// Style is the delimiter form of a value.
type Style int

const (
	// None means no delimiters: a bareword, or the null placeholder for empty text.
	None Style = iota
	// Single is a 'single quoted' value.
	Single
	// Double is a "double quoted" value.
	Double
	// Semicolon is a multi-line \n;...\n; block.
	Semicolon
	// Framecode is a $-sigiled save-frame pointer as read by the scanner.
	// Classify never returns it.
	Framecode
)

// String returns the string representation of Style.
func (s Style) String() string {
	switch s {
	case None:
		return "none"
	case Single:
		return "single"
	case Double:
		return "double"
	case Semicolon:
		return "semicolon"
	case Framecode:
		return "framecode"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}
