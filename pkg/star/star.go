// Package star provides STAR and CIF parsing, a document model and rendering.
//
// This package reads the self-defining text format used by NMR-STAR and
// mmCIF/NMR-IF archives: a data block of tags and values, grouped into
// save_ frames (STAR) and loop_ tables. It builds a Document from the input,
// streams tag/value pairs with a Scanner, and writes Documents back out with
// every value quoted so that it reads back unchanged.
//
// Two dialects are supported. STAR nests loops and free tags inside
// saveframes and requires save_ and stop_ terminators. CIF keeps them
// directly in the data block and closes loops implicitly.
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use by multiple goroutines.
// Each function call creates its own parser instance with no shared mutable state.
//
// # Parsing APIs
//
//   - Parse(string) - Parses a STAR document from a string in memory
//   - ParseReader(io.Reader) - Parses a STAR document from any io.Reader
//   - Events(io.Reader, ...) - Drives your own handlers with parser events
//
// # Example usage with Parse:
//
//	doc, err := star.Parse(input)
//	if err != nil {
//	    // handle error
//	}
//	sf, _ := doc.Saveframe("entry_information")
//	title, _ := sf.Get("_Entry.Title")
//
// # Example usage with ParseReader:
//
//	file, err := os.Open("bmr15000_3.str")
//	if err != nil {
//	    // handle error
//	}
//	defer file.Close()
//
//	doc, err := star.ParseReader(file)
package star

import (
	"io"

	"github.com/shapestone/shape-core/pkg/tokenizer"
	"github.com/shapestone/shape-star/internal/parser"
	itok "github.com/shapestone/shape-star/internal/tokenizer"
)

// Callback interfaces for Events. See the internal parser for the
// semantics of every event; each bool result is a stop flag.
type (
	ContentHandler    = parser.ContentHandler
	DataHandler       = parser.DataHandler
	TagValueHandler   = parser.TagValueHandler
	ErrorHandler      = parser.ErrorHandler
	NopContentHandler = parser.NopContentHandler
	ErrorFuncs        = parser.ErrorFuncs
	Stats             = parser.Stats
)

// Parse parses a STAR document from a string with the default options.
//
// The first structural error stops the parse and is returned as a
// *ParseError. Use ParseWithOptions to collect diagnostics instead.
//
// Example:
//
//	doc, err := star.Parse("data_x\nsave_s\n_A.b 1\nsave_\n")
//	sf, _ := doc.Saveframe("s")
func Parse(input string) (*Document, error) {
	return parseDocument(itok.NewScanner(input), DefaultReaderOptions())
}

// ParseReader parses a STAR document from an io.Reader with the default options.
//
// The reader is consumed through a buffered stream, so the input is not
// read into memory up front.
//
// Example:
//
//	reader := strings.NewReader("data_x\nsave_s\n_A.b 1\nsave_\n")
//	doc, err := star.ParseReader(reader)
func ParseReader(reader io.Reader) (*Document, error) {
	stream := tokenizer.NewStreamFromReader(reader)
	return parseDocument(itok.NewScannerFromStream(stream), DefaultReaderOptions())
}

// Format returns the format identifier for this parser.
// Returns "STAR" to identify this as the STAR data format parser.
func Format() string {
	return "STAR"
}

// Validate checks if the input string is a valid STAR document.
//
// This skips Document construction.
//
// Returns nil if the input is valid, or a *ParseError describing the first
// problem:
//
//	if err := star.Validate(input); err != nil {
//	    fmt.Println("Invalid STAR:", err)
//	}
func Validate(input string) error {
	return validate(itok.NewScanner(input), DefaultReaderOptions())
}

// ValidateReader checks if the input from an io.Reader is a valid STAR document.
//
// This skips Document construction.
func ValidateReader(reader io.Reader) error {
	stream := tokenizer.NewStreamFromReader(reader)
	return validate(itok.NewScannerFromStream(stream), DefaultReaderOptions())
}

// Events runs the grammar parser over reader, delivering events to content
// and diagnostics to errs.
//
// content should implement DataHandler or TagValueHandler to see values;
// embed NopContentHandler to skip the structural callbacks you don't need.
//
// Example:
//
//	type counter struct {
//	    star.NopContentHandler
//	    n int
//	}
//
//	func (c *counter) Data(tagLine int, tag string, valLine int, value string, style star.Style, inLoop bool) bool {
//	    c.n++
//	    return false
//	}
//
//	stats, err := star.Events(file, star.STAR, &counter{}, star.ErrorFuncs{})
func Events(reader io.Reader, grammar Grammar, content ContentHandler, errs ErrorHandler) (Stats, error) {
	if content == nil {
		return Stats{}, &OptionsError{Field: "content", Message: "handler is required"}
	}
	if errs == nil {
		return Stats{}, &OptionsError{Field: "errs", Message: "handler is required"}
	}
	stream := tokenizer.NewStreamFromReader(reader)
	p := parser.NewParser(grammar, itok.NewScannerFromStream(stream), content, errs)
	return p.Parse(), nil
}

func parseDocument(scanner parser.TokenSource, opts ReaderOptions) (*Document, error) {
	diag := newDiagnostics(opts)
	b := newBuilder(diag)
	parser.NewParser(opts.Grammar, scanner, b, diag).Parse()
	if diag.err != nil {
		return nil, diag.err
	}
	return b.doc, nil
}

// validate runs the parser without building anything.
func validate(scanner parser.TokenSource, opts ReaderOptions) error {
	diag := newDiagnostics(opts)
	parser.NewParser(opts.Grammar, scanner, parser.NopContentHandler{}, diag).Parse()
	return diag.err
}
