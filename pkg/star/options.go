// Package star provides configurable options for STAR parsing and writing.
package star

import (
	"io"

	"github.com/shapestone/shape-core/pkg/tokenizer"
	"github.com/shapestone/shape-star/internal/parser"
	itok "github.com/shapestone/shape-star/internal/tokenizer"
)

// Grammar selects the STAR dialect. See the CIF and STAR presets.
type Grammar = parser.Grammar

var (
	// CIF is the flat mmCIF/NMR-IF dialect: free tags and loops sit in the
	// data block and stop_ is optional.
	CIF = parser.CIF
	// STAR is the nested NMR-STAR dialect: the data block holds saveframes
	// and save_/stop_ are mandatory.
	STAR = parser.STAR
)

// ReaderOptions configures STAR parsing behavior.
type ReaderOptions struct {
	// Grammar is the dialect to enforce.
	// Default: STAR
	Grammar Grammar

	// OnBadLine specifies how to handle structural errors.
	// Default: BadLineModeError
	OnBadLine BadLineMode

	// WarningCallback receives warnings, and errors when OnBadLine is
	// BadLineModeWarn. If nil, they are silently ignored.
	WarningCallback WarningHandler

	// StrictWarnings treats warnings (loop count, keyword in value) as errors.
	// Default: false
	StrictWarnings bool

	// MaxValueSize is the maximum allowed size for a single value in bytes.
	// 0 means no limit.
	MaxValueSize int
}

// DefaultReaderOptions returns the default reader configuration.
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{
		Grammar:         STAR,
		OnBadLine:       BadLineModeError,
		WarningCallback: nil,
		StrictWarnings:  false,
		MaxValueSize:    0,
	}
}

// WriterOptions configures STAR writing behavior.
type WriterOptions struct {
	// Indent is the number of spaces per nesting level. It is also the
	// gap between a free tag column and its values and between loop columns.
	// Default: 3
	Indent int

	// Dictionary, if set, marks the tags whose values are save-frame
	// pointers; those are written as $name.
	// Default: nil
	Dictionary Dictionary

	// Grammar selects the layout: saveframes are written only for STAR.
	// Default: STAR
	Grammar Grammar
}

// DefaultWriterOptions returns the default writer configuration.
func DefaultWriterOptions() WriterOptions {
	return WriterOptions{
		Indent:     3,
		Dictionary: nil,
		Grammar:    STAR,
	}
}

// ParseWithOptions parses a STAR document from a string with custom options.
//
// Example:
//
//	opts := star.DefaultReaderOptions()
//	opts.Grammar = star.CIF
//	opts.OnBadLine = star.BadLineModeWarn
//	opts.WarningCallback = func(line int, msg string) { log.Printf("line %d: %s", line, msg) }
//	doc, err := star.ParseWithOptions(input, opts)
func ParseWithOptions(input string, opts ReaderOptions) (*Document, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return parseDocument(itok.NewScanner(input), opts)
}

// ParseReaderWithOptions parses a STAR document from an io.Reader with custom options.
//
// Example:
//
//	opts := star.DefaultReaderOptions()
//	opts.MaxValueSize = 1 << 20
//	doc, err := star.ParseReaderWithOptions(file, opts)
func ParseReaderWithOptions(reader io.Reader, opts ReaderOptions) (*Document, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	stream := tokenizer.NewStreamFromReader(reader)
	return parseDocument(itok.NewScannerFromStream(stream), opts)
}

// ValidateWithOptions checks if the input string is valid with custom options.
//
// Example:
//
//	opts := star.DefaultReaderOptions()
//	opts.Grammar = star.CIF
//	err := star.ValidateWithOptions("data_x\n_a.b 1\n", opts)
func ValidateWithOptions(input string, opts ReaderOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	return validate(itok.NewScanner(input), opts)
}

// RenderWithOptions converts a Document to STAR bytes with custom options.
//
// Example:
//
//	opts := star.DefaultWriterOptions()
//	opts.Dictionary = star.MapDictionary{"Entry.Sf_framecode": true}
//	data, err := star.RenderWithOptions(doc, opts)
func RenderWithOptions(doc *Document, opts WriterOptions) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return renderDocument(doc, opts)
}

// Validate checks if the reader options are valid.
func (o ReaderOptions) Validate() error {
	if o.OnBadLine < BadLineModeError || o.OnBadLine > BadLineModeSkip {
		return &OptionsError{Field: "OnBadLine", Message: "unknown mode " + o.OnBadLine.String()}
	}
	if o.MaxValueSize < 0 {
		return &OptionsError{Field: "MaxValueSize", Message: "must not be negative"}
	}
	if o.Grammar.TerminatorsRequired && o.Grammar.SynthesizeTerminators {
		return &OptionsError{Field: "Grammar", Message: "terminators cannot be both required and synthesized"}
	}
	return nil
}

// Validate checks if the writer options are valid.
func (o WriterOptions) Validate() error {
	if o.Indent < 1 {
		return &OptionsError{Field: "Indent", Message: "must be at least 1"}
	}
	return nil
}

// OptionsError represents an invalid option configuration.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return "star: invalid " + e.Field + ": " + e.Message
}
