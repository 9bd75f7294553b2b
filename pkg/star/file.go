package star

import (
	"github.com/shapestone/shape-core/pkg/tokenizer"
	"github.com/shapestone/shape-star/internal/mmap"
	"github.com/shapestone/shape-star/internal/parser"
	itok "github.com/shapestone/shape-star/internal/tokenizer"
)

// ParseFile parses the STAR document in the named file with custom options.
//
// The file is memory-mapped and streamed into the tokenizer, so it is never
// copied whole onto the heap. The returned Document does not reference the
// mapping.
//
// Example:
//
//	opts := star.DefaultReaderOptions()
//	doc, err := star.ParseFile("bmr15000_3.str", opts)
func ParseFile(filename string, opts ReaderOptions) (*Document, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	var doc *Document
	err := withFile(filename, func(scanner parser.TokenSource) error {
		var err error
		doc, err = parseDocument(scanner, opts)
		return err
	})
	return doc, err
}

// ValidateFile checks the named file with custom options.
func ValidateFile(filename string, opts ReaderOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	return withFile(filename, func(scanner parser.TokenSource) error {
		return validate(scanner, opts)
	})
}

// withFile maps filename for the duration of fn.
func withFile(filename string, fn func(parser.TokenSource) error) error {
	m, err := mmap.Open(filename)
	if err != nil {
		return err
	}
	defer m.Close()

	r, err := m.Reader()
	if err != nil {
		return err
	}
	return fn(itok.NewScannerFromStream(tokenizer.NewStreamFromReader(r)))
}
