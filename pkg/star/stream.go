package star

import (
	"io"

	"github.com/shapestone/shape-core/pkg/tokenizer"
	"github.com/shapestone/shape-star/internal/parser"
	itok "github.com/shapestone/shape-star/internal/tokenizer"
)

// Pair is one tag and value as read from the input.
type Pair struct {
	// Saveframe is the enclosing saveframe name, "" outside saveframes.
	Saveframe string
	// Tag is the tag the value belongs to; for loop values, its loop column.
	Tag   string
	Value string
	Style Style
	// Line is the line the value was read on.
	Line   int
	InLoop bool
}

// Scanner provides a streaming interface for reading tag/value pairs one at a time.
// It flattens saveframes and loops into the sequence of pairs the parser
// delivers, in input order.
//
// Example usage:
//
//	file, _ := os.Open("entry.str")
//	defer file.Close()
//
//	scanner := star.NewScanner(file)
//	for scanner.Scan() {
//	    p := scanner.Pair()
//	    fmt.Println(p.Saveframe, p.Tag, p.Value)
//	}
//	if err := scanner.Err(); err != nil {
//	    // handle error
//	}
type Scanner struct {
	reader io.Reader
	opts   ReaderOptions
	pairs  []Pair
	index  int
	err    error
	parsed bool
}

// NewScanner creates a new Scanner that reads STAR from the given io.Reader
// with the default reader options.
func NewScanner(reader io.Reader) *Scanner {
	return NewScannerWithOptions(reader, DefaultReaderOptions())
}

// NewScannerWithOptions creates a new Scanner with custom options.
//
// Example:
//
//	opts := star.DefaultReaderOptions()
//	opts.Grammar = star.CIF
//	scanner := star.NewScannerWithOptions(reader, opts)
func NewScannerWithOptions(reader io.Reader, opts ReaderOptions) *Scanner {
	return &Scanner{
		reader: reader,
		opts:   opts,
		index:  -1,
	}
}

// SetGrammar sets the dialect to parse.
// Returns the Scanner for method chaining.
func (s *Scanner) SetGrammar(g Grammar) *Scanner {
	s.opts.Grammar = g
	return s
}

// Scan advances the scanner to the next pair.
// It returns false when there are no more pairs or an error occurs.
// After Scan returns false, the Err method will return any error that occurred.
func (s *Scanner) Scan() bool {
	// Parse on first call
	if !s.parsed {
		s.parsed = true
		if err := s.parse(); err != nil {
			s.err = err
			return false
		}
	}

	s.index++
	return s.index < len(s.pairs)
}

// Pair returns the current pair.
// This should only be called after Scan() returns true.
func (s *Scanner) Pair() Pair {
	if s.index < 0 || s.index >= len(s.pairs) {
		return Pair{}
	}
	return s.pairs[s.index]
}

// Err returns the error, if any, that was encountered during scanning.
// It returns nil if no error occurred or at EOF.
func (s *Scanner) Err() error {
	return s.err
}

// parse runs the parser over the whole input, collecting pairs.
// Pairs read before an error are kept but not delivered.
func (s *Scanner) parse() error {
	if err := s.opts.Validate(); err != nil {
		return err
	}

	diag := newDiagnostics(s.opts)
	c := &pairCollector{diag: diag}
	stream := tokenizer.NewStreamFromReader(s.reader)
	parser.NewParser(s.opts.Grammar, itok.NewScannerFromStream(stream), c, diag).Parse()
	if diag.err != nil {
		return diag.err
	}
	s.pairs = c.pairs
	return nil
}

// pairCollector receives combined tag/value events.
type pairCollector struct {
	parser.NopContentHandler
	diag      *diagnostics
	saveframe string
	pairs     []Pair
}

func (c *pairCollector) StartSaveframe(line int, name string) bool {
	c.saveframe = name
	return false
}

func (c *pairCollector) EndSaveframe(int, string) bool {
	c.saveframe = ""
	return false
}

func (c *pairCollector) Data(tagLine int, tag string, valLine int, value string, style Style, inLoop bool) bool {
	if c.diag.oversized(value) {
		return c.diag.tooLarge(valLine, len(value))
	}
	c.pairs = append(c.pairs, Pair{
		Saveframe: c.saveframe,
		Tag:       tag,
		Value:     value,
		Style:     style,
		Line:      valLine,
		InLoop:    inLoop,
	})
	return false
}
