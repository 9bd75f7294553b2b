// Package star provides error types and recovery modes for STAR parsing.
package star

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shapestone/shape-star/internal/parser"
	"github.com/shapestone/shape-star/internal/quote"
)

// BadLineMode specifies how the parser handles structural errors.
type BadLineMode int

const (
	// BadLineModeError stops at the first error and returns it (default).
	BadLineModeError BadLineMode = iota
	// BadLineModeWarn reports errors to the WarningCallback and keeps parsing.
	BadLineModeWarn
	// BadLineModeSkip silently drops errors and keeps parsing.
	BadLineModeSkip
)

// String returns the string representation of BadLineMode.
func (m BadLineMode) String() string {
	switch m {
	case BadLineModeError:
		return "error"
	case BadLineModeWarn:
		return "warn"
	case BadLineModeSkip:
		return "skip"
	default:
		return fmt.Sprintf("BadLineMode(%d)", m)
	}
}

// ParseError represents a parsing error with position information.
type ParseError struct {
	// Line is the line where the error was detected (1-indexed).
	Line int
	// Column is the column where the error was detected, 0 if unknown.
	Column int
	// Err is the underlying error. It wraps one of the sentinel errors below.
	Err error
}

// Error returns a formatted error message with position information.
func (e *ParseError) Error() string {
	if e.Column == 0 {
		return fmt.Sprintf("parse error on line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse error on line %d, column %d: %v", e.Line, e.Column, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Common parsing errors
var (
	// ErrValueExpected indicates a tag that was never given a value.
	ErrValueExpected = errors.New("value expected")

	// ErrValueNotExpected indicates a value with no tag to belong to.
	ErrValueNotExpected = errors.New("value not expected")

	// ErrLoopNoTags indicates a loop_ followed directly by values or stop_.
	ErrLoopNoTags = errors.New("loop with no tags")

	// ErrLoopNoValues indicates a loop that ended before its first value.
	ErrLoopNoValues = errors.New("loop with no values")

	// ErrLoopCount indicates a loop whose value count is not a multiple of its tag count.
	ErrLoopCount = errors.New("loop count error")

	// ErrKeywordInValue indicates a value containing a reserved keyword.
	ErrKeywordInValue = errors.New("keyword in value")

	// ErrUnterminated indicates input ended inside a saveframe or loop.
	ErrUnterminated = errors.New("missing terminator")

	// ErrInvalidToken indicates a token the grammar has no place for.
	ErrInvalidToken = errors.New("invalid token")

	// ErrLexical indicates input the scanner could not tokenize.
	ErrLexical = errors.New("lexical error")

	// ErrValueTooLarge indicates a value exceeded MaxValueSize.
	ErrValueTooLarge = errors.New("value exceeds maximum size")

	// ErrNotBareword indicates a save-frame pointer value that cannot be written as $name.
	ErrNotBareword = quote.ErrNotBareword
)

// diagnosticErrors maps parser message prefixes to sentinels.
var diagnosticErrors = []struct {
	prefix string
	err    error
}{
	{parser.MsgValueExpected, ErrValueExpected},
	{parser.MsgValueNotExpected, ErrValueNotExpected},
	{parser.MsgLoopNoTags, ErrLoopNoTags},
	{parser.MsgLoopNoValues, ErrLoopNoValues},
	{parser.MsgLoopCount, ErrLoopCount},
	{parser.MsgKeywordInValue, ErrKeywordInValue},
	{parser.MsgNoClosing, ErrUnterminated},
	{parser.MsgInvalidToken, ErrInvalidToken},
	{parser.MsgParserError, ErrLexical},
}

// diagnosticError converts a parser message to an error wrapping its sentinel.
func diagnosticError(msg string) error {
	for _, d := range diagnosticErrors {
		if !strings.HasPrefix(msg, d.prefix) {
			continue
		}
		detail := strings.TrimSpace(strings.TrimPrefix(msg, d.prefix))
		if detail == "" {
			return d.err
		}
		return fmt.Errorf("%w: %s", d.err, detail)
	}
	return errors.New(msg)
}

// WarningHandler is a callback function for logging warnings.
// It receives the line number and the diagnostic message.
type WarningHandler func(line int, message string)

// diagnostics applies ReaderOptions to parser diagnostics.
type diagnostics struct {
	opts ReaderOptions
	err  error // first error that stopped the parse
}

func newDiagnostics(opts ReaderOptions) *diagnostics {
	return &diagnostics{opts: opts}
}

func (d *diagnostics) fail(line, col int, err error) bool {
	if d.err == nil {
		d.err = &ParseError{Line: line, Column: col, Err: err}
	}
	return true
}

func (d *diagnostics) warn(line int, msg string) {
	if d.opts.WarningCallback != nil {
		d.opts.WarningCallback(line, msg)
	}
}

// FatalError always ends the parse with an error, whatever the mode.
func (d *diagnostics) FatalError(line, col int, msg string) {
	d.fail(line, col, diagnosticError(msg))
}

// Error applies OnBadLine.
func (d *diagnostics) Error(line, col int, msg string) bool {
	return d.report(line, col, diagnosticError(msg), msg)
}

func (d *diagnostics) report(line, col int, err error, msg string) bool {
	switch d.opts.OnBadLine {
	case BadLineModeWarn:
		d.warn(line, msg)
		return false
	case BadLineModeSkip:
		return false
	default:
		return d.fail(line, col, err)
	}
}

// Warning reports to the callback unless OnBadLine is skip.
// With StrictWarnings set, warnings are treated as errors.
func (d *diagnostics) Warning(line, col int, msg string) bool {
	if d.opts.StrictWarnings {
		return d.Error(line, col, msg)
	}
	if d.opts.OnBadLine != BadLineModeSkip {
		d.warn(line, msg)
	}
	return false
}

// tooLarge reports a value over MaxValueSize and whether to stop.
func (d *diagnostics) tooLarge(line, size int) bool {
	err := fmt.Errorf("%w: %d > %d bytes", ErrValueTooLarge, size, d.opts.MaxValueSize)
	return d.report(line, 0, err, err.Error())
}

// oversized reports whether value breaks MaxValueSize.
func (d *diagnostics) oversized(value string) bool {
	return d.opts.MaxValueSize > 0 && len(value) > d.opts.MaxValueSize
}
