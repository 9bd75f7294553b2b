package parser

import "github.com/shapestone/shape-star/internal/quote"

// ErrorHandler receives diagnostics.
//
// Error and Warning return a stop flag: true makes the parser return
// immediately. FatalError always ends the parse.
type ErrorHandler interface {
	FatalError(line, col int, msg string)
	Error(line, col int, msg string) bool
	Warning(line, col int, msg string) bool
}

// ContentHandler receives structural events.
// Every method except EndData returns a stop flag.
type ContentHandler interface {
	Comment(line int, text string) bool
	StartData(line int, id string) bool
	EndData(line int, id string)
	StartSaveframe(line int, name string) bool
	EndSaveframe(line int, name string) bool
	StartLoop(line int) bool
	EndLoop(line int) bool
}

// DataHandler receives each tag and its value in one call.
// For loop values the tag is the loop column the value falls into.
type DataHandler interface {
	ContentHandler
	Data(tagLine int, tag string, valLine int, value string, style quote.Style, inLoop bool) bool
}

// TagValueHandler receives tags and values as separate events and does
// its own pairing.
type TagValueHandler interface {
	ContentHandler
	Tag(line int, name string) bool
	Value(line int, text string, style quote.Style) bool
}

// NopContentHandler implements every ContentHandler method as "don't stop".
// Embed it and override the events you care about.
type NopContentHandler struct{}

func (NopContentHandler) Comment(int, string) bool { return false }
func (NopContentHandler) StartData(int, string) bool { return false }
func (NopContentHandler) EndData(int, string) {}
func (NopContentHandler) StartSaveframe(int, string) bool { return false }
func (NopContentHandler) EndSaveframe(int, string) bool { return false }
func (NopContentHandler) StartLoop(int) bool { return false }
func (NopContentHandler) EndLoop(int) bool { return false }

// ErrorFuncs adapts plain functions to ErrorHandler.
// A nil Error or Warning never stops; a nil Fatal is ignored.
type ErrorFuncs struct {
	Fatal func(line, col int, msg string)
	Err   func(line, col int, msg string) bool
	Warn  func(line, col int, msg string) bool
}

func (f ErrorFuncs) FatalError(line, col int, msg string) {
	if f.Fatal != nil {
		f.Fatal(line, col, msg)
	}
}

func (f ErrorFuncs) Error(line, col int, msg string) bool {
	if f.Err == nil {
		return false
	}
	return f.Err(line, col, msg)
}

func (f ErrorFuncs) Warning(line, col int, msg string) bool {
	if f.Warn == nil {
		return false
	}
	return f.Warn(line, col, msg)
}
