package parser

import "strings"

// Diagnostic messages. Callers match on these through the sentinel
// errors in pkg/star, so keep them stable.
const (
	MsgValueExpected    = "Value expected"
	MsgValueNotExpected = "Value not expected"
	MsgLoopNoTags       = "Loop with no tags"
	MsgLoopNoValues     = "Loop with no values"
	MsgLoopCount        = "Loop count error"
	MsgKeywordInValue   = "Keyword in value: "
	MsgNoClosing        = "No closing "
	MsgNoClosingSave    = MsgNoClosing + `"save_"`
	MsgNoClosingStop    = MsgNoClosing + `"stop_"`
	MsgInvalidToken     = "Invalid token "
	MsgParserError      = "Parser error "
)

// reservedKeywords are checked in this order; the first hit is reported.
var reservedKeywords = []string{"data_", "save_", "loop_", "stop_"}

// keywordInValue returns the first reserved keyword found anywhere in
// text, ignoring case, or "" if there is none. A keyword inside a value
// usually means a delimited value was left open and swallowed the
// structure that followed it.
func keywordInValue(text string) string {
	lower := strings.ToLower(text)
	for _, kw := range reservedKeywords {
		if strings.Contains(lower, kw) {
			return kw
		}
	}
	return ""
}

type tagRef struct {
	name string
	line int
}

// loopContext tracks one loop from loop_ to its end.
type loopContext struct {
	tags        []tagRef
	values      int
	rowLine     int // line of the first value of the current row
	noTagsShown bool
}

// add counts a value read on line and returns the tag it belongs to.
// ok is false when the loop has no tags to assign it to.
func (l *loopContext) add(line int) (tag tagRef, ok bool) {
	if len(l.tags) == 0 {
		l.values++
		return tagRef{}, false
	}
	col := l.values % len(l.tags)
	if col == 0 {
		l.rowLine = line
	}
	l.values++
	return l.tags[col], true
}

// complete reports whether the values fill a whole number of rows.
func (l *loopContext) complete() bool {
	return len(l.tags) == 0 || l.values%len(l.tags) == 0
}
