// Package parser implements the callback-driven grammar parser for STAR and CIF.
//
// One state machine serves both grammars; a Grammar value switches on
// saveframe nesting and the terminator rules. Tokens come from a
// TokenSource, events go to a ContentHandler (in either the DataHandler or
// the TagValueHandler shape) and diagnostics go to an ErrorHandler.
//
// Grammar (STAR):
//
//	File      = { Comment } DataBlock ;
//	DataBlock = "data_" { Saveframe } ;
//	Saveframe = "save_<name>" { Tag Value | Loop } "save_" ;
//	Loop      = "loop_" Tag { Tag } Value { Value } "stop_" ;
//
// Grammar (CIF):
//
//	DataBlock = "data_" { Tag Value | Loop } ;
//	Loop      = "loop_" Tag { Tag } Value { Value } [ "stop_" ] ;
package parser

import (
	"strings"

	"github.com/shapestone/shape-star/internal/quote"
	"github.com/shapestone/shape-star/internal/tokenizer"
)

// TokenSource supplies tokens. Running out of input must yield a
// tokenizer.TokenEOF token.
type TokenSource interface {
	Next() tokenizer.Token
}

type state int

const (
	atFileLevel state = iota
	inDataBlock
	inSaveframe
	inLoopTags
	inLoopValues
)

// where is the location phrase used in diagnostics.
func (s state) where() string {
	switch s {
	case atFileLevel:
		return "at file level"
	case inDataBlock:
		return "in data block"
	case inSaveframe:
		return "in saveframe"
	default:
		return "in loop"
	}
}

// Stats summarizes one Parse call.
type Stats struct {
	Errors     int
	Warnings   int
	Fatal      bool
	Stopped    bool // a callback asked to stop
	Saveframes int
	Loops      int
}

// Parser turns tokens into handler events.
//
// The parser borrows its scanner and handlers for the duration of Parse
// and keeps no reference to tokens or callback results between steps.
// It is not safe for concurrent use; it can be reused after Parse returns.
type Parser struct {
	grammar  Grammar
	scanner  TokenSource
	content  ContentHandler
	data     DataHandler
	tagValue TagValueHandler
	errs     ErrorHandler

	// per-parse state
	state     state
	tok       tokenizer.Token
	blockName string
	saveName  string
	pending   *tagRef
	loop      loopContext
	stats     Stats
}

// NewParser creates a parser for grammar.
// content should implement DataHandler or TagValueHandler; a plain
// ContentHandler only sees structural events.
func NewParser(grammar Grammar, scanner TokenSource, content ContentHandler, errs ErrorHandler) *Parser {
	p := &Parser{grammar: grammar, scanner: scanner, errs: errs}
	p.SetContentHandler(content)
	return p
}

// SetScanner replaces the token source.
func (p *Parser) SetScanner(scanner TokenSource) {
	p.scanner = scanner
}

// SetErrorHandler replaces the error handler.
func (p *Parser) SetErrorHandler(errs ErrorHandler) {
	p.errs = errs
}

// SetContentHandler replaces the content handler.
func (p *Parser) SetContentHandler(content ContentHandler) {
	p.content = content
	p.data, _ = content.(DataHandler)
	p.tagValue, _ = content.(TagValueHandler)
}

// Grammar returns the grammar the parser enforces.
func (p *Parser) Grammar() Grammar {
	return p.grammar
}

// Parse consumes tokens until end of input, a fatal error, or a callback
// returning true.
func (p *Parser) Parse() Stats {
	p.reset()
	if p.scanner == nil || p.content == nil || p.errs == nil {
		return p.stats
	}

	for {
		p.tok = p.scanner.Next()
		if p.tok.Kind == tokenizer.TokenEOF {
			p.finish()
			return p.stats
		}
		if p.step() {
			return p.stats
		}
	}
}

func (p *Parser) reset() {
	p.state = atFileLevel
	p.tok = tokenizer.Token{}
	p.blockName = ""
	p.saveName = ""
	p.pending = nil
	p.loop = loopContext{}
	p.stats = Stats{}
}

// step handles the current token and reports whether to stop.
func (p *Parser) step() bool {
	tok := p.tok
	switch tok.Kind {
	case tokenizer.TokenError:
		p.stats.Fatal = true
		p.errs.FatalError(tok.Line, 0, MsgParserError+p.state.where()+": "+tok.Text)
		return true

	case tokenizer.TokenComment:
		return p.stop(p.content.Comment(tok.Line, tok.Text))

	case tokenizer.TokenDataStart:
		if p.state != atFileLevel {
			return p.invalid()
		}
		p.blockName = tok.Text
		p.state = inDataBlock
		return p.stop(p.content.StartData(tok.Line, tok.Text))

	case tokenizer.TokenSaveStart:
		if !p.grammar.Saveframes || p.state != inDataBlock {
			return p.invalid()
		}
		p.saveName = tok.Text
		p.state = inSaveframe
		p.stats.Saveframes++
		return p.stop(p.content.StartSaveframe(tok.Line, tok.Text))

	case tokenizer.TokenSaveEnd:
		if !p.grammar.Saveframes || p.state != inSaveframe {
			return p.invalid()
		}
		if p.pending != nil && p.error(MsgValueExpected) {
			return true
		}
		p.pending = nil
		p.state = inDataBlock
		name := p.saveName
		p.saveName = ""
		return p.stop(p.content.EndSaveframe(tok.Line, name))

	case tokenizer.TokenLoopStart:
		switch {
		case p.state == p.grammar.body():
			if p.pending != nil && p.error(MsgValueExpected) {
				return true
			}
			p.pending = nil
		case p.state == inLoopValues && p.grammar.SynthesizeTerminators:
			if p.endLoop() {
				return true
			}
		default:
			return p.invalid()
		}
		p.loop = loopContext{}
		p.state = inLoopTags
		p.stats.Loops++
		return p.stop(p.content.StartLoop(tok.Line))

	case tokenizer.TokenStop:
		if p.state != inLoopTags && p.state != inLoopValues {
			return p.invalid()
		}
		return p.endLoop()

	case tokenizer.TokenTagName:
		return p.tag()

	default:
		if tokenizer.IsValue(tok.Kind) {
			return p.value()
		}
		return p.invalid()
	}
}

// tag handles a tag name token.
func (p *Parser) tag() bool {
	tok := p.tok
	switch p.state {
	case inLoopTags:
		p.loop.tags = append(p.loop.tags, tagRef{name: tok.Text, line: tok.Line})
		return p.emitTag()

	case inLoopValues:
		if !p.grammar.SynthesizeTerminators {
			return p.invalid()
		}
		// free tag after loop values: close the loop first
		if p.endLoop() {
			return true
		}
		return p.tag()

	case p.grammar.body():
		if p.pending != nil && p.error(MsgValueExpected) {
			return true
		}
		p.pending = &tagRef{name: tok.Text, line: tok.Line}
		return p.emitTag()

	default:
		return p.invalid()
	}
}

// value handles a value token.
func (p *Parser) value() bool {
	tok := p.tok
	var (
		ref    tagRef
		inLoop bool
		assign = true
	)

	switch p.state {
	case inLoopTags, inLoopValues:
		if len(p.loop.tags) == 0 && !p.loop.noTagsShown {
			p.loop.noTagsShown = true
			if p.error(MsgLoopNoTags) {
				return true
			}
		}
		p.state = inLoopValues
		ref, assign = p.loop.add(tok.Line)
		inLoop = true

	case p.grammar.body():
		if p.pending == nil {
			if p.error(MsgValueNotExpected) {
				return true
			}
			assign = false
		} else {
			ref = *p.pending
		}
		p.pending = nil

	default:
		return p.invalid()
	}

	if kw := keywordInValue(tok.Text); kw != "" {
		if p.warning(tok.Line, MsgKeywordInValue+kw) {
			return true
		}
	}
	if !assign {
		return false
	}

	text := tok.Text
	if tok.Kind == tokenizer.TokenValueSemicolon {
		text = strings.TrimPrefix(text, "\n")
	}
	style := styleOf(tok.Kind)

	switch {
	case p.data != nil:
		return p.stop(p.data.Data(ref.line, ref.name, tok.Line, text, style, inLoop))
	case p.tagValue != nil:
		return p.stop(p.tagValue.Value(tok.Line, text, style))
	}
	return false
}

func (p *Parser) emitTag() bool {
	if p.tagValue == nil || p.data != nil {
		return false
	}
	return p.stop(p.tagValue.Tag(p.tok.Line, p.tok.Text))
}

// endLoop validates the loop that just ended, explicitly or not, and
// returns to the loop's enclosing state.
func (p *Parser) endLoop() bool {
	line := p.tok.Line
	p.state = p.grammar.body()

	if len(p.loop.tags) == 0 && !p.loop.noTagsShown {
		p.loop.noTagsShown = true
		if p.error(MsgLoopNoTags) {
			return true
		}
	}
	if p.loop.values == 0 {
		if p.error(MsgLoopNoValues) {
			return true
		}
	} else if !p.loop.complete() {
		if p.warning(p.loop.rowLine, MsgLoopCount) {
			return true
		}
	}
	p.loop = loopContext{}
	return p.stop(p.content.EndLoop(line))
}

// finish handles end of input.
func (p *Parser) finish() {
	switch p.state {
	case atFileLevel:
		return
	case inSaveframe:
		p.error(MsgNoClosingSave)
		return
	case inLoopTags, inLoopValues:
		if p.grammar.TerminatorsRequired {
			p.error(MsgNoClosingStop)
			return
		}
		if p.endLoop() {
			return
		}
	}
	if p.pending != nil && p.error(MsgValueExpected) {
		return
	}
	p.content.EndData(p.tok.Line, p.blockName)
}

// invalid reports a token the current state has no place for.
func (p *Parser) invalid() bool {
	return p.error(MsgInvalidToken + p.state.where() + ": " + describe(p.tok))
}

func (p *Parser) error(msg string) bool {
	p.stats.Errors++
	return p.stop(p.errs.Error(p.tok.Line, 0, msg))
}

func (p *Parser) warning(line int, msg string) bool {
	p.stats.Warnings++
	return p.stop(p.errs.Warning(line, 0, msg))
}

func (p *Parser) stop(stop bool) bool {
	if stop {
		p.stats.Stopped = true
	}
	return stop
}

// describe renders a token for an "Invalid token" message.
func describe(tok tokenizer.Token) string {
	switch tok.Kind {
	case tokenizer.TokenLoopStart:
		return "start of loop"
	case tokenizer.TokenStop:
		return "end of loop"
	case tokenizer.TokenDataStart:
		return "data_" + tok.Text
	case tokenizer.TokenSaveStart:
		return "save_" + tok.Text
	case tokenizer.TokenSaveEnd:
		return "save_"
	default:
		return tok.Text
	}
}

func styleOf(kind string) quote.Style {
	switch kind {
	case tokenizer.TokenValueSingle:
		return quote.Single
	case tokenizer.TokenValueDouble:
		return quote.Double
	case tokenizer.TokenValueSemicolon:
		return quote.Semicolon
	case tokenizer.TokenValueFramecode:
		return quote.Framecode
	default:
		return quote.None
	}
}
