package tokenizer

import (
	"strings"

	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// lexState is shared by the matchers of one Scanner.
// Shape's tokenizer tries matchers in order and every matcher here
// either consumes input and returns a token or returns nil untouched,
// so the state only changes for the matcher that wins.
type lexState struct {
	line      int  // current line, 1-indexed
	lineStart bool // next character is in column 1
	tokenLine int  // line the last matched token started on
	errMsg    string
}

// Scanner produces STAR/CIF tokens on demand.
// It drops whitespace and newlines, so Next only ever returns
// tokens the grammar parser cares about.
type Scanner struct {
	tokenizer tokenizer.Tokenizer
	state     *lexState
	last      Token
}

// NewScanner creates a scanner for the given input string.
func NewScanner(input string) *Scanner {
	return NewScannerFromStream(tokenizer.NewStream(input))
}

// NewScannerFromStream creates a scanner using a pre-configured stream.
// This is used to support streaming from io.Reader via tokenizer.NewStreamFromReader.
func NewScannerFromStream(stream tokenizer.Stream) *Scanner {
	state := &lexState{line: 1, lineStart: true}
	tok := newTokenizer(state)
	tok.InitializeFromStream(stream)
	return &Scanner{tokenizer: tok, state: state}
}

// newTokenizer creates the underlying Shape tokenizer.
// Matchers are ordered by specificity:
// 1. Newlines (CRLF before LF)
// 2. Inline whitespace
// 3. Comments
// 4. Semicolon blocks (only in column 1)
// 5. Quoted values
// 6. Words: keywords, tags, framecodes and barewords
func newTokenizer(state *lexState) tokenizer.Tokenizer {
	return tokenizer.NewTokenizerWithoutWhitespace(
		newlineMatcher(state),
		whitespaceMatcher(state),
		commentMatcher(state),
		semicolonMatcher(state),
		quotedMatcher(state, '\'', TokenValueSingle),
		quotedMatcher(state, '"', TokenValueDouble),
		wordMatcher(state),
	)
}

// Next returns the next significant token.
// Running out of input yields a TokenEOF token, never an error.
func (s *Scanner) Next() Token {
	for {
		t, ok := s.tokenizer.NextToken()
		if !ok || t == nil {
			s.last = Token{Kind: TokenEOF, Line: s.state.line}
			return s.last
		}

		kind := t.Kind()
		if kind == TokenWhitespace || kind == TokenNewline {
			continue
		}

		s.last = Token{
			Kind: kind,
			Text: tokenText(kind, t.ValueString(), s.state),
			Line: s.state.tokenLine,
		}
		return s.last
	}
}

// Line returns the line of the most recently produced token.
func (s *Scanner) Line() int {
	return s.last.Line
}

// Text returns the text of the most recently produced token.
func (s *Scanner) Text() string {
	return s.last.Text
}

// tokenText strips keyword prefixes and value delimiters from the raw match.
// Raw matches always keep them so that no matcher returns an empty token.
func tokenText(kind, raw string, state *lexState) string {
	switch kind {
	case TokenDataStart, TokenSaveStart:
		return raw[len("data_"):]
	case TokenSaveEnd, TokenLoopStart, TokenStop:
		return ""
	case TokenValueSingle, TokenValueDouble:
		return raw[1 : len(raw)-1]
	case TokenValueSemicolon:
		body := raw[1 : len(raw)-len("\n;")]
		body = strings.TrimSuffix(body, "\r")
		return strings.ReplaceAll(body, "\r\n", "\n")
	case TokenError:
		return state.errMsg
	default:
		return raw
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
}

// newlineMatcher matches \n or \r\n.
func newlineMatcher(state *lexState) tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		r, ok := stream.PeekChar()
		if !ok || (r != '\n' && r != '\r') {
			return nil
		}
		stream.NextChar()
		value := []rune{r}
		if r == '\r' {
			if next, ok := stream.PeekChar(); ok && next == '\n' {
				stream.NextChar()
				value = append(value, next)
			}
		}
		state.tokenLine = state.line
		state.line++
		state.lineStart = true
		return tokenizer.NewToken(TokenNewline, value)
	}
}

// whitespaceMatcher matches a run of blanks that does not include a line break.
func whitespaceMatcher(state *lexState) tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		var value []rune
		for {
			r, ok := stream.PeekChar()
			if !ok || !isSpace(r) || r == '\n' || r == '\r' {
				break
			}
			stream.NextChar()
			value = append(value, r)
		}
		if len(value) == 0 {
			return nil
		}
		state.tokenLine = state.line
		state.lineStart = false
		return tokenizer.NewToken(TokenWhitespace, value)
	}
}

// commentMatcher matches # to end of line. The newline is left for newlineMatcher.
func commentMatcher(state *lexState) tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		r, ok := stream.PeekChar()
		if !ok || r != '#' {
			return nil
		}
		var value []rune
		for {
			r, ok := stream.PeekChar()
			if !ok || r == '\n' || r == '\r' {
				break
			}
			stream.NextChar()
			value = append(value, r)
		}
		state.tokenLine = state.line
		state.lineStart = false
		return tokenizer.NewToken(TokenComment, value)
	}
}

// semicolonMatcher matches a semicolon-delimited block.
//
// Grammar:
//
//	SemicolonValue = ";" { Char } Newline ";" ;
//
// Both semicolons must be in column 1. The raw token is everything the
// matcher consumed, closing delimiter included; tokenText strips the
// delimiters and folds CRLF to LF.
func semicolonMatcher(state *lexState) tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		if !state.lineStart {
			return nil
		}
		r, ok := stream.PeekChar()
		if !ok || r != ';' {
			return nil
		}
		stream.NextChar()
		state.tokenLine = state.line
		state.lineStart = false

		value := []rune{';'}
		for {
			r, ok := stream.PeekChar()
			if !ok {
				state.errMsg = "unterminated semicolon-delimited value"
				return tokenizer.NewToken(TokenError, value)
			}
			stream.NextChar()
			value = append(value, r)
			if r != '\n' {
				continue
			}

			state.line++
			if next, ok := stream.PeekChar(); ok && next == ';' {
				stream.NextChar()
				value = append(value, next)
				return tokenizer.NewToken(TokenValueSemicolon, value)
			}
		}
	}
}

// quotedMatcher matches a single- or double-quoted value.
//
// Grammar:
//
//	QuotedValue = q { Char } q ( Whitespace | EOF ) ;
//
// A quote followed by anything other than whitespace is part of the value.
// Quoted values cannot span lines.
func quotedMatcher(state *lexState, q rune, kind string) tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		r, ok := stream.PeekChar()
		if !ok || r != q {
			return nil
		}
		stream.NextChar()
		state.tokenLine = state.line
		state.lineStart = false

		value := []rune{q}
		for {
			r, ok := stream.PeekChar()
			if !ok || r == '\n' || r == '\r' {
				state.errMsg = "unterminated quoted value " + string(value)
				return tokenizer.NewToken(TokenError, value)
			}
			stream.NextChar()
			value = append(value, r)
			if r != q {
				continue
			}
			if next, ok := stream.PeekChar(); !ok || isSpace(next) {
				return tokenizer.NewToken(kind, value)
			}
		}
	}
}

// wordMatcher matches a run of non-whitespace characters and classifies it.
// Keywords are case-insensitive.
func wordMatcher(state *lexState) tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		var value []rune
		for {
			r, ok := stream.PeekChar()
			if !ok || isSpace(r) {
				break
			}
			stream.NextChar()
			value = append(value, r)
		}
		if len(value) == 0 {
			return nil
		}
		state.tokenLine = state.line
		state.lineStart = false
		return tokenizer.NewToken(classifyWord(string(value)), value)
	}
}

// classifyWord returns the token kind for a whitespace-delimited word.
func classifyWord(word string) string {
	lower := strings.ToLower(word)
	switch {
	case strings.HasPrefix(lower, "data_"):
		return TokenDataStart
	case lower == "save_":
		return TokenSaveEnd
	case strings.HasPrefix(lower, "save_"):
		return TokenSaveStart
	case lower == "loop_":
		return TokenLoopStart
	case lower == "stop_":
		return TokenStop
	case word[0] == '_':
		return TokenTagName
	case word[0] == '$':
		return TokenValueFramecode
	default:
		return TokenValueBare
	}
}
