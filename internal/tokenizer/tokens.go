// Package tokenizer provides STAR/CIF tokenization using Shape's tokenizer framework.
package tokenizer

// Token type constants for the STAR and CIF formats.
// These correspond to the terminals shared by both grammars.
//
// Note: Keywords carry only their name in Token.Text (data_ and save_ names,
// empty for loop_, stop_ and the closing save_). Values keep their delimiters
// stripped; the parser decides what to do with the semicolon block's leading newline.
const (
	// Structural tokens
	TokenDataStart = "DataStart" // data_<name>
	TokenSaveStart = "SaveStart" // save_<name>
	TokenSaveEnd   = "SaveEnd"   // save_
	TokenLoopStart = "LoopStart" // loop_
	TokenStop      = "Stop"      // stop_
	TokenTagName   = "TagName"   // _<category>.<item>

	// Value tokens
	TokenValueBare      = "ValueBare"      // bareword
	TokenValueSingle    = "ValueSingle"    // 'single quoted'
	TokenValueDouble    = "ValueDouble"    // "double quoted"
	TokenValueSemicolon = "ValueSemicolon" // \n;...\n;
	TokenValueFramecode = "ValueFramecode" // $framecode

	// Special tokens
	TokenComment = "Comment" // # ... to end of line
	TokenError   = "Error"   // lexical error
	TokenEOF     = "EOF"     // End of file

	// Layout tokens, consumed by the Scanner and never returned
	TokenWhitespace = "Whitespace"
	TokenNewline    = "Newline"
)

// Token is a single lexical token with the line it started on.
type Token struct {
	Kind string
	Text string
	Line int
}

// IsValue reports whether kind is one of the value token kinds.
func IsValue(kind string) bool {
	switch kind {
	case TokenValueBare, TokenValueSingle, TokenValueDouble,
		TokenValueSemicolon, TokenValueFramecode:
		return true
	}
	return false
}
