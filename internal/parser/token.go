package parser

import "bytes"

// TokenType is the lexical category of a token.
type TokenType int

const (
	EOF           TokenType = iota // End of input; carries no bytes
	String                         // Quoted literal or run of digits
	Keyword                        // Run of ASCII letters
	Identifier                     // Backtick-quoted name
	Comment                        // /* ... */
	InlineComment                  // -- ... through end of line
	LeftParen                      // (
	RightParen                     // )
	Comma                          // ,
	SemiColon                      // ;
	Dot                            // .
	Space                          // ' '
	LineFeed                       // \r, \n or \t
	Ignore                         // Any other single byte, passed through verbatim
)

// String returns a string representation of TokenType
func (tt TokenType) String() string {
	switch tt {
	case EOF:
		return "EOF"
	case String:
		return "String"
	case Keyword:
		return "Keyword"
	case Identifier:
		return "Identifier"
	case Comment:
		return "Comment"
	case InlineComment:
		return "InlineComment"
	case LeftParen:
		return "LeftParen"
	case RightParen:
		return "RightParen"
	case Comma:
		return "Comma"
	case SemiColon:
		return "SemiColon"
	case Dot:
		return "Dot"
	case Space:
		return "Space"
	case LineFeed:
		return "LineFeed"
	case Ignore:
		return "Ignore"
	default:
		return "unknown"
	}
}

// Token is a single lexical token. Bytes holds the exact source bytes, so
// concatenating every token of an input reproduces the input.
type Token struct {
	Type  TokenType
	Bytes []byte
}

// IsKeyword reports whether t is a Keyword token spelling word, ignoring case.
func (t Token) IsKeyword(word string) bool {
	return t.Type == Keyword && bytes.EqualFold(t.Bytes, []byte(word))
}

// Is reports whether t has type tt.
func (t Token) Is(tt TokenType) bool { return t.Type == tt }
