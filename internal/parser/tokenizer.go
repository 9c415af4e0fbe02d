package parser

import (
	"github.com/cybertec-postgresql/sqlsplit/internal/errors"
	"github.com/cybertec-postgresql/sqlsplit/internal/reader"
)

/*
 * Tokenizer classifies the bytes of a SQL dump into tokens, one token per
 * call to Next. It understands just enough of the dump grammar to keep
 * statement terminators inside strings, comments and identifiers from being
 * mistaken for real ones:
 *
 *   '...' "..."   string, backslash escapes the following byte
 *   /* ... * /    block comment, may span lines
 *   -- ...        inline comment through the end of line
 *   `...`         identifier
 *   0-9           run of digits, reported as String
 *   a-z A-Z       run of letters, reported as Keyword
 *
 * Every other byte becomes a single-byte token. Bytes outside the grammar
 * are Ignore tokens rather than errors.
 */
type Tokenizer struct {
	r *reader.Reader
}

// NewTokenizer returns a Tokenizer reading from r.
func NewTokenizer(r *reader.Reader) *Tokenizer {
	return &Tokenizer{r: r}
}

// Offset returns the number of input bytes consumed so far.
func (t *Tokenizer) Offset() int64 { return t.r.Offset() }

// Next returns the next token. At end of input it returns a token of type
// EOF; it keeps doing so on subsequent calls.
func (t *Tokenizer) Next() (Token, error) {
	tok, err := t.scan()
	if rerr := t.r.Err(); rerr != nil {
		// The source failed; whatever the scanner concluded is unreliable.
		return Token{}, errors.NewReadError(t.r.Offset(), rerr)
	}
	return tok, err
}

func (t *Tokenizer) scan() (Token, error) {
	ch, ok := t.r.Peek()
	if !ok {
		return Token{Type: EOF}, nil
	}

	switch {
	case ch == '\'' || ch == '"':
		return t.quoted(ch)

	case ch == '/':
		if next, _ := t.r.PeekNext(); next == '*' {
			return t.blockComment()
		}
		return t.single(Ignore, ch), nil

	case ch == '-':
		if next, _ := t.r.PeekNext(); next == '-' {
			return t.inlineComment(), nil
		}
		return t.single(Ignore, ch), nil

	case isDigit(ch):
		return Token{Type: String, Bytes: t.run(isDigit)}, nil

	case isAlpha(ch):
		return Token{Type: Keyword, Bytes: t.run(isAlpha)}, nil

	case ch == '`':
		return t.identifier()

	case ch == '.':
		return t.single(Dot, ch), nil
	case ch == '(':
		return t.single(LeftParen, ch), nil
	case ch == ')':
		return t.single(RightParen, ch), nil
	case ch == ';':
		return t.single(SemiColon, ch), nil
	case ch == ',':
		return t.single(Comma, ch), nil
	case ch == ' ':
		return t.single(Space, ch), nil
	case ch == '\r' || ch == '\n' || ch == '\t':
		return t.single(LineFeed, ch), nil

	default:
		return t.single(Ignore, ch), nil
	}
}

// single consumes the byte already classified by Peek.
func (t *Tokenizer) single(tt TokenType, ch byte) Token {
	t.r.Skip()
	return Token{Type: tt, Bytes: []byte{ch}}
}

// run consumes bytes while class accepts them.
func (t *Tokenizer) run(class func(byte) bool) []byte {
	var out []byte
	for {
		ch, ok := t.r.Peek()
		if !ok || !class(ch) {
			return out
		}
		t.r.Skip()
		out = append(out, ch)
	}
}

// quoted reads a string literal opened by quote. A backslash takes the next
// byte literally, so \' does not close a '-quoted string.
func (t *Tokenizer) quoted(quote byte) (Token, error) {
	start := t.r.Offset()
	t.r.Skip()
	out := []byte{quote}
	for {
		ch, ok := t.r.Get()
		if !ok {
			return Token{}, errors.NewSyntaxError(start, errors.ErrUnclosedString)
		}
		out = append(out, ch)
		switch ch {
		case '\\':
			esc, ok := t.r.Get()
			if !ok {
				return Token{}, errors.NewSyntaxError(start, errors.ErrUnclosedString)
			}
			out = append(out, esc)
		case quote:
			return Token{Type: String, Bytes: out}, nil
		}
	}
}

// blockComment reads /* through the first */.
func (t *Tokenizer) blockComment() (Token, error) {
	start := t.r.Offset()
	t.r.Skip()
	t.r.Skip()
	out := []byte("/*")
	for {
		ch, ok := t.r.Get()
		if !ok {
			return Token{}, errors.NewSyntaxError(start, errors.ErrIncompleteComment)
		}
		out = append(out, ch)
		if ch == '*' {
			if next, _ := t.r.Peek(); next == '/' {
				t.r.Skip()
				return Token{Type: Comment, Bytes: append(out, '/')}, nil
			}
		}
	}
}

// inlineComment reads -- through the line feed, or to end of input.
func (t *Tokenizer) inlineComment() Token {
	var out []byte
	for {
		ch, ok := t.r.Get()
		if !ok {
			break
		}
		out = append(out, ch)
		if ch == '\n' {
			break
		}
	}
	return Token{Type: InlineComment, Bytes: out}
}

// identifier reads a backtick-quoted name.
func (t *Tokenizer) identifier() (Token, error) {
	start := t.r.Offset()
	t.r.Skip()
	out := []byte{'`'}
	for {
		ch, ok := t.r.Get()
		if !ok {
			return Token{}, errors.NewSyntaxError(start, errors.ErrUnclosedIdentifier)
		}
		out = append(out, ch)
		if ch == '`' {
			return Token{Type: Identifier, Bytes: out}, nil
		}
	}
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isAlpha(ch byte) bool { return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') }
