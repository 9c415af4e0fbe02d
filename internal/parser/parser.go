package parser

import (
	"fmt"
	"io"

	"github.com/cybertec-postgresql/sqlsplit/internal/errors"
	"github.com/cybertec-postgresql/sqlsplit/internal/reader"
)

// Parser groups tokens into statement units.
//
// A dump is accepted only as a sequence of comments, whitespace, INSERT
// statements, continuation value tuples and ;-terminated blocks. A unit
// starts at its first token and ends at the first top-level , or ; for
// INSERT and tuple units, or at the first top-level ; for blocks.
type Parser struct {
	tok *Tokenizer
}

// NewParser returns a Parser reading tokens from tok.
func NewParser(tok *Tokenizer) *Parser {
	return &Parser{tok: tok}
}

// NewParserFromReader builds the full reader, tokenizer and parser chain over src.
func NewParserFromReader(src io.Reader) *Parser {
	return NewParser(NewTokenizer(reader.NewReader(src)))
}

// Next returns the next statement unit. At end of input it returns a unit
// of type End.
func (p *Parser) Next() (Unit, error) {
	tok, err := p.tok.Next()
	if err != nil {
		return Unit{}, err
	}

	switch tok.Type {
	case EOF:
		return Unit{Type: End}, nil

	case Comment, InlineComment:
		return Unit{Type: CommentUnit, Bytes: tok.Bytes}, nil

	case Space, LineFeed, SemiColon:
		return Unit{Type: Whitespace, Bytes: tok.Bytes}, nil

	case Keyword:
		if tok.IsKeyword("insert") {
			return p.insert(tok)
		}
		return p.block(tok)

	case LeftParen:
		return p.valuesTuple(tok)

	case RightParen, Dot, String, Identifier, Comma, Ignore:
		return Unit{}, p.fail(errors.ErrInvalidSQL)

	default:
		return Unit{}, fmt.Errorf("unhandled token type %v", tok.Type)
	}
}

// insert collects INSERT ... VALUES and the first tuple through its terminator.
func (p *Parser) insert(first Token) (Unit, error) {
	out := append([]byte(nil), first.Bytes...)
	for {
		tok, err := p.tok.Next()
		if err != nil {
			return Unit{}, err
		}
		if tok.Type == EOF {
			return Unit{}, p.fail(errors.ErrIncompleteInsert)
		}
		out = append(out, tok.Bytes...)
		if tok.IsKeyword("values") {
			break
		}
		if tok.Type == SemiColon {
			// INSERT ... SELECT has no tuples to replay.
			return Unit{Type: Block, Bytes: out}, nil
		}
	}

	prefix := make([]byte, len(out), len(out)+1)
	copy(prefix, out)
	prefix = append(prefix, ' ')

	out, err := p.values(out)
	if err != nil {
		return Unit{}, err
	}
	return Unit{Type: Insert, Bytes: out, Prefix: prefix}, nil
}

// values appends tokens through the first top-level , or ;. Every ( opens
// a group closed by the next ), groups do not nest in this grammar.
func (p *Parser) values(out []byte) ([]byte, error) {
	for {
		tok, err := p.tok.Next()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case EOF:
			return nil, p.fail(errors.ErrIncompleteInsert)
		case LeftParen:
			out = append(out, tok.Bytes...)
			if out, err = p.readThrough(out, RightParen, errors.ErrIncompleteInsert); err != nil {
				return nil, err
			}
		case Comma, SemiColon:
			return append(out, tok.Bytes...), nil
		default:
			out = append(out, tok.Bytes...)
		}
	}
}

// valuesTuple collects a continuation tuple: the group opened by first,
// then everything through the next top-level , or ;.
func (p *Parser) valuesTuple(first Token) (Unit, error) {
	out := append([]byte(nil), first.Bytes...)
	out, err := p.readThrough(out, RightParen, errors.ErrIncompleteValues)
	if err != nil {
		return Unit{}, err
	}
	for {
		tok, err := p.tok.Next()
		if err != nil {
			return Unit{}, err
		}
		switch tok.Type {
		case EOF:
			return Unit{}, p.fail(errors.ErrIncompleteValues)
		case Comma, SemiColon:
			return Unit{Type: ValuesTuple, Bytes: append(out, tok.Bytes...)}, nil
		default:
			out = append(out, tok.Bytes...)
		}
	}
}

// block collects a generic statement through its terminating ;.
func (p *Parser) block(first Token) (Unit, error) {
	out := append([]byte(nil), first.Bytes...)
	out, err := p.readThrough(out, SemiColon, errors.ErrUnexpectedEOF)
	if err != nil {
		return Unit{}, err
	}
	return Unit{Type: Block, Bytes: out}, nil
}

// readThrough appends tokens up to and including the first token of type
// stop. Reaching end of input first fails with eofErr.
func (p *Parser) readThrough(out []byte, stop TokenType, eofErr error) ([]byte, error) {
	for {
		tok, err := p.tok.Next()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			return nil, p.fail(eofErr)
		}
		out = append(out, tok.Bytes...)
		if tok.Type == stop {
			return out, nil
		}
	}
}

func (p *Parser) fail(err error) error {
	return errors.NewSyntaxError(p.tok.Offset(), err)
}
