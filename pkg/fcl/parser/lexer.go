package parser

import (
	"strconv"
	"strings"

	fclerrors "persona-hq/animus/pkg/fcl/errors"
)

// Lexer is the lazy, resumable tokenizer. It scans one token per call to
// Next and never reads past the token it returns, so the text following
// a guard-terminating colon is never tokenized.
type Lexer struct {
	input string
	pos   int // Byte offset of the next unread character
}

// NewLexer creates a lazy tokenizer over the input string.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Offset returns the byte offset of the next unread character.
func (l *Lexer) Offset() int {
	return l.pos
}

// Tokenize is the eager form: it produces the full token list up front,
// terminated by an eof token.
func Tokenize(input string) ([]Token, error) {
	lex := NewLexer(input)
	var tokens []Token
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == KindEOF {
			return tokens, nil
		}
	}
}

// Next returns the next token from the input. Once the end of the input
// is reached, Next returns an eof token for all subsequent calls.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Kind: KindEOF, Position: l.pos}, nil
	}

	ch := l.input[l.pos]

	switch {
	case ch >= '0' && ch <= '9':
		return l.scanNumber()
	case ch == '.' && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1]):
		// A bare leading dot starts a number only when a digit follows.
		return l.scanNumber()
	case ch == '"' || ch == '\'':
		return l.scanString(ch)
	case isIdentStart(ch):
		return l.scanIdentifier()
	case ch == '(' || ch == ')':
		l.pos++
		return Token{Kind: KindParen, Value: string(ch), Raw: string(ch), Position: l.pos - 1}, nil
	case ch == '.':
		l.pos++
		return Token{Kind: KindDot, Value: ".", Raw: ".", Position: l.pos - 1}, nil
	case ch == ',':
		l.pos++
		return Token{Kind: KindComma, Value: ",", Raw: ",", Position: l.pos - 1}, nil
	}

	// Operators, longest prefix first over the fixed ordered list.
	for _, op := range operators {
		if strings.HasPrefix(l.input[l.pos:], op) {
			tok := Token{Kind: KindOperator, Value: op, Raw: op, Position: l.pos}
			l.pos += len(op)
			return tok, nil
		}
	}

	return Token{}, fclerrors.New(fclerrors.ErrorTypeLexical, l.pos,
		"Unexpected character %q", string(rune(ch))).WithSource(l.input)
}

// scanNumber reads a digit sequence with at most one decimal point,
// optionally starting with a bare dot. A second dot terminates the
// number rather than extending it.
func (l *Lexer) scanNumber() (Token, error) {
	start := l.pos
	seenDot := false

	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if isDigit(ch) {
			l.pos++
			continue
		}
		if ch == '.' && !seenDot {
			seenDot = true
			l.pos++
			continue
		}
		break
	}

	raw := l.input[start:l.pos]
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// A lone "." reaches here; digits-only input never fails.
		return Token{}, fclerrors.New(fclerrors.ErrorTypeLexical, start,
			"Invalid number %q", raw).WithSource(l.input)
	}

	return Token{Kind: KindNumber, Value: raw, Number: value, Raw: raw, Position: start}, nil
}

// scanString reads a single- or double-quoted string. A backslash
// escapes the immediately following character verbatim: there is no
// special-escape table, so `\n` decodes to the letter n.
func (l *Lexer) scanString(quote byte) (Token, error) {
	start := l.pos
	l.pos++ // Opening quote

	var value strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch ch {
		case quote:
			l.pos++
			return Token{
				Kind:     KindString,
				Value:    value.String(),
				Raw:      l.input[start:l.pos],
				Position: start,
			}, nil
		case '\\':
			if l.pos+1 >= len(l.input) {
				return Token{}, fclerrors.New(fclerrors.ErrorTypeLexical, start,
					"Unterminated string").WithSource(l.input)
			}
			value.WriteByte(l.input[l.pos+1])
			l.pos += 2
		default:
			value.WriteByte(ch)
			l.pos++
		}
	}

	return Token{}, fclerrors.New(fclerrors.ErrorTypeLexical, start,
		"Unterminated string").WithSource(l.input)
}

// scanIdentifier reads an identifier. The exact spellings true and false
// tokenize as booleans instead.
func (l *Lexer) scanIdentifier() (Token, error) {
	start := l.pos
	l.pos++
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.pos++
	}

	raw := l.input[start:l.pos]
	switch raw {
	case "true":
		return Token{Kind: KindBoolean, Value: raw, Bool: true, Raw: raw, Position: start}, nil
	case "false":
		return Token{Kind: KindBoolean, Value: raw, Bool: false, Raw: raw, Position: start}, nil
	}

	return Token{Kind: KindIdentifier, Value: raw, Raw: raw, Position: start}, nil
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.pos++
		default:
			return
		}
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
