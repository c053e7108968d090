package parser

import (
	"persona-hq/animus/pkg/fcl/ast"
	fclerrors "persona-hq/animus/pkg/fcl/errors"
)

// Parser builds an AST from a token source. It pulls tokens on demand
// with a single token of lookahead, which is what makes the lazy mode
// possible: after one top-level expression the parser holds exactly one
// unconsumed token, and the lexer has read nothing beyond it.
type Parser struct {
	lex *Lexer
	tok Token // One-token lookahead
	src string
}

// Parse parses a complete expression and requires the token stream to be
// fully consumed afterward.
func Parse(input string) (ast.Node, error) {
	p, err := newParser(input)
	if err != nil {
		return nil, err
	}

	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.tok.Kind != KindEOF {
		return nil, fclerrors.New(fclerrors.ErrorTypeParse, p.tok.Position,
			"Unexpected token %q after expression", p.tok.Raw).WithSource(input)
	}

	return node, nil
}

// ParseLazy parses one top-level expression and stops, returning the
// expression together with the next unconsumed token. The directive
// parser uses this to locate the colon that terminates a `$if` guard:
// the colon's End offset is where the guarded text resumes.
func ParseLazy(input string) (ast.Node, Token, error) {
	p, err := newParser(input)
	if err != nil {
		return nil, Token{}, err
	}

	node, err := p.parseExpression()
	if err != nil {
		return nil, Token{}, err
	}

	return node, p.tok, nil
}

func newParser(input string) (*Parser, error) {
	p := &Parser{lex: NewLexer(input), src: input}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *Parser) unexpected() error {
	if p.tok.Kind == KindEOF {
		return fclerrors.New(fclerrors.ErrorTypeParse, p.tok.Position,
			"Unexpected end of expression").WithSource(p.src)
	}
	return fclerrors.New(fclerrors.ErrorTypeParse, p.tok.Position,
		"Unexpected token %q", p.tok.Raw).WithSource(p.src)
}

// parseExpression parses at the lowest precedence level: the ternary.
func (p *Parser) parseExpression() (ast.Node, error) {
	return p.parseTernary()
}

// parseTernary parses test ? consequent : alternate. The colon consumed
// here belongs to the ternary; only a colon left unconsumed at the top
// level terminates a guard.
func (p *Parser) parseTernary() (ast.Node, error) {
	test, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if !p.tok.IsOperator("?") {
		return test, nil
	}
	pos := p.tok.Position
	if err := p.advance(); err != nil {
		return nil, err
	}

	consequent, err := p.parseTernary()
	if err != nil {
		return nil, err
	}

	if !p.tok.IsOperator(":") {
		return nil, fclerrors.New(fclerrors.ErrorTypeParse, p.tok.Position,
			"Expected ':' in ternary expression").WithSource(p.src)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	alternate, err := p.parseTernary()
	if err != nil {
		return nil, err
	}

	return &ast.Ternary{Test: test, Consequent: consequent, Alternate: alternate, Position: pos}, nil
}

func (p *Parser) parseOr() (ast.Node, error) {
	return p.parseBinaryLevel([]string{"||"}, p.parseAnd)
}

func (p *Parser) parseAnd() (ast.Node, error) {
	return p.parseBinaryLevel([]string{"&&"}, p.parseEquality)
}

func (p *Parser) parseEquality() (ast.Node, error) {
	return p.parseBinaryLevel([]string{"===", "!==", "==", "!="}, p.parseRelational)
}

func (p *Parser) parseRelational() (ast.Node, error) {
	return p.parseBinaryLevel([]string{"<=", ">=", "<", ">"}, p.parseAdditive)
}

func (p *Parser) parseAdditive() (ast.Node, error) {
	return p.parseBinaryLevel([]string{"+", "-"}, p.parseMultiplicative)
}

func (p *Parser) parseMultiplicative() (ast.Node, error) {
	return p.parseBinaryLevel([]string{"*", "/", "%"}, p.parseUnary)
}

// parseBinaryLevel parses a left-associative run of the given operators
// over the next-higher precedence level.
func (p *Parser) parseBinaryLevel(ops []string, next func() (ast.Node, error)) (ast.Node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.matchOperator(ops)
		if !ok {
			return left, nil
		}
		pos := p.tok.Position
		if err := p.advance(); err != nil {
			return nil, err
		}

		right, err := next()
		if err != nil {
			return nil, err
		}

		left = &ast.Binary{Op: op, Left: left, Right: right, Position: pos}
	}
}

func (p *Parser) matchOperator(ops []string) (string, bool) {
	if p.tok.Kind != KindOperator {
		return "", false
	}
	for _, op := range ops {
		if p.tok.Value == op {
			return op, true
		}
	}
	return "", false
}

func (p *Parser) parseUnary() (ast.Node, error) {
	if p.tok.IsOperator("!") || p.tok.IsOperator("-") {
		op := p.tok.Value
		pos := p.tok.Position
		if err := p.advance(); err != nil {
			return nil, err
		}

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &ast.Unary{Op: op, Operand: operand, Position: pos}, nil
	}

	return p.parsePostfix()
}

// parsePostfix parses chained property accesses and calls after a
// primary expression: a.b().c(d).e nests arbitrarily.
func (p *Parser) parsePostfix() (ast.Node, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.tok.Kind == KindDot:
			pos := p.tok.Position
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.Kind != KindIdentifier {
				return nil, fclerrors.New(fclerrors.ErrorTypeParse, p.tok.Position,
					"Expected property name after '.'").WithSource(p.src)
			}
			node = &ast.Member{Object: node, Property: p.tok.Value, Position: pos}
			if err := p.advance(); err != nil {
				return nil, err
			}

		case p.tok.IsParen("("):
			pos := p.tok.Position
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			node = &ast.Call{Callee: node, Args: args, Position: pos}

		default:
			return node, nil
		}
	}
}

// parseArguments parses a parenthesized, comma-separated argument list.
// The opening paren is the current token on entry.
func (p *Parser) parseArguments() ([]ast.Node, error) {
	if err := p.advance(); err != nil { // Consume "("
		return nil, err
	}

	var args []ast.Node
	if p.tok.IsParen(")") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return args, nil
	}

	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		switch {
		case p.tok.Kind == KindComma:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case p.tok.IsParen(")"):
			if err := p.advance(); err != nil {
				return nil, err
			}
			return args, nil
		default:
			return nil, p.unexpected()
		}
	}
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	tok := p.tok

	switch tok.Kind {
	case KindNumber:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Literal{Kind: ast.LiteralNumber, Number: tok.Number, Position: tok.Position}, nil

	case KindString:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Literal{Kind: ast.LiteralString, Str: tok.Value, Position: tok.Position}, nil

	case KindBoolean:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Literal{Kind: ast.LiteralBoolean, Bool: tok.Bool, Position: tok.Position}, nil

	case KindIdentifier:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Identifier{Name: tok.Value, Position: tok.Position}, nil

	case KindParen:
		if tok.Value == "(" {
			if err := p.advance(); err != nil {
				return nil, err
			}
			node, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if !p.tok.IsParen(")") {
				return nil, fclerrors.New(fclerrors.ErrorTypeParse, p.tok.Position,
					"Expected ')'").WithSource(p.src)
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			return node, nil
		}
	}

	return nil, p.unexpected()
}
