package parser

// Kind identifies the lexical category of a token.
type Kind string

const (
	KindNumber     Kind = "number"
	KindString     Kind = "string"
	KindBoolean    Kind = "boolean"
	KindIdentifier Kind = "identifier"
	KindOperator   Kind = "operator"
	KindParen      Kind = "paren"
	KindDot        Kind = "dot"
	KindComma      Kind = "comma"
	KindEOF        Kind = "eof"
)

// Token is a single lexical unit of an FCL expression.
type Token struct {
	Kind     Kind
	Value    string  // Decoded value: unescaped string content, identifier name, operator text
	Number   float64 // Set when Kind == KindNumber
	Bool     bool    // Set when Kind == KindBoolean
	Raw      string  // Exact source text, including quotes for strings
	Position int     // Byte offset of the token's first character
}

// End returns the byte offset immediately after the token's raw text.
func (t Token) End() int {
	return t.Position + len(t.Raw)
}

// IsOperator reports whether the token is the given operator.
func (t Token) IsOperator(op string) bool {
	return t.Kind == KindOperator && t.Value == op
}

// IsParen reports whether the token is the given parenthesis.
func (t Token) IsParen(p string) bool {
	return t.Kind == KindParen && t.Value == p
}

// operators is the fixed operator list, ordered so that longest-prefix
// matching is a simple first-match scan.
var operators = []string{
	"&&", "||",
	"===", "!==", "==", "!=", "<=", ">=", "<", ">",
	"+", "-", "*", "/", "%", "!", "?", ":",
}
