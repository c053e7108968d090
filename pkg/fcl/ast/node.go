package ast

// Node is the interface implemented by all FCL expression nodes.
// Pos returns the byte offset of the node in the original source text.
type Node interface {
	Pos() int
	node()
}

// LiteralKind identifies the runtime type of a literal constant.
type LiteralKind string

const (
	LiteralNumber  LiteralKind = "number"
	LiteralString  LiteralKind = "string"
	LiteralBoolean LiteralKind = "boolean"
)

// Literal is a constant value: a number, a string, or a boolean.
type Literal struct {
	Kind     LiteralKind
	Number   float64 // Set when Kind == LiteralNumber
	Str      string  // Set when Kind == LiteralString
	Bool     bool    // Set when Kind == LiteralBoolean
	Position int
}

// Identifier is a bare name resolved against the evaluation context's
// declared field set at compile time.
type Identifier struct {
	Name     string
	Position int
}

// Member is a property access: Object.Property.
// The property name is checked against the blocked-property set at
// compile time, never at runtime.
type Member struct {
	Object   Node
	Property string
	Position int
}

// Call is a function or method invocation. Callee is either an
// Identifier (context function) or a Member (method on a value).
type Call struct {
	Callee   Node
	Args     []Node
	Position int
}

// Unary is a prefix operator application: !operand or -operand.
type Unary struct {
	Op       string
	Operand  Node
	Position int
}

// Binary is an infix operator application.
// Operators: && || === !== == != <= >= < > + - * / %
type Binary struct {
	Op       string
	Left     Node
	Right    Node
	Position int
}

// Ternary is a conditional expression: Test ? Consequent : Alternate.
type Ternary struct {
	Test       Node
	Consequent Node
	Alternate  Node
	Position   int
}

func (n *Literal) Pos() int    { return n.Position }
func (n *Identifier) Pos() int { return n.Position }
func (n *Member) Pos() int     { return n.Position }
func (n *Call) Pos() int       { return n.Position }
func (n *Unary) Pos() int      { return n.Position }
func (n *Binary) Pos() int     { return n.Position }
func (n *Ternary) Pos() int    { return n.Position }

func (*Literal) node()    {}
func (*Identifier) node() {}
func (*Member) node()     {}
func (*Call) node()       {}
func (*Unary) node()      {}
func (*Binary) node()     {}
func (*Ternary) node()    {}
