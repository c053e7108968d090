package parser

import (
	"testing"

	"persona-hq/animus/pkg/fcl/ast"
	fclerrors "persona-hq/animus/pkg/fcl/errors"
)

func TestParsePrecedence(t *testing.T) {
	// a || b && c parses as a || (b && c).
	node, err := Parse("a || b && c")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	or, ok := node.(*ast.Binary)
	if !ok || or.Op != "||" {
		t.Fatalf("root = %T %v, want || binary", node, node)
	}
	and, ok := or.Right.(*ast.Binary)
	if !ok || and.Op != "&&" {
		t.Errorf("right = %T, want && binary", or.Right)
	}

	// 1 + 2 * 3 parses as 1 + (2 * 3).
	node, err = Parse("1 + 2 * 3")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	add := node.(*ast.Binary)
	if add.Op != "+" {
		t.Fatalf("root op = %q", add.Op)
	}
	if mul, ok := add.Right.(*ast.Binary); !ok || mul.Op != "*" {
		t.Errorf("right = %T, want * binary", add.Right)
	}

	// Comparison binds tighter than equality.
	node, err = Parse("a < b == c < d")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if eq := node.(*ast.Binary); eq.Op != "==" {
		t.Errorf("root op = %q, want ==", eq.Op)
	}
}

func TestParseLeftAssociative(t *testing.T) {
	node, err := Parse("1 - 2 - 3")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	outer := node.(*ast.Binary)
	inner, ok := outer.Left.(*ast.Binary)
	if !ok || inner.Op != "-" {
		t.Errorf("left = %T, want nested - binary", outer.Left)
	}
}

func TestParseTernary(t *testing.T) {
	node, err := Parse("a ? b : c ? d : e")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	outer, ok := node.(*ast.Ternary)
	if !ok {
		t.Fatalf("root = %T, want ternary", node)
	}
	// Right-associative: the alternate is the nested ternary.
	if _, ok := outer.Alternate.(*ast.Ternary); !ok {
		t.Errorf("alternate = %T, want nested ternary", outer.Alternate)
	}
}

func TestParsePostfixChains(t *testing.T) {
	node, err := Parse(`name.toLowerCase().includes("dragon")`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	call, ok := node.(*ast.Call)
	if !ok {
		t.Fatalf("root = %T, want call", node)
	}
	member, ok := call.Callee.(*ast.Member)
	if !ok || member.Property != "includes" {
		t.Fatalf("callee = %T, want member .includes", call.Callee)
	}
	if len(call.Args) != 1 {
		t.Errorf("args = %d, want 1", len(call.Args))
	}
	inner, ok := member.Object.(*ast.Call)
	if !ok {
		t.Fatalf("receiver = %T, want call", member.Object)
	}
	if m := inner.Callee.(*ast.Member); m.Property != "toLowerCase" {
		t.Errorf("inner property = %q", m.Property)
	}
}

func TestParseUnary(t *testing.T) {
	node, err := Parse("!!a")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	outer := node.(*ast.Unary)
	if _, ok := outer.Operand.(*ast.Unary); !ok {
		t.Errorf("operand = %T, want nested unary", outer.Operand)
	}

	node, err = Parse("-5")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if neg := node.(*ast.Unary); neg.Op != "-" {
		t.Errorf("op = %q", neg.Op)
	}
}

func TestParseArguments(t *testing.T) {
	node, err := Parse("roll(a, b, 3)")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	call := node.(*ast.Call)
	if len(call.Args) != 3 {
		t.Errorf("args = %d, want 3", len(call.Args))
	}

	node, err = Parse("random()")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if call := node.(*ast.Call); len(call.Args) != 0 {
		t.Errorf("args = %d, want 0", len(call.Args))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"trailing tokens", "a b"},
		{"dangling operator", "a &&"},
		{"missing ternary colon", "a ? b"},
		{"unclosed paren", "(a"},
		{"missing property", "a."},
		{"unclosed arguments", "f(a,"},
		{"empty input", ""},
		{"bare operator", "&&"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.input)
			}
			if !fclerrors.IsType(err, fclerrors.ErrorTypeParse) {
				t.Errorf("Parse(%q) error = %v, want parse error", tt.input, err)
			}
		})
	}
}

func TestParseLazyStopsAtColon(t *testing.T) {
	input := `mentioned && health > 0.5: this text is not ] tokenizable [`
	node, next, err := ParseLazy(input)
	if err != nil {
		t.Fatalf("ParseLazy error: %v", err)
	}
	if node == nil {
		t.Fatal("ParseLazy returned nil node")
	}
	if !next.IsOperator(":") {
		t.Fatalf("next token = %v, want ':'", next)
	}
	if input[next.End():] != ` this text is not ] tokenizable [` {
		t.Errorf("resume text = %q", input[next.End():])
	}
}

func TestParseLazyTernaryOwnsItsColon(t *testing.T) {
	// The ternary's colon is consumed inside the expression; only the
	// top-level colon is left as the unconsumed token.
	_, next, err := ParseLazy(`(a ? 1 : 0) > 0: tail`)
	if err != nil {
		t.Fatalf("ParseLazy error: %v", err)
	}
	if !next.IsOperator(":") {
		t.Fatalf("next token = %v, want top-level ':'", next)
	}
	if next.Position != 15 {
		t.Errorf("colon position = %d, want 15", next.Position)
	}
}

func TestParseLazyEOF(t *testing.T) {
	_, next, err := ParseLazy("mentioned")
	if err != nil {
		t.Fatalf("ParseLazy error: %v", err)
	}
	if next.Kind != KindEOF {
		t.Errorf("next token = %v, want eof", next)
	}
}
