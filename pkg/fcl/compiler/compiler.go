package compiler

import (
	"math"

	"persona-hq/animus/pkg/fcl/ast"
	fclerrors "persona-hq/animus/pkg/fcl/errors"
	"persona-hq/animus/pkg/fcl/parser"
)

// globalNames are the identifiers available to every expression
// regardless of context shape.
var globalNames = map[string]bool{
	"Infinity": true,
	"NaN":      true,
}

// Compiled is an executable expression: an immutable AST plus the
// method bindings resolved during translation. It closes over no
// mutable state and is safe to invoke concurrently.
type Compiled struct {
	source   string
	root     ast.Node
	bindings map[*ast.Call]*methodBinding
}

// Source returns the exact source text the expression was compiled from.
func (c *Compiled) Source() string {
	return c.source
}

// Compile translates source into an executable expression gated against
// the EvalContext field set.
func Compile(source string) (*Compiled, error) {
	return CompileWithExtras(source, nil)
}

// CompileWithExtras additionally grants the named extra identifiers.
// The extra set is a compile-time capability: values for the names are
// read from EvalContext.Extra at evaluation time, and names not granted
// here remain unreachable no matter what the context carries.
func CompileWithExtras(source string, extras []string) (*Compiled, error) {
	allowed := contextFields
	if len(extras) > 0 {
		allowed = make(map[string]bool, len(contextFields)+len(extras))
		for name := range contextFields {
			allowed[name] = true
		}
		for _, name := range extras {
			allowed[name] = true
		}
	}
	return compile(source, allowed)
}

// CompileRestricted translates source against a replacement identifier
// set instead of the EvalContext shape. The message-inclusion filter
// sub-language compiles through this entry point with its six numeric
// identifiers.
func CompileRestricted(source string, identifiers []string) (*Compiled, error) {
	allowed := make(map[string]bool, len(identifiers))
	for _, name := range identifiers {
		allowed[name] = true
	}
	return compile(source, allowed)
}

func compile(source string, allowed map[string]bool) (*Compiled, error) {
	root, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}

	c := &Compiled{
		source:   source,
		root:     root,
		bindings: make(map[*ast.Call]*methodBinding),
	}

	if err := c.gate(root, allowed); err != nil {
		return nil, err
	}

	return c, nil
}

// gate walks the AST applying the identifier and property/method gates.
// A node that fails never reaches evaluation; no executable form exists
// for a rejected expression.
func (c *Compiled) gate(node ast.Node, allowed map[string]bool) error {
	switch n := node.(type) {
	case *ast.Literal:
		return nil

	case *ast.Identifier:
		if !allowed[n.Name] && !globalNames[n.Name] {
			return fclerrors.New(fclerrors.ErrorTypeSandbox, n.Position,
				"Unknown identifier: %s", n.Name).WithSource(c.source)
		}
		return nil

	case *ast.Member:
		if diagnostic, blocked := blockedProperties[n.Property]; blocked {
			return fclerrors.New(fclerrors.ErrorTypeSandbox, n.Position,
				"%s", diagnostic).WithSource(c.source)
		}
		return c.gate(n.Object, allowed)

	case *ast.Call:
		if member, ok := n.Callee.(*ast.Member); ok {
			// Method call: the property gate applies to the receiver
			// path, and the method name resolves against the closed
			// enumeration.
			if diagnostic, blocked := blockedProperties[member.Property]; blocked {
				return fclerrors.New(fclerrors.ErrorTypeSandbox, member.Position,
					"%s", diagnostic).WithSource(c.source)
			}
			binding, err := resolveMethod(member.Property, n, member.Position)
			if err != nil {
				return err
			}
			c.bindings[n] = binding
			if err := c.gate(member.Object, allowed); err != nil {
				return err
			}
		} else {
			if err := c.gate(n.Callee, allowed); err != nil {
				return err
			}
		}
		for _, arg := range n.Args {
			if err := c.gate(arg, allowed); err != nil {
				return err
			}
		}
		return nil

	case *ast.Unary:
		return c.gate(n.Operand, allowed)

	case *ast.Binary:
		if err := c.gate(n.Left, allowed); err != nil {
			return err
		}
		return c.gate(n.Right, allowed)

	case *ast.Ternary:
		if err := c.gate(n.Test, allowed); err != nil {
			return err
		}
		if err := c.gate(n.Consequent, allowed); err != nil {
			return err
		}
		return c.gate(n.Alternate, allowed)
	}

	return fclerrors.New(fclerrors.ErrorTypeParse, node.Pos(), "Unknown node kind")
}

// Eval evaluates the expression against a context and returns the raw
// result value.
func (c *Compiled) Eval(ctx *EvalContext) (any, error) {
	return c.EvalFields(ctx.fields())
}

// EvalBool evaluates the expression and reports its truthiness.
func (c *Compiled) EvalBool(ctx *EvalContext) (bool, error) {
	v, err := c.Eval(ctx)
	if err != nil {
		return false, err
	}
	return Truthy(v), nil
}

// EvalString evaluates the expression and renders the result for the
// macro-substitution pass.
func (c *Compiled) EvalString(ctx *EvalContext) (string, error) {
	v, err := c.Eval(ctx)
	if err != nil {
		return "", err
	}
	return ToString(v), nil
}

// EvalFields evaluates the expression against a raw identifier → value
// map. The message filter evaluates its running totals through this.
func (c *Compiled) EvalFields(fields map[string]any) (any, error) {
	return c.eval(c.root, fields)
}

func (c *Compiled) eval(node ast.Node, fields map[string]any) (any, error) {
	switch n := node.(type) {
	case *ast.Literal:
		switch n.Kind {
		case ast.LiteralNumber:
			return n.Number, nil
		case ast.LiteralString:
			return n.Str, nil
		default:
			return n.Bool, nil
		}

	case *ast.Identifier:
		switch n.Name {
		case "Infinity":
			return math.Inf(1), nil
		case "NaN":
			return math.NaN(), nil
		}
		// The identifier gate guarantees membership; a granted extra
		// the host did not supply evaluates to null.
		return fields[n.Name], nil

	case *ast.Member:
		obj, err := c.eval(n.Object, fields)
		if err != nil {
			return nil, err
		}
		return memberValue(obj, n.Property), nil

	case *ast.Call:
		args := make([]any, len(n.Args))
		for i, arg := range n.Args {
			v, err := c.eval(arg, fields)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}

		if binding, ok := c.bindings[n]; ok {
			member := n.Callee.(*ast.Member)
			recv, err := c.eval(member.Object, fields)
			if err != nil {
				return nil, err
			}
			return invokeMethod(binding, recv, args, n.Position)
		}

		callee, err := c.eval(n.Callee, fields)
		if err != nil {
			return nil, err
		}
		fn, ok := callee.(Func)
		if !ok {
			return nil, fclerrors.New(fclerrors.ErrorTypeRuntime, n.Position,
				"Not a function").WithSource(c.source)
		}
		return fn(args)

	case *ast.Unary:
		v, err := c.eval(n.Operand, fields)
		if err != nil {
			return nil, err
		}
		if n.Op == "!" {
			return !Truthy(v), nil
		}
		return -ToNumber(v), nil

	case *ast.Binary:
		return c.evalBinary(n, fields)

	case *ast.Ternary:
		test, err := c.eval(n.Test, fields)
		if err != nil {
			return nil, err
		}
		if Truthy(test) {
			return c.eval(n.Consequent, fields)
		}
		return c.eval(n.Alternate, fields)
	}

	return nil, fclerrors.New(fclerrors.ErrorTypeRuntime, node.Pos(), "Unknown node kind")
}

func (c *Compiled) evalBinary(n *ast.Binary, fields map[string]any) (any, error) {
	// Logical operators short-circuit and yield the deciding operand.
	if n.Op == "&&" || n.Op == "||" {
		left, err := c.eval(n.Left, fields)
		if err != nil {
			return nil, err
		}
		if n.Op == "&&" {
			if !Truthy(left) {
				return left, nil
			}
		} else if Truthy(left) {
			return left, nil
		}
		return c.eval(n.Right, fields)
	}

	left, err := c.eval(n.Left, fields)
	if err != nil {
		return nil, err
	}
	right, err := c.eval(n.Right, fields)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "===":
		return strictEquals(left, right), nil
	case "!==":
		return !strictEquals(left, right), nil
	case "==":
		return looseEquals(left, right), nil
	case "!=":
		return !looseEquals(left, right), nil
	case "<", ">", "<=", ">=":
		return compareValues(n.Op, left, right), nil
	case "+":
		if ls, ok := left.(string); ok {
			return ls + ToString(right), nil
		}
		if rs, ok := right.(string); ok {
			return ToString(left) + rs, nil
		}
		return ToNumber(left) + ToNumber(right), nil
	case "-":
		return ToNumber(left) - ToNumber(right), nil
	case "*":
		return ToNumber(left) * ToNumber(right), nil
	case "/":
		return divide(ToNumber(left), ToNumber(right)), nil
	case "%":
		return math.Mod(ToNumber(left), ToNumber(right)), nil
	}

	return nil, fclerrors.New(fclerrors.ErrorTypeRuntime, n.Position,
		"Unknown operator %q", n.Op)
}

// divide matches the source language: division by zero yields a signed
// infinity (or NaN for 0/0) rather than a fault.
func divide(a, b float64) float64 {
	if b == 0 {
		if a == 0 || math.IsNaN(a) {
			return math.NaN()
		}
		return math.Inf(int(math.Copysign(1, a) * math.Copysign(1, b)))
	}
	return a / b
}

// memberValue resolves a property on a runtime value. Blocked names
// never reach here; unknown properties are null.
func memberValue(obj any, property string) any {
	switch v := obj.(type) {
	case map[string]any:
		return v[property]
	case string:
		if property == "length" {
			return float64(len(v))
		}
		return nil
	case []any:
		if property == "length" {
			return float64(len(v))
		}
		return nil
	default:
		return nil
	}
}
