// Package ast provides Abstract Syntax Tree (AST) definitions for the
// Fact Conditional Language (FCL).
//
// FCL is the restricted expression language embedded in character
// definitions: it powers `$if` guards, context-filter expressions, and
// the value expressions expanded by the macro-substitution pass. The AST
// is produced by the parser package and consumed by the sandboxed
// compiler; nodes are immutable once built and carry byte positions for
// precise error reporting.
//
// # Core Types
//
// Node: interface implemented by all expression nodes
//
// Literal: number, string, or boolean constant
//
// Identifier: bare name resolved against the evaluation context
//
// Member: property access (object.property)
//
// Call: function or method invocation
//
// Unary: prefix operator (!, -)
//
// Binary: infix operator (&&, ||, comparisons, arithmetic)
//
// Ternary: conditional expression (test ? consequent : alternate)
package ast
