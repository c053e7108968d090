// Package parser provides the tokenizer and recursive-descent parser for
// the Fact Conditional Language (FCL).
//
// The tokenizer comes in two interchangeable forms. Tokenize produces the
// full token list up front and is used for ordinary expression
// compilation. Lexer produces tokens one at a time, tracking byte
// offsets, and is used by the directive parser to find the first
// unconsumed top-level colon that terminates a `$if` guard without ever
// tokenizing the (possibly adversarial) free text that follows it.
//
// The parser is a recursive-descent parser over a strict precedence
// chain, lowest to highest:
//
//	ternary → logical-or → logical-and → equality → relational →
//	additive → multiplicative → unary → postfix → primary
//
// Parse requires the token stream to be fully consumed. ParseLazy
// performs the same descent but stops after one top-level expression and
// returns the next token together with its byte offset.
package parser
