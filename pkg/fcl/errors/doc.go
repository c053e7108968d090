// Package errors provides rich error types for the Fact Conditional
// Language (FCL).
//
// All engine failures, whether lexical, parse, sandbox, or runtime, are
// reported through a single Error type carrying a category, a
// human-readable message, the byte position in the source expression,
// and an optional suggested fix. Failures are always synchronous; no
// partial compiled or evaluated result is ever returned alongside an
// error.
package errors
