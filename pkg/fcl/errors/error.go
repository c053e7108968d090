package errors

import (
	"fmt"
	"strings"
)

// ErrorType categorizes the type of error encountered while compiling or
// evaluating an FCL expression.
type ErrorType string

const (
	ErrorTypeLexical ErrorType = "lexical" // Bad character, unterminated string
	ErrorTypeParse   ErrorType = "parse"   // Unexpected token, trailing tokens, missing colon
	ErrorTypeSandbox ErrorType = "sandbox" // Blocked identifier, property, method, or pattern
	ErrorTypeLimit   ErrorType = "limit"   // Output-size or reroll-count violation
	ErrorTypeRuntime ErrorType = "runtime" // Evaluation failure (bad operand, bad call)
	ErrorTypeFormat  ErrorType = "format"  // Malformed dice, $model, $context, $retry payload
)

// Error represents a rich FCL error with position and an optional
// suggestion. It is the one error kind raised by the engine.
type Error struct {
	Type       ErrorType // Category of error
	Message    string    // Error message
	Position   int       // Byte offset in the source expression (-1 if unknown)
	Source     string    // Source expression text (optional)
	Suggestion string    // Suggested fix (optional)
}

// New creates an Error with the given category, position, and message.
func New(errType ErrorType, position int, format string, args ...any) *Error {
	return &Error{
		Type:     errType,
		Message:  fmt.Sprintf(format, args...),
		Position: position,
	}
}

// WithSuggestion attaches a suggested fix and returns the error.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// WithSource attaches the source expression text and returns the error.
func (e *Error) WithSource(source string) *Error {
	e.Source = source
	return e
}

// Error implements the error interface.
// It returns a formatted message with position and suggestion.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s", e.Type, e.Message))

	if e.Position >= 0 {
		sb.WriteString(fmt.Sprintf(" (offset %d)", e.Position))
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("; suggestion: %s", e.Suggestion))
	}

	return sb.String()
}

// Is reports whether target is an *Error of the same type, enabling
// errors.Is comparisons against category sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type && (t.Message == "" || t.Message == e.Message)
}

// IsType reports whether err is an FCL error of the given category.
func IsType(err error, errType ErrorType) bool {
	e, ok := err.(*Error)
	return ok && e.Type == errType
}
