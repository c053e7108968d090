// Package facts classifies and evaluates character fact lines.
//
// A character definition is an ordered list of lines. Each line is
// either a plain fact (a trait the prompt renderer will show), a
// `$`-sigil directive configuring behavior (respond gating, retry
// scheduling, avatar, streaming, memory scope, context filtering,
// model selection, stripping, permissions), or a comment. A `$if
// <guard>:` prefix makes any line conditional on an FCL expression.
//
// Classification is total: every line maps to exactly one outcome, and
// directive text that merely fails its exact pattern reclassifies as a
// plain fact ($respondent is plain text, not a malformed $respond).
//
// Evaluation walks lines top to bottom, compiles and evaluates guards
// through the sandboxed engine, applies the directive precedence rules
// (last passing occurrence wins for single-slot directives; $retry
// halts processing immediately), and emits an EvaluatedFacts aggregate.
package facts
