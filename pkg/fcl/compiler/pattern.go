package compiler

import (
	"regexp"
	"strings"

	fclerrors "persona-hq/animus/pkg/fcl/errors"
)

// compilePattern validates and compiles the literal pattern argument of
// a match/search/replace/split-style method. The pattern must pass the
// catastrophic-backtracking heuristic before it is compiled; Go's own
// regexp engine does not backtrack, but the gate keeps definitions
// portable to hosts whose engines do, and rejection happens at compile
// time, never during evaluation.
func compilePattern(pattern string, pos int) (*regexp.Regexp, error) {
	if reason := catastrophicShape(pattern); reason != "" {
		return nil, fclerrors.New(fclerrors.ErrorTypeSandbox, pos,
			"Unsafe pattern %q: %s", pattern, reason)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fclerrors.New(fclerrors.ErrorTypeSandbox, pos,
			"Invalid pattern %q: %v", pattern, err)
	}

	return re, nil
}

// catastrophicShape inspects a pattern for shapes known to cause
// exponential backtracking and returns a non-empty reason when found:
//
//   - a quantified group whose body itself contains a quantifier,
//     e.g. (a+)+ or (\d*)*
//   - a quantified group containing an alternation whose branches can
//     match the same leading text, e.g. (a|ab)+ or (a|a)*
//
// Escapes and character classes are skipped so that patterns like
// ([+*])x or [0-9]+ are not misread as quantifiers.
func catastrophicShape(pattern string) string {
	type group struct {
		start         int
		hasQuantifier bool
		branchStarts  []int
	}

	var stack []group
	inClass := false

	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]

		if ch == '\\' {
			i++ // Skip escaped character
			continue
		}

		if inClass {
			if ch == ']' {
				inClass = false
			}
			continue
		}

		switch ch {
		case '[':
			inClass = true

		case '(':
			stack = append(stack, group{start: i, branchStarts: []int{i + 1}})

		case '|':
			if len(stack) > 0 {
				top := &stack[len(stack)-1]
				top.branchStarts = append(top.branchStarts, i+1)
			}

		case '+', '*', '{':
			if len(stack) > 0 {
				stack[len(stack)-1].hasQuantifier = true
			}

		case ')':
			if len(stack) == 0 {
				continue // Invalid nesting; regexp.Compile reports it
			}
			g := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			quantified := i+1 < len(pattern) && isQuantifierStart(pattern[i+1])
			if !quantified {
				// Quantifiers inside an unquantified group still count as
				// quantifiers of the enclosing group's body.
				if g.hasQuantifier && len(stack) > 0 {
					stack[len(stack)-1].hasQuantifier = true
				}
				continue
			}

			if g.hasQuantifier {
				return "nested quantifiers"
			}
			if len(g.branchStarts) > 1 && ambiguousBranches(pattern, g.branchStarts, i) {
				return "quantified alternation with overlapping branches"
			}

			// The group is itself quantified, so the enclosing group now
			// contains a quantifier.
			if len(stack) > 0 {
				stack[len(stack)-1].hasQuantifier = true
			}
		}
	}

	return ""
}

func isQuantifierStart(ch byte) bool {
	return ch == '+' || ch == '*' || ch == '{'
}

// ambiguousBranches reports whether two alternation branches of a group
// begin with the same literal character, which makes a quantified
// repetition of the group ambiguous.
func ambiguousBranches(pattern string, starts []int, end int) bool {
	firsts := make([]byte, 0, len(starts))
	for _, s := range starts {
		if s >= end || s >= len(pattern) {
			continue
		}
		ch := pattern[s]
		if ch == '\\' && s+1 < len(pattern) {
			ch = pattern[s+1]
		}
		if strings.IndexByte("([.^$", ch) >= 0 {
			// Branch starts with a structural token; treat as ambiguous
			// only when another branch does too.
			ch = '.'
		}
		firsts = append(firsts, ch)
	}

	for i := 0; i < len(firsts); i++ {
		for j := i + 1; j < len(firsts); j++ {
			if firsts[i] == firsts[j] {
				return true
			}
		}
	}
	return false
}
