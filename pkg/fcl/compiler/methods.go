package compiler

import (
	"math"
	"regexp"
	"strings"

	"persona-hq/animus/pkg/fcl/ast"
	fclerrors "persona-hq/animus/pkg/fcl/errors"
)

// MaxOutputLength is the hard cap on the length of any string an
// expression can produce through an allocating method. The exact output
// size is computed before allocating wherever the inputs permit, so a
// violating call fails without the allocation ever happening.
const MaxOutputLength = 100000

// blockedProperties maps each blocked property name to its diagnostic.
// These are rejected during translation, independent of the receiver's
// runtime value.
var blockedProperties = map[string]string{
	"constructor":      "Access to 'constructor' is not allowed",
	"__proto__":        "Access to '__proto__' is not allowed",
	"prototype":        "Access to 'prototype' is not allowed",
	"__defineGetter__": "Defining getters is not allowed",
	"__defineSetter__": "Defining setters is not allowed",
	"__lookupGetter__": "Looking up getters is not allowed",
	"__lookupSetter__": "Looking up setters is not allowed",
}

// methodID enumerates the closed set of recognized methods. Method names
// resolve to IDs during AST translation; there is no runtime dispatch by
// string and no pass-through to anything outside this set.
type methodID int

const (
	methodIncludes methodID = iota
	methodStartsWith
	methodEndsWith
	methodIndexOf
	methodToLowerCase
	methodToUpperCase
	methodTrim
	methodSlice
	methodCharAt
	methodMatch
	methodSearch
	methodReplace
	methodReplaceAll
	methodSplit
	methodRepeat
	methodPadStart
	methodPadEnd
	methodJoin
)

type methodSpec struct {
	id      methodID
	minArgs int
	maxArgs int
	// pattern marks methods whose first argument compiles into a
	// pattern matcher: it must be a literal and passes the safety gate.
	pattern bool
}

var methodTable = map[string]methodSpec{
	"includes":    {id: methodIncludes, minArgs: 1, maxArgs: 1},
	"startsWith":  {id: methodStartsWith, minArgs: 1, maxArgs: 1},
	"endsWith":    {id: methodEndsWith, minArgs: 1, maxArgs: 1},
	"indexOf":     {id: methodIndexOf, minArgs: 1, maxArgs: 1},
	"toLowerCase": {id: methodToLowerCase, minArgs: 0, maxArgs: 0},
	"toUpperCase": {id: methodToUpperCase, minArgs: 0, maxArgs: 0},
	"trim":        {id: methodTrim, minArgs: 0, maxArgs: 0},
	"slice":       {id: methodSlice, minArgs: 1, maxArgs: 2},
	"charAt":      {id: methodCharAt, minArgs: 1, maxArgs: 1},
	"match":       {id: methodMatch, minArgs: 1, maxArgs: 1, pattern: true},
	"search":      {id: methodSearch, minArgs: 1, maxArgs: 1, pattern: true},
	"replace":     {id: methodReplace, minArgs: 2, maxArgs: 2, pattern: true},
	"replaceAll":  {id: methodReplaceAll, minArgs: 2, maxArgs: 2, pattern: true},
	"split":       {id: methodSplit, minArgs: 1, maxArgs: 1, pattern: true},
	"repeat":      {id: methodRepeat, minArgs: 1, maxArgs: 1},
	"padStart":    {id: methodPadStart, minArgs: 1, maxArgs: 2},
	"padEnd":      {id: methodPadEnd, minArgs: 1, maxArgs: 2},
	"join":        {id: methodJoin, minArgs: 0, maxArgs: 1},
}

// blockedMethods maps rejected method names to their redirect hints.
var blockedMethods = map[string]string{
	"matchAll": "use match instead",
}

// methodBinding is the translation-time resolution of a method call.
type methodBinding struct {
	id methodID
	re *regexp.Regexp // Precompiled pattern for pattern methods
}

// resolveMethod gates and resolves a member-call during translation.
func resolveMethod(name string, call *ast.Call, pos int) (*methodBinding, error) {
	if hint, blocked := blockedMethods[name]; blocked {
		return nil, fclerrors.New(fclerrors.ErrorTypeSandbox, pos,
			"Method '%s' is not allowed", name).WithSuggestion(hint)
	}

	spec, ok := methodTable[name]
	if !ok {
		return nil, fclerrors.New(fclerrors.ErrorTypeSandbox, pos,
			"Unknown method: %s", name)
	}

	if len(call.Args) < spec.minArgs || len(call.Args) > spec.maxArgs {
		return nil, fclerrors.New(fclerrors.ErrorTypeParse, pos,
			"Method '%s' expects %d to %d arguments, got %d",
			name, spec.minArgs, spec.maxArgs, len(call.Args))
	}

	binding := &methodBinding{id: spec.id}

	if spec.pattern {
		lit, ok := call.Args[0].(*ast.Literal)
		if !ok || lit.Kind != ast.LiteralString {
			return nil, fclerrors.New(fclerrors.ErrorTypeSandbox, pos,
				"Method '%s' requires a literal string pattern", name)
		}
		re, err := compilePattern(lit.Str, lit.Position)
		if err != nil {
			return nil, err
		}
		binding.re = re
	}

	return binding, nil
}

// invokeMethod evaluates a resolved method against its receiver.
func invokeMethod(b *methodBinding, recv any, args []any, pos int) (any, error) {
	if b.id == methodJoin {
		parts, ok := recv.([]any)
		if !ok {
			return nil, fclerrors.New(fclerrors.ErrorTypeRuntime, pos,
				"join requires an array receiver")
		}
		sep := ","
		if len(args) >= 1 {
			sep = ToString(args[0])
		}
		return boundedJoin(parts, sep, pos)
	}

	s := ToString(recv)

	switch b.id {
	case methodIncludes:
		return strings.Contains(s, ToString(args[0])), nil

	case methodStartsWith:
		return strings.HasPrefix(s, ToString(args[0])), nil

	case methodEndsWith:
		return strings.HasSuffix(s, ToString(args[0])), nil

	case methodIndexOf:
		return float64(strings.Index(s, ToString(args[0]))), nil

	case methodToLowerCase:
		return strings.ToLower(s), nil

	case methodToUpperCase:
		return strings.ToUpper(s), nil

	case methodTrim:
		return strings.TrimSpace(s), nil

	case methodSlice:
		start := sliceIndex(ToNumber(args[0]), len(s))
		end := len(s)
		if len(args) == 2 {
			end = sliceIndex(ToNumber(args[1]), len(s))
		}
		if start >= end {
			return "", nil
		}
		return s[start:end], nil

	case methodCharAt:
		i := int(ToNumber(args[0]))
		if i < 0 || i >= len(s) {
			return "", nil
		}
		return string(s[i]), nil

	case methodMatch:
		loc := b.re.FindStringIndex(s)
		if loc == nil {
			return nil, nil
		}
		return s[loc[0]:loc[1]], nil

	case methodSearch:
		loc := b.re.FindStringIndex(s)
		if loc == nil {
			return float64(-1), nil
		}
		return float64(loc[0]), nil

	case methodReplace:
		return replaceFirst(b.re, s, ToString(args[1]), pos)

	case methodReplaceAll:
		return boundedReplaceAll(b.re, s, ToString(args[1]), pos)

	case methodSplit:
		parts := b.re.Split(s, -1)
		result := make([]any, len(parts))
		for i, p := range parts {
			result[i] = p
		}
		return result, nil

	case methodRepeat:
		return boundedRepeat(s, ToNumber(args[0]), pos)

	case methodPadStart:
		return boundedPad(s, args, pos, true)

	case methodPadEnd:
		return boundedPad(s, args, pos, false)
	}

	return nil, fclerrors.New(fclerrors.ErrorTypeRuntime, pos, "Unresolved method")
}

// sliceIndex converts a possibly negative slice index to a clamped
// absolute offset.
func sliceIndex(n float64, length int) int {
	if math.IsNaN(n) {
		return 0
	}
	i := int(n)
	if i < 0 {
		i += length
	}
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}

// boundedRepeat computes the output size (input length × count) before
// allocating. The size check runs in float space so counts beyond the
// integer range, Infinity included, fail here instead of overflowing
// the int conversion.
func boundedRepeat(s string, countN float64, pos int) (any, error) {
	if math.IsNaN(countN) || countN < 0 {
		return nil, fclerrors.New(fclerrors.ErrorTypeRuntime, pos,
			"Invalid repeat count")
	}

	size := float64(len(s)) * countN
	if size > MaxOutputLength {
		return nil, fclerrors.New(fclerrors.ErrorTypeLimit, pos,
			"repeat would produce %.0f characters, exceeding the %d character limit",
			size, MaxOutputLength)
	}
	if len(s) == 0 {
		return "", nil
	}

	return strings.Repeat(s, int(countN)), nil
}

// boundedPad enforces the cap on the target length before padding. The
// limit check runs on the float value so targets beyond the integer
// range cannot slip past it via conversion overflow.
func boundedPad(s string, args []any, pos int, padStart bool) (any, error) {
	targetN := ToNumber(args[0])
	if math.IsNaN(targetN) || targetN < 0 {
		return s, nil
	}
	if targetN > MaxOutputLength {
		return nil, fclerrors.New(fclerrors.ErrorTypeLimit, pos,
			"pad target of %.0f characters exceeds the %d character limit",
			targetN, MaxOutputLength)
	}
	target := int(targetN)
	if target <= len(s) {
		return s, nil
	}

	pad := " "
	if len(args) == 2 {
		pad = ToString(args[1])
	}
	if pad == "" {
		return s, nil
	}

	fill := strings.Repeat(pad, (target-len(s))/len(pad)+1)[:target-len(s)]
	if padStart {
		return fill + s, nil
	}
	return s + fill, nil
}

// replaceFirst replaces the first pattern match, computing the exact
// output size before concatenating.
func replaceFirst(re *regexp.Regexp, s, repl string, pos int) (any, error) {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s, nil
	}

	expanded := string(re.ExpandString(nil, repl, s, loc))
	size := len(s) - (loc[1] - loc[0]) + len(expanded)
	if size > MaxOutputLength {
		return nil, fclerrors.New(fclerrors.ErrorTypeLimit, pos,
			"replace would produce %d characters, exceeding the %d character limit",
			size, MaxOutputLength)
	}

	return s[:loc[0]] + expanded + s[loc[1]:], nil
}

// boundedReplaceAll replaces every pattern match. When the replacement
// carries no capture references the exact output size is computed from
// the match spans before allocating; otherwise the result is built and
// checked, since expansion size depends on each match.
func boundedReplaceAll(re *regexp.Regexp, s, repl string, pos int) (any, error) {
	if !strings.Contains(repl, "$") {
		matches := re.FindAllStringIndex(s, -1)
		matched := 0
		for _, m := range matches {
			matched += m[1] - m[0]
		}
		size := len(s) - matched + len(matches)*len(repl)
		if size > MaxOutputLength {
			return nil, fclerrors.New(fclerrors.ErrorTypeLimit, pos,
				"replaceAll would produce %d characters, exceeding the %d character limit",
				size, MaxOutputLength)
		}
	}

	result := re.ReplaceAllString(s, repl)
	if len(result) > MaxOutputLength {
		return nil, fclerrors.New(fclerrors.ErrorTypeLimit, pos,
			"replaceAll produced %d characters, exceeding the %d character limit",
			len(result), MaxOutputLength)
	}
	return result, nil
}

// boundedJoin sums the part and separator lengths before allocating.
func boundedJoin(parts []any, sep string, pos int) (any, error) {
	strs := make([]string, len(parts))
	size := 0
	for i, p := range parts {
		strs[i] = ToString(p)
		size += len(strs[i])
	}
	if len(parts) > 1 {
		size += (len(parts) - 1) * len(sep)
	}

	if size > MaxOutputLength {
		return nil, fclerrors.New(fclerrors.ErrorTypeLimit, pos,
			"join would produce %d characters, exceeding the %d character limit",
			size, MaxOutputLength)
	}

	return strings.Join(strs, sep), nil
}
