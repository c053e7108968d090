package compiler

import (
	"math"
	"strconv"
	"strings"
)

// Runtime values are a closed set of Go types:
//
//	nil          null / absent
//	bool         boolean
//	float64      number
//	string       string
//	[]any        array (split results)
//	map[string]any contextual object (channel, server, now, facts)
//	Func         callable supplied by the evaluation context
//
// Func is the only callable value kind; context functions (random,
// has_fact, roll, messages) are wrapped into it when the field map is
// built.
type Func func(args []any) (any, error)

// Truthy reports the boolean interpretation of a value, matching the
// source language: empty strings, zero, and NaN are false; objects,
// arrays, and functions are always true.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0 && !math.IsNaN(val)
	case string:
		return val != ""
	default:
		return true
	}
}

// ToNumber coerces a value to a number. Strings parse leniently (an
// empty or blank string is zero, an unparseable one is NaN); objects,
// arrays, and functions are NaN.
func ToNumber(v any) float64 {
	switch val := v.(type) {
	case nil:
		return 0
	case bool:
		if val {
			return 1
		}
		return 0
	case float64:
		return val
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0
		}
		switch trimmed {
		case "Infinity", "+Infinity":
			return math.Inf(1)
		case "-Infinity":
			return math.Inf(-1)
		}
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return n
	default:
		return math.NaN()
	}
}

// ToString renders a value the way the macro-substitution pass expects:
// numbers without trailing zeros, booleans as true/false, null as the
// empty string.
func ToString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		return formatNumber(val)
	case string:
		return val
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = ToString(item)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return "[object]"
	default:
		return ""
	}
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// strictEquals implements ===: values are equal only when their kinds
// and contents match.
func strictEquals(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	default:
		// Objects, arrays, and functions compare by identity, which a
		// pure expression cannot observe; treat as never equal.
		return false
	}
}

// looseEquals implements ==: mixed numbers, strings, and booleans
// compare after numeric coercion.
func looseEquals(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	as, aIsStr := a.(string)
	bs, bIsStr := b.(string)
	if aIsStr && bIsStr {
		return as == bs
	}

	an := ToNumber(a)
	bn := ToNumber(b)
	if math.IsNaN(an) || math.IsNaN(bn) {
		return false
	}
	return an == bn
}

// compareValues evaluates a relational operator. Two strings compare
// lexicographically; anything else compares numerically, with NaN
// making every comparison false.
func compareValues(op string, a, b any) bool {
	as, aIsStr := a.(string)
	bs, bIsStr := b.(string)
	if aIsStr && bIsStr {
		switch op {
		case "<":
			return as < bs
		case ">":
			return as > bs
		case "<=":
			return as <= bs
		case ">=":
			return as >= bs
		}
		return false
	}

	an := ToNumber(a)
	bn := ToNumber(b)
	if math.IsNaN(an) || math.IsNaN(bn) {
		return false
	}

	switch op {
	case "<":
		return an < bn
	case ">":
		return an > bn
	case "<=":
		return an <= bn
	case ">=":
		return an >= bn
	}
	return false
}
