package facts

import (
	"regexp"
	"strconv"
	"strings"

	fclerrors "persona-hq/animus/pkg/fcl/errors"
	"persona-hq/animus/pkg/fcl/parser"
)

var contextNumeric = regexp.MustCompile(`^(\d+)(k?)$`)

// Classify maps one fact line to exactly one outcome, by first-match
// priority over the directive rules. Only a malformed $if guard or a
// malformed $model payload produces an error; directive text that
// merely fails its exact pattern reclassifies as a plain fact.
//
// Comment lines are expected to be dropped by the caller before
// classification; Classify treats them as plain text.
func Classify(line string) (*ProcessedFact, error) {
	trimmed := strings.TrimSpace(line)

	// $locked alone is the entity-level lock; with a payload it wraps
	// the recursive classification of the payload.
	if trimmed == "$locked" {
		return &ProcessedFact{Directive: DirectiveEntityLock}, nil
	}
	if rest, ok := directivePayload(trimmed, "$locked"); ok {
		inner, err := Classify(rest)
		if err != nil {
			return nil, err
		}
		inner.Locked = true
		return inner, nil
	}

	// $if <guard>: <rest>; the guard boundary is located with the
	// lazy parser so punctuation inside <rest> cannot confuse it.
	if rest, ok := directivePayload(trimmed, "$if"); ok {
		return classifyConditional(rest)
	}

	if fact, ok := classifyRespond(trimmed); ok {
		return fact, nil
	}

	if rest, ok := directivePayload(trimmed, "$retry"); ok {
		ms, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil || ms < 0 {
			return plainFact(trimmed), nil
		}
		return &ProcessedFact{Directive: DirectiveRetry, RetryMS: ms}, nil
	}

	if rest, ok := directivePayload(trimmed, "$avatar"); ok {
		avatar := strings.TrimSpace(rest)
		if avatar == "" {
			return plainFact(trimmed), nil
		}
		return &ProcessedFact{Directive: DirectiveAvatar, Avatar: avatar}, nil
	}

	if fact, ok := classifyStream(trimmed); ok {
		return fact, nil
	}

	if fact, ok := classifyMemory(trimmed); ok {
		return fact, nil
	}

	if rest, ok := directivePayload(trimmed, "$context"); ok {
		filter := strings.TrimSpace(rest)
		if filter == "" {
			return plainFact(trimmed), nil
		}
		if m := contextNumeric.FindStringSubmatch(filter); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return plainFact(trimmed), nil
			}
			if m[2] == "k" {
				n *= 1000
			}
			if n > MaxContextChars {
				n = MaxContextChars
			}
			filter = "chars < " + strconv.Itoa(n)
		}
		return &ProcessedFact{Directive: DirectiveContext, Filter: filter}, nil
	}

	if trimmed == "$freeform" {
		return &ProcessedFact{Directive: DirectiveFreeform}, nil
	}

	if rest, ok := directivePayload(trimmed, "$model"); ok {
		return classifyModel(trimmed, rest)
	}

	if fact, ok := classifyStrip(trimmed); ok {
		return fact, nil
	}

	if fact, ok := classifyPermission(trimmed); ok {
		return fact, nil
	}

	return plainFact(trimmed), nil
}

func plainFact(content string) *ProcessedFact {
	return &ProcessedFact{Content: content}
}

// directivePayload matches a directive name followed by a payload. The
// boundary after the name must not be an identifier character, so
// $respondent is never a truncated $respond.
func directivePayload(line, name string) (string, bool) {
	if !strings.HasPrefix(line, name) {
		return "", false
	}
	rest := line[len(name):]
	if rest == "" {
		return "", false
	}
	ch := rest[0]
	if ch == ' ' || ch == '\t' || ch == '(' {
		return rest, true
	}
	return "", false
}

// classifyConditional locates the first unconsumed top-level colon that
// terminates the guard, then classifies the tail by the same rule set,
// so any directive may be conditional.
func classifyConditional(exprText string) (*ProcessedFact, error) {
	_, next, err := parser.ParseLazy(exprText)
	if err != nil {
		return nil, err
	}

	if !next.IsOperator(":") {
		return nil, fclerrors.New(fclerrors.ErrorTypeParse, next.Position,
			"Expected ':' after $if guard").WithSource(exprText)
	}

	guard := strings.TrimSpace(exprText[:next.Position])
	rest := exprText[next.End():]

	inner, err := Classify(rest)
	if err != nil {
		return nil, err
	}

	if inner.Conditional {
		// Nested $if: both guards must pass.
		inner.Guard = "(" + guard + ") && (" + inner.Guard + ")"
	} else {
		inner.Conditional = true
		inner.Guard = guard
	}
	return inner, nil
}

func classifyRespond(trimmed string) (*ProcessedFact, bool) {
	if trimmed == "$respond" {
		return &ProcessedFact{Directive: DirectiveRespond, Respond: true}, true
	}
	rest, ok := directivePayload(trimmed, "$respond")
	if !ok {
		return nil, false
	}
	switch strings.TrimSpace(rest) {
	case "", "true":
		return &ProcessedFact{Directive: DirectiveRespond, Respond: true}, true
	case "false":
		return &ProcessedFact{Directive: DirectiveRespond, Respond: false}, true
	}
	// Any other suffix is plain text.
	return plainFact(trimmed), true
}

func classifyStream(trimmed string) (*ProcessedFact, bool) {
	if trimmed == "$stream" {
		return &ProcessedFact{Directive: DirectiveStream, Stream: &StreamSpec{Delimiters: []string{"\n"}}}, true
	}
	rest, ok := directivePayload(trimmed, "$stream")
	if !ok {
		return nil, false
	}

	spec := &StreamSpec{}
	rest = strings.TrimSpace(rest)
	if word, tail, found := strings.Cut(rest, " "); found && word == "full" {
		spec.Full = true
		rest = strings.TrimSpace(tail)
	} else if rest == "full" {
		spec.Full = true
		rest = ""
	}

	delims, ok := parseQuotedList(rest, false)
	if !ok {
		return plainFact(trimmed), true
	}
	if len(delims) == 0 {
		delims = []string{"\n"}
	}
	spec.Delimiters = delims
	return &ProcessedFact{Directive: DirectiveStream, Stream: spec}, true
}

func classifyMemory(trimmed string) (*ProcessedFact, bool) {
	if trimmed == "$memory" {
		return &ProcessedFact{Directive: DirectiveMemory, Memory: MemoryNone}, true
	}
	rest, ok := directivePayload(trimmed, "$memory")
	if !ok {
		return nil, false
	}
	switch MemoryScope(strings.TrimSpace(rest)) {
	case MemoryNone, MemoryChannel, MemoryGuild, MemoryGlobal:
		return &ProcessedFact{Directive: DirectiveMemory, Memory: MemoryScope(strings.TrimSpace(rest))}, true
	}
	return plainFact(trimmed), true
}

// classifyModel requires exactly one colon separating two nonempty
// sides; a payload that violates the shape is a format error, not a
// plain fact.
func classifyModel(trimmed, rest string) (*ProcessedFact, error) {
	payload := strings.TrimSpace(rest)
	provider, model, found := strings.Cut(payload, ":")
	if !found || strings.Contains(model, ":") ||
		strings.TrimSpace(provider) == "" || strings.TrimSpace(model) == "" {
		return nil, fclerrors.New(fclerrors.ErrorTypeFormat, 0,
			"Invalid $model payload %q: expected provider:model", payload)
	}
	return &ProcessedFact{
		Directive: DirectiveModel,
		Model:     &ModelSpec{Provider: strings.TrimSpace(provider), Model: strings.TrimSpace(model)},
	}, nil
}

func classifyStrip(trimmed string) (*ProcessedFact, bool) {
	if trimmed == "$strip" {
		// Bare $strip explicitly disables default stripping.
		return &ProcessedFact{Directive: DirectiveStrip, Strip: &StripSpec{Disabled: true}}, true
	}
	rest, ok := directivePayload(trimmed, "$strip")
	if !ok {
		return nil, false
	}
	patterns, listOK := parseQuotedList(strings.TrimSpace(rest), true)
	if !listOK || len(patterns) == 0 {
		return plainFact(trimmed), true
	}
	return &ProcessedFact{Directive: DirectiveStrip, Strip: &StripSpec{Patterns: patterns}}, true
}

func classifyPermission(trimmed string) (*ProcessedFact, bool) {
	for _, kind := range []PermissionKind{PermissionEdit, PermissionView, PermissionBlacklist, PermissionUse} {
		rest, ok := directivePayload(trimmed, "$"+string(kind))
		if !ok {
			continue
		}
		payload := strings.TrimSpace(rest)
		if payload == "" {
			return plainFact(trimmed), true
		}
		return &ProcessedFact{
			Directive:  DirectivePermission,
			Permission: &PermissionDirective{Kind: kind, List: parsePermissionList(payload)},
		}, true
	}
	return nil, false
}

func parsePermissionList(payload string) PermissionList {
	if payload == "@everyone" || payload == "everyone" {
		return PermissionList{Everyone: true}
	}
	var entries []string
	for _, entry := range strings.Split(payload, ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			entries = append(entries, entry)
		}
	}
	return PermissionList{Entries: entries}
}

// parseQuotedList parses a run of quoted strings separated by spaces.
// With unescape set, \n, \t, and \\ decode to their control forms (the
// $strip convention); otherwise a backslash escapes the next character
// verbatim. Unquoted junk fails the parse.
func parseQuotedList(s string, unescape bool) ([]string, bool) {
	var items []string
	i := 0
	for i < len(s) {
		switch s[i] {
		case ' ', '\t':
			i++
		case '"', '\'':
			quote := s[i]
			i++
			var sb strings.Builder
			closed := false
			for i < len(s) {
				ch := s[i]
				if ch == quote {
					closed = true
					i++
					break
				}
				if ch == '\\' && i+1 < len(s) {
					next := s[i+1]
					if unescape {
						switch next {
						case 'n':
							sb.WriteByte('\n')
						case 't':
							sb.WriteByte('\t')
						case '\\':
							sb.WriteByte('\\')
						default:
							sb.WriteByte(next)
						}
					} else {
						sb.WriteByte(next)
					}
					i += 2
					continue
				}
				sb.WriteByte(ch)
				i++
			}
			if !closed {
				return nil, false
			}
			items = append(items, sb.String())
		default:
			return nil, false
		}
	}
	return items, true
}
