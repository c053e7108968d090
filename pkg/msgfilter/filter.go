package msgfilter

import (
	"time"

	"persona-hq/animus/pkg/fcl/compiler"
)

// Identifiers is the closed identifier set of the filter sub-language.
var Identifiers = []string{"chars", "count", "age", "age_h", "age_m", "age_s"}

// Totals are the running totals a filter predicate sees. Chars and
// Count accumulate over the messages included so far plus the
// candidate; the age fields describe the candidate message.
type Totals struct {
	Chars int           // Total characters including the candidate
	Count int           // Total messages including the candidate
	Age   time.Duration // Age of the candidate message
}

// Predicate decides whether a candidate message, described by the
// running totals, may be included.
type Predicate func(Totals) (bool, error)

// Compile translates a filter expression into a predicate. Identifiers
// outside the sub-language's six numeric names are rejected at compile
// time.
func Compile(source string) (Predicate, error) {
	compiled, err := compiler.CompileRestricted(source, Identifiers)
	if err != nil {
		return nil, err
	}

	return func(t Totals) (bool, error) {
		v, err := compiled.EvalFields(map[string]any{
			"chars": float64(t.Chars),
			"count": float64(t.Count),
			"age":   float64(t.Age.Milliseconds()),
			"age_h": t.Age.Hours(),
			"age_m": t.Age.Minutes(),
			"age_s": t.Age.Seconds(),
		})
		if err != nil {
			return false, err
		}
		return compiler.Truthy(v), nil
	}, nil
}

// Message is one candidate from chat history, newest first.
type Message struct {
	Content string
	SentAt  time.Time
}

// Select walks messages newest-first and returns how many to include.
// The first message is always included, even when it alone fails the
// predicate; afterwards selection stops at the first failing message.
func Select(pred Predicate, messages []Message, now time.Time) (int, error) {
	totals := Totals{}

	for i, msg := range messages {
		totals.Chars += len(msg.Content)
		totals.Count++
		totals.Age = now.Sub(msg.SentAt)

		ok, err := pred(totals)
		if err != nil {
			return i, err
		}
		if !ok && i > 0 {
			return i, nil
		}
	}

	return len(messages), nil
}
