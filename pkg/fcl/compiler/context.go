package compiler

import (
	"math/rand"
	"reflect"
	"time"

	"persona-hq/animus/pkg/dice"
	fclerrors "persona-hq/animus/pkg/fcl/errors"
)

// EvalContext is the closed record of named values an expression may
// reference. Its declared fields are the only legal identifier set for
// any expression compiled against it: the identifier gate's allow-list
// is assembled once from the `fcl` tags on this shape. The host supplies
// a context per call; the engine never mutates it.
//
// Any field the host does not populate keeps its zero value: it is
// simply unavailable to authors, never silently substituted.
type EvalContext struct {
	// Mentioned is true when the character was mentioned in the
	// triggering message.
	Mentioned bool `fcl:"mentioned"`

	// Name is the character's display name.
	Name string `fcl:"name"`

	// Facts is the character's own fact map, keyed by fact name.
	Facts map[string]string `fcl:"facts"`

	// Channel describes the channel the triggering message arrived in.
	Channel Channel `fcl:"channel"`

	// Server describes the server the channel belongs to.
	Server Server `fcl:"server"`

	// Now is the evaluation wall-clock time. Zero means time.Now().
	// Exposed to authors as an object with unix, hour, minute, and
	// weekday properties.
	Now time.Time `fcl:"now"`

	// Health is the character's current health fraction in [0,1].
	Health float64 `fcl:"health"`

	// MessageCount is the number of messages in the current channel
	// history window.
	MessageCount int `fcl:"message_count"`

	// TurnCount is the number of turns this character has taken in the
	// current conversation.
	TurnCount int `fcl:"turn_count"`

	// Random returns a uniform float in [0,1). Nil means the process
	// default source; callers accept statistical, not reproducible,
	// randomness.
	Random func() float64 `fcl:"random"`

	// HasFact reports whether the character has a fact with the given
	// name. Nil means a lookup against Facts.
	HasFact func(name string) bool `fcl:"has_fact"`

	// Roll rolls a dice expression and returns the result. Nil means
	// the built-in roller.
	Roll func(spec string) (float64, error) `fcl:"roll"`

	// Messages returns the text of the n-th most recent message, 0
	// being the triggering message. Nil means every lookup is empty.
	Messages func(n int) string `fcl:"messages"`

	// Extra carries values for identifiers granted through the
	// compile-time extra-identifier capability set. Names not granted
	// at compile time are unreachable regardless of what Extra holds.
	Extra map[string]any `fcl:"-"`
}

// Channel is the channel metadata visible to expressions.
type Channel struct {
	ID   string
	Name string
	NSFW bool
}

// Server is the server metadata visible to expressions.
type Server struct {
	ID   string
	Name string
}

// contextFields is the identifier allow-list, assembled once from the
// EvalContext shape's own field tags.
var contextFields = buildContextFields()

func buildContextFields() map[string]bool {
	fields := make(map[string]bool)
	t := reflect.TypeOf(EvalContext{})
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("fcl")
		if tag != "" && tag != "-" {
			fields[tag] = true
		}
	}
	return fields
}

// ContextFieldNames returns the declared identifier set, for diagnostics
// and linting.
func ContextFieldNames() []string {
	names := make([]string, 0, len(contextFields))
	for name := range contextFields {
		names = append(names, name)
	}
	return names
}

// fields builds the identifier → value map for one evaluation.
func (c *EvalContext) fields() map[string]any {
	now := c.Now
	if now.IsZero() {
		now = time.Now()
	}

	random := c.Random
	if random == nil {
		random = rand.Float64
	}

	hasFact := c.HasFact
	if hasFact == nil {
		hasFact = func(name string) bool {
			_, ok := c.Facts[name]
			return ok
		}
	}

	roll := c.Roll
	if roll == nil {
		roll = func(spec string) (float64, error) {
			n, err := dice.Roll(spec)
			return float64(n), err
		}
	}

	messages := c.Messages
	if messages == nil {
		messages = func(int) string { return "" }
	}

	facts := make(map[string]any, len(c.Facts))
	for k, v := range c.Facts {
		facts[k] = v
	}

	m := map[string]any{
		"mentioned": c.Mentioned,
		"name":      c.Name,
		"facts":     facts,
		"channel": map[string]any{
			"id":   c.Channel.ID,
			"name": c.Channel.Name,
			"nsfw": c.Channel.NSFW,
		},
		"server": map[string]any{
			"id":   c.Server.ID,
			"name": c.Server.Name,
		},
		"now": map[string]any{
			"unix":    float64(now.Unix()),
			"hour":    float64(now.Hour()),
			"minute":  float64(now.Minute()),
			"weekday": float64(now.Weekday()),
		},
		"health":        c.Health,
		"message_count": float64(c.MessageCount),
		"turn_count":    float64(c.TurnCount),
		"random": Func(func(args []any) (any, error) {
			return random(), nil
		}),
		"has_fact": Func(func(args []any) (any, error) {
			if len(args) != 1 {
				return nil, fclerrors.New(fclerrors.ErrorTypeRuntime, -1,
					"has_fact expects one argument")
			}
			return hasFact(ToString(args[0])), nil
		}),
		"roll": Func(func(args []any) (any, error) {
			if len(args) != 1 {
				return nil, fclerrors.New(fclerrors.ErrorTypeRuntime, -1,
					"roll expects one argument")
			}
			n, err := roll(ToString(args[0]))
			if err != nil {
				return nil, err
			}
			return n, nil
		}),
		"messages": Func(func(args []any) (any, error) {
			if len(args) != 1 {
				return nil, fclerrors.New(fclerrors.ErrorTypeRuntime, -1,
					"messages expects one argument")
			}
			return messages(int(ToNumber(args[0]))), nil
		}),
	}

	for name, value := range c.Extra {
		m[name] = value
	}

	return m
}
