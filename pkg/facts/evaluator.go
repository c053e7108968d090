package facts

import (
	"log/slog"
	"strings"

	"persona-hq/animus/pkg/fcl"
	"persona-hq/animus/pkg/fcl/compiler"
)

// Tracer records per-fact guard failures for debugging. The evaluator
// never swallows a guard error; a tracer sees it before the caller
// does.
type Tracer interface {
	TraceGuardError(line, guard string, err error)
}

// Observer counts evaluator activity. FactMetrics in
// pkg/telemetry/metrics satisfies it.
type Observer interface {
	ObserveEvaluation(err error)
	ObserveDirective(kind string)
	ObserveGuardFailure()
}

// Evaluator runs fact lists against a context. The zero value is not
// usable; construct with NewEvaluator.
type Evaluator struct {
	engine   *fcl.Engine
	logger   *slog.Logger
	tracer   Tracer
	observer Observer
}

// NewEvaluator creates an evaluator over an expression engine. A nil
// engine falls back to a private one.
func NewEvaluator(engine *fcl.Engine) *Evaluator {
	if engine == nil {
		engine = fcl.NewEngine()
	}
	return &Evaluator{engine: engine, logger: slog.Default()}
}

// WithLogger attaches a logger and returns the evaluator.
func (ev *Evaluator) WithLogger(logger *slog.Logger) *Evaluator {
	if logger != nil {
		ev.logger = logger
	}
	return ev
}

// WithTracer attaches a guard-failure tracer and returns the evaluator.
func (ev *Evaluator) WithTracer(tracer Tracer) *Evaluator {
	ev.tracer = tracer
	return ev
}

// WithObserver attaches an activity observer and returns the evaluator.
func (ev *Evaluator) WithObserver(observer Observer) *Evaluator {
	ev.observer = observer
	return ev
}

// IsComment reports whether the line is dropped before classification.
// Only the first two characters count; an indented sigil is authored
// text and classifies like any other line.
func IsComment(line string) bool {
	return strings.HasPrefix(line, CommentSigil)
}

// Evaluate processes fact lines top to bottom against the context.
//
// Comments are dropped first. Each conditional guard is evaluated
// through the sandboxed compiler; a false guard skips the line, a guard
// error aborts evaluation after the tracer has seen it. Passing
// directives each overwrite their slot so the last passing occurrence
// wins; $retry halts processing immediately; permission directives are
// consumed by ParsePermissions and contribute nothing here. Everything
// else is appended to the visible list in original order.
func (ev *Evaluator) Evaluate(lines []string, ctx *compiler.EvalContext) (*EvaluatedFacts, error) {
	result, err := ev.evaluate(lines, ctx)
	if ev.observer != nil {
		ev.observer.ObserveEvaluation(err)
	}
	return result, err
}

func (ev *Evaluator) evaluate(lines []string, ctx *compiler.EvalContext) (*EvaluatedFacts, error) {
	result := &EvaluatedFacts{
		LockedFacts: make(map[string]bool),
	}

	for _, line := range lines {
		if IsComment(line) || strings.TrimSpace(line) == "" {
			continue
		}

		fact, err := Classify(line)
		if err != nil {
			return nil, err
		}

		if fact.Conditional {
			pass, guardErr := ev.engine.EvaluateBoolean(fact.Guard, ctx)
			if guardErr != nil {
				if ev.observer != nil {
					ev.observer.ObserveGuardFailure()
				}
				if ev.tracer != nil {
					ev.tracer.TraceGuardError(line, fact.Guard, guardErr)
				}
				ev.logger.Debug("guard evaluation failed",
					"guard", fact.Guard, "error", guardErr)
				return nil, guardErr
			}
			if !pass {
				continue
			}
		}

		halt := ev.apply(result, line, fact)
		if halt {
			break
		}
	}

	return result, nil
}

// apply folds one passing fact into the aggregate and reports whether
// processing halts.
func (ev *Evaluator) apply(result *EvaluatedFacts, line string, fact *ProcessedFact) bool {
	if ev.observer != nil && fact.Directive != DirectiveNone {
		ev.observer.ObserveDirective(string(fact.Directive))
	}
	switch fact.Directive {
	case DirectiveNone:
		result.Facts = append(result.Facts, fact.Content)
		if fact.Locked {
			result.LockedFacts[fact.Content] = true
		}
	case DirectiveEntityLock:
		result.EntityLocked = true
	case DirectiveRespond:
		respond := fact.Respond
		result.Respond = &respond
		result.RespondSource = line
	case DirectiveRetry:
		ms := fact.RetryMS
		result.RetryMS = &ms
		return true
	case DirectiveAvatar:
		result.Avatar = fact.Avatar
	case DirectiveStream:
		result.Stream = fact.Stream
	case DirectiveMemory:
		result.Memory = fact.Memory
	case DirectiveContext:
		result.Filter = fact.Filter
	case DirectiveFreeform:
		result.Freeform = true
	case DirectiveModel:
		result.Model = fact.Model
	case DirectiveStrip:
		result.Strip = fact.Strip
	case DirectivePermission:
		// Consumed by ParsePermissions.
	}
	return false
}
