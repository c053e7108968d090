package fcl

import (
	"time"

	"persona-hq/animus/pkg/fcl/compiler"
)

// Observer receives compile and evaluation outcomes. The telemetry
// metrics package implements it; a nil observer costs nothing.
type Observer interface {
	ObserveCompile(duration time.Duration, cacheHit bool, err error)
	ObserveEvaluation(duration time.Duration, err error)
}

// Engine owns the process-wide compiled-expression cache and an
// optional observer. Engines are safe for concurrent use.
type Engine struct {
	cache    *compiler.Cache
	observer Observer
}

// NewEngine creates an engine with an empty cache.
func NewEngine() *Engine {
	return &Engine{cache: compiler.NewCache()}
}

// WithObserver attaches an observer and returns the engine.
func (e *Engine) WithObserver(obs Observer) *Engine {
	e.observer = obs
	return e
}

// CacheSize returns the number of memoized expressions.
func (e *Engine) CacheSize() int {
	return e.cache.Len()
}

// Compile returns the cached predicate for the source text, compiling
// on first use. Compiling the same source twice returns the identical
// callable.
func (e *Engine) Compile(source string) (*compiler.Compiled, error) {
	return e.CompileWithExtras(source, nil)
}

// CompileWithExtras compiles with an explicit extra-identifier
// capability set; the cache key includes the deterministically ordered
// set.
func (e *Engine) CompileWithExtras(source string, extras []string) (*compiler.Compiled, error) {
	start := time.Now()
	compiled, hit, err := e.cache.GetOrCompile(source, extras)
	if e.observer != nil {
		e.observer.ObserveCompile(time.Since(start), hit, err)
	}
	return compiled, err
}

// EvaluateBoolean compiles (or fetches) the expression and reports its
// truthiness against the context.
func (e *Engine) EvaluateBoolean(source string, ctx *compiler.EvalContext) (bool, error) {
	compiled, err := e.Compile(source)
	if err != nil {
		return false, err
	}

	start := time.Now()
	result, err := compiled.EvalBool(ctx)
	if e.observer != nil {
		e.observer.ObserveEvaluation(time.Since(start), err)
	}
	return result, err
}

// EvaluateValue compiles (or fetches) the expression and renders its
// result as a string. This is the value-evaluation entry point the
// macro-substitution pass expands {{ }} placeholders through.
func (e *Engine) EvaluateValue(source string, ctx *compiler.EvalContext) (string, error) {
	return e.EvaluateValueWithExtras(source, ctx, nil)
}

// EvaluateValueWithExtras is EvaluateValue with an extra-identifier
// capability set, for placeholders that reference macro-local names.
func (e *Engine) EvaluateValueWithExtras(source string, ctx *compiler.EvalContext, extras []string) (string, error) {
	compiled, err := e.CompileWithExtras(source, extras)
	if err != nil {
		return "", err
	}

	start := time.Now()
	result, err := compiled.EvalString(ctx)
	if e.observer != nil {
		e.observer.ObserveEvaluation(time.Since(start), err)
	}
	return result, err
}

// defaultEngine backs the package-level convenience functions.
var defaultEngine = NewEngine()

// Compile compiles source on the shared process-wide engine.
func Compile(source string) (*compiler.Compiled, error) {
	return defaultEngine.Compile(source)
}

// EvaluateBoolean evaluates source as a predicate on the shared engine.
func EvaluateBoolean(source string, ctx *compiler.EvalContext) (bool, error) {
	return defaultEngine.EvaluateBoolean(source, ctx)
}

// EvaluateValue evaluates source as a value on the shared engine.
func EvaluateValue(source string, ctx *compiler.EvalContext) (string, error) {
	return defaultEngine.EvaluateValue(source, ctx)
}
