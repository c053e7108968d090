// Package fcl is the entry point for the Fact Conditional Language: the
// restricted expression language embedded in character definitions.
//
// End-user-authored characters can contain conditional logic ("respond
// only if mentioned", "show this trait 30% of the time", "lock below
// half health") without gaining access to the host runtime or unbounded
// compute. Expressions compile through a sandbox gate and evaluate as
// pure functions of an EvalContext.
//
// # Basic Usage
//
//	engine := fcl.NewEngine()
//
//	ok, err := engine.EvaluateBoolean("mentioned && random() < 0.3", &compiler.EvalContext{
//	    Mentioned: true,
//	})
//
// Package-level Compile, EvaluateBoolean, and EvaluateValue operate on a
// shared process-wide engine.
package fcl
