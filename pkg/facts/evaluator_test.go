package facts

import (
	"reflect"
	"testing"

	"persona-hq/animus/pkg/fcl"
	"persona-hq/animus/pkg/fcl/compiler"
)

func newTestEvaluator() *Evaluator {
	return NewEvaluator(fcl.NewEngine())
}

func TestEvaluateRespondLastWins(t *testing.T) {
	ev := newTestEvaluator()
	result, err := ev.Evaluate([]string{"$respond false", "$respond"}, &compiler.EvalContext{})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if result.Respond == nil || !*result.Respond {
		t.Errorf("Respond = %v, want true (last occurrence wins)", result.Respond)
	}
	if result.RespondSource != "$respond" {
		t.Errorf("RespondSource = %q", result.RespondSource)
	}
}

func TestEvaluateRetryHalts(t *testing.T) {
	ev := newTestEvaluator()
	result, err := ev.Evaluate(
		[]string{"is a fact", "$retry 3000", "never reached"},
		&compiler.EvalContext{})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if !reflect.DeepEqual(result.Facts, []string{"is a fact"}) {
		t.Errorf("Facts = %q", result.Facts)
	}
	if result.RetryMS == nil || *result.RetryMS != 3000 {
		t.Errorf("RetryMS = %v, want 3000", result.RetryMS)
	}
}

func TestEvaluateConditionalRespondUnset(t *testing.T) {
	ev := newTestEvaluator()
	result, err := ev.Evaluate(
		[]string{"$if mentioned: $respond"},
		&compiler.EvalContext{Mentioned: false})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if len(result.Facts) != 0 {
		t.Errorf("Facts = %q, want empty", result.Facts)
	}
	if result.Respond != nil {
		t.Errorf("Respond = %v, want unset", *result.Respond)
	}
}

func TestEvaluateGuards(t *testing.T) {
	ev := newTestEvaluator()
	ctx := &compiler.EvalContext{
		Mentioned: true,
		Health:    0.3,
		Facts:     map[string]string{"cursed": "yes"},
	}
	result, err := ev.Evaluate([]string{
		"always visible",
		"$if mentioned: greets you by name",
		"$if health > 0.5: feels fine",
		`$if has_fact("cursed"): mutters about the curse`,
	}, ctx)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	want := []string{
		"always visible",
		"greets you by name",
		"mutters about the curse",
	}
	if !reflect.DeepEqual(result.Facts, want) {
		t.Errorf("Facts = %q, want %q", result.Facts, want)
	}
}

func TestEvaluateCommentsDropped(t *testing.T) {
	ev := newTestEvaluator()
	result, err := ev.Evaluate([]string{
		"// authoring note",
		"//$retry 1000",
		"real fact",
	}, &compiler.EvalContext{})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if !reflect.DeepEqual(result.Facts, []string{"real fact"}) {
		t.Errorf("Facts = %q", result.Facts)
	}
	if result.RetryMS != nil {
		t.Error("commented-out $retry must not apply")
	}
}

func TestEvaluateIndentedSigilIsAFact(t *testing.T) {
	// The comment check reads the first two characters only, so an
	// indented sigil is ordinary authored text.
	ev := newTestEvaluator()
	result, err := ev.Evaluate([]string{"  // not a comment"}, &compiler.EvalContext{})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if !reflect.DeepEqual(result.Facts, []string{"// not a comment"}) {
		t.Errorf("Facts = %q", result.Facts)
	}
}

func TestEvaluateLocked(t *testing.T) {
	ev := newTestEvaluator()
	result, err := ev.Evaluate([]string{
		"$locked",
		"$locked has a dark secret",
		"public fact",
	}, &compiler.EvalContext{})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if !result.EntityLocked {
		t.Error("EntityLocked not set")
	}
	want := []string{"has a dark secret", "public fact"}
	if !reflect.DeepEqual(result.Facts, want) {
		t.Errorf("Facts = %q, want %q", result.Facts, want)
	}
	if !result.LockedFacts["has a dark secret"] {
		t.Error("locked fact missing from locked set")
	}
	if result.LockedFacts["public fact"] {
		t.Error("public fact wrongly locked")
	}
}

func TestEvaluateSlots(t *testing.T) {
	ev := newTestEvaluator()
	result, err := ev.Evaluate([]string{
		"$avatar https://example.test/a.png",
		"$avatar https://example.test/b.png",
		"$memory channel",
		"$stream full",
		"$context 4k",
		"$model openai:gpt-4o",
		"$freeform",
		`$strip "\n\n"`,
		"$use @everyone",
	}, &compiler.EvalContext{})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if result.Avatar != "https://example.test/b.png" {
		t.Errorf("Avatar = %q, want second occurrence", result.Avatar)
	}
	if result.Memory != MemoryChannel {
		t.Errorf("Memory = %q", result.Memory)
	}
	if result.Stream == nil || !result.Stream.Full {
		t.Errorf("Stream = %+v", result.Stream)
	}
	if result.Filter != "chars < 4000" {
		t.Errorf("Filter = %q", result.Filter)
	}
	if result.Model == nil || result.Model.Model != "gpt-4o" {
		t.Errorf("Model = %+v", result.Model)
	}
	if !result.Freeform {
		t.Error("Freeform not set")
	}
	if result.Strip == nil || len(result.Strip.Patterns) != 1 {
		t.Errorf("Strip = %+v", result.Strip)
	}
	if len(result.Facts) != 0 {
		t.Errorf("directives leaked into visible facts: %q", result.Facts)
	}
}

type recordingTracer struct {
	lines  []string
	guards []string
}

func (r *recordingTracer) TraceGuardError(line, guard string, err error) {
	r.lines = append(r.lines, line)
	r.guards = append(r.guards, guard)
}

type recordingObserver struct {
	evaluations   []error
	directives    []string
	guardFailures int
}

func (r *recordingObserver) ObserveEvaluation(err error) { r.evaluations = append(r.evaluations, err) }
func (r *recordingObserver) ObserveDirective(kind string) {
	r.directives = append(r.directives, kind)
}
func (r *recordingObserver) ObserveGuardFailure() { r.guardFailures++ }

func TestEvaluateObserved(t *testing.T) {
	obs := &recordingObserver{}
	ev := newTestEvaluator().WithObserver(obs)

	lines := []string{
		"likes tea",
		"$stream full",
		"$model openai/gpt-4o",
	}
	if _, err := ev.Evaluate(lines, &compiler.EvalContext{}); err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}

	if len(obs.evaluations) != 1 || obs.evaluations[0] != nil {
		t.Errorf("evaluations = %v, want one nil outcome", obs.evaluations)
	}
	want := []string{"stream", "model"}
	if len(obs.directives) != len(want) {
		t.Fatalf("directives = %q, want %q", obs.directives, want)
	}
	for i, kind := range want {
		if obs.directives[i] != kind {
			t.Errorf("directives[%d] = %q, want %q", i, obs.directives[i], kind)
		}
	}
	if obs.guardFailures != 0 {
		t.Errorf("guardFailures = %d, want 0", obs.guardFailures)
	}
}

func TestEvaluateObservedGuardFailure(t *testing.T) {
	obs := &recordingObserver{}
	ev := newTestEvaluator().WithObserver(obs)

	_, err := ev.Evaluate([]string{"$if no_such_field: hidden"}, &compiler.EvalContext{})
	if err == nil {
		t.Fatal("Evaluate succeeded, want unknown identifier error")
	}
	if obs.guardFailures != 1 {
		t.Errorf("guardFailures = %d, want 1", obs.guardFailures)
	}
	if len(obs.evaluations) != 1 || obs.evaluations[0] == nil {
		t.Errorf("evaluations = %v, want one failed outcome", obs.evaluations)
	}
}

func TestEvaluateGuardErrorTraced(t *testing.T) {
	tracer := &recordingTracer{}
	ev := newTestEvaluator().WithTracer(tracer)
	_, err := ev.Evaluate([]string{"$if no_such_field: hidden"}, &compiler.EvalContext{})
	if err == nil {
		t.Fatal("Evaluate succeeded, want unknown identifier error")
	}
	if len(tracer.lines) != 1 || tracer.guards[0] != "no_such_field" {
		t.Errorf("tracer saw %q / %q", tracer.lines, tracer.guards)
	}
}
