package compiler

import (
	"strings"
	"testing"

	fclerrors "persona-hq/animus/pkg/fcl/errors"
)

func TestStringMethods(t *testing.T) {
	ctx := &EvalContext{Name: "Iris the Bold"}
	tests := []struct {
		src  string
		want any
	}{
		{`name.includes("Bold")`, true},
		{`name.includes("bold")`, false},
		{`name.toLowerCase().includes("bold")`, true},
		{`name.toUpperCase()`, "IRIS THE BOLD"},
		{`name.startsWith("Iris")`, true},
		{`name.endsWith("Bold")`, true},
		{`name.indexOf("the")`, float64(5)},
		{`name.indexOf("zzz")`, float64(-1)},
		{`"  padded  ".trim()`, "padded"},
		{`name.slice(0, 4)`, "Iris"},
		{`name.slice(-4)`, "Bold"},
		{`name.charAt(0)`, "I"},
		{`name.charAt(99)`, ""},
		{`"ab".repeat(3)`, "ababab"},
		{`"5".padStart(3, "0")`, "005"},
		{`"5".padEnd(3)`, "5  "},
	}
	for _, tt := range tests {
		if got := evalSrc(t, tt.src, ctx); got != tt.want {
			t.Errorf("%q = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestPatternMethods(t *testing.T) {
	ctx := &EvalContext{Name: "dragon rider 42"}
	tests := []struct {
		src  string
		want any
	}{
		{`name.match("[0-9]+")`, "42"},
		{`name.match("^cat")`, nil},
		{`name.search("rider")`, float64(7)},
		{`name.search("^cat")`, float64(-1)},
		{`name.replace("[0-9]+", "#")`, "dragon rider #"},
		{`"a-b-c".replaceAll("-", "+")`, "a+b+c"},
		{`"a b c".split(" ").length`, float64(3)},
		{`"a b c".split(" ").join("-")`, "a-b-c"},
		{`"a b c".split(" ").join()`, "a,b,c"},
	}
	for _, tt := range tests {
		if got := evalSrc(t, tt.src, ctx); got != tt.want {
			t.Errorf("%q = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestPatternArgumentMustBeLiteral(t *testing.T) {
	for _, src := range []string{
		`name.match(name)`,
		`name.split(name + "x")`,
		`name.replace(name, "y")`,
		`name.match(1)`,
	} {
		_, err := Compile(src)
		if err == nil || !fclerrors.IsType(err, fclerrors.ErrorTypeSandbox) {
			t.Errorf("Compile(%q) = %v, want sandbox error for non-literal pattern", src, err)
		}
	}
}

func TestBlockedAndUnknownMethods(t *testing.T) {
	_, err := Compile(`name.matchAll("x")`)
	if err == nil || !fclerrors.IsType(err, fclerrors.ErrorTypeSandbox) {
		t.Fatalf("matchAll should be blocked, got %v", err)
	}
	if fe := err.(*fclerrors.Error); fe.Suggestion == "" {
		t.Error("blocked method should carry a redirect hint")
	}

	_, err = Compile(`name.eval("x")`)
	if err == nil || !fclerrors.IsType(err, fclerrors.ErrorTypeSandbox) {
		t.Errorf("unknown method should be rejected, got %v", err)
	}
}

func TestMethodArgumentCounts(t *testing.T) {
	for _, src := range []string{
		`name.includes()`,
		`name.includes("a", "b")`,
		`name.trim("x")`,
		`name.repeat()`,
	} {
		if _, err := Compile(src); err == nil {
			t.Errorf("Compile(%q) succeeded, want argument-count error", src)
		}
	}
}

func TestRepeatBounds(t *testing.T) {
	// A 10-character string repeated 20,000 times would be 200,000
	// characters; the limit error fires from the precomputed size,
	// before any allocation.
	ctx := &EvalContext{Name: "0123456789"}

	compiled, err := Compile("name.repeat(20000)")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	_, err = compiled.Eval(ctx)
	if err == nil || !fclerrors.IsType(err, fclerrors.ErrorTypeLimit) {
		t.Fatalf("oversized repeat = %v, want limit error", err)
	}

	compiled, err = Compile("name.repeat(5000)")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	v, err := compiled.Eval(ctx)
	if err != nil {
		t.Fatalf("in-bounds repeat error: %v", err)
	}
	if len(v.(string)) != 50000 {
		t.Errorf("repeat length = %d, want 50000", len(v.(string)))
	}
}

func TestRepeatBoundsHugeCounts(t *testing.T) {
	// Counts past the integer range must hit the limit error, not
	// overflow the conversion and panic inside strings.Repeat.
	ctx := &EvalContext{Name: "0123456789"}

	for _, src := range []string{
		"name.repeat(100000000000000000000)",
		"name.repeat(Infinity)",
	} {
		compiled, err := Compile(src)
		if err != nil {
			t.Fatalf("Compile(%q) error: %v", src, err)
		}
		if _, err := compiled.Eval(ctx); !fclerrors.IsType(err, fclerrors.ErrorTypeLimit) {
			t.Errorf("Eval(%q) = %v, want limit error", src, err)
		}
	}
}

func TestPadBounds(t *testing.T) {
	ctx := &EvalContext{Name: "x"}
	compiled, err := Compile("name.padStart(200000)")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if _, err := compiled.Eval(ctx); !fclerrors.IsType(err, fclerrors.ErrorTypeLimit) {
		t.Errorf("oversized pad = %v, want limit error", err)
	}

	// A target past the integer range must raise the same limit error,
	// not wrap negative and silently return the receiver.
	compiled, err = Compile("name.padStart(100000000000000000000)")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if _, err := compiled.Eval(ctx); !fclerrors.IsType(err, fclerrors.ErrorTypeLimit) {
		t.Errorf("out-of-range pad = %v, want limit error", err)
	}
}

func TestReplaceAllBounds(t *testing.T) {
	ctx := &EvalContext{Name: strings.Repeat("a", 50000)}
	compiled, err := Compile(`name.replaceAll("a", "bbbb")`)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if _, err := compiled.Eval(ctx); !fclerrors.IsType(err, fclerrors.ErrorTypeLimit) {
		t.Errorf("oversized replaceAll = %v, want limit error", err)
	}
}

func TestJoinBounds(t *testing.T) {
	ctx := &EvalContext{Name: strings.Repeat("a ", 40000)}
	compiled, err := Compile(`name.split(" ").join("xxxx")`)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if _, err := compiled.Eval(ctx); !fclerrors.IsType(err, fclerrors.ErrorTypeLimit) {
		t.Errorf("oversized join = %v, want limit error", err)
	}
}

func TestJoinRequiresArray(t *testing.T) {
	compiled, err := Compile(`name.join(",")`)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if _, err := compiled.Eval(&EvalContext{Name: "abc"}); !fclerrors.IsType(err, fclerrors.ErrorTypeRuntime) {
		t.Errorf("join on a string = %v, want runtime error", err)
	}
}

func TestReplaceCaptureGroups(t *testing.T) {
	ctx := &EvalContext{Name: "John Smith"}
	got := evalSrc(t, `name.replace("(\\w+) (\\w+)", "$2 $1")`, ctx)
	if got != "Smith John" {
		t.Errorf("capture replace = %v, want Smith John", got)
	}
}
