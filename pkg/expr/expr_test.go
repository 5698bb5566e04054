package expr

import (
	"math"
	"strings"
	"testing"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"
)

func TestEvalConstant(t *testing.T) {
	eng := New()

	v, err := eng.Eval("7", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 7 {
		t.Errorf("got %v, want 7", v)
	}
}

func TestEvalArithmetic(t *testing.T) {
	eng := New()

	tests := []struct {
		source string
		want   float64
	}{
		{"(+ 1 2)", 3},
		{"(* 4 5)", 20},
		{"(- 10 3)", 7},
		{"(+ 1.5 2.5)", 4},
	}
	for _, tt := range tests {
		v, err := eng.Eval(tt.source, nil)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.source, err)
		}
		if v != tt.want {
			t.Errorf("%s = %v, want %v", tt.source, v, tt.want)
		}
	}
}

func TestEvalVariables(t *testing.T) {
	eng := New()

	v, err := eng.Eval("(+ a b)", map[string]float64{"a": 2, "b": 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 5 {
		t.Errorf("got %v, want 5", v)
	}
}

func TestEvalKebabVariable(t *testing.T) {
	eng := New()

	// Slot names may carry hyphens; both the binding and the expression
	// text get the same underscore mangling.
	v, err := eng.Eval("(* side-len 2)", map[string]float64{"side-len": 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 8 {
		t.Errorf("got %v, want 8", v)
	}
}

func TestEvalLastFormWins(t *testing.T) {
	eng := New()

	source := `
(def x 10)
(def y 20)
(+ x y)
`
	v, err := eng.Eval(source, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 30 {
		t.Errorf("got %v, want 30", v)
	}
}

func TestEvalLineComment(t *testing.T) {
	eng := New()

	v, err := eng.Eval("(+ 1 2) ; the sum", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 3 {
		t.Errorf("got %v, want 3", v)
	}
}

func TestEvalEmptySource(t *testing.T) {
	eng := New()

	if _, err := eng.Eval("", nil); err == nil {
		t.Fatal("expected error for empty expression")
	}
	if _, err := eng.Eval("   \n\t ", nil); err == nil {
		t.Fatal("expected error for whitespace-only expression")
	}
}

func TestEvalSyntaxError(t *testing.T) {
	eng := New()

	_, err := eng.Eval("(+ 1 2", nil)
	if err == nil {
		t.Fatal("expected error for unmatched paren")
	}
	if !strings.Contains(err.Error(), "expr:") {
		t.Errorf("error should carry the expr prefix, got: %v", err)
	}
}

func TestEvalUndefinedSymbol(t *testing.T) {
	eng := New()

	if _, err := eng.Eval("(+ 1 nonesuch)", nil); err == nil {
		t.Fatal("expected error for undefined symbol")
	}
}

func TestEvalNonNumericResult(t *testing.T) {
	eng := New()

	_, err := eng.Eval(`"hello"`, nil)
	if err == nil {
		t.Fatal("expected error for non-numeric result")
	}
	if !strings.Contains(err.Error(), "not a number") {
		t.Errorf("expected 'not a number' in error, got: %v", err)
	}
}

func TestEvalRejectsNonFiniteVariable(t *testing.T) {
	eng := New()

	if _, err := eng.Eval("a", map[string]float64{"a": math.NaN()}); err == nil {
		t.Fatal("expected error for NaN variable")
	}
	if _, err := eng.Eval("a", map[string]float64{"a": math.Inf(1)}); err == nil {
		t.Fatal("expected error for infinite variable")
	}
}

func TestEvalDeterministic(t *testing.T) {
	eng := New()

	for i := 0; i < 5; i++ {
		v, err := eng.Eval("(+ a 1)", map[string]float64{"a": 41})
		if err != nil {
			t.Fatalf("iteration %d: unexpected error: %v", i, err)
		}
		if v != 42 {
			t.Errorf("iteration %d: got %v, want 42", i, v)
		}
	}
}

func TestWaitOutcomeTimeout(t *testing.T) {
	ch := make(chan evalOutcome) // Never sends.

	_, err := waitOutcome(ch, 20*time.Millisecond)
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout error message, got: %v", err)
	}
}

func TestPrelude(t *testing.T) {
	pre, lines := prelude(map[string]float64{"b": 2.5, "a": 1})
	if lines != 2 {
		t.Errorf("lines = %d, want 2", lines)
	}
	// Sorted order keeps reported line numbers stable.
	want := "(def a 1)\n(def b 2.5)\n"
	if pre != want {
		t.Errorf("prelude = %q, want %q", pre, want)
	}

	pre, lines = prelude(nil)
	if pre != "" || lines != 0 {
		t.Errorf("empty vars should produce no prelude, got %q, %d", pre, lines)
	}
}

func TestCleanError(t *testing.T) {
	tests := []struct {
		name    string
		msg     string
		prelude int
		want    string
	}{
		{
			name:    "line shifted past prelude",
			msg:     "Error on line 5: unexpected token",
			prelude: 2,
			want:    "line 3: unexpected token",
		},
		{
			name:    "line clamped to one",
			msg:     "error on line 1: bad form",
			prelude: 3,
			want:    "line 1: bad form",
		},
		{
			name:    "no line info",
			msg:     "some generic error",
			prelude: 2,
			want:    "some generic error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanError(errString(tt.msg), tt.prelude)
			if got != tt.want {
				t.Errorf("cleanError = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToFloat64(t *testing.T) {
	v, err := toFloat64(&zygo.SexpInt{Val: 7})
	if err != nil || v != 7 {
		t.Errorf("SexpInt: got %v, %v", v, err)
	}
	v, err = toFloat64(&zygo.SexpFloat{Val: 2.5})
	if err != nil || v != 2.5 {
		t.Errorf("SexpFloat: got %v, %v", v, err)
	}
	if _, err = toFloat64(&zygo.SexpStr{S: "nope"}); err == nil {
		t.Error("SexpStr should not convert")
	}
	if _, err = toFloat64(zygo.SexpNull); err == nil {
		t.Error("SexpNull should not convert")
	}
}

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"comment", "(+ 1 2) ; sum", "(+ 1 2) // sum"},
		{"kebab identifier", "(* side-len 2)", "(* side_len 2)"},
		{"minus operator untouched", "(- 10 3)", "(- 10 3)"},
		{"string literal untouched", `(concat "a-b" x)`, `(concat "a-b" x)`},
		{"escaped quote in string", `"a\"-b"`, `"a\"-b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preprocess(tt.source); got != tt.want {
				t.Errorf("preprocess(%q) = %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}

// errString is a simple error type for testing.
type errString string

func (e errString) Error() string { return string(e) }
