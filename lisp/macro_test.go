package lisp

import (
	"io"
	"testing"
)

func TestQuasiquote(t *testing.T) {
	l := New(WithOutput(io.Discard))
	l.Load(`(def! a 8) (def! lst (list 2 3))`)
	for i, tt := range []struct {
		input string
		want  string
	}{
		{
			input: "`7",
			want:  "7",
		},
		{
			input: "`a",
			want:  "a",
		},
		{
			input: "`~a",
			want:  "8",
		},
		{
			input: "`(1 a 3)",
			want:  "(1 a 3)",
		},
		{
			input: "`(1 ~a 3)",
			want:  "(1 8 3)",
		},
		{
			input: "`(1 ~@lst 4)",
			want:  "(1 2 3 4)",
		},
		{
			input: "`(~@lst)",
			want:  "(2 3)",
		},
		{
			input: "`(nested (~a ~@lst))",
			want:  "(nested (8 2 3))",
		},
		{
			input: "`[1 ~a]",
			want:  "(1 8)",
		},
		{
			input: "`()",
			want:  "()",
		},
		{
			input: "(quasiquote (unquote (+ 1 2)))",
			want:  "3",
		},
	} {
		got, err := l.Rep(tt.input)
		if err != nil {
			t.Errorf("%d) eval error %v", i, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%d) got %s want %s", i, got, tt.want)
		}
	}
}

func TestQuasiquoteExpansion(t *testing.T) {
	for i, tt := range []struct {
		input string
		want  string
	}{
		{
			input: "x",
			want:  "(quote x)",
		},
		{
			input: "(unquote x)",
			want:  "x",
		},
		{
			input: "(a (splice-unquote b))",
			want:  "(cons (quote a) (concat b (quote ())))",
		},
	} {
		got, err := Quasiquote(mustParse(tt.input))
		if err != nil {
			t.Errorf("%d) %v", i, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("%d) got %s want %s", i, got, tt.want)
		}
	}
	if _, err := Quasiquote(mustParse("(unquote a b)")); !IsKind(err, SyntaxError) {
		t.Errorf("got %v want syntax error", err)
	}
}

func TestMacros(t *testing.T) {
	// NOTE: one shared global env for test, meaning order matters here!
	l := New(WithOutput(io.Discard))
	for i, tt := range []struct {
		input string
		want  string
	}{
		{
			input: "(defmacro! unless (fn* (pred a b) `(if ~pred ~b ~a)))",
			want:  "#<macro>",
		},
		{
			input: "(unless false 7 8)",
			want:  "7",
		},
		{
			input: "(macroexpand (unless PRED A B))",
			want:  "(if PRED B A)",
		},
		{
			input: "(macroexpand (+ 1 2))",
			want:  "(+ 1 2)",
		},
		{
			input: "(defmacro! identity-m (fn* (x) x))",
			want:  "#<macro>",
		},
		{
			input: "(identity-m (+ 1 2))",
			want:  "3",
		},
		{
			input: "(defmacro! twice-m (fn* (x) `(unless false ~x nil)))",
			want:  "#<macro>",
		},
		{
			input: "(macroexpand (twice-m 1))",
			want:  "(if false nil 1)",
		},
		{
			input: "(def! f (fn* (x) x))",
			want:  "#<function>",
		},
		{
			input: "(defmacro! g f)",
			want:  "#<macro>",
		},
		{
			input: "(list (fn? f) (macro? f) (fn? g) (macro? g))",
			want:  "(true false false true)",
		},
		{
			input: "(let* (cond 1) cond)",
			want:  "1",
		},
		{
			input: "(macroexpand (cond true 1))",
			want:  "(if true 1 (cond))",
		},
	} {
		got, err := l.Rep(tt.input)
		if err != nil {
			t.Errorf("%d) eval error %v", i, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%d) got %s want %s", i, got, tt.want)
		}
	}
}

func TestIsMacroCall(t *testing.T) {
	l := New(WithOutput(io.Discard))
	for i, tt := range []struct {
		input string
		want  bool
	}{
		{input: "(cond 1 2)", want: true},
		{input: "(not 1)", want: false},
		{input: "(undefined 1)", want: false},
		{input: "cond", want: false},
		{input: "()", want: false},
		{input: "((fn* (x) x) 1)", want: false},
	} {
		if got := IsMacroCall(mustParse(tt.input), l.Env); got != tt.want {
			t.Errorf("%d) got %v want %v", i, got, tt.want)
		}
	}
}
