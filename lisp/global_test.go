package lisp

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestPrimitives(t *testing.T) {
	// NOTE: one shared global env for test, meaning order matters here!
	l := New(WithOutput(io.Discard))
	for i, tt := range []struct {
		input string
		want  string
	}{
		{input: "(+)", want: "0"},
		{input: "(+ 1 2 3)", want: "6"},
		{input: "(- 5)", want: "-5"},
		{input: "(- 10 1 2)", want: "7"},
		{input: "(* 2 3 4)", want: "24"},
		{input: "(/ 7 2)", want: "3"},
		{input: "(/ -7 2)", want: "-3"},
		{input: "(< 1 2 3)", want: "true"},
		{input: "(< 1 3 2)", want: "false"},
		{input: "(>= 3 3 1)", want: "true"},
		{input: "(= [1 2] '(1 2))", want: "true"},
		{input: "(= :a :a)", want: "true"},
		{input: `(= "a" :a)`, want: "false"},

		{input: `(pr-str "a" 1 :b)`, want: `"\"a\" 1 :b"`},
		{input: `(str "a" 1 :b nil)`, want: `"a1:bnil"`},
		{input: `(str)`, want: `""`},
		{input: `(read-string "(1 2)")`, want: "(1 2)"},
		{input: `(read-string ";; nothing")`, want: "nil"},

		{input: "(def! at (atom 1))", want: "(atom 1)"},
		{input: "(atom? at)", want: "true"},
		{input: "@at", want: "1"},
		{input: "(swap! at + 2 3)", want: "6"},
		{input: "(reset! at :x)", want: ":x"},
		{input: "(deref at)", want: ":x"},

		{input: "(list 1 2)", want: "(1 2)"},
		{input: "(list? '())", want: "true"},
		{input: "(list? [])", want: "false"},
		{input: "(vector 1 2)", want: "[1 2]"},
		{input: "(vector? [])", want: "true"},
		{input: "(sequential? [])", want: "true"},
		{input: "(sequential? {})", want: "false"},
		{input: "(empty? [])", want: "true"},
		{input: "(empty? {:a 1})", want: "false"},
		{input: "(count nil)", want: "0"},
		{input: "(count [1 2 3])", want: "3"},
		{input: `(count "abc")`, want: "3"},
		{input: "(cons 0 [1 2])", want: "(0 1 2)"},
		{input: "(concat [1] '(2) [] nil [3])", want: "(1 2 3)"},
		{input: "(concat)", want: "()"},
		{input: "(nth '(a b c) 1)", want: "b"},
		{input: "(first nil)", want: "nil"},
		{input: "(first [])", want: "nil"},
		{input: "(first [7 8])", want: "7"},
		{input: "(rest nil)", want: "()"},
		{input: "(rest [7 8])", want: "(8)"},
		{input: "(conj '(1 2) 3 4)", want: "(4 3 1 2)"},
		{input: "(conj [1 2] 3 4)", want: "[1 2 3 4]"},
		{input: "(seq [])", want: "nil"},
		{input: "(seq [1 2])", want: "(1 2)"},
		{input: `(seq "ab")`, want: `("a" "b")`},
		{input: "(seq nil)", want: "nil"},

		{input: `(hash-map :a 1 "b" 2)`, want: `{:a 1 "b" 2}`},
		{input: "(map? {})", want: "true"},
		{input: "(def! m {:a 1})", want: "{:a 1}"},
		{input: "(assoc m :b 2)", want: "{:a 1 :b 2}"},
		{input: "m", want: "{:a 1}"},
		{input: "(dissoc m :a :missing)", want: "{}"},
		{input: "(get m :a)", want: "1"},
		{input: "(get m :z)", want: "nil"},
		{input: "(get nil :a)", want: "nil"},
		{input: "(contains? m :a)", want: "true"},
		{input: `(contains? m "a")`, want: "false"},
		{input: "(keys {:b 1 :a 2})", want: "(:a :b)"},
		{input: "(vals {:b 1 :a 2})", want: "(2 1)"},

		{input: "(apply + 1 2 [3 4])", want: "10"},
		{input: "(apply list [])", want: "()"},
		{input: "(map inc [1 2 3])", want: "(2 3 4)"},
		{input: "(map (fn* (x) (* x x)) '(2 3))", want: "(4 9)"},

		{input: "(nil? nil)", want: "true"},
		{input: "(true? true)", want: "true"},
		{input: "(true? 1)", want: "false"},
		{input: "(false? false)", want: "true"},
		{input: `(string? "s")`, want: "true"},
		{input: "(string? :s)", want: "false"},
		{input: "(number? 1)", want: "true"},
		{input: "(fn? +)", want: "true"},
		{input: "(fn? cond)", want: "false"},
		{input: "(macro? cond)", want: "true"},
		{input: `(symbol "abc")`, want: "abc"},
		{input: "(symbol? 'abc)", want: "true"},
		{input: `(keyword "k")`, want: ":k"},
		{input: "(keyword :k)", want: ":k"},
		{input: "(keyword? :k)", want: "true"},
		{input: `(symbol? (gensym))`, want: "true"},
		{input: `(= (gensym) (gensym))`, want: "false"},
		{input: "(type [])", want: `"vector"`},

		{input: "(meta (fn* (x) x))", want: "nil"},
		{input: "(def! h (with-meta (fn* (x) x) {:doc 1}))", want: "#<function>"},
		{input: "(meta h)", want: "{:doc 1}"},
		{input: "(meta ^{:b 2} inc)", want: "{:b 2}"},
		{input: "(meta inc)", want: "nil"},
		{input: "(meta +)", want: "nil"},
		{input: "(meta (with-meta + 1))", want: "1"},
		{input: "(number? (time-ms))", want: "true"},

		{input: "(eval '(+ 1 2))", want: "3"},
		{input: "(let* (local 5) (try* (eval 'local) (catch* e :global-only)))", want: ":global-only"},
	} {
		got, err := l.Rep(tt.input)
		if err != nil {
			t.Errorf("%d) %s: eval error %v", i, tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%d) %s: got %s want %s", i, tt.input, got, tt.want)
		}
	}
}

func TestPrintPrimitives(t *testing.T) {
	var out bytes.Buffer
	l := New(WithOutput(&out))
	for _, input := range []string{
		`(prn "a" [1 "b"])`,
		`(println "a" [1 "b"])`,
		`(prn)`,
	} {
		got, err := l.Rep(input)
		if err != nil {
			t.Fatal(err)
		}
		if got != "nil" {
			t.Errorf("%s returned %s want nil", input, got)
		}
	}
	want := "\"a\" [1 \"b\"]\na [1 b]\n\n"
	if out.String() != want {
		t.Errorf("got %q want %q", out.String(), want)
	}
}

func TestReadline(t *testing.T) {
	var prompts []string
	lines := []string{"first", "(+ 1 2)"}
	l := New(WithOutput(io.Discard), WithLineReader(func(prompt string) (string, error) {
		prompts = append(prompts, prompt)
		if len(lines) == 0 {
			return "", io.EOF
		}
		line := lines[0]
		lines = lines[1:]
		return line, nil
	}))
	for i, tt := range []struct {
		input string
		want  string
	}{
		{input: `(readline "> ")`, want: `"first"`},
		{input: `(eval (read-string (readline "? ")))`, want: "3"},
		{input: `(readline "> ")`, want: "nil"},
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
	if strings.Join(prompts, "") != "> ? > " {
		t.Errorf("got prompts %q", prompts)
	}
}

func TestReadlineFromInput(t *testing.T) {
	l := New(WithOutput(io.Discard), WithInput(strings.NewReader("one\r\ntwo\n")))
	for i, want := range []string{`"one"`, `"two"`, "nil"} {
		got, err := l.Rep(`(readline "")`)
		if err != nil {
			t.Fatalf("%d) eval error %v", i, err)
		}
		if got != want {
			t.Errorf("%d) got %s want %s", i, got, want)
		}
	}
}

func TestPrimitiveErrors(t *testing.T) {
	l := New(WithOutput(io.Discard))
	for i, tt := range []struct {
		input string
		kind  ErrorKind
	}{
		{input: "(= 1)", kind: ArityError},
		{input: "(< :a 1)", kind: TypeError},
		{input: "(/ 1 2 0)", kind: ArithmeticError},
		{input: "(/)", kind: ArityError},
		{input: "(deref 1)", kind: TypeError},
		{input: "(swap! (atom 1) 2)", kind: TypeError},
		{input: "(nth [1] -1)", kind: IndexError},
		{input: "(nth {} 0)", kind: TypeError},
		{input: "(cons 1 2)", kind: TypeError},
		{input: "(get {:a 1} 1)", kind: TypeError},
		{input: "(assoc {} :a)", kind: ArityError},
		{input: "(hash-map [1] 2)", kind: TypeError},
		{input: "(apply + 1)", kind: TypeError},
		{input: "(map 1 [1])", kind: TypeError},
		{input: "(symbol 1)", kind: TypeError},
		{input: "(with-meta 1 2)", kind: TypeError},
		{input: "(read-string 1)", kind: TypeError},
		{input: "(conj 1 2)", kind: TypeError},
		{input: "(eval)", kind: ArityError},
	} {
		_, err := l.Eval(tt.input)
		if !IsKind(err, tt.kind) {
			t.Errorf("%d) %s: got %v want kind %s", i, tt.input, err, tt.kind)
		}
	}
}
