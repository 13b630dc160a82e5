package lisp

import "testing"

func TestEnvLookup(t *testing.T) {
	outer := NewEnv(nil)
	outer.Set("a", Int(1))
	outer.Set("b", Int(2))
	inner := NewEnv(outer)
	inner.Set("b", Int(20))

	for i, tt := range []struct {
		env  *Env
		s    Symbol
		want Value
	}{
		{env: inner, s: "a", want: Int(1)},
		{env: inner, s: "b", want: Int(20)},
		{env: outer, s: "b", want: Int(2)},
	} {
		got, err := tt.env.Lookup(tt.s)
		if err != nil {
			t.Errorf("%d) lookup error %v", i, err)
			continue
		}
		if !Equal(got, tt.want) {
			t.Errorf("%d) got %s want %s", i, got, tt.want)
		}
	}

	_, err := inner.Lookup("c")
	if !IsKind(err, UnboundSymbolError) {
		t.Fatalf("got %v want unbound symbol", err)
	}
	if err.Error() != "'c' not found" {
		t.Errorf("got %q", err.Error())
	}
}

func TestEnvSetOnlyTouchesOwnFrame(t *testing.T) {
	outer := NewEnv(nil)
	outer.Set("x", Int(1))
	inner := NewEnv(outer)
	inner.Set("x", Int(2))
	got, _ := outer.Lookup("x")
	if !Equal(got, Int(1)) {
		t.Errorf("outer frame changed: got %s", got)
	}
}

func TestBindParams(t *testing.T) {
	root := NewEnv(nil)
	args := []Value{Int(1), Int(2), Int(3)}
	env, err := BindParams(root, []Symbol{"a"}, "rest", args)
	if err != nil {
		t.Fatal(err)
	}
	rest, _ := env.Lookup("rest")
	if got := Print(rest, true); got != "(2 3)" {
		t.Errorf("got %s want (2 3)", got)
	}
	args[1] = Int(99)
	if got := Print(rest, true); got != "(2 3)" {
		t.Errorf("rest list aliases args: got %s", got)
	}

	for i, tt := range []struct {
		params   []Symbol
		variadic Symbol
		args     []Value
	}{
		{params: []Symbol{"a", "b"}, args: []Value{Int(1)}},
		{params: []Symbol{"a"}, args: []Value{Int(1), Int(2)}},
		{params: []Symbol{"a", "b"}, variadic: "c", args: []Value{Int(1)}},
	} {
		_, err := BindParams(root, tt.params, tt.variadic, tt.args)
		if !IsKind(err, ArityError) {
			t.Errorf("%d) got %v want arity error", i, err)
		}
	}
}
