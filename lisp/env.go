package lisp

type Env struct {
	dict  map[Symbol]Value
	outer *Env
}

// NewEnv returns an empty frame chained to outer, which may be nil.
func NewEnv(outer *Env) *Env {
	return &Env{dict: map[Symbol]Value{}, outer: outer}
}

// BindParams binds params positionally to args in a new frame below outer.
// A non-empty variadic symbol receives the remaining args as a list.
func BindParams(outer *Env, params []Symbol, variadic Symbol, args []Value) (*Env, error) {
	if variadic == "" && len(params) != len(args) {
		return nil, errorf(ArityError, "wrong number of arguments: expected %d, got %d", len(params), len(args))
	}
	if variadic != "" && len(args) < len(params) {
		return nil, errorf(ArityError, "wrong number of arguments: expected at least %d, got %d", len(params), len(args))
	}
	env := &Env{dict: make(map[Symbol]Value, len(params)+1), outer: outer}
	for i, p := range params {
		env.dict[p] = args[i]
	}
	if variadic != "" {
		rest := make(List, len(args)-len(params))
		copy(rest, args[len(params):])
		env.dict[variadic] = rest
	}
	return env, nil
}

func (e *Env) find(s Symbol) (*Env, bool) {
	for env := e; env != nil; env = env.outer {
		if _, ok := env.dict[s]; ok {
			return env, true
		}
	}
	return nil, false
}

// Set defines s in this frame only.
func (e *Env) Set(s Symbol, v Value) {
	e.dict[s] = v
}

// Lookup returns the innermost binding of s.
func (e *Env) Lookup(s Symbol) (Value, error) {
	env, ok := e.find(s)
	if !ok {
		return nil, &Error{Kind: UnboundSymbolError, Value: String("'" + string(s) + "' not found")}
	}
	return env.dict[s], nil
}
