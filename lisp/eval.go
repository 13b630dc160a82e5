package lisp

import (
	"log/slog"
)

// specialForm handles the arguments of a special form. A non-nil env means
// the returned value is an expression to continue evaluating in that env
// (tail position); a nil env means the value is the final result.
type specialForm func(args List, env *Env) (Value, *Env, error)

var specialForms map[Symbol]specialForm

func init() {
	specialForms = map[Symbol]specialForm{
		"def!":        evalDef,
		"defmacro!":   evalDefMacro,
		"let*":        evalLet,
		"do":          evalDo,
		"if":          evalIf,
		"fn*":         evalFn,
		"quote":       evalQuote,
		"quasiquote":  evalQuasiquote,
		"macroexpand": evalMacroexpand,
		"try*":        evalTry,
	}
}

// Eval evaluates ast in env. Tail positions reassign ast and env and loop,
// so tail calls through closures run in constant stack space.
func Eval(ast Value, env *Env) (Value, error) {
	for {
		list, ok := ast.(List)
		if !ok || len(list) == 0 {
			return evalElements(ast, env)
		}
		expanded, err := MacroExpand(ast, env)
		if err != nil {
			return nil, err
		}
		ast = expanded
		if list, ok = ast.(List); !ok || len(list) == 0 {
			continue
		}

		if s, ok := list[0].(Symbol); ok {
			if form, ok := specialForms[s]; ok {
				v, next, err := form(list[1:], env)
				if err != nil {
					return nil, err
				}
				if next == nil {
					return v, nil
				}
				ast, env = v, next
				continue
			}
		}

		evaluated, err := evalElements(list, env)
		if err != nil {
			return nil, err
		}
		call := evaluated.(List)
		switch f := call[0].(type) {
		case *Builtin:
			return f.Fn(call[1:])
		case *Closure:
			next, err := f.bind(call[1:])
			if err != nil {
				return nil, err
			}
			ast, env = f.Body, next
		default:
			return nil, errorf(NotCallableError, "%s is not a function", Print(call[0], true))
		}
	}
}

// evalElements resolves symbols and evaluates the elements of collections.
// Everything else evaluates to itself.
func evalElements(ast Value, env *Env) (Value, error) {
	switch v := ast.(type) {
	case Symbol:
		return env.Lookup(v)
	case List:
		items, err := evalEach(v, env)
		if err != nil {
			return nil, err
		}
		return List(items), nil
	case Vector:
		items, err := evalEach(v, env)
		if err != nil {
			return nil, err
		}
		return Vector(items), nil
	case HashMap:
		out := make(HashMap, len(v))
		for k, e := range v {
			ev, err := Eval(e, env)
			if err != nil {
				return nil, err
			}
			out[k] = ev
		}
		return out, nil
	}
	return ast, nil
}

func evalEach(items []Value, env *Env) ([]Value, error) {
	out := make([]Value, len(items))
	for i, e := range items {
		v, err := Eval(e, env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (c *Closure) bind(args []Value) (*Env, error) {
	return BindParams(c.Env, c.Params, c.Variadic, args)
}

func applyClosure(c *Closure, args []Value) (Value, error) {
	env, err := c.bind(args)
	if err != nil {
		return nil, err
	}
	return Eval(c.Body, env)
}

// Apply calls fn with already evaluated args.
func Apply(fn Value, args []Value) (Value, error) {
	switch f := fn.(type) {
	case *Builtin:
		return f.Fn(List(args))
	case *Closure:
		return applyClosure(f, args)
	}
	return nil, errorf(NotCallableError, "%s is not a function", Print(fn, true))
}

func wantForm(name string, args List, min, max int) error {
	if len(args) >= min && len(args) <= max {
		return nil
	}
	if min == max {
		return errorf(ArityError, "%s expects %d arguments, got %d", name, min, len(args))
	}
	return errorf(ArityError, "%s expects %d to %d arguments, got %d", name, min, max, len(args))
}

func define(name string, args List, env *Env) (Symbol, Value, error) {
	if err := wantForm(name, args, 2, 2); err != nil {
		return "", nil, err
	}
	s, ok := args[0].(Symbol)
	if !ok {
		return "", nil, errorf(TypeError, "%s: cannot define non-symbol %s", name, Print(args[0], true))
	}
	v, err := Eval(args[1], env)
	if err != nil {
		return "", nil, err
	}
	return s, v, nil
}

func evalDef(args List, env *Env) (Value, *Env, error) {
	s, v, err := define("def!", args, env)
	if err != nil {
		return nil, nil, err
	}
	env.Set(s, v)
	return v, nil, nil
}

func evalDefMacro(args List, env *Env) (Value, *Env, error) {
	s, v, err := define("defmacro!", args, env)
	if err != nil {
		return nil, nil, err
	}
	c, ok := v.(*Closure)
	if !ok {
		return nil, nil, errorf(TypeError, "defmacro!: expected a function, got %s", typeOf(v))
	}
	m := *c
	m.IsMacro = true
	env.Set(s, &m)
	return &m, nil, nil
}

func evalLet(args List, env *Env) (Value, *Env, error) {
	if err := wantForm("let*", args, 2, 2); err != nil {
		return nil, nil, err
	}
	bindings, ok := seqItems(args[0])
	if !ok {
		return nil, nil, errorf(TypeError, "let*: bindings must be a list or vector, got %s", typeOf(args[0]))
	}
	if len(bindings)%2 != 0 {
		return nil, nil, errorf(SyntaxError, "let*: odd number of elements in bindings")
	}
	letEnv := NewEnv(env)
	for i := 0; i < len(bindings); i += 2 {
		s, ok := bindings[i].(Symbol)
		if !ok {
			return nil, nil, errorf(TypeError, "let*: cannot bind non-symbol %s", Print(bindings[i], true))
		}
		v, err := Eval(bindings[i+1], letEnv)
		if err != nil {
			return nil, nil, err
		}
		letEnv.Set(s, v)
	}
	return args[1], letEnv, nil
}

func evalDo(args List, env *Env) (Value, *Env, error) {
	if len(args) == 0 {
		return Nil, nil, nil
	}
	for _, form := range args[:len(args)-1] {
		if _, err := Eval(form, env); err != nil {
			return nil, nil, err
		}
	}
	return args[len(args)-1], env, nil
}

func evalIf(args List, env *Env) (Value, *Env, error) {
	if err := wantForm("if", args, 2, 3); err != nil {
		return nil, nil, err
	}
	cond, err := Eval(args[0], env)
	if err != nil {
		return nil, nil, err
	}
	if truthy(cond) {
		return args[1], env, nil
	}
	if len(args) == 2 {
		return Nil, nil, nil
	}
	return args[2], env, nil
}

func evalFn(args List, env *Env) (Value, *Env, error) {
	if err := wantForm("fn*", args, 2, 2); err != nil {
		return nil, nil, err
	}
	params, variadic, err := parseParams(args[0])
	if err != nil {
		return nil, nil, err
	}
	return &Closure{
		Params:   params,
		Variadic: variadic,
		Body:     args[1],
		Env:      env,
		Meta:     Nil,
	}, nil, nil
}

// parseParams splits a parameter list into positional symbols and the
// symbol following &, which must be last.
func parseParams(form Value) ([]Symbol, Symbol, error) {
	items, ok := seqItems(form)
	if !ok {
		return nil, "", errorf(TypeError, "fn*: parameters must be a list or vector, got %s", typeOf(form))
	}
	params := make([]Symbol, 0, len(items))
	for i, item := range items {
		s, ok := item.(Symbol)
		if !ok {
			return nil, "", errorf(TypeError, "fn*: parameter must be a symbol, got %s", Print(item, true))
		}
		if s != symAmpersand {
			params = append(params, s)
			continue
		}
		if i != len(items)-2 {
			return nil, "", errorf(SyntaxError, "fn*: & must be followed by exactly one parameter")
		}
		rest, ok := items[i+1].(Symbol)
		if !ok || rest == symAmpersand {
			return nil, "", errorf(TypeError, "fn*: variadic parameter must be a symbol, got %s", Print(items[i+1], true))
		}
		return params, rest, nil
	}
	return params, "", nil
}

func evalQuote(args List, env *Env) (Value, *Env, error) {
	if err := wantForm("quote", args, 1, 1); err != nil {
		return nil, nil, err
	}
	return args[0], nil, nil
}

func evalQuasiquote(args List, env *Env) (Value, *Env, error) {
	if err := wantForm("quasiquote", args, 1, 1); err != nil {
		return nil, nil, err
	}
	expanded, err := Quasiquote(args[0])
	if err != nil {
		return nil, nil, err
	}
	return expanded, env, nil
}

func evalMacroexpand(args List, env *Env) (Value, *Env, error) {
	if err := wantForm("macroexpand", args, 1, 1); err != nil {
		return nil, nil, err
	}
	v, err := MacroExpand(args[0], env)
	if err != nil {
		return nil, nil, err
	}
	return v, nil, nil
}

func evalTry(args List, env *Env) (Value, *Env, error) {
	if err := wantForm("try*", args, 1, 2); err != nil {
		return nil, nil, err
	}
	if len(args) == 1 {
		return args[0], env, nil
	}
	clause, ok := args[1].(List)
	if !ok || len(clause) != 3 || !isSymbol(clause[0], symCatch) {
		return nil, nil, errorf(SyntaxError, "try*: expected (catch* symbol body), got %s", Print(args[1], true))
	}
	bind, ok := clause[1].(Symbol)
	if !ok {
		return nil, nil, errorf(TypeError, "catch*: cannot bind non-symbol %s", Print(clause[1], true))
	}
	v, err := Eval(args[0], env)
	if err == nil {
		return v, nil, nil
	}
	payload, ok := caught(err)
	if !ok {
		return nil, nil, err
	}
	logger.Debug("caught failure", slog.String("symbol", string(bind)), slog.String("value", Print(payload, true)))
	catchEnv := NewEnv(env)
	catchEnv.Set(bind, payload)
	return clause[2], catchEnv, nil
}
