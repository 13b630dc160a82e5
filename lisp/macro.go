package lisp

import (
	"log/slog"
)

const (
	symQuote         Symbol = "quote"
	symQuasiquote    Symbol = "quasiquote"
	symUnquote       Symbol = "unquote"
	symSpliceUnquote Symbol = "splice-unquote"
	symConcat        Symbol = "concat"
	symCons          Symbol = "cons"
	symDeref         Symbol = "deref"
	symWithMeta      Symbol = "with-meta"
	symCatch         Symbol = "catch*"
	symAmpersand     Symbol = "&"
)

// macroFor returns the macro closure a call would expand with, if any.
func macroFor(ast Value, env *Env) (*Closure, bool) {
	list, ok := ast.(List)
	if !ok || len(list) == 0 {
		return nil, false
	}
	s, ok := list[0].(Symbol)
	if !ok {
		return nil, false
	}
	v, err := env.Lookup(s)
	if err != nil {
		return nil, false
	}
	c, ok := v.(*Closure)
	if !ok || !c.IsMacro {
		return nil, false
	}
	return c, true
}

// IsMacroCall is true when ast is a list headed by a symbol bound to a macro.
func IsMacroCall(ast Value, env *Env) bool {
	_, ok := macroFor(ast, env)
	return ok
}

// MacroExpand expands ast until its head no longer names a macro.
// Self-referential macros loop forever.
func MacroExpand(ast Value, env *Env) (Value, error) {
	for n := 1; ; n++ {
		m, ok := macroFor(ast, env)
		if !ok {
			return ast, nil
		}
		call := ast.(List)
		expanded, err := applyClosure(m, call[1:])
		if err != nil {
			return nil, err
		}
		logger.Debug("macro expanded",
			slog.String("macro", string(call[0].(Symbol))),
			slog.Int("step", n))
		ast = expanded
	}
}

// Quasiquote rewrites ast into code that rebuilds it, evaluating only
// unquoted parts. Vectors are rebuilt as lists.
func Quasiquote(ast Value) (Value, error) {
	if !isPair(ast) {
		return List{symQuote, ast}, nil
	}
	items, _ := seqItems(ast)
	head := items[0]
	if isSymbol(head, symUnquote) {
		if len(items) != 2 {
			return nil, errorf(SyntaxError, "unquote expects 1 argument, got %d", len(items)-1)
		}
		return items[1], nil
	}
	rest, err := Quasiquote(List(items[1:]))
	if err != nil {
		return nil, err
	}
	if inner, _ := seqItems(head); isPair(head) && isSymbol(inner[0], symSpliceUnquote) {
		if len(inner) != 2 {
			return nil, errorf(SyntaxError, "splice-unquote expects 1 argument, got %d", len(inner)-1)
		}
		return List{symConcat, inner[1], rest}, nil
	}
	first, err := Quasiquote(head)
	if err != nil {
		return nil, err
	}
	return List{symCons, first, rest}, nil
}
