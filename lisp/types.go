package lisp

import (
	"sort"
)

// Type is the tag of every runtime value.
type Type uint8

const (
	NilType Type = iota
	BoolType
	IntType
	StringType
	SymbolType
	KeywordType
	ListType
	VectorType
	HashMapType
	ClosureType
	BuiltinType
	AtomType
	ErrorType
)

var typeNames = [...]string{
	NilType:     "nil",
	BoolType:    "boolean",
	IntType:     "int",
	StringType:  "string",
	SymbolType:  "symbol",
	KeywordType: "keyword",
	ListType:    "list",
	VectorType:  "vector",
	HashMapType: "hash-map",
	ClosureType: "function",
	BuiltinType: "builtin",
	AtomType:    "atom",
	ErrorType:   "error",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// Value is the closed set of variants below; every switch over a Value
// should handle all of them.
type Value interface {
	Type() Type
	String() string
}

type nilValue struct{}

var Nil Value = nilValue{}

type Bool bool

const (
	True  Bool = true
	False Bool = false
)

type Int int64
type String string
type Symbol string

// Keyword holds the name without its leading colon.
type Keyword string

type List []Value
type Vector []Value

// HashMap keys are always String or Keyword, see checkKey.
type HashMap map[Value]Value

// Closure is the only user-created callable. Variadic is the empty symbol
// when the parameter list has no & tail.
type Closure struct {
	Params   []Symbol
	Variadic Symbol
	Body     Value
	Env      *Env
	IsMacro  bool
	Meta     Value
}

type BuiltinFunc func(args List) (Value, error)

type Builtin struct {
	Name string
	Fn   BuiltinFunc
	Meta Value
}

type Atom struct {
	Value Value
}

// ErrorValue is bound by catch* when the caught failure carries no value
// of its own.
type ErrorValue struct {
	Value Value
}

func (nilValue) Type() Type { return NilType }
func (Bool) Type() Type { return BoolType }
func (Int) Type() Type { return IntType }
func (String) Type() Type { return StringType }
func (Symbol) Type() Type { return SymbolType }
func (Keyword) Type() Type { return KeywordType }
func (List) Type() Type { return ListType }
func (Vector) Type() Type { return VectorType }
func (HashMap) Type() Type { return HashMapType }
func (*Closure) Type() Type { return ClosureType }
func (*Builtin) Type() Type { return BuiltinType }
func (*Atom) Type() Type { return AtomType }
func (ErrorValue) Type() Type { return ErrorType }
func (v nilValue) String() string { return Print(v, true) }
func (v Bool) String() string { return Print(v, true) }
func (v Int) String() string { return Print(v, true) }
func (v String) String() string { return Print(v, true) }
func (v Symbol) String() string { return Print(v, true) }
func (v Keyword) String() string { return Print(v, true) }
func (v List) String() string { return Print(v, true) }
func (v Vector) String() string { return Print(v, true) }
func (v HashMap) String() string { return Print(v, true) }
func (v *Closure) String() string { return Print(v, true) }
func (v *Builtin) String() string { return Print(v, true) }
func (v *Atom) String() string { return Print(v, true) }
func (v ErrorValue) String() string { return Print(v, true) }

func truthy(v Value) bool {
	return v != Nil && v != False
}

func boolValue(b bool) Value {
	if b {
		return True
	}
	return False
}

// seqItems returns the elements of a List or Vector.
func seqItems(v Value) ([]Value, bool) {
	switch s := v.(type) {
	case List:
		return s, true
	case Vector:
		return s, true
	}
	return nil, false
}

// isPair is true for a non-empty List or Vector.
func isPair(v Value) bool {
	items, ok := seqItems(v)
	return ok && len(items) > 0
}

func isSymbol(v Value, name Symbol) bool {
	s, ok := v.(Symbol)
	return ok && s == name
}

// Equal is structural for data, identity for callables and atoms.
// Lists and vectors with equal elements are equal to each other.
func Equal(a, b Value) bool {
	if as, ok := seqItems(a); ok {
		bs, ok := seqItems(b)
		if !ok || len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !Equal(as[i], bs[i]) {
				return false
			}
		}
		return true
	}
	switch x := a.(type) {
	case nilValue, Bool, Int, String, Symbol, Keyword:
		return a == b
	case HashMap:
		y, ok := b.(HashMap)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	case *Closure:
		y, ok := b.(*Closure)
		return ok && x == y
	case *Builtin:
		y, ok := b.(*Builtin)
		return ok && x == y
	case *Atom:
		y, ok := b.(*Atom)
		return ok && x == y
	case ErrorValue:
		y, ok := b.(ErrorValue)
		return ok && Equal(x.Value, y.Value)
	}
	return false
}

func checkKey(k Value) error {
	switch k.(type) {
	case String, Keyword:
		return nil
	}
	return errorf(TypeError, "hash-map key must be a string or keyword, got %s", typeOf(k))
}

// NewHashMap builds a map from alternating keys and values.
func NewHashMap(kvs ...Value) (HashMap, error) {
	return HashMap{}.Assoc(kvs...)
}

// Assoc returns a copy of m with the given pairs added.
func (m HashMap) Assoc(kvs ...Value) (HashMap, error) {
	if len(kvs)%2 != 0 {
		return nil, errorf(ArityError, "odd number of elements for hash-map: %d", len(kvs))
	}
	out := make(HashMap, len(m)+len(kvs)/2)
	for k, v := range m {
		out[k] = v
	}
	for i := 0; i < len(kvs); i += 2 {
		if err := checkKey(kvs[i]); err != nil {
			return nil, err
		}
		out[kvs[i]] = kvs[i+1]
	}
	return out, nil
}

// Dissoc returns a copy of m without the given keys.
func (m HashMap) Dissoc(keys ...Value) (HashMap, error) {
	out := make(HashMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	for _, k := range keys {
		if err := checkKey(k); err != nil {
			return nil, err
		}
		delete(out, k)
	}
	return out, nil
}

// Get looks up k, rejecting keys that can never be present.
func (m HashMap) Get(k Value) (Value, bool, error) {
	if err := checkKey(k); err != nil {
		return nil, false, err
	}
	v, ok := m[k]
	return v, ok, nil
}

// keyLess orders keywords before strings, then by text.
func keyLess(a, b Value) bool {
	ka, aIsKw := a.(Keyword)
	kb, bIsKw := b.(Keyword)
	if aIsKw != bIsKw {
		return aIsKw
	}
	if aIsKw {
		return ka < kb
	}
	return a.(String) < b.(String)
}

// Keys returns the keys of m in a stable order.
func (m HashMap) Keys() List {
	keys := make(List, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
	return keys
}

func typeOf(v Value) string {
	if v == nil {
		return "nil"
	}
	if c, ok := v.(*Closure); ok && c.IsMacro {
		return "macro"
	}
	return v.Type().String()
}
