package lisp

import (
	"fmt"
	"io"
	"os"
	"time"
)

// host is what the primitives that talk to the outside world need.
type host struct {
	out      io.Writer
	readLine LineReader
}

// GlobalEnv returns a root environment holding the primitive library,
// printing to stdout and reading from stdin.
func GlobalEnv() *Env {
	return newGlobalEnv(host{out: os.Stdout, readLine: stdinLineReader(os.Stdin)})
}

func newGlobalEnv(h host) *Env {
	env := NewEnv(nil)
	for name, f := range map[Symbol]BuiltinFunc{
		"+":  add,
		"-":  sub,
		"*":  mul,
		"/":  div,
		"=":  eq,
		"<":  compare("<", func(a, b Int) bool { return a < b }),
		"<=": compare("<=", func(a, b Int) bool { return a <= b }),
		">":  compare(">", func(a, b Int) bool { return a > b }),
		">=": compare(">=", func(a, b Int) bool { return a >= b }),

		"pr-str":      prStr,
		"str":         str,
		"prn":         h.prn,
		"println":     h.println,
		"readline":    h.readline,
		"read-string": readString,
		"slurp":       slurp,

		"atom":   atom,
		"atom?":  isType("atom?", AtomType),
		"deref":  deref,
		"reset!": reset,
		"swap!":  swap,

		"list":        list,
		"list?":       isType("list?", ListType),
		"vector":      vector,
		"vector?":     isType("vector?", VectorType),
		"sequential?": isSequential,
		"empty?":      isEmpty,
		"count":       count,
		"cons":        cons,
		"concat":      concat,
		"nth":         nth,
		"first":       first,
		"rest":        rest,
		"conj":        conj,
		"seq":         seq,

		"hash-map":  hashMap,
		"map?":      isType("map?", HashMapType),
		"assoc":     assoc,
		"dissoc":    dissoc,
		"get":       get,
		"contains?": contains,
		"keys":      keys,
		"vals":      vals,

		"throw": throw,
		"apply": apply,
		"map":   mapFunc,

		"nil?":     isNil,
		"true?":    isTrue,
		"false?":   isFalse,
		"string?":  isType("string?", StringType),
		"number?":  isType("number?", IntType),
		"fn?":      isFn,
		"macro?":   isMacro,
		"symbol":   symbol,
		"symbol?":  isType("symbol?", SymbolType),
		"keyword":  keyword,
		"keyword?": isType("keyword?", KeywordType),
		"gensym":   gensym(),
		"type":     typeName,

		"meta":      meta,
		"with-meta": withMeta,
		"time-ms":   timeMs,
	} {
		env.Set(name, &Builtin{Name: string(name), Fn: f, Meta: Nil})
	}
	env.Set("eval", &Builtin{Name: "eval", Meta: Nil, Fn: func(args List) (Value, error) {
		if err := wantArgs("eval", args, 1); err != nil {
			return nil, err
		}
		return Eval(args[0], env)
	}})
	return env
}

func wantArgs(name string, args List, n int) error {
	if len(args) != n {
		return errorf(ArityError, "%s: wrong number of arguments: expected %d, got %d", name, n, len(args))
	}
	return nil
}

func wantMinArgs(name string, args List, n int) error {
	if len(args) < n {
		return errorf(ArityError, "%s: wrong number of arguments: expected at least %d, got %d", name, n, len(args))
	}
	return nil
}

func intArg(name string, v Value) (Int, error) {
	n, ok := v.(Int)
	if !ok {
		return 0, errorf(TypeError, "%s: expected int, got %s", name, typeOf(v))
	}
	return n, nil
}

func stringArg(name string, v Value) (String, error) {
	s, ok := v.(String)
	if !ok {
		return "", errorf(TypeError, "%s: expected string, got %s", name, typeOf(v))
	}
	return s, nil
}

func seqArg(name string, v Value) ([]Value, error) {
	items, ok := seqItems(v)
	if !ok {
		return nil, errorf(TypeError, "%s: expected list or vector, got %s", name, typeOf(v))
	}
	return items, nil
}

func hashMapArg(name string, v Value) (HashMap, error) {
	m, ok := v.(HashMap)
	if !ok {
		return nil, errorf(TypeError, "%s: expected hash-map, got %s", name, typeOf(v))
	}
	return m, nil
}

func atomArg(name string, v Value) (*Atom, error) {
	a, ok := v.(*Atom)
	if !ok {
		return nil, errorf(TypeError, "%s: expected atom, got %s", name, typeOf(v))
	}
	return a, nil
}

func fnArg(name string, v Value) (Value, error) {
	switch v.(type) {
	case *Builtin, *Closure:
		return v, nil
	}
	return nil, errorf(TypeError, "%s: expected function, got %s", name, typeOf(v))
}

func ints(name string, args List) ([]Int, error) {
	out := make([]Int, len(args))
	for i, a := range args {
		n, err := intArg(name, a)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func add(args List) (Value, error) {
	ns, err := ints("+", args)
	if err != nil {
		return nil, err
	}
	var sum Int
	for _, n := range ns {
		sum += n
	}
	return sum, nil
}

func sub(args List) (Value, error) {
	ns, err := ints("-", args)
	if err != nil {
		return nil, err
	}
	switch len(ns) {
	case 0:
		return Int(0), nil
	case 1:
		return -ns[0], nil
	}
	result := ns[0]
	for _, n := range ns[1:] {
		result -= n
	}
	return result, nil
}

func mul(args List) (Value, error) {
	ns, err := ints("*", args)
	if err != nil {
		return nil, err
	}
	product := Int(1)
	for _, n := range ns {
		product *= n
	}
	return product, nil
}

func div(args List) (Value, error) {
	if err := wantMinArgs("/", args, 1); err != nil {
		return nil, err
	}
	ns, err := ints("/", args)
	if err != nil {
		return nil, err
	}
	if len(ns) == 1 {
		ns = []Int{1, ns[0]}
	}
	result := ns[0]
	for _, n := range ns[1:] {
		if n == 0 {
			return nil, errorf(ArithmeticError, "/: division by zero")
		}
		result /= n
	}
	return result, nil
}

func eq(args List) (Value, error) {
	if err := wantArgs("=", args, 2); err != nil {
		return nil, err
	}
	return boolValue(Equal(args[0], args[1])), nil
}

func compare(name string, ok func(a, b Int) bool) BuiltinFunc {
	return func(args List) (Value, error) {
		if err := wantMinArgs(name, args, 1); err != nil {
			return nil, err
		}
		ns, err := ints(name, args)
		if err != nil {
			return nil, err
		}
		for i := 1; i < len(ns); i++ {
			if !ok(ns[i-1], ns[i]) {
				return False, nil
			}
		}
		return True, nil
	}
}

func prStr(args List) (Value, error) {
	return String(PrintAll(args, true, " ")), nil
}

func str(args List) (Value, error) {
	return String(PrintAll(args, false, "")), nil
}

func (h host) prn(args List) (Value, error) {
	if _, err := fmt.Fprintln(h.out, PrintAll(args, true, " ")); err != nil {
		return nil, errorf(IOError, "prn: %v", err)
	}
	return Nil, nil
}

func (h host) println(args List) (Value, error) {
	if _, err := fmt.Fprintln(h.out, PrintAll(args, false, " ")); err != nil {
		return nil, errorf(IOError, "println: %v", err)
	}
	return Nil, nil
}

func (h host) readline(args List) (Value, error) {
	if err := wantArgs("readline", args, 1); err != nil {
		return nil, err
	}
	prompt, err := stringArg("readline", args[0])
	if err != nil {
		return nil, err
	}
	line, err := h.readLine(string(prompt))
	if err == io.EOF {
		return Nil, nil
	}
	if err != nil {
		return nil, errorf(IOError, "readline: %v", err)
	}
	return String(line), nil
}

func readString(args List) (Value, error) {
	if err := wantArgs("read-string", args, 1); err != nil {
		return nil, err
	}
	s, err := stringArg("read-string", args[0])
	if err != nil {
		return nil, err
	}
	v, err := Read(string(s))
	if err == ErrEmptyInput {
		return Nil, nil
	}
	return v, err
}

func slurp(args List) (Value, error) {
	if err := wantArgs("slurp", args, 1); err != nil {
		return nil, err
	}
	path, err := stringArg("slurp", args[0])
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(string(path))
	if err != nil {
		return nil, errorf(IOError, "slurp: %v", err)
	}
	return String(b), nil
}

func atom(args List) (Value, error) {
	if err := wantArgs("atom", args, 1); err != nil {
		return nil, err
	}
	return &Atom{Value: args[0]}, nil
}

func deref(args List) (Value, error) {
	if err := wantArgs("deref", args, 1); err != nil {
		return nil, err
	}
	a, err := atomArg("deref", args[0])
	if err != nil {
		return nil, err
	}
	return a.Value, nil
}

func reset(args List) (Value, error) {
	if err := wantArgs("reset!", args, 2); err != nil {
		return nil, err
	}
	a, err := atomArg("reset!", args[0])
	if err != nil {
		return nil, err
	}
	a.Value = args[1]
	return a.Value, nil
}

// (swap! atom f args...) sets atom to (f @atom args...)
func swap(args List) (Value, error) {
	if err := wantMinArgs("swap!", args, 2); err != nil {
		return nil, err
	}
	a, err := atomArg("swap!", args[0])
	if err != nil {
		return nil, err
	}
	f, err := fnArg("swap!", args[1])
	if err != nil {
		return nil, err
	}
	fargs := append([]Value{a.Value}, args[2:]...)
	v, err := Apply(f, fargs)
	if err != nil {
		return nil, err
	}
	a.Value = v
	return v, nil
}

func list(args List) (Value, error) {
	return append(List{}, args...), nil
}

func vector(args List) (Value, error) {
	return append(Vector{}, args...), nil
}

func isType(name string, t Type) BuiltinFunc {
	return func(args List) (Value, error) {
		if err := wantArgs(name, args, 1); err != nil {
			return nil, err
		}
		return boolValue(args[0].Type() == t), nil
	}
}

func isSequential(args List) (Value, error) {
	if err := wantArgs("sequential?", args, 1); err != nil {
		return nil, err
	}
	_, ok := seqItems(args[0])
	return boolValue(ok), nil
}

func isEmpty(args List) (Value, error) {
	if err := wantArgs("empty?", args, 1); err != nil {
		return nil, err
	}
	if m, ok := args[0].(HashMap); ok {
		return boolValue(len(m) == 0), nil
	}
	items, err := seqArg("empty?", args[0])
	if err != nil {
		return nil, err
	}
	return boolValue(len(items) == 0), nil
}

func count(args List) (Value, error) {
	if err := wantArgs("count", args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case nilValue:
		return Int(0), nil
	case HashMap:
		return Int(len(v)), nil
	case String:
		return Int(len(v)), nil
	}
	items, err := seqArg("count", args[0])
	if err != nil {
		return nil, err
	}
	return Int(len(items)), nil
}

func cons(args List) (Value, error) {
	if err := wantArgs("cons", args, 2); err != nil {
		return nil, err
	}
	items, err := seqArg("cons", args[1])
	if err != nil {
		return nil, err
	}
	out := make(List, 0, len(items)+1)
	out = append(out, args[0])
	return append(out, items...), nil
}

func concat(args List) (Value, error) {
	out := List{}
	for _, a := range args {
		if a == Nil {
			continue
		}
		items, err := seqArg("concat", a)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}

func nth(args List) (Value, error) {
	if err := wantArgs("nth", args, 2); err != nil {
		return nil, err
	}
	items, err := seqArg("nth", args[0])
	if err != nil {
		return nil, err
	}
	n, err := intArg("nth", args[1])
	if err != nil {
		return nil, err
	}
	if n < 0 || int(n) >= len(items) {
		return nil, errorf(IndexError, "nth: index %d out of bounds for length %d", n, len(items))
	}
	return items[n], nil
}

func first(args List) (Value, error) {
	if err := wantArgs("first", args, 1); err != nil {
		return nil, err
	}
	if args[0] == Nil {
		return Nil, nil
	}
	items, err := seqArg("first", args[0])
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return Nil, nil
	}
	return items[0], nil
}

func rest(args List) (Value, error) {
	if err := wantArgs("rest", args, 1); err != nil {
		return nil, err
	}
	if args[0] == Nil {
		return List{}, nil
	}
	items, err := seqArg("rest", args[0])
	if err != nil {
		return nil, err
	}
	if len(items) < 2 {
		return List{}, nil
	}
	return append(List{}, items[1:]...), nil
}

// conj prepends to lists and appends to vectors
func conj(args List) (Value, error) {
	if err := wantMinArgs("conj", args, 1); err != nil {
		return nil, err
	}
	switch s := args[0].(type) {
	case List:
		out := make(List, 0, len(s)+len(args)-1)
		for i := len(args) - 1; i > 0; i-- {
			out = append(out, args[i])
		}
		return append(out, s...), nil
	case Vector:
		out := make(Vector, 0, len(s)+len(args)-1)
		out = append(out, s...)
		return append(out, args[1:]...), nil
	}
	return nil, errorf(TypeError, "conj: expected list or vector, got %s", typeOf(args[0]))
}

func seq(args List) (Value, error) {
	if err := wantArgs("seq", args, 1); err != nil {
		return nil, err
	}
	switch s := args[0].(type) {
	case nilValue:
		return Nil, nil
	case List:
		if len(s) == 0 {
			return Nil, nil
		}
		return s, nil
	case Vector:
		if len(s) == 0 {
			return Nil, nil
		}
		return append(List{}, s...), nil
	case String:
		if len(s) == 0 {
			return Nil, nil
		}
		out := List{}
		for _, r := range string(s) {
			out = append(out, String(r))
		}
		return out, nil
	}
	return nil, errorf(TypeError, "seq: cannot make a sequence of %s", typeOf(args[0]))
}

func hashMap(args List) (Value, error) {
	return NewHashMap(args...)
}

func assoc(args List) (Value, error) {
	if err := wantMinArgs("assoc", args, 1); err != nil {
		return nil, err
	}
	m, err := hashMapArg("assoc", args[0])
	if err != nil {
		return nil, err
	}
	return m.Assoc(args[1:]...)
}

func dissoc(args List) (Value, error) {
	if err := wantMinArgs("dissoc", args, 1); err != nil {
		return nil, err
	}
	m, err := hashMapArg("dissoc", args[0])
	if err != nil {
		return nil, err
	}
	return m.Dissoc(args[1:]...)
}

func get(args List) (Value, error) {
	if err := wantArgs("get", args, 2); err != nil {
		return nil, err
	}
	if args[0] == Nil {
		return Nil, nil
	}
	m, err := hashMapArg("get", args[0])
	if err != nil {
		return nil, err
	}
	v, ok, err := m.Get(args[1])
	if err != nil {
		return nil, err
	}
	if !ok {
		return Nil, nil
	}
	return v, nil
}

func contains(args List) (Value, error) {
	if err := wantArgs("contains?", args, 2); err != nil {
		return nil, err
	}
	m, err := hashMapArg("contains?", args[0])
	if err != nil {
		return nil, err
	}
	_, ok, err := m.Get(args[1])
	if err != nil {
		return nil, err
	}
	return boolValue(ok), nil
}

func keys(args List) (Value, error) {
	if err := wantArgs("keys", args, 1); err != nil {
		return nil, err
	}
	m, err := hashMapArg("keys", args[0])
	if err != nil {
		return nil, err
	}
	return m.Keys(), nil
}

func vals(args List) (Value, error) {
	if err := wantArgs("vals", args, 1); err != nil {
		return nil, err
	}
	m, err := hashMapArg("vals", args[0])
	if err != nil {
		return nil, err
	}
	out := List{}
	for _, k := range m.Keys() {
		out = append(out, m[k])
	}
	return out, nil
}

func throw(args List) (Value, error) {
	if err := wantArgs("throw", args, 1); err != nil {
		return nil, err
	}
	return nil, Throw(args[0])
}

// (apply f a b [c d]) calls (f a b c d)
func apply(args List) (Value, error) {
	if err := wantMinArgs("apply", args, 1); err != nil {
		return nil, err
	}
	f, err := fnArg("apply", args[0])
	if err != nil {
		return nil, err
	}
	fargs := []Value{}
	if len(args) > 1 {
		last, err := seqArg("apply", args[len(args)-1])
		if err != nil {
			return nil, err
		}
		fargs = append(fargs, args[1:len(args)-1]...)
		fargs = append(fargs, last...)
	}
	return Apply(f, fargs)
}

func mapFunc(args List) (Value, error) {
	if err := wantArgs("map", args, 2); err != nil {
		return nil, err
	}
	f, err := fnArg("map", args[0])
	if err != nil {
		return nil, err
	}
	items, err := seqArg("map", args[1])
	if err != nil {
		return nil, err
	}
	out := make(List, len(items))
	for i, item := range items {
		v, err := Apply(f, []Value{item})
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func isNil(args List) (Value, error) {
	if err := wantArgs("nil?", args, 1); err != nil {
		return nil, err
	}
	return boolValue(args[0] == Nil), nil
}

func isTrue(args List) (Value, error) {
	if err := wantArgs("true?", args, 1); err != nil {
		return nil, err
	}
	return boolValue(args[0] == True), nil
}

func isFalse(args List) (Value, error) {
	if err := wantArgs("false?", args, 1); err != nil {
		return nil, err
	}
	return boolValue(args[0] == False), nil
}

func isFn(args List) (Value, error) {
	if err := wantArgs("fn?", args, 1); err != nil {
		return nil, err
	}
	switch f := args[0].(type) {
	case *Builtin:
		return True, nil
	case *Closure:
		return boolValue(!f.IsMacro), nil
	}
	return False, nil
}

func isMacro(args List) (Value, error) {
	if err := wantArgs("macro?", args, 1); err != nil {
		return nil, err
	}
	c, ok := args[0].(*Closure)
	return boolValue(ok && c.IsMacro), nil
}

func symbol(args List) (Value, error) {
	if err := wantArgs("symbol", args, 1); err != nil {
		return nil, err
	}
	s, err := stringArg("symbol", args[0])
	if err != nil {
		return nil, err
	}
	return Symbol(s), nil
}

func keyword(args List) (Value, error) {
	if err := wantArgs("keyword", args, 1); err != nil {
		return nil, err
	}
	if k, ok := args[0].(Keyword); ok {
		return k, nil
	}
	s, err := stringArg("keyword", args[0])
	if err != nil {
		return nil, err
	}
	return Keyword(s), nil
}

// gensym returns a builtin producing fresh symbols for macro hygiene.
func gensym() BuiltinFunc {
	n := 0
	return func(args List) (Value, error) {
		prefix := "G__"
		if len(args) > 0 {
			s, err := stringArg("gensym", args[0])
			if err != nil {
				return nil, err
			}
			prefix = string(s)
		}
		n++
		return Symbol(fmt.Sprintf("%s%d", prefix, n)), nil
	}
}

func typeName(args List) (Value, error) {
	if err := wantArgs("type", args, 1); err != nil {
		return nil, err
	}
	return String(typeOf(args[0])), nil
}

func meta(args List) (Value, error) {
	if err := wantArgs("meta", args, 1); err != nil {
		return nil, err
	}
	switch f := args[0].(type) {
	case *Closure:
		return f.Meta, nil
	case *Builtin:
		return f.Meta, nil
	}
	return Nil, nil
}

// with-meta copies the function; the original keeps its metadata
func withMeta(args List) (Value, error) {
	if err := wantArgs("with-meta", args, 2); err != nil {
		return nil, err
	}
	switch f := args[0].(type) {
	case *Closure:
		c := *f
		c.Meta = args[1]
		return &c, nil
	case *Builtin:
		b := *f
		b.Meta = args[1]
		return &b, nil
	}
	return nil, errorf(TypeError, "with-meta: expected function, got %s", typeOf(args[0]))
}

func timeMs(args List) (Value, error) {
	return Int(time.Now().UnixMilli()), nil
}
