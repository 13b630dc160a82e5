package lisp

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"strings"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// SetLogger routes the interpreter's debug output to l.
func SetLogger(l *slog.Logger) {
	logger = l
}

// LineReader shows prompt and returns one line of input without its
// newline, or io.EOF when input is exhausted.
type LineReader func(prompt string) (string, error)

func stdinLineReader(r io.Reader) LineReader {
	scanner := bufio.NewScanner(r)
	return func(prompt string) (string, error) {
		io.WriteString(os.Stdout, prompt)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return strings.TrimRight(scanner.Text(), "\r"), nil
	}
}

type Option func(*host)

// WithOutput sends prn and println output to w.
func WithOutput(w io.Writer) Option {
	return func(h *host) {
		h.out = w
	}
}

// WithInput makes readline read lines from r.
func WithInput(r io.Reader) Option {
	return func(h *host) {
		h.readLine = stdinLineReader(r)
	}
}

// WithLineReader makes readline call f, e.g. to share a line editor.
func WithLineReader(f LineReader) Option {
	return func(h *host) {
		h.readLine = f
	}
}

type Lisp struct {
	Env *Env
}

// New returns an interpreter with the primitives and prelude loaded.
func New(opts ...Option) Lisp {
	h := host{out: os.Stdout, readLine: stdinLineReader(os.Stdin)}
	for _, opt := range opts {
		opt(&h)
	}
	l := Lisp{Env: newGlobalEnv(h)}
	if err := l.Load(prelude); err != nil {
		panic(err)
	}
	return l
}

// Eval reads the first form in input and evaluates it.
func (l Lisp) Eval(input string) (Value, error) {
	v, err := Read(input)
	if err != nil {
		return nil, err
	}
	return l.EvalExpr(v)
}

func (l Lisp) EvalExpr(v Value) (Value, error) {
	return Eval(v, l.Env)
}

// Rep reads, evaluates and prints readably.
func (l Lisp) Rep(input string) (string, error) {
	v, err := l.Eval(input)
	if err != nil {
		return "", err
	}
	return Print(v, true), nil
}

// SetArgs binds *ARGV* to args as a list of strings.
func (l Lisp) SetArgs(args []string) {
	argv := make(List, len(args))
	for i, a := range args {
		argv[i] = String(a)
	}
	l.Env.Set("*ARGV*", argv)
}

// Define binds name in the global environment.
func (l Lisp) Define(name string, v Value) {
	l.Env.Set(Symbol(name), v)
}

// AddBuiltin exposes a Go function to lisp code under name.
func (l Lisp) AddBuiltin(name string, f BuiltinFunc) {
	l.Define(name, &Builtin{Name: name, Fn: f, Meta: Nil})
}
