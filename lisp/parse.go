package lisp

import (
	"os"
	"strconv"
	"strings"
)

type token struct {
	text      string
	line, col int
}

// ParseFile reads every form in filename.
func ParseFile(filename string) ([]Value, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ReadAll(string(b))
}

// Read returns the first form in src; anything after it is ignored.
func Read(src string) (Value, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, ErrEmptyInput
	}
	r := &reader{tokens: tokens}
	return r.readForm()
}

// ReadAll returns every form in src, in order.
func ReadAll(src string) ([]Value, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	r := &reader{tokens: tokens}
	forms := []Value{}
	for r.pos < len(r.tokens) {
		f, err := r.readForm()
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
	return forms, nil
}

func mustParse(program string) Value {
	v, err := Read(program)
	if err != nil {
		panic(err)
	}
	return v
}

func isDelimiter(c byte) bool {
	return strings.IndexByte(" \t\r\n,()[]{}'\"`~^@;", c) >= 0
}

func tokenize(src string) ([]token, error) {
	tokens := []token{}
	line, col := 1, 1
	advance := func(n int) {
		for _, c := range []byte(src[:n]) {
			if c == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
		src = src[n:]
	}
	for len(src) > 0 {
		c := src[0]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == ',':
			advance(1)
		case c == ';':
			end := strings.IndexByte(src, '\n')
			if end < 0 {
				end = len(src)
			}
			advance(end)
		case strings.HasPrefix(src, "~@"):
			tokens = append(tokens, token{"~@", line, col})
			advance(2)
		case strings.IndexByte("()[]{}'`~^@", c) >= 0:
			tokens = append(tokens, token{string(c), line, col})
			advance(1)
		case c == '"':
			end, ok := stringEnd(src)
			if !ok {
				return nil, &ParseError{Line: line, Col: col, Msg: "expected '\"', got EOF", Incomplete: true}
			}
			tokens = append(tokens, token{src[:end], line, col})
			advance(end)
		default:
			end := 1
			for end < len(src) && !isDelimiter(src[end]) {
				end++
			}
			tokens = append(tokens, token{src[:end], line, col})
			advance(end)
		}
	}
	return tokens, nil
}

// stringEnd returns the index just past the closing quote of the string
// literal at the start of src.
func stringEnd(src string) (int, bool) {
	for i := 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '"':
			return i + 1, true
		}
	}
	return 0, false
}

type reader struct {
	tokens []token
	pos    int
}

func (r *reader) peek() (token, bool) {
	if r.pos >= len(r.tokens) {
		return token{}, false
	}
	return r.tokens[r.pos], true
}

func (r *reader) next() (token, bool) {
	t, ok := r.peek()
	if ok {
		r.pos++
	}
	return t, ok
}

func (r *reader) eof(msg string) error {
	line, col := 1, 1
	if n := len(r.tokens); n > 0 {
		last := r.tokens[n-1]
		line, col = last.line, last.col+len(last.text)
	}
	return &ParseError{Line: line, Col: col, Msg: msg, Incomplete: true}
}

var readerMacros = map[string]Symbol{
	"'":  symQuote,
	"`":  symQuasiquote,
	"~":  symUnquote,
	"~@": symSpliceUnquote,
	"@":  symDeref,
}

func (r *reader) readForm() (Value, error) {
	t, ok := r.next()
	if !ok {
		return nil, r.eof("expected form, got EOF")
	}
	if sym, ok := readerMacros[t.text]; ok {
		f, err := r.readForm()
		if err != nil {
			return nil, err
		}
		return List{sym, f}, nil
	}
	switch t.text {
	case "^":
		meta, err := r.readForm()
		if err != nil {
			return nil, err
		}
		f, err := r.readForm()
		if err != nil {
			return nil, err
		}
		return List{symWithMeta, f, meta}, nil
	case "(":
		items, err := r.readSeq(")")
		if err != nil {
			return nil, err
		}
		return List(items), nil
	case "[":
		items, err := r.readSeq("]")
		if err != nil {
			return nil, err
		}
		return Vector(items), nil
	case "{":
		items, err := r.readSeq("}")
		if err != nil {
			return nil, err
		}
		m, err := NewHashMap(items...)
		if err != nil {
			return nil, &ParseError{Line: t.line, Col: t.col, Msg: err.Error()}
		}
		return m, nil
	case ")", "]", "}":
		return nil, &ParseError{Line: t.line, Col: t.col, Msg: "unexpected '" + t.text + "'"}
	}
	return readAtom(t)
}

func (r *reader) readSeq(closer string) ([]Value, error) {
	items := []Value{}
	for {
		t, ok := r.peek()
		if !ok {
			return nil, r.eof("expected '" + closer + "', got EOF")
		}
		switch t.text {
		case closer:
			r.pos++
			return items, nil
		case ")", "]", "}":
			return nil, &ParseError{Line: t.line, Col: t.col, Msg: "expected '" + closer + "', got '" + t.text + "'"}
		}
		f, err := r.readForm()
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
}

func isInteger(s string) bool {
	if strings.HasPrefix(s, "-") {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func readAtom(t token) (Value, error) {
	s := t.text
	switch {
	case s == "nil":
		return Nil, nil
	case s == "true":
		return True, nil
	case s == "false":
		return False, nil
	case s[0] == '"':
		return String(unescape(s[1 : len(s)-1])), nil
	case s[0] == ':':
		return Keyword(s[1:]), nil
	case isInteger(s):
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, &ParseError{Line: t.line, Col: t.col, Msg: "integer out of range: " + s}
		}
		return Int(n), nil
	}
	return Symbol(s), nil
}

func unescape(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
