package lisp

import (
	"strconv"
	"strings"
)

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// Print renders v as text. With readably set, strings are quoted and
// escaped so the reader gets the same value back.
func Print(v Value, readably bool) string {
	var b strings.Builder
	writeValue(&b, v, readably)
	return b.String()
}

// PrintAll renders each value and joins them with sep.
func PrintAll(values []Value, readably bool, sep string) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteString(sep)
		}
		writeValue(&b, v, readably)
	}
	return b.String()
}

func writeValue(b *strings.Builder, v Value, readably bool) {
	switch x := v.(type) {
	case nil, nilValue:
		b.WriteString("nil")
	case Bool:
		b.WriteString(strconv.FormatBool(bool(x)))
	case Int:
		b.WriteString(strconv.FormatInt(int64(x), 10))
	case String:
		if !readably {
			b.WriteString(string(x))
			return
		}
		b.WriteByte('"')
		escaper.WriteString(b, string(x))
		b.WriteByte('"')
	case Symbol:
		b.WriteString(string(x))
	case Keyword:
		b.WriteByte(':')
		b.WriteString(string(x))
	case List:
		writeSeq(b, x, "(", ")", readably)
	case Vector:
		writeSeq(b, x, "[", "]", readably)
	case HashMap:
		b.WriteByte('{')
		for i, k := range x.Keys() {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeValue(b, k, readably)
			b.WriteByte(' ')
			writeValue(b, x[k], readably)
		}
		b.WriteByte('}')
	case *Closure:
		if x.IsMacro {
			b.WriteString("#<macro>")
		} else {
			b.WriteString("#<function>")
		}
	case *Builtin:
		b.WriteString("#<builtin ")
		b.WriteString(x.Name)
		b.WriteByte('>')
	case *Atom:
		b.WriteString("(atom ")
		writeValue(b, x.Value, readably)
		b.WriteByte(')')
	case ErrorValue:
		writeValue(b, x.Value, readably)
	}
}

func writeSeq(b *strings.Builder, items []Value, left, right string, readably bool) {
	b.WriteString(left)
	for i, item := range items {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeValue(b, item, readably)
	}
	b.WriteString(right)
}
