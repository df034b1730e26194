package jsonvalue

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
)

// Marshal returns the compact JSON encoding of v.
func Marshal(v Value) []byte {
	e := encoder{}
	e.value(v, 0)
	return e.buf.Bytes()
}

// MarshalIndent returns the JSON encoding of v with one indent per nesting
// level, in stored key order. Empty containers stay on one line.
func MarshalIndent(v Value, indent string) []byte {
	e := encoder{indent: indent}
	e.value(v, 0)
	return e.buf.Bytes()
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return Marshal(v), nil
}

type encoder struct {
	buf    bytes.Buffer
	indent string
}

func (e *encoder) newline(level int) {
	if e.indent == "" {
		return
	}
	e.buf.WriteByte('\n')
	for i := 0; i < level; i++ {
		e.buf.WriteString(e.indent)
	}
}

func (e *encoder) value(v Value, level int) {
	switch v.kind {
	case Null:
		e.buf.WriteString("null")
	case Bool:
		if v.b {
			e.buf.WriteString("true")
		} else {
			e.buf.WriteString("false")
		}
	case Number:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			e.buf.WriteString("null")
			return
		}
		e.buf.WriteString(FormatNumber(v.n))
	case String:
		e.buf.WriteString(Quote(v.s))
	case Array:
		if len(v.items) == 0 {
			e.buf.WriteString("[]")
			return
		}
		e.buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			e.newline(level + 1)
			e.value(item, level+1)
		}
		e.newline(level)
		e.buf.WriteByte(']')
	case Object:
		if len(v.members) == 0 {
			e.buf.WriteString("{}")
			return
		}
		e.buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			e.newline(level + 1)
			e.buf.WriteString(Quote(m.Key))
			e.buf.WriteByte(':')
			if e.indent != "" {
				e.buf.WriteByte(' ')
			}
			e.value(m.Value, level+1)
		}
		e.newline(level)
		e.buf.WriteByte('}')
	}
}

// Quote returns s as a JSON string literal without HTML escaping.
func Quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
