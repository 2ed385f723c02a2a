package jsonv

import (
	"bytes"
	"strings"
)

// Marshal encodes v as compact JSON, preserving object key order.
func Marshal(v Value) []byte {
	var buf bytes.Buffer
	writeValue(&buf, v, "", "", 0)
	return buf.Bytes()
}

// MarshalIndent is like Marshal but indents nested containers the same way
// json.MarshalIndent does.
func MarshalIndent(v Value, prefix, indent string) []byte {
	var buf bytes.Buffer
	buf.WriteString(prefix)
	writeValue(&buf, v, prefix, indent, 0)
	return buf.Bytes()
}

func writeValue(buf *bytes.Buffer, v Value, prefix, indent string, depth int) {
	pretty := indent != "" || prefix != ""
	newline := func(d int) {
		if !pretty {
			return
		}
		buf.WriteByte('\n')
		buf.WriteString(prefix)
		buf.WriteString(strings.Repeat(indent, d))
	}

	switch x := v.(type) {
	case Array:
		if len(x) == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteByte('[')
		for i, el := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(depth + 1)
			writeValue(buf, el, prefix, indent, depth+1)
		}
		newline(depth)
		buf.WriteByte(']')
	case Object:
		if x.Len() == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteByte('{')
		for i, m := range x.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(depth + 1)
			buf.WriteString(Quote(m.Key))
			buf.WriteByte(':')
			if pretty {
				buf.WriteByte(' ')
			}
			writeValue(buf, m.Value, prefix, indent, depth+1)
		}
		newline(depth)
		buf.WriteByte('}')
	default:
		buf.WriteString(Literal(v))
	}
}

// MarshalJSON implements json.Marshaler so values can be embedded in
// structures encoded with encoding/json.
func (n Null) MarshalJSON() ([]byte, error)   { return []byte("null"), nil }
func (b Bool) MarshalJSON() ([]byte, error)   { return []byte(Literal(b)), nil }
func (n Number) MarshalJSON() ([]byte, error) { return []byte(Literal(n)), nil }
func (s String) MarshalJSON() ([]byte, error) { return []byte(Literal(s)), nil }
func (a Array) MarshalJSON() ([]byte, error)  { return Marshal(a), nil }
func (o Object) MarshalJSON() ([]byte, error) { return Marshal(o), nil }
