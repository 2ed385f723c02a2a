package ydoc

import (
	"sort"
	"strings"

	"github.com/joshuapare/ydockit/pkg/jsonv"
)

// JSON materializes t the way its Yjs class implements toJSON: maps become
// objects, arrays become arrays, text and XML types become strings.
//
// Top-level shares have no encoded type. They are materialized by content:
// a share with sequence content is text when it holds strings or format
// markers and an array otherwise; a share with only keyed content is an
// object, as is an empty share.
func (t *Type) JSON() jsonv.Value {
	switch t.kind() {
	case TypeArray:
		return t.ArrayJSON()
	case TypeText:
		return jsonv.String(t.TextString())
	case TypeXMLFragment:
		return jsonv.String(t.xmlChildren())
	case TypeXMLElement:
		return jsonv.String(t.xmlElement())
	case TypeXMLText:
		return jsonv.String(t.xmlText())
	}
	return t.MapJSON()
}

// kind returns the effective type ref, inferring it for shares.
func (t *Type) kind() TypeRef {
	if t.Ref != typeUnknown {
		return t.Ref
	}
	if t.start == nil {
		return TypeMap
	}
	for n := t.start; n != nil; n = n.right {
		switch n.Content.(type) {
		case *ContentString, *ContentFormat:
			return TypeText
		}
	}
	return TypeArray
}

// MapJSON materializes the keyed part of t (Y.Map#toJSON).
func (t *Type) MapJSON() jsonv.Object {
	var b jsonv.ObjectBuilder
	for _, key := range t.keys {
		it := t.entries[key]
		if it.deleted {
			continue
		}
		b.Set(key, Entry{item: it}.Value())
	}
	return b.Object()
}

// ArrayJSON materializes the sequence part of t (Y.Array#toJSON).
func (t *Type) ArrayJSON() jsonv.Array {
	out := make(jsonv.Array, 0, t.length)
	for n := t.start; n != nil; n = n.right {
		if n.deleted || !n.countable() {
			continue
		}
		out = append(out, values(n.Content)...)
	}
	return out
}

// TextString concatenates the visible text of t (Y.Text#toString).
func (t *Type) TextString() string {
	var sb strings.Builder
	for n := t.start; n != nil; n = n.right {
		if n.deleted {
			continue
		}
		if s, ok := n.Content.(*ContentString); ok {
			sb.WriteString(s.Str)
		}
	}
	return sb.String()
}

func (t *Type) xmlChildren() string {
	var sb strings.Builder
	for n := t.start; n != nil; n = n.right {
		if n.deleted || !n.countable() {
			continue
		}
		if ct, ok := n.Content.(*ContentType); ok {
			sb.WriteString(ct.Type.xmlString())
			continue
		}
		for _, v := range values(n.Content) {
			sb.WriteString(attrString(v))
		}
	}
	return sb.String()
}

func (t *Type) xmlString() string {
	switch t.Ref {
	case TypeXMLElement:
		return t.xmlElement()
	case TypeXMLText:
		return t.xmlText()
	case TypeXMLFragment:
		return t.xmlChildren()
	}
	return string(jsonv.Marshal(t.JSON()))
}

func (t *Type) xmlElement() string {
	name := strings.ToLower(t.Name)
	keys := t.Keys()
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteString("<" + name)
	for _, k := range keys {
		sb.WriteString(" " + k + `="` + attrString(Entry{item: t.entries[k]}.Value()) + `"`)
	}
	sb.WriteString(">")
	sb.WriteString(t.xmlChildren())
	sb.WriteString("</" + name + ">")
	return sb.String()
}

// xmlText renders text with each run wrapped in one element per active
// format attribute, sorted by name (Y.XmlText#toString).
func (t *Type) xmlText() string {
	var sb strings.Builder
	attrs := map[string]jsonv.Value{}
	for n := t.start; n != nil; n = n.right {
		if n.deleted {
			continue
		}
		switch c := n.Content.(type) {
		case *ContentFormat:
			if c.Value.Kind() == jsonv.KindNull {
				delete(attrs, c.Key)
			} else {
				attrs[c.Key] = c.Value
			}
		case *ContentString:
			names := make([]string, 0, len(attrs))
			for k := range attrs {
				names = append(names, k)
			}
			sort.Strings(names)
			for _, name := range names {
				sb.WriteString("<" + name)
				if obj, ok := attrs[name].(jsonv.Object); ok {
					members := append([]jsonv.Member(nil), obj.Members()...)
					sort.Slice(members, func(i, j int) bool { return members[i].Key < members[j].Key })
					for _, m := range members {
						sb.WriteString(" " + m.Key + `="` + attrString(m.Value) + `"`)
					}
				}
				sb.WriteString(">")
			}
			sb.WriteString(c.Str)
			for i := len(names) - 1; i >= 0; i-- {
				sb.WriteString("</" + names[i] + ">")
			}
		}
	}
	return sb.String()
}

// attrString converts a value to text the way string interpolation does in
// JavaScript for the common cases.
func attrString(v jsonv.Value) string {
	switch x := v.(type) {
	case jsonv.String:
		return string(x)
	case jsonv.Object:
		return "[object Object]"
	case jsonv.Array:
		parts := make([]string, len(x))
		for i, el := range x {
			if el.Kind() != jsonv.KindNull {
				parts[i] = attrString(el)
			}
		}
		return strings.Join(parts, ",")
	}
	return jsonv.Literal(v)
}
