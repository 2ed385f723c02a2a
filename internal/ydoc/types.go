package ydoc

import (
	"fmt"

	"github.com/joshuapare/ydockit/pkg/jsonv"
)

// TypeRef is the wire tag of a shared type.
type TypeRef int

const (
	TypeArray TypeRef = iota
	TypeMap
	TypeText
	TypeXMLElement
	TypeXMLFragment
	TypeXMLHook
	TypeXMLText

	// typeUnknown marks top-level shares, whose type is never encoded.
	typeUnknown TypeRef = -1
)

func (r TypeRef) String() string {
	switch r {
	case TypeArray:
		return "YArray"
	case TypeMap:
		return "YMap"
	case TypeText:
		return "YText"
	case TypeXMLElement:
		return "YXmlElement"
	case TypeXMLFragment:
		return "YXmlFragment"
	case TypeXMLHook:
		return "YXmlHook"
	case TypeXMLText:
		return "YXmlText"
	case typeUnknown:
		return "unknown"
	}
	return fmt.Sprintf("TypeRef(%d)", int(r))
}

// Type is a shared type: a sequence of items, a map of keyed items, or both.
type Type struct {
	Ref  TypeRef
	Name string // node name of an XML element or hook

	start   *Item
	entries map[string]*Item // current (rightmost) item per key
	keys    []string         // entry keys in first-insertion order
	item    *Item            // owning item; nil for top-level shares
	length  int              // visible countable length of the sequence
}

func newType(ref TypeRef, name string) *Type {
	return &Type{Ref: ref, Name: name, entries: make(map[string]*Item)}
}

func (t *Type) setEntry(key string, it *Item) {
	if _, ok := t.entries[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.entries[key] = it
}

// Len returns the number of visible sequence elements.
func (t *Type) Len() int { return t.length }

// Keys returns the keys of visible map entries in first-insertion order.
func (t *Type) Keys() []string {
	keys := make([]string, 0, len(t.keys))
	for _, k := range t.keys {
		if !t.entries[k].deleted {
			keys = append(keys, k)
		}
	}
	return keys
}

// Get returns the current entry stored under key.
func (t *Type) Get(key string) (Entry, bool) {
	it, ok := t.entries[key]
	if !ok || it.deleted {
		return Entry{}, false
	}
	return Entry{item: it}, true
}

// Entry is the current value of one map key.
type Entry struct {
	item *Item
}

// Type returns the nested shared type held by the entry, if any.
func (e Entry) Type() (*Type, bool) {
	if ct, ok := e.item.Content.(*ContentType); ok {
		return ct.Type, true
	}
	return nil, false
}

// Value returns the entry as Y.Map#toJSON would: nested types are
// materialized, plain values returned as stored.
func (e Entry) Value() jsonv.Value {
	vals := values(e.item.Content)
	if len(vals) == 0 {
		return jsonv.Null{}
	}
	return vals[len(vals)-1]
}

// Materialize converts the entry into a JSON-like value. Only shared types
// and subdocuments can be materialized; plain values yield
// ErrNotMaterializable.
func (e Entry) Materialize() (jsonv.Value, error) {
	switch c := e.item.Content.(type) {
	case *ContentType:
		return c.Type.JSON(), nil
	case *ContentDoc:
		return jsonv.NewObject(), nil
	}
	return nil, ErrNotMaterializable
}
