package ydoc

import (
	"encoding/base64"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/joshuapare/ydockit/pkg/jsonv"
)

// Content reference numbers from the low five bits of a struct info byte.
const (
	refGC      = 0
	refDeleted = 1
	refJSON    = 2
	refBinary  = 3
	refString  = 4
	refEmbed   = 5
	refFormat  = 6
	refType    = 7
	refAny     = 8
	refDoc     = 9
	refSkip    = 10
)

// Content is the payload carried by an Item.
type Content interface {
	// Len is the number of clock ticks the content occupies. Strings count
	// UTF-16 code units.
	Len() int
	// Countable reports whether the content contributes to a sequence length.
	Countable() bool
	// splice keeps the first offset ticks in the receiver and returns the rest.
	splice(offset int) Content
}

// ContentDeleted is a placeholder for content removed by garbage collection.
type ContentDeleted struct{ N int }

// ContentJSON holds values encoded with JSON.stringify (legacy encoding).
type ContentJSON struct{ Values []jsonv.Value }

// ContentBinary holds a single Uint8Array.
type ContentBinary struct{ Data []byte }

// ContentString holds a run of text.
type ContentString struct{ Str string }

// ContentEmbed holds an embedded object inside text.
type ContentEmbed struct{ Value jsonv.Value }

// ContentFormat is a formatting marker inside text.
type ContentFormat struct {
	Key   string
	Value jsonv.Value
}

// ContentType holds a nested shared type.
type ContentType struct{ Type *Type }

// ContentAny holds values encoded with the lib0 any encoding.
type ContentAny struct{ Values []jsonv.Value }

// ContentDoc references a subdocument by guid.
type ContentDoc struct {
	GUID string
	Opts jsonv.Value
}

func (c *ContentDeleted) Len() int        { return c.N }
func (c *ContentJSON) Len() int           { return len(c.Values) }
func (c *ContentBinary) Len() int         { return 1 }
func (c *ContentString) Len() int         { return utf16Len(c.Str) }
func (c *ContentEmbed) Len() int          { return 1 }
func (c *ContentFormat) Len() int         { return 1 }
func (c *ContentType) Len() int           { return 1 }
func (c *ContentAny) Len() int            { return len(c.Values) }
func (c *ContentDoc) Len() int            { return 1 }
func (c *ContentDeleted) Countable() bool { return false }
func (c *ContentJSON) Countable() bool    { return true }
func (c *ContentBinary) Countable() bool  { return true }
func (c *ContentString) Countable() bool  { return true }
func (c *ContentEmbed) Countable() bool   { return true }
func (c *ContentFormat) Countable() bool  { return false }
func (c *ContentType) Countable() bool    { return true }
func (c *ContentAny) Countable() bool     { return true }
func (c *ContentDoc) Countable() bool     { return true }

func (c *ContentDeleted) splice(offset int) Content {
	right := &ContentDeleted{N: c.N - offset}
	c.N = offset
	return right
}

func (c *ContentJSON) splice(offset int) Content {
	right := &ContentJSON{Values: c.Values[offset:]}
	c.Values = c.Values[:offset]
	return right
}

func (c *ContentAny) splice(offset int) Content {
	right := &ContentAny{Values: c.Values[offset:]}
	c.Values = c.Values[:offset]
	return right
}

func (c *ContentString) splice(offset int) Content {
	left, right := splitUTF16(c.Str, offset)
	c.Str = left
	return &ContentString{Str: right}
}

// Single-tick contents are never split.
func (c *ContentBinary) splice(int) Content { panic("ydoc: split of binary content") }
func (c *ContentEmbed) splice(int) Content  { panic("ydoc: split of embed content") }
func (c *ContentFormat) splice(int) Content { panic("ydoc: split of format content") }
func (c *ContentType) splice(int) Content   { panic("ydoc: split of type content") }
func (c *ContentDoc) splice(int) Content    { panic("ydoc: split of doc content") }

// values returns the elements the content contributes to a sequence, in the
// form Y.Array#toJSON produces them.
func values(c Content) []jsonv.Value {
	switch x := c.(type) {
	case *ContentJSON:
		return x.Values
	case *ContentAny:
		return x.Values
	case *ContentBinary:
		return []jsonv.Value{jsonv.String(base64.StdEncoding.EncodeToString(x.Data))}
	case *ContentString:
		// One element per UTF-16 code unit, like str.split(''). The halves
		// of a surrogate pair cannot stand alone in a Go string, so each
		// becomes U+FFFD.
		out := make([]jsonv.Value, 0, utf16Len(x.Str))
		for _, r := range x.Str {
			if r >= 0x10000 && r <= utf8.MaxRune {
				out = append(out, jsonv.String(string(utf8.RuneError)), jsonv.String(string(utf8.RuneError)))
				continue
			}
			out = append(out, jsonv.String(string(r)))
		}
		return out
	case *ContentEmbed:
		return []jsonv.Value{x.Value}
	case *ContentType:
		return []jsonv.Value{x.Type.JSON()}
	case *ContentDoc:
		// A subdocument's content lives in its own update.
		return []jsonv.Value{jsonv.NewObject()}
	}
	return nil
}

var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 && r <= utf8.MaxRune {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// splitUTF16 splits s after n UTF-16 code units. A surrogate pair cut in
// half turns into U+FFFD on both sides, as it does in Yjs.
func splitUTF16(s string, n int) (string, string) {
	encoded, err := utf16be.NewEncoder().String(s)
	if err != nil || 2*n >= len(encoded) {
		return s, ""
	}
	left, err := utf16be.NewDecoder().String(encoded[:2*n])
	if err != nil {
		return s, ""
	}
	right, err := utf16be.NewDecoder().String(encoded[2*n:])
	if err != nil {
		return s, ""
	}
	return left, right
}
