// Package tree renders a JSON-like value as a list of lines for a
// collapsible tree view.
//
// Every non-empty array or object is a node that can be expanded or
// collapsed; its expand state lives in a State keyed by the node's path.
// Brackets depend only on the container kind and the trailing comma only on
// the node's position, so collapsing a node never changes the punctuation of
// any other line.
package tree

import (
	"strings"

	"github.com/joshuapare/ydockit/pkg/jsonv"
)

// Ellipsis stands for the hidden children of a collapsed node.
const Ellipsis = "…"

// LineKind distinguishes the shapes a rendered line can take.
type LineKind int

const (
	LineLeaf      LineKind = iota // scalar or empty container: "a": 1
	LineOpen                      // header of an expanded node: "a": {
	LineClose                     // closing bracket of an expanded node: }
	LineCollapsed                 // whole collapsed node: "a": {…}
)

// Line is one row of the rendered tree.
type Line struct {
	Kind  LineKind
	Path  Path // node the line belongs to; a close line shares its header's path
	Depth int

	Key    string
	HasKey bool // object members carry a key; array elements and the root do not

	Value   jsonv.Value // the node's value
	Literal string      // leaf text: quoted string, number, true/false/null, [] or {}
	Open    string      // "[" or "{" for container lines
	Close   string      // "]" or "}" for container lines

	Comma bool // false only for the last child of its parent and the root
}

// Expandable reports whether the line is a toggle point.
func (l Line) Expandable() bool {
	return l.Kind == LineOpen || l.Kind == LineCollapsed
}

// Expanded reports whether the line is the header of an expanded node.
func (l Line) Expanded() bool { return l.Kind == LineOpen }

// KeyText returns the quoted key followed by ": ", or "" without a key.
func (l Line) KeyText() string {
	if !l.HasKey {
		return ""
	}
	return jsonv.Quote(l.Key) + ": "
}

// Body returns the line without its key and comma.
func (l Line) Body() string {
	switch l.Kind {
	case LineOpen:
		return l.Open
	case LineClose:
		return l.Close
	case LineCollapsed:
		return l.Open + Ellipsis + l.Close
	}
	return l.Literal
}

// Text returns the plain textual form of the line, without indentation.
func (l Line) Text() string {
	var sb strings.Builder
	if l.Kind != LineClose {
		sb.WriteString(l.KeyText())
	}
	sb.WriteString(l.Body())
	if l.Comma {
		sb.WriteByte(',')
	}
	return sb.String()
}

// Render walks v from the root and returns its lines in display order.
// A nil state renders every node expanded.
func Render(v jsonv.Value, state *State) []Line {
	if v == nil {
		v = jsonv.Null{}
	}
	r := renderer{state: state}
	r.node(v, nil, "", false, true)
	return r.lines
}

// Format renders v as indented text, one line per row.
func Format(v jsonv.Value, state *State, indent string) string {
	lines := Render(v, state)
	var sb strings.Builder
	for i, l := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.Repeat(indent, l.Depth))
		sb.WriteString(l.Text())
	}
	return sb.String()
}

type renderer struct {
	state *State
	lines []Line
}

func brackets(v jsonv.Value) (string, string) {
	if _, ok := v.(jsonv.Array); ok {
		return "[", "]"
	}
	return "{", "}"
}

func (r *renderer) node(v jsonv.Value, p Path, key string, hasKey, isLast bool) {
	base := Line{
		Path:   p,
		Depth:  p.Depth(),
		Key:    key,
		HasKey: hasKey,
		Value:  v,
		Comma:  !isLast,
	}

	if !jsonv.IsContainer(v) || jsonv.Len(v) == 0 {
		base.Kind = LineLeaf
		base.Literal = jsonv.Literal(v)
		r.lines = append(r.lines, base)
		return
	}

	base.Open, base.Close = brackets(v)
	if !r.state.IsExpanded(p) {
		base.Kind = LineCollapsed
		r.lines = append(r.lines, base)
		return
	}

	header := base
	header.Kind = LineOpen
	header.Comma = false
	r.lines = append(r.lines, header)

	switch c := v.(type) {
	case jsonv.Array:
		for i, el := range c {
			r.node(el, p.Child(Index(i)), "", false, i == len(c)-1)
		}
	case jsonv.Object:
		members := c.Members()
		for i, m := range members {
			r.node(m.Value, p.Child(Key(m.Key)), m.Key, true, i == len(members)-1)
		}
	}

	closing := base
	closing.Kind = LineClose
	r.lines = append(r.lines, closing)
}
