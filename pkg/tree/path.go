package tree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joshuapare/ydockit/pkg/jsonv"
)

// Segment is one step of a Path: an object key or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Key returns an object-key segment.
func Key(k string) Segment { return Segment{Key: k} }

// Index returns an array-index segment.
func Index(i int) Segment { return Segment{Index: i, IsIndex: true} }

// Path is the sequence of keys and indices from the root to a node. The
// root is the empty path. A node's path is its identity for expand state.
type Path []Segment

// Child returns a copy of p extended by seg.
func (p Path) Child(seg Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Parent returns p without its last segment. The root is its own parent.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return p
	}
	return p[: len(p)-1 : len(p)-1]
}

// Depth is the number of segments.
func (p Path) Depth() int { return len(p) }

// Equal reports whether p and q name the same node.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// String renders p as a JavaScript accessor chain rooted at "$", e.g.
// $.objects["object data"][2]. Distinct paths have distinct strings.
func (p Path) String() string {
	var sb strings.Builder
	sb.WriteByte('$')
	for _, seg := range p {
		switch {
		case seg.IsIndex:
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(seg.Index))
			sb.WriteByte(']')
		case isIdentifier(seg.Key):
			sb.WriteByte('.')
			sb.WriteString(seg.Key)
		default:
			sb.WriteByte('[')
			sb.WriteString(jsonv.Quote(seg.Key))
			sb.WriteByte(']')
		}
	}
	return sb.String()
}

// ParsePath is the inverse of Path.String. The leading "$" is optional.
func ParsePath(s string) (Path, error) {
	s = strings.TrimPrefix(s, "$")
	var p Path
	for len(s) > 0 {
		switch s[0] {
		case '.':
			end := 1
			for end < len(s) && s[end] != '.' && s[end] != '[' {
				end++
			}
			if end == 1 {
				return nil, fmt.Errorf("empty key at %q", s)
			}
			p = append(p, Key(s[1:end]))
			s = s[end:]
		case '[':
			if len(s) > 1 && s[1] == '"' {
				end := quotedEnd(s, 1)
				if end < 0 || end+1 >= len(s) || s[end+1] != ']' {
					return nil, fmt.Errorf("unterminated key at %q", s)
				}
				v, err := jsonv.Parse([]byte(s[1 : end+1]))
				if err != nil {
					return nil, fmt.Errorf("bad key at %q: %w", s, err)
				}
				p = append(p, Key(string(v.(jsonv.String))))
				s = s[end+2:]
				continue
			}
			end := strings.IndexByte(s, ']')
			if end < 0 {
				return nil, fmt.Errorf("unterminated index at %q", s)
			}
			n, err := strconv.Atoi(s[1:end])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("bad index at %q", s)
			}
			p = append(p, Index(n))
			s = s[end+1:]
		default:
			return nil, fmt.Errorf("unexpected %q", s)
		}
	}
	return p, nil
}

// quotedEnd returns the index of the quote closing the string opened at
// start, or -1.
func quotedEnd(s string, start int) int {
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// Lookup returns the node of v at p.
func Lookup(v jsonv.Value, p Path) (jsonv.Value, bool) {
	cur := v
	for _, seg := range p {
		switch c := cur.(type) {
		case jsonv.Array:
			if !seg.IsIndex || seg.Index < 0 || seg.Index >= len(c) {
				return nil, false
			}
			cur = c[seg.Index]
		case jsonv.Object:
			if seg.IsIndex {
				return nil, false
			}
			next, ok := c.Get(seg.Key)
			if !ok {
				return nil, false
			}
			cur = next
		default:
			return nil, false
		}
	}
	return cur, true
}
