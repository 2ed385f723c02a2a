package tree

import "github.com/joshuapare/ydockit/pkg/jsonv"

// State holds the expand/collapse flag of every node, keyed by path. Nodes
// are expanded unless recorded otherwise, so the zero State shows the whole
// tree. Toggling never touches the value being rendered.
//
// A nil *State is read-only: it renders everything expanded and ignores
// changes.
type State struct {
	collapsed map[string]bool
}

// NewState returns a State with every node expanded.
func NewState() *State {
	return &State{collapsed: make(map[string]bool)}
}

// IsExpanded reports whether the node at p is expanded. A nil State expands
// everything.
func (s *State) IsExpanded(p Path) bool {
	if s == nil {
		return true
	}
	return !s.collapsed[p.String()]
}

// Toggle flips the node at p and nothing else.
func (s *State) Toggle(p Path) {
	if s == nil {
		return
	}
	if s.IsExpanded(p) {
		s.Collapse(p)
	} else {
		s.Expand(p)
	}
}

// Expand marks the node at p expanded.
func (s *State) Expand(p Path) {
	if s == nil {
		return
	}
	delete(s.collapsed, p.String())
}

// Collapse marks the node at p collapsed.
func (s *State) Collapse(p Path) {
	if s == nil {
		return
	}
	if s.collapsed == nil {
		s.collapsed = make(map[string]bool)
	}
	s.collapsed[p.String()] = true
}

// ExpandAll forgets every collapsed node.
func (s *State) ExpandAll() {
	if s == nil {
		return
	}
	clear(s.collapsed)
}

// CollapseAll collapses every non-empty container of v, the root included.
func (s *State) CollapseAll(v jsonv.Value) {
	s.CollapseBelow(v, 0)
}

// CollapseBelow expands the containers of v above depth and collapses the
// ones at depth or deeper. CollapseBelow(v, 1) leaves only the root open.
func (s *State) CollapseBelow(v jsonv.Value, depth int) {
	s.ExpandAll()
	walkContainers(v, nil, func(p Path) {
		if p.Depth() >= depth {
			s.Collapse(p)
		}
	})
}

// Collapsed returns the number of nodes recorded as collapsed.
func (s *State) Collapsed() int {
	if s == nil {
		return 0
	}
	return len(s.collapsed)
}

func walkContainers(v jsonv.Value, p Path, fn func(Path)) {
	switch c := v.(type) {
	case jsonv.Array:
		if len(c) == 0 {
			return
		}
		fn(p)
		for i, el := range c {
			walkContainers(el, p.Child(Index(i)), fn)
		}
	case jsonv.Object:
		if c.Len() == 0 {
			return
		}
		fn(p)
		for _, m := range c.Members() {
			walkContainers(m.Value, p.Child(Key(m.Key)), fn)
		}
	}
}
