package ydoc

// structRef is either an *Item or a *gc range in the struct store.
type structRef interface {
	id() ID
	length() int
}

// gc is a range of clocks whose content was garbage collected, or an item
// whose parent could not be resolved.
type gc struct {
	ID     ID
	Length int
}

func (g *gc) id() ID      { return g.ID }
func (g *gc) length() int { return g.Length }

// skip marks a gap in a client's clock range. It is never stored.
type skip struct {
	ID     ID
	Length int
}

// Item is one integrated run of content from a single client.
type Item struct {
	ID          ID
	Length      int
	Origin      *ID // left neighbour at insertion time
	RightOrigin *ID // right neighbour at insertion time
	Content     Content

	left, right *Item
	parent      *Type
	parentID    *ID     // unresolved parent reference from the wire
	parentSub   *string // map key when the item belongs to a map
	deleted     bool
}

func (it *Item) id() ID      { return it.ID }
func (it *Item) length() int { return it.Length }

// Deleted reports whether the item was removed.
func (it *Item) Deleted() bool { return it.deleted }

func (it *Item) countable() bool { return it.Content.Countable() }

func (it *Item) lastID() ID {
	return ID{Client: it.ID.Client, Clock: it.ID.Clock + uint64(it.Length) - 1}
}

func lastID(s structRef) ID {
	id := s.id()
	return ID{Client: id.Client, Clock: id.Clock + uint64(s.length()) - 1}
}

// markDeleted removes the item from its parent's visible length. Deleting a
// nested type deletes its children too.
func (it *Item) markDeleted() {
	if it.deleted {
		return
	}
	if it.parent != nil && it.parentSub == nil && it.countable() {
		it.parent.length -= it.Length
	}
	it.deleted = true
	if ct, ok := it.Content.(*ContentType); ok {
		for n := ct.Type.start; n != nil; n = n.right {
			n.markDeleted()
		}
		for _, key := range ct.Type.keys {
			for n := ct.Type.entries[key]; n != nil; n = n.left {
				n.markDeleted()
			}
		}
	}
}

// split cuts it after diff ticks and returns the right half, which takes
// over its place as map entry when it was the current value.
func (it *Item) split(diff int) *Item {
	right := &Item{
		ID:          ID{Client: it.ID.Client, Clock: it.ID.Clock + uint64(diff)},
		Origin:      &ID{Client: it.ID.Client, Clock: it.ID.Clock + uint64(diff) - 1},
		RightOrigin: it.RightOrigin,
		Content:     it.Content.splice(diff),
		left:        it,
		right:       it.right,
		parent:      it.parent,
		parentSub:   it.parentSub,
		deleted:     it.deleted,
	}
	right.Length = it.Length - diff
	it.Length = diff
	it.right = right
	if right.right != nil {
		right.right.left = right
	}
	if right.parentSub != nil && right.right == nil && right.parent != nil {
		right.parent.setEntry(*right.parentSub, right)
	}
	return right
}

func (s *skip) id() ID      { return s.ID }
func (s *skip) length() int { return s.Length }
