package ydoc

import "sort"

// integrate moves decoded structs into the store in causal order. Each pass
// walks the clients from the highest id down and integrates every struct
// whose dependencies are already present; passes repeat until nothing moves.
// Structs left over are pending: their dependencies are not in this update.
func (d *Doc) integrate(refs map[uint64]*clientRefs) {
	clients := make([]*clientRefs, 0, len(refs))
	for _, cr := range refs {
		sort.SliceStable(cr.structs, func(i, j int) bool {
			return cr.structs[i].id().Clock < cr.structs[j].id().Clock
		})
		clients = append(clients, cr)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].client > clients[j].client })
	d.stats.Clients = len(clients)

	for progress := true; progress; {
		progress = false
		for _, cr := range clients {
			for cr.next < len(cr.structs) {
				if !d.integrateStruct(cr.structs[cr.next]) {
					break
				}
				cr.next++
				progress = true
			}
		}
	}

	for _, cr := range clients {
		d.stats.Pending += len(cr.structs) - cr.next
	}
}

// integrateStruct reports false when ref has to wait for a dependency.
func (d *Doc) integrateStruct(ref structRef) bool {
	id := ref.id()
	state := d.store.state(id.Client)
	if id.Clock > state {
		return false
	}
	end := id.Clock + uint64(ref.length())
	if end <= state {
		// already known
		return true
	}
	offset := int(state - id.Clock)

	switch s := ref.(type) {
	case *skip:
		return true
	case *gc:
		if offset > 0 {
			s.ID.Clock += uint64(offset)
			s.Length -= offset
		}
		d.store.add(s)
		return true
	case *Item:
		if d.missing(s) {
			return false
		}
		d.resolve(s)
		d.integrateItem(s, offset)
		return true
	}
	return false
}

func (d *Doc) known(id *ID) bool {
	return id == nil || id.Clock < d.store.state(id.Client)
}

// missing reports whether an origin or parent of it has not been integrated.
func (d *Doc) missing(it *Item) bool {
	return !d.known(it.Origin) || !d.known(it.RightOrigin) || !d.known(it.parentID)
}

// resolve turns the wire references of it into pointers. An item next to a
// garbage-collected range, or under a parent that is not a type, ends up
// without a parent and is stored as gc.
func (d *Doc) resolve(it *Item) {
	var leftRef, rightRef structRef
	if it.Origin != nil {
		leftRef = d.store.cleanEnd(*it.Origin)
		origin := lastID(leftRef)
		it.Origin = &origin
	}
	if it.RightOrigin != nil {
		rightRef = d.store.cleanStart(*it.RightOrigin)
		rightOrigin := rightRef.id()
		it.RightOrigin = &rightOrigin
	}
	left, leftIsItem := leftRef.(*Item)
	right, rightIsItem := rightRef.(*Item)
	if (leftRef != nil && !leftIsItem) || (rightRef != nil && !rightIsItem) {
		it.parent = nil
		it.parentID = nil
		return
	}
	it.left = left
	it.right = right

	switch {
	case it.parent == nil && it.parentID == nil:
		if left != nil {
			it.parent = left.parent
			it.parentSub = left.parentSub
		}
		if right != nil {
			it.parent = right.parent
			it.parentSub = right.parentSub
		}
	case it.parentID != nil:
		it.parent = nil
		if p, ok := d.store.get(*it.parentID).(*Item); ok {
			if ct, ok := p.Content.(*ContentType); ok {
				it.parent = ct.Type
			}
		}
	}
}

// integrateItem places it among its siblings using the YATA rules and links
// it into the parent type. offset > 0 drops a prefix that is already known.
func (d *Doc) integrateItem(it *Item, offset int) {
	if offset > 0 {
		it.ID.Clock += uint64(offset)
		leftRef := d.store.cleanEnd(ID{Client: it.ID.Client, Clock: it.ID.Clock - 1})
		origin := lastID(leftRef)
		it.Origin = &origin
		it.left, _ = leftRef.(*Item)
		if it.left == nil {
			it.parent = nil
		}
		it.Content = it.Content.splice(offset)
		it.Length -= offset
	}

	parent := it.parent
	if parent == nil {
		d.store.add(&gc{ID: it.ID, Length: it.Length})
		return
	}

	left := it.left
	right := it.right
	if (left == nil && (right == nil || right.left != nil)) || (left != nil && left.right != right) {
		var o *Item
		switch {
		case left != nil:
			o = left.right
		case it.parentSub != nil:
			o = parent.entries[*it.parentSub]
			for o != nil && o.left != nil {
				o = o.left
			}
		default:
			o = parent.start
		}

		conflicting := make(map[structRef]bool)
		beforeOrigin := make(map[structRef]bool)
		// Items between left and right are concurrent insertions. Ties on
		// the same origin are broken by client id; items whose origin lies
		// inside the conflict window are skipped over.
		for o != nil && o != right {
			beforeOrigin[o] = true
			conflicting[o] = true
			if sameID(it.Origin, o.Origin) {
				if o.ID.Client < it.ID.Client {
					left = o
					clear(conflicting)
				} else if sameID(it.RightOrigin, o.RightOrigin) {
					break
				}
			} else if o.Origin != nil && beforeOrigin[d.store.get(*o.Origin)] {
				if !conflicting[d.store.get(*o.Origin)] {
					left = o
					clear(conflicting)
				}
			} else {
				break
			}
			o = o.right
		}
		it.left = left
	}

	if it.left != nil {
		it.right = it.left.right
		it.left.right = it
	} else {
		var r *Item
		if it.parentSub != nil {
			r = parent.entries[*it.parentSub]
			for r != nil && r.left != nil {
				r = r.left
			}
		} else {
			r = parent.start
			parent.start = it
		}
		it.right = r
	}
	if it.right != nil {
		it.right.left = it
	} else if it.parentSub != nil {
		parent.setEntry(*it.parentSub, it)
		if it.left != nil {
			it.left.markDeleted()
		}
	}
	if it.parentSub == nil && it.countable() && !it.deleted {
		parent.length += it.Length
	}

	d.store.add(it)
	if ct, ok := it.Content.(*ContentType); ok {
		ct.Type.item = it
	}
	if (parent.item != nil && parent.item.deleted) || (it.parentSub != nil && it.right != nil) {
		it.markDeleted()
	}
}

// applyDeleteSet marks the ranges of ds deleted, splitting items at range
// boundaries. Ranges beyond the known state are counted and ignored.
func (d *Doc) applyDeleteSet(ds []deleteRange) {
	for _, dr := range ds {
		end := dr.clock + uint64(dr.length)
		state := d.store.state(dr.client)
		if dr.clock >= state {
			d.stats.UnappliedDeletes++
			continue
		}
		if state < end {
			d.stats.UnappliedDeletes++
		}
		i, ok := d.store.find(ID{Client: dr.client, Clock: dr.clock})
		if !ok {
			continue
		}
		structs := d.store.clients[dr.client]
		if it, isItem := structs[i].(*Item); isItem && !it.deleted && it.ID.Clock < dr.clock {
			right := it.split(int(dr.clock - it.ID.Clock))
			d.store.insertAfter(dr.client, i, right)
			i++
		}
		for i < len(d.store.clients[dr.client]) {
			ref := d.store.clients[dr.client][i]
			i++
			if ref.id().Clock >= end {
				break
			}
			it, isItem := ref.(*Item)
			if !isItem || it.deleted {
				continue
			}
			if end < it.ID.Clock+uint64(it.Length) {
				right := it.split(int(end - it.ID.Clock))
				d.store.insertAfter(dr.client, i-1, right)
			}
			it.markDeleted()
		}
	}
}
