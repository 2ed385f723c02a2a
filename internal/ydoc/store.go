package ydoc

import (
	"fmt"
	"sort"
)

// structStore keeps every integrated struct per client, sorted by clock and
// contiguous from clock 0.
type structStore struct {
	clients map[uint64][]structRef
}

func newStructStore() *structStore {
	return &structStore{clients: make(map[uint64][]structRef)}
}

// state returns the next expected clock for client.
func (s *structStore) state(client uint64) uint64 {
	structs := s.clients[client]
	if len(structs) == 0 {
		return 0
	}
	last := structs[len(structs)-1]
	return last.id().Clock + uint64(last.length())
}

func (s *structStore) add(ref structRef) {
	id := ref.id()
	if got := s.state(id.Client); got != id.Clock {
		panic(fmt.Sprintf("ydoc: struct %v added out of order (state %d)", id, got))
	}
	s.clients[id.Client] = append(s.clients[id.Client], ref)
}

// find returns the index of the struct that contains id.
func (s *structStore) find(id ID) (int, bool) {
	structs := s.clients[id.Client]
	i := sort.Search(len(structs), func(i int) bool {
		st := structs[i]
		return st.id().Clock+uint64(st.length()) > id.Clock
	})
	if i == len(structs) || structs[i].id().Clock > id.Clock {
		return 0, false
	}
	return i, true
}

func (s *structStore) get(id ID) structRef {
	i, ok := s.find(id)
	if !ok {
		panic(fmt.Sprintf("ydoc: no struct contains %v", id))
	}
	return s.clients[id.Client][i]
}

func (s *structStore) insertAfter(client uint64, i int, ref structRef) {
	structs := s.clients[client]
	structs = append(structs, nil)
	copy(structs[i+2:], structs[i+1:])
	structs[i+1] = ref
	s.clients[client] = structs
}

// cleanStart returns the struct starting exactly at id, splitting an item
// when id points into its middle.
func (s *structStore) cleanStart(id ID) structRef {
	i, ok := s.find(id)
	if !ok {
		panic(fmt.Sprintf("ydoc: no struct contains %v", id))
	}
	ref := s.clients[id.Client][i]
	it, isItem := ref.(*Item)
	if !isItem || it.ID.Clock == id.Clock {
		return ref
	}
	right := it.split(int(id.Clock - it.ID.Clock))
	s.insertAfter(id.Client, i, right)
	return right
}

// cleanEnd returns the struct ending exactly at id, splitting an item when
// id points into its middle.
func (s *structStore) cleanEnd(id ID) structRef {
	i, ok := s.find(id)
	if !ok {
		panic(fmt.Sprintf("ydoc: no struct contains %v", id))
	}
	ref := s.clients[id.Client][i]
	it, isItem := ref.(*Item)
	if !isItem || id.Clock == it.lastID().Clock {
		return ref
	}
	right := it.split(int(id.Clock-it.ID.Clock) + 1)
	s.insertAfter(id.Client, i, right)
	return it
}
