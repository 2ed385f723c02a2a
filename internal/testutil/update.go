package testutil

import (
	"sort"

	"github.com/joshuapare/ydockit/internal/buf"
	"github.com/joshuapare/ydockit/pkg/jsonv"
)

// ID mirrors a Yjs struct id (client, clock).
type ID struct {
	Client uint64
	Clock  uint64
}

// Type refs as encoded in ContentType.
const (
	TypeArray       = 0
	TypeMap         = 1
	TypeText        = 2
	TypeXMLElement  = 3
	TypeXMLFragment = 4
	TypeXMLHook     = 5
	TypeXMLText     = 6
)

// Content is a content payload for RawItem.
type Content struct {
	Ref    uint8
	Length int
	write  func(w *buf.Writer)
}

// AnyContent encodes values with the lib0 any encoding.
func AnyContent(vals ...jsonv.Value) Content {
	return Content{Ref: 8, Length: len(vals), write: func(w *buf.Writer) {
		w.WriteVarUint(uint64(len(vals)))
		for _, v := range vals {
			w.WriteAny(v)
		}
	}}
}

// JSONContent encodes raw JSON texts (legacy ContentJSON).
func JSONContent(texts ...string) Content {
	return Content{Ref: 2, Length: len(texts), write: func(w *buf.Writer) {
		w.WriteVarUint(uint64(len(texts)))
		for _, s := range texts {
			w.WriteVarString(s)
		}
	}}
}

// StringContent encodes a text run.
func StringContent(s string) Content {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return Content{Ref: 4, Length: n, write: func(w *buf.Writer) { w.WriteVarString(s) }}
}

// BinaryContent encodes a Uint8Array.
func BinaryContent(b []byte) Content {
	return Content{Ref: 3, Length: 1, write: func(w *buf.Writer) { w.WriteVarUint8Array(b) }}
}

// EmbedContent encodes an embed given as JSON text.
func EmbedContent(jsonText string) Content {
	return Content{Ref: 5, Length: 1, write: func(w *buf.Writer) { w.WriteVarString(jsonText) }}
}

// FormatContent encodes a formatting marker; jsonText "null" ends the format.
func FormatContent(key, jsonText string) Content {
	return Content{Ref: 6, Length: 1, write: func(w *buf.Writer) {
		w.WriteVarString(key)
		w.WriteVarString(jsonText)
	}}
}

// TypeContent encodes a nested shared type. name is used for XML elements
// and hooks only.
func TypeContent(typeRef int, name string) Content {
	return Content{Ref: 7, Length: 1, write: func(w *buf.Writer) {
		w.WriteVarUint(uint64(typeRef))
		if typeRef == TypeXMLElement || typeRef == TypeXMLHook {
			w.WriteVarString(name)
		}
	}}
}

// DocContent encodes a subdocument reference.
func DocContent(guid string) Content {
	return Content{Ref: 9, Length: 1, write: func(w *buf.Writer) {
		w.WriteVarString(guid)
		w.WriteAny(jsonv.NewObject())
	}}
}

// DeletedContent encodes n garbage-collected ticks of item content.
func DeletedContent(n int) Content {
	return Content{Ref: 1, Length: n, write: func(w *buf.Writer) { w.WriteVarUint(uint64(n)) }}
}

// RawItem describes one item exactly as it appears on the wire. Parent
// fields are only encoded when both origins are nil.
type RawItem struct {
	Origin      *ID
	RightOrigin *ID
	ParentKey   string // top-level share name
	ParentID    *ID    // nested type; takes precedence over ParentKey
	ParentSub   string // map key
	Content     Content
}

type rawStruct struct {
	kind   uint8 // 0 gc, 10 skip, otherwise item
	length int
	item   RawItem
}

// Update assembles a Yjs update v1 payload.
type Update struct {
	clients map[uint64]*Client
	deletes map[uint64][][2]uint64
}

// NewUpdate returns an empty update.
func NewUpdate() *Update {
	return &Update{
		clients: make(map[uint64]*Client),
		deletes: make(map[uint64][][2]uint64),
	}
}

// Client returns the writer for client id, creating it on first use.
func (u *Update) Client(id uint64) *Client {
	if c, ok := u.clients[id]; ok {
		return c
	}
	c := &Client{u: u, id: id}
	u.clients[id] = c
	return c
}

// Delete adds a range to the delete set.
func (u *Update) Delete(id ID, length int) {
	u.deletes[id.Client] = append(u.deletes[id.Client], [2]uint64{id.Clock, uint64(length)})
}

// Bytes encodes the update. Clients are written in descending id order as
// Yjs does.
func (u *Update) Bytes() []byte {
	var w buf.Writer
	ids := make([]uint64, 0, len(u.clients))
	for id, c := range u.clients {
		if len(c.structs) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	w.WriteVarUint(uint64(len(ids)))
	for _, id := range ids {
		c := u.clients[id]
		w.WriteVarUint(uint64(len(c.structs)))
		w.WriteVarUint(id)
		w.WriteVarUint(c.start)
		for _, s := range c.structs {
			writeStruct(&w, s)
		}
	}

	dsClients := make([]uint64, 0, len(u.deletes))
	for id := range u.deletes {
		dsClients = append(dsClients, id)
	}
	sort.Slice(dsClients, func(i, j int) bool { return dsClients[i] < dsClients[j] })
	w.WriteVarUint(uint64(len(dsClients)))
	for _, id := range dsClients {
		w.WriteVarUint(id)
		w.WriteVarUint(uint64(len(u.deletes[id])))
		for _, r := range u.deletes[id] {
			w.WriteVarUint(r[0])
			w.WriteVarUint(r[1])
		}
	}
	return w.Bytes()
}

func writeStruct(w *buf.Writer, s rawStruct) {
	switch s.kind {
	case 0, 10:
		w.WriteUint8(s.kind)
		w.WriteVarUint(uint64(s.length))
		return
	}
	it := s.item
	info := it.Content.Ref
	if it.Origin != nil {
		info |= 0x80
	}
	if it.RightOrigin != nil {
		info |= 0x40
	}
	explicitParent := it.Origin == nil && it.RightOrigin == nil
	if explicitParent && it.ParentSub != "" {
		info |= 0x20
	}
	w.WriteUint8(info)
	if it.Origin != nil {
		w.WriteVarUint(it.Origin.Client)
		w.WriteVarUint(it.Origin.Clock)
	}
	if it.RightOrigin != nil {
		w.WriteVarUint(it.RightOrigin.Client)
		w.WriteVarUint(it.RightOrigin.Clock)
	}
	if explicitParent {
		if it.ParentID != nil {
			w.WriteVarUint(0)
			w.WriteVarUint(it.ParentID.Client)
			w.WriteVarUint(it.ParentID.Clock)
		} else {
			w.WriteVarUint(1)
			w.WriteVarString(it.ParentKey)
		}
		if it.ParentSub != "" {
			w.WriteVarString(it.ParentSub)
		}
	}
	it.Content.write(w)
}

// Client appends structs for one client id with consecutive clocks.
type Client struct {
	u       *Update
	id      uint64
	start   uint64
	clock   uint64
	structs []rawStruct
}

// ID returns the client id.
func (c *Client) ID() uint64 { return c.id }

// StartAt sets the clock of the first struct. It must be called before any
// struct is added.
func (c *Client) StartAt(clock uint64) *Client {
	c.start = clock
	c.clock = clock
	return c
}

// Raw appends an item and returns the id of its first tick.
func (c *Client) Raw(it RawItem) ID {
	id := ID{Client: c.id, Clock: c.clock}
	c.structs = append(c.structs, rawStruct{kind: 8, length: it.Content.Length, item: it})
	c.clock += uint64(it.Content.Length)
	return id
}

// GC appends a garbage-collected range.
func (c *Client) GC(n int) ID {
	id := ID{Client: c.id, Clock: c.clock}
	c.structs = append(c.structs, rawStruct{kind: 0, length: n})
	c.clock += uint64(n)
	return id
}

// Skip appends a gap.
func (c *Client) Skip(n int) ID {
	id := ID{Client: c.id, Clock: c.clock}
	c.structs = append(c.structs, rawStruct{kind: 10, length: n})
	c.clock += uint64(n)
	return id
}

// Map returns a handle on the top-level share name, used as a map.
func (c *Client) Map(name string) *Map {
	return &Map{c: c, st: &mapState{parent: parentRef{key: name}, last: map[string]ID{}}}
}

// Array returns a handle on the top-level share name, used as an array.
func (c *Client) Array(name string) *Array {
	return &Array{c: c, st: &seqState{parent: parentRef{key: name}}}
}

// Text returns a handle on the top-level share name, used as text.
func (c *Client) Text(name string) *Text {
	return &Text{Array{c: c, st: &seqState{parent: parentRef{key: name}}}}
}

type parentRef struct {
	key string
	id  *ID
}

func (p parentRef) item(origin *ID, sub string, content Content) RawItem {
	it := RawItem{Origin: origin, ParentSub: sub, Content: content}
	if origin == nil {
		it.ParentKey = p.key
		it.ParentID = p.id
	}
	return it
}

type mapState struct {
	parent parentRef
	last   map[string]ID // last tick of the current item per key
}

// Map writes keyed entries the way Y.Map#set does: the new item's origin is
// the previous value of the same key.
type Map struct {
	c  *Client
	st *mapState
}

// On returns a handle writing to the same map as another client.
func (m *Map) On(c *Client) *Map { return &Map{c: c, st: m.st} }

func (m *Map) set(key string, content Content) ID {
	var origin *ID
	if prev, ok := m.st.last[key]; ok {
		origin = &prev
	}
	id := m.c.Raw(m.st.parent.item(origin, key, content))
	m.st.last[key] = ID{Client: id.Client, Clock: id.Clock + uint64(content.Length) - 1}
	return id
}

// Set stores a plain value.
func (m *Map) Set(key string, v jsonv.Value) ID { return m.set(key, AnyContent(v)) }

// SetContent stores arbitrary content.
func (m *Map) SetContent(key string, content Content) ID { return m.set(key, content) }

// SetMap stores a nested map and returns a handle on it.
func (m *Map) SetMap(key string) *Map {
	id := m.set(key, TypeContent(TypeMap, ""))
	return &Map{c: m.c, st: &mapState{parent: parentRef{id: &id}, last: map[string]ID{}}}
}

// SetArray stores a nested array and returns a handle on it.
func (m *Map) SetArray(key string) *Array {
	id := m.set(key, TypeContent(TypeArray, ""))
	return &Array{c: m.c, st: &seqState{parent: parentRef{id: &id}}}
}

// SetText stores a nested text and returns a handle on it.
func (m *Map) SetText(key string) *Text {
	id := m.set(key, TypeContent(TypeText, ""))
	return &Text{Array{c: m.c, st: &seqState{parent: parentRef{id: &id}}}}
}

type seqState struct {
	parent parentRef
	last   *ID
}

// Array appends to a sequence the way Y.Array#push does.
type Array struct {
	c  *Client
	st *seqState
}

// On returns a handle appending to the same sequence as another client.
func (a *Array) On(c *Client) *Array { return &Array{c: c, st: a.st} }

func (a *Array) push(content Content) ID {
	id := a.c.Raw(a.st.parent.item(a.st.last, "", content))
	last := ID{Client: id.Client, Clock: id.Clock + uint64(content.Length) - 1}
	a.st.last = &last
	return id
}

// Push appends plain values as one item.
func (a *Array) Push(vals ...jsonv.Value) ID { return a.push(AnyContent(vals...)) }

// PushContent appends arbitrary content.
func (a *Array) PushContent(content Content) ID { return a.push(content) }

// PushMap appends a nested map.
func (a *Array) PushMap() *Map {
	id := a.push(TypeContent(TypeMap, ""))
	return &Map{c: a.c, st: &mapState{parent: parentRef{id: &id}, last: map[string]ID{}}}
}

// PushArray appends a nested array.
func (a *Array) PushArray() *Array {
	id := a.push(TypeContent(TypeArray, ""))
	return &Array{c: a.c, st: &seqState{parent: parentRef{id: &id}}}
}

// PushType appends a nested type of any kind and returns its id, for use as
// ParentID in RawItem.
func (a *Array) PushType(typeRef int, name string) ID {
	return a.push(TypeContent(typeRef, name))
}

// Text appends text runs.
type Text struct {
	Array
}

// Insert appends s.
func (t *Text) Insert(s string) ID { return t.push(StringContent(s)) }

// Format appends a formatting marker.
func (t *Text) Format(key, jsonText string) ID { return t.push(FormatContent(key, jsonText)) }
