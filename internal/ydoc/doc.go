// Package ydoc applies Yjs update v1 payloads to an empty, read-only
// document and materializes its shared types as JSON-like values.
//
// Only the parts of Yjs needed to inspect an update are implemented: struct
// decoding, YATA integration, item splitting, delete sets and the toJSON
// conversions. There is no transaction log, no observers and no encoding
// of state back into updates.
package ydoc

import (
	"errors"
	"fmt"
	"sort"

	"github.com/joshuapare/ydockit/internal/buf"
	"github.com/joshuapare/ydockit/pkg/jsonv"
)

// ErrNotMaterializable is returned by Entry.Materialize when the entry holds
// a plain value instead of a shared type.
var ErrNotMaterializable = errors.New("ydoc: entry is not a shared type")

// Doc is the state produced by applying one update to an empty document.
type Doc struct {
	store      *structStore
	shares     map[string]*Type
	shareOrder []string
	stats      Stats
}

// Stats summarizes what Apply found in an update.
type Stats struct {
	Clients          int // distinct client ids with struct sections
	Items            int // items integrated (after splitting)
	GC               int // garbage-collected ranges
	Deleted          int // integrated items marked deleted
	Pending          int // structs whose dependencies were missing
	UnappliedDeletes int // delete ranges that referenced unknown structs
}

func newDoc() *Doc {
	return &Doc{
		store:  newStructStore(),
		shares: make(map[string]*Type),
	}
}

// Apply decodes update and integrates it into a fresh document. Any decode
// failure, including a panic while integrating hostile input, is returned as
// an error and no document is produced.
func Apply(update []byte) (doc *Doc, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("ydoc: integrating update: %v", r)
		}
	}()

	d := newDoc()
	r := buf.NewReader(update)
	refs, err := readClientsStructRefs(r, d)
	if err != nil {
		return nil, fmt.Errorf("ydoc: reading structs: %w", err)
	}
	ds, err := readDeleteSet(r)
	if err != nil {
		return nil, fmt.Errorf("ydoc: reading delete set: %w", err)
	}

	d.integrate(refs)
	d.applyDeleteSet(ds)
	d.countStructs()
	return d, nil
}

// share returns the top-level type named name, creating it on first use.
func (d *Doc) share(name string) *Type {
	if t, ok := d.shares[name]; ok {
		return t
	}
	t := newType(typeUnknown, "")
	d.shares[name] = t
	d.shareOrder = append(d.shareOrder, name)
	return t
}

// Share returns the top-level type named name if the update referenced it.
func (d *Doc) Share(name string) (*Type, bool) {
	t, ok := d.shares[name]
	return t, ok
}

// ShareNames returns the top-level type names in the order the update
// first referenced them.
func (d *Doc) ShareNames() []string {
	return append([]string(nil), d.shareOrder...)
}

// Stats returns counters collected while applying the update.
func (d *Doc) Stats() Stats { return d.stats }

// ToJSON materializes every share, keyed by name. Shares carry no type
// information on the wire, so each is materialized according to its content
// (see Type.JSON).
func (d *Doc) ToJSON() jsonv.Object {
	var b jsonv.ObjectBuilder
	for _, name := range d.shareOrder {
		b.Set(name, d.shares[name].JSON())
	}
	return b.Object()
}

func (d *Doc) countStructs() {
	clients := make([]uint64, 0, len(d.store.clients))
	for c := range d.store.clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i] < clients[j] })
	for _, c := range clients {
		for _, s := range d.store.clients[c] {
			switch x := s.(type) {
			case *gc:
				d.stats.GC++
			case *Item:
				d.stats.Items++
				if x.deleted {
					d.stats.Deleted++
				}
			}
		}
	}
}
