package decode

import (
	"github.com/joshuapare/ydockit/internal/ydoc"
	"github.com/joshuapare/ydockit/pkg/jsonv"
)

// Yjs returns the built-in primitive for Yjs update v1 payloads.
func Yjs() Primitive { return yjsPrimitive{} }

type yjsPrimitive struct{}

func (yjsPrimitive) Apply(update []byte) (State, error) {
	doc, err := ydoc.Apply(update)
	if err != nil {
		return nil, err
	}
	return yjsState{doc: doc}, nil
}

type yjsState struct {
	doc *ydoc.Doc
}

func (s yjsState) Container(name string) (Container, bool) {
	t, ok := s.doc.Share(name)
	if !ok {
		return nil, false
	}
	return yjsContainer{t: t}, true
}

func (s yjsState) Dump() jsonv.Value { return s.doc.ToJSON() }

func (s yjsState) Stats() Stats {
	st := s.doc.Stats()
	return Stats{
		Containers:       s.doc.ShareNames(),
		Clients:          st.Clients,
		Items:            st.Items,
		GC:               st.GC,
		Deleted:          st.Deleted,
		Pending:          st.Pending,
		UnappliedDeletes: st.UnappliedDeletes,
	}
}

type yjsContainer struct {
	t *ydoc.Type
}

func (c yjsContainer) Entry(key string) (Entry, bool) {
	e, ok := c.t.Get(key)
	if !ok {
		return nil, false
	}
	return e, true
}

func (c yjsContainer) Materialize() (jsonv.Value, error) { return c.t.JSON(), nil }
