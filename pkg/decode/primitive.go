package decode

import "github.com/joshuapare/ydockit/pkg/jsonv"

// Primitive applies a binary update to a fresh document state. It is the
// boundary to the CRDT implementation.
type Primitive interface {
	Apply(update []byte) (State, error)
}

// State is a document after one update was applied.
type State interface {
	// Container returns the top-level container called name, if the update
	// referenced it.
	Container(name string) (Container, bool)
	// Dump materializes every top-level container, keyed by name.
	Dump() jsonv.Value
}

// Container is a top-level shared container.
type Container interface {
	Entry(key string) (Entry, bool)
	Materialize() (jsonv.Value, error)
}

// Entry is one keyed value inside a container.
type Entry interface {
	Materialize() (jsonv.Value, error)
}

// Stats describes the structure of an applied update. States that can report
// it implement StatsReporter.
type Stats struct {
	Containers       []string `json:"containers"`
	Clients          int      `json:"clients"`
	Items            int      `json:"items"`
	GC               int      `json:"gc"`
	Deleted          int      `json:"deleted"`
	Pending          int      `json:"pending"`
	UnappliedDeletes int      `json:"unapplied_deletes"`
}

// StatsReporter is implemented by states that expose Stats.
type StatsReporter interface {
	Stats() Stats
}

// PrimitiveFunc adapts a function to Primitive.
type PrimitiveFunc func(update []byte) (State, error)

// Apply calls f(update).
func (f PrimitiveFunc) Apply(update []byte) (State, error) { return f(update) }
