// Package session keeps the decoded documents of one inspection session in
// arrival order, together with which one is selected.
//
// A Registry is not safe for concurrent use. Batch loading decodes in
// parallel but commits on the caller's goroutine.
package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joshuapare/ydockit/pkg/decode"
	"github.com/joshuapare/ydockit/pkg/jsonv"
	"github.com/joshuapare/ydockit/pkg/types"
)

// Document is one successfully decoded update. It is immutable.
type Document struct {
	Name      string
	Value     jsonv.Value
	DecodedAt time.Time

	Stage       decode.Stage
	Size        int    // bytes given to the decoder
	Fingerprint string // BLAKE3-256 of those bytes, hex
	Stats       *decode.Stats
}

// Registry holds documents in arrival order and an optional selection.
type Registry struct {
	docs     []Document
	selected int // -1 when nothing is selected
	logger   *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger for registry events. Defaults to discarding.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry returns an empty registry with nothing selected.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{selected: -1, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add appends doc. The first document added to a registry without a
// selection becomes selected; an existing selection is never changed.
func (r *Registry) Add(doc Document) {
	r.docs = append(r.docs, doc)
	if r.selected < 0 {
		r.selected = 0
	}
	r.logger.Debug("document added", "name", doc.Name, "index", len(r.docs)-1, "stage", doc.Stage.String())
}

// Select makes the document at i current.
func (r *Registry) Select(i int) error {
	if i < 0 || i >= len(r.docs) {
		return types.New(types.ErrKindState, fmt.Sprintf("select %d: have %d documents", i, len(r.docs)), nil)
	}
	r.selected = i
	return nil
}

// Selected returns the selected index.
func (r *Registry) Selected() (int, bool) {
	return r.selected, r.selected >= 0
}

// Current returns the selected document.
func (r *Registry) Current() (Document, bool) {
	if r.selected < 0 {
		return Document{}, false
	}
	return r.docs[r.selected], true
}

// CurrentValue returns the value of the selected document.
func (r *Registry) CurrentValue() (jsonv.Value, bool) {
	doc, ok := r.Current()
	if !ok {
		return nil, false
	}
	return doc.Value, true
}

// Documents returns the documents in arrival order. The slice is a copy.
func (r *Registry) Documents() []Document {
	return append([]Document(nil), r.docs...)
}

// Len returns the number of documents.
func (r *Registry) Len() int { return len(r.docs) }
