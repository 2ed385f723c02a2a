package session

import (
	"context"
	"encoding/hex"
	"runtime"
	"time"

	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/ydockit/pkg/decode"
)

// Input is one named update waiting to be decoded.
type Input struct {
	Name string
	Data []byte
}

// Failure reports an input that could not be decoded.
type Failure struct {
	Name string
	Err  error
}

func (f Failure) Error() string { return f.Name + ": " + f.Err.Error() }

func (f Failure) Unwrap() error { return f.Err }

// Loader turns inputs into documents.
type Loader struct {
	decoder     *decode.Decoder
	concurrency int
	now         func() time.Time
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithDecoder sets the decoder. Defaults to decode.New().
func WithDecoder(d *decode.Decoder) LoaderOption {
	return func(l *Loader) {
		if d != nil {
			l.decoder = d
		}
	}
}

// WithConcurrency bounds how many inputs decode at once. Non-positive
// values mean runtime.NumCPU().
func WithConcurrency(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithClock replaces time.Now for DecodedAt.
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLoader returns a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		decoder:     decode.New(),
		concurrency: runtime.NumCPU(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Fingerprint is the hex BLAKE3-256 digest of data.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Load decodes one input into a document.
func (l *Loader) Load(in Input) (Document, error) {
	res, err := l.decoder.Decode(in.Data, in.Name)
	if err != nil {
		return Document{}, err
	}
	return Document{
		Name:        in.Name,
		Value:       res.Value,
		DecodedAt:   l.now(),
		Stage:       res.Stage,
		Size:        len(in.Data),
		Fingerprint: Fingerprint(in.Data),
		Stats:       res.Stats,
	}, nil
}

// Decode decodes every input concurrently and returns the documents and
// failures, each in input order. Inputs not started before ctx is done are
// reported as failures with ctx's error.
func (l *Loader) Decode(ctx context.Context, inputs []Input) ([]Document, []Failure) {
	type slot struct {
		doc Document
		err error
	}
	slots := make([]slot, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, in := range inputs {
		if err := gctx.Err(); err != nil {
			slots[i].err = err
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				slots[i].err = err
				return nil
			}
			slots[i].doc, slots[i].err = l.Load(in)
			// A failed decode does not cancel the others.
			return nil
		})
	}
	_ = g.Wait()

	var docs []Document
	var failures []Failure
	for i, s := range slots {
		if s.err != nil {
			failures = append(failures, Failure{Name: inputs[i].Name, Err: s.err})
			continue
		}
		docs = append(docs, s.doc)
	}
	return docs, failures
}

// LoadBatch decodes inputs with loader and appends each success to r in
// input order. Failures leave r untouched.
func (r *Registry) LoadBatch(ctx context.Context, loader *Loader, inputs []Input) []Failure {
	if loader == nil {
		loader = NewLoader()
	}
	docs, failures := loader.Decode(ctx, inputs)
	for _, doc := range docs {
		r.Add(doc)
	}
	for _, f := range failures {
		r.logger.Debug("document failed", "name", f.Name, "error", f.Err)
	}
	return failures
}
