// Package decode turns a binary CRDT update into a JSON-like value.
//
// Decoding applies the update to a fresh document and then tries, in order:
//
//  1. the entry "object_data" of the container "objects", materialized;
//  2. the container "objects", materialized;
//  3. a dump of every top-level container.
//
// The last stage always yields a value, so the only decode error is an
// update that cannot be applied at all.
package decode

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joshuapare/ydockit/pkg/jsonv"
	"github.com/joshuapare/ydockit/pkg/types"
)

// Default container and entry names for the preferred shape.
const (
	DefaultContainerKey = "objects"
	DefaultEntryKey     = "object_data"
)

// Stage identifies which fallback stage produced a value.
type Stage int

const (
	StagePreferred Stage = iota // container entry materialized
	StageContainer              // whole container materialized
	StageGeneric                // dump of every container
)

func (s Stage) String() string {
	switch s {
	case StagePreferred:
		return "preferred"
	case StageContainer:
		return "container"
	case StageGeneric:
		return "generic"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Stage) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Result is the outcome of a successful decode.
type Result struct {
	Value jsonv.Value
	Stage Stage
	// Stats is set when the primitive reports structure statistics.
	Stats *Stats
}

// Decoder runs the fallback pipeline. It holds no per-decode state and is
// safe for concurrent use as long as its primitive is.
type Decoder struct {
	primitive    Primitive
	logger       *slog.Logger
	containerKey string
	entryKey     string
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithPrimitive replaces the built-in Yjs primitive.
func WithPrimitive(p Primitive) Option {
	return func(d *Decoder) { d.primitive = p }
}

// WithLogger sets the logger used for stage fallbacks. Defaults to discarding.
func WithLogger(l *slog.Logger) Option {
	return func(d *Decoder) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithContainerKey changes the container looked up by the first two stages.
func WithContainerKey(k string) Option {
	return func(d *Decoder) {
		if k != "" {
			d.containerKey = k
		}
	}
}

// WithEntryKey changes the entry looked up by the first stage.
func WithEntryKey(k string) Option {
	return func(d *Decoder) {
		if k != "" {
			d.entryKey = k
		}
	}
}

// New returns a Decoder with the given options applied.
func New(opts ...Option) *Decoder {
	d := &Decoder{
		primitive:    Yjs(),
		logger:       slog.New(slog.DiscardHandler),
		containerKey: DefaultContainerKey,
		entryKey:     DefaultEntryKey,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode decodes raw with a default Decoder.
func Decode(raw []byte, name string, opts ...Option) (Result, error) {
	return New(opts...).Decode(raw, name)
}

// Decode applies raw and returns the first value the stages produce. name is
// only used in errors and log records.
func (d *Decoder) Decode(raw []byte, name string) (Result, error) {
	return d.DecodeWithReport(raw, name, nil)
}

// DecodeWithReport is Decode that also records why stages fell through and
// what the update left out. report may be nil.
func (d *Decoder) DecodeWithReport(raw []byte, name string, report *types.DiagnosticReport) (Result, error) {
	start := time.Now()
	if report != nil {
		report.Source = name
		report.Size = len(raw)
		defer func() { report.DecodeTime = time.Since(start) }()
	}

	state, err := d.apply(raw)
	if err != nil {
		d.logger.Debug("apply failed", "source", name, "error", err)
		if report != nil {
			report.Add(types.Diagnostic{Severity: types.SevError, Stage: "apply", Issue: "update could not be applied", Cause: err.Error()})
		}
		return Result{}, types.New(types.ErrKindMalformed, fmt.Sprintf("decode %s", name), err)
	}

	res := Result{}
	if sr, ok := state.(StatsReporter); ok {
		st := sr.Stats()
		res.Stats = &st
		if report != nil {
			if st.Pending > 0 {
				report.Addf(types.SevWarning, "apply", "%d structs have missing dependencies and were left out", st.Pending)
			}
			if st.UnappliedDeletes > 0 {
				report.Addf(types.SevWarning, "apply", "%d delete ranges reference unknown structs", st.UnappliedDeletes)
			}
		}
	}

	for _, a := range d.attempts() {
		v, ok, why := d.run(a, state)
		if ok {
			res.Value = v
			res.Stage = a.stage
			d.logger.Debug("decoded", "source", name, "stage", a.stage.String())
			return res, nil
		}
		d.logger.Debug("stage fell through", "source", name, "stage", a.stage.String(), "reason", why)
		if report != nil {
			report.Addf(types.SevInfo, a.stage.String(), "%s", why)
		}
	}

	// The generic stage never falls through; reaching here means a
	// primitive returned a nil dump.
	res.Value = jsonv.NewObject()
	res.Stage = StageGeneric
	return res, nil
}

// apply runs the primitive, turning a panic into an error.
func (d *Decoder) apply(raw []byte) (state State, err error) {
	defer func() {
		if r := recover(); r != nil {
			state = nil
			err = fmt.Errorf("primitive panicked: %v", r)
		}
	}()
	state, err = d.primitive.Apply(raw)
	if err == nil && state == nil {
		err = fmt.Errorf("primitive returned no state")
	}
	return state, err
}
