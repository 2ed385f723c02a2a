package decode

import (
	"fmt"

	"github.com/joshuapare/ydockit/pkg/jsonv"
)

// attempt is one fallback stage. run returns ok=false with a reason when the
// stage does not apply to the state.
type attempt struct {
	stage Stage
	run   func(State) (v jsonv.Value, ok bool, why string)
}

func (d *Decoder) attempts() []attempt {
	return []attempt{
		{stage: StagePreferred, run: d.preferred},
		{stage: StageContainer, run: d.container},
		{stage: StageGeneric, run: d.generic},
	}
}

// run executes a, absorbing panics as a fall-through.
func (d *Decoder) run(a attempt, s State) (v jsonv.Value, ok bool, why string) {
	defer func() {
		if r := recover(); r != nil {
			v, ok, why = nil, false, fmt.Sprintf("panic: %v", r)
		}
	}()
	v, ok, why = a.run(s)
	if ok && v == nil {
		return nil, false, "stage produced no value"
	}
	return v, ok, why
}

func (d *Decoder) preferred(s State) (jsonv.Value, bool, string) {
	c, ok := s.Container(d.containerKey)
	if !ok {
		return nil, false, fmt.Sprintf("container %q not found", d.containerKey)
	}
	e, ok := c.Entry(d.entryKey)
	if !ok {
		return nil, false, fmt.Sprintf("entry %q not found in %q", d.entryKey, d.containerKey)
	}
	v, err := e.Materialize()
	if err != nil {
		return nil, false, fmt.Sprintf("entry %q: %v", d.entryKey, err)
	}
	return v, true, ""
}

func (d *Decoder) container(s State) (jsonv.Value, bool, string) {
	c, ok := s.Container(d.containerKey)
	if !ok {
		return nil, false, fmt.Sprintf("container %q not found", d.containerKey)
	}
	v, err := c.Materialize()
	if err != nil {
		return nil, false, fmt.Sprintf("container %q: %v", d.containerKey, err)
	}
	return v, true, ""
}

func (d *Decoder) generic(s State) (jsonv.Value, bool, string) {
	return s.Dump(), true, ""
}
