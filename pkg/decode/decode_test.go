package decode

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ydockit/internal/testutil"
	"github.com/joshuapare/ydockit/pkg/jsonv"
	"github.com/joshuapare/ydockit/pkg/types"
)

// fakeState is an in-memory State. A nil entry value materializes with an
// error; a nil container value does the same for the container.
type fakeState struct {
	containers map[string]*fakeContainer
	dump       jsonv.Value
}

type fakeContainer struct {
	value   jsonv.Value
	entries map[string]jsonv.Value
	panics  bool
}

type fakeEntry struct{ value jsonv.Value }

var errNotMaterializable = errors.New("not materializable")

func (s *fakeState) Container(name string) (Container, bool) {
	c, ok := s.containers[name]
	if !ok {
		return nil, false
	}
	return c, true
}

func (s *fakeState) Dump() jsonv.Value { return s.dump }

func (c *fakeContainer) Entry(key string) (Entry, bool) {
	if c.panics {
		panic("entry lookup exploded")
	}
	v, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return fakeEntry{value: v}, true
}

func (c *fakeContainer) Materialize() (jsonv.Value, error) {
	if c.value == nil {
		return nil, errNotMaterializable
	}
	return c.value, nil
}

func (e fakeEntry) Materialize() (jsonv.Value, error) {
	if e.value == nil {
		return nil, errNotMaterializable
	}
	return e.value, nil
}

func fakePrimitive(s *fakeState, err error) Primitive {
	return PrimitiveFunc(func([]byte) (State, error) {
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}

func obj(key string, v jsonv.Value) jsonv.Object {
	return jsonv.NewObject(jsonv.Member{Key: key, Value: v})
}

func TestDecode_StagesWithFakePrimitive(t *testing.T) {
	entryValue := obj("title", jsonv.String("hello"))
	containerValue := obj("object_data", entryValue)
	dump := obj("meta", obj("v", jsonv.Bool(true)))

	tests := []struct {
		name      string
		state     *fakeState
		wantStage Stage
		want      jsonv.Value
	}{
		{
			name: "preferred entry",
			state: &fakeState{
				containers: map[string]*fakeContainer{"objects": {value: containerValue, entries: map[string]jsonv.Value{"object_data": entryValue}}},
				dump:       dump,
			},
			wantStage: StagePreferred,
			want:      entryValue,
		},
		{
			name: "entry missing falls back to container",
			state: &fakeState{
				containers: map[string]*fakeContainer{"objects": {value: obj("a", jsonv.Number(1))}},
				dump:       dump,
			},
			wantStage: StageContainer,
			want:      obj("a", jsonv.Number(1)),
		},
		{
			name: "entry not materializable falls back to container",
			state: &fakeState{
				containers: map[string]*fakeContainer{"objects": {value: containerValue, entries: map[string]jsonv.Value{"object_data": nil}}},
				dump:       dump,
			},
			wantStage: StageContainer,
			want:      containerValue,
		},
		{
			name: "panicking container falls back to its materialization",
			state: &fakeState{
				containers: map[string]*fakeContainer{"objects": {value: containerValue, panics: true}},
				dump:       dump,
			},
			wantStage: StageContainer,
			want:      containerValue,
		},
		{
			name: "container not materializable falls back to dump",
			state: &fakeState{
				containers: map[string]*fakeContainer{"objects": {}},
				dump:       dump,
			},
			wantStage: StageGeneric,
			want:      dump,
		},
		{
			name:      "no container",
			state:     &fakeState{dump: dump},
			wantStage: StageGeneric,
			want:      dump,
		},
		{
			name:      "nil dump still yields a value",
			state:     &fakeState{},
			wantStage: StageGeneric,
			want:      jsonv.NewObject(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Decode([]byte{1}, "fake", WithPrimitive(fakePrimitive(tt.state, nil)))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStage, res.Stage)
			assert.True(t, jsonv.Equal(tt.want, res.Value), "got %s", jsonv.Marshal(res.Value))
			assert.Nil(t, res.Stats)
		})
	}
}

func TestDecode_PrimitiveErrorIsMalformed(t *testing.T) {
	_, err := Decode([]byte{1}, "bad.bin", WithPrimitive(fakePrimitive(nil, errors.New("truncated"))))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrMalformedUpdate)
	assert.Contains(t, err.Error(), "bad.bin")
	assert.Contains(t, err.Error(), "truncated")
}

func TestDecode_PrimitivePanicIsMalformed(t *testing.T) {
	p := PrimitiveFunc(func([]byte) (State, error) { panic("kaboom") })
	_, err := Decode(nil, "x", WithPrimitive(p))
	assert.ErrorIs(t, err, types.ErrMalformedUpdate)
}

func TestDecode_CustomKeys(t *testing.T) {
	state := &fakeState{
		containers: map[string]*fakeContainer{"root": {entries: map[string]jsonv.Value{"data": jsonv.Number(5)}}},
	}
	res, err := Decode(nil, "x",
		WithPrimitive(fakePrimitive(state, nil)),
		WithContainerKey("root"),
		WithEntryKey("data"),
		WithContainerKey(""), // ignored
	)
	require.NoError(t, err)
	assert.Equal(t, StagePreferred, res.Stage)
	assert.Equal(t, jsonv.Number(5), res.Value)
}

func TestDecode_Yjs(t *testing.T) {
	tests := []struct {
		name      string
		update    []byte
		wantStage Stage
		want      string
	}{
		{"preferred", testutil.SampleUpdate(), StagePreferred, `{"title":"hello","tags":["a","b"]}`},
		{"objects only", testutil.ObjectsOnlyUpdate(), StageContainer, `{"a":1}`},
		{"other share", testutil.OtherShareUpdate(), StageGeneric, `{"meta":{"v":true}}`},
		{"empty document", testutil.EmptyUpdate(), StageGeneric, `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Decode(tt.update, tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStage, res.Stage)
			assert.Equal(t, tt.want, string(jsonv.Marshal(res.Value)))
			require.NotNil(t, res.Stats)
		})
	}
}

func TestDecode_YjsPlainEntryFallsBack(t *testing.T) {
	// object_data holding a plain value is not materializable.
	u := testutil.NewUpdate()
	objects := u.Client(3).Map("objects")
	objects.Set("object_data", jsonv.String("flat"))

	res, err := Decode(u.Bytes(), "flat")
	require.NoError(t, err)
	assert.Equal(t, StageContainer, res.Stage)
	assert.Equal(t, `{"object_data":"flat"}`, string(jsonv.Marshal(res.Value)))
}

func TestDecode_YjsMalformed(t *testing.T) {
	valid := testutil.SampleUpdate()
	for _, raw := range [][]byte{nil, {0xff}, valid[:len(valid)-3]} {
		_, err := Decode(raw, "broken")
		assert.ErrorIs(t, err, types.ErrMalformedUpdate)
	}
}

func TestDecode_Report(t *testing.T) {
	u := testutil.NewUpdate()
	u.Client(1).Map("meta").Set("v", jsonv.Number(1))
	u.Client(2).Raw(testutil.RawItem{
		Origin:  &testutil.ID{Client: 50, Clock: 0},
		Content: testutil.AnyContent(jsonv.Null{}),
	})

	report := types.NewDiagnosticReport()
	res, err := New().DecodeWithReport(u.Bytes(), "doc", report)
	require.NoError(t, err)
	assert.Equal(t, StageGeneric, res.Stage)
	assert.Equal(t, 1, res.Stats.Pending)
	assert.Equal(t, []string{"meta"}, res.Stats.Containers)

	assert.Equal(t, "doc", report.Source)
	assert.Equal(t, 1, report.Summary.Warnings)
	assert.Equal(t, 2, report.Summary.Info)
	assert.Contains(t, report.FormatTextCompact(), `[INFO/preferred] container "objects" not found`)

	bad := types.NewDiagnosticReport()
	_, err = New().DecodeWithReport([]byte{0xff}, "bad", bad)
	require.Error(t, err)
	assert.True(t, bad.HasErrors())
}

func TestDecode_LogsFallbacks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Decode(testutil.ObjectsOnlyUpdate(), "logged", WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "stage fell through")
	assert.Contains(t, buf.String(), "stage=preferred")
	assert.Contains(t, buf.String(), "stage=container")
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "preferred", StagePreferred.String())
	assert.Equal(t, "container", StageContainer.String())
	assert.Equal(t, "generic", StageGeneric.String())
	assert.Equal(t, "Stage(7)", Stage(7).String())
}
