package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ydockit/internal/testutil"
	"github.com/joshuapare/ydockit/pkg/decode"
	"github.com/joshuapare/ydockit/pkg/jsonv"
	"github.com/joshuapare/ydockit/pkg/types"
)

func doc(name string) Document {
	return Document{Name: name, Value: jsonv.String(name)}
}

func TestRegistry_FirstAddSelects(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Selected()
	assert.False(t, ok)
	_, ok = r.Current()
	assert.False(t, ok)
	_, ok = r.CurrentValue()
	assert.False(t, ok)

	r.Add(doc("one"))
	i, ok := r.Selected()
	require.True(t, ok)
	assert.Equal(t, 0, i)

	r.Add(doc("two"))
	i, _ = r.Selected()
	assert.Equal(t, 0, i, "selection never moves on add")

	require.NoError(t, r.Select(1))
	r.Add(doc("three"))
	cur, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, "two", cur.Name)

	v, ok := r.CurrentValue()
	require.True(t, ok)
	assert.Equal(t, jsonv.String("two"), v)
	assert.Equal(t, 3, r.Len())
}

func TestRegistry_SelectOutOfRange(t *testing.T) {
	r := NewRegistry()
	err := r.Select(0)
	assert.ErrorIs(t, err, types.ErrState)

	r.Add(doc("one"))
	assert.ErrorIs(t, r.Select(1), types.ErrState)
	assert.ErrorIs(t, r.Select(-1), types.ErrState)
	i, _ := r.Selected()
	assert.Equal(t, 0, i)
}

func TestRegistry_KeepsDuplicatesInOrder(t *testing.T) {
	r := NewRegistry()
	r.Add(doc("a"))
	r.Add(doc("a"))
	r.Add(doc("b"))

	docs := r.Documents()
	require.Len(t, docs, 3)
	assert.Equal(t, []string{"a", "a", "b"}, []string{docs[0].Name, docs[1].Name, docs[2].Name})

	docs[0].Name = "mutated"
	assert.Equal(t, "a", r.Documents()[0].Name)
}

func TestLoader_Load(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	l := NewLoader(WithClock(func() time.Time { return at }))

	data := testutil.SampleUpdate()
	d, err := l.Load(Input{Name: "sample.bin", Data: data})
	require.NoError(t, err)

	assert.Equal(t, "sample.bin", d.Name)
	assert.Equal(t, at, d.DecodedAt)
	assert.Equal(t, decode.StagePreferred, d.Stage)
	assert.Equal(t, len(data), d.Size)
	assert.Len(t, d.Fingerprint, 64)
	assert.Equal(t, `{"title":"hello","tags":["a","b"]}`, string(jsonv.Marshal(d.Value)))
	require.NotNil(t, d.Stats)
	assert.Equal(t, []string{"objects"}, d.Stats.Containers)

	again, err := l.Load(Input{Name: "copy.bin", Data: data})
	require.NoError(t, err)
	assert.Equal(t, d.Fingerprint, again.Fingerprint)
}

func TestRegistry_LoadBatchSkipsFailures(t *testing.T) {
	inputs := []Input{
		{Name: "first.bin", Data: testutil.SampleUpdate()},
		{Name: "broken.bin", Data: []byte{0xff, 0xff}},
		{Name: "third.bin", Data: testutil.OtherShareUpdate()},
	}

	r := NewRegistry()
	failures := r.LoadBatch(context.Background(), NewLoader(WithConcurrency(3)), inputs)

	require.Len(t, failures, 1)
	assert.Equal(t, "broken.bin", failures[0].Name)
	assert.ErrorIs(t, failures[0], types.ErrMalformedUpdate)
	assert.Contains(t, failures[0].Error(), "broken.bin")

	docs := r.Documents()
	require.Len(t, docs, 2)
	assert.Equal(t, "first.bin", docs[0].Name)
	assert.Equal(t, "third.bin", docs[1].Name)
	i, _ := r.Selected()
	assert.Equal(t, 0, i)
}

func TestRegistry_LoadBatchAllMalformed(t *testing.T) {
	r := NewRegistry()
	r.Add(doc("existing"))

	failures := r.LoadBatch(context.Background(), nil, []Input{{Name: "x", Data: nil}})
	require.Len(t, failures, 1)
	assert.Equal(t, 1, r.Len())
	cur, _ := r.Current()
	assert.Equal(t, "existing", cur.Name)
}

func TestRegistry_LoadBatchPreservesOrderUnderConcurrency(t *testing.T) {
	var inputs []Input
	for i := 0; i < 40; i++ {
		u := testutil.NewUpdate()
		u.Client(uint64(i+1)).Map("objects").Set("i", jsonv.Number(float64(i)))
		inputs = append(inputs, Input{Name: string(rune('A' + i%26)), Data: u.Bytes()})
	}

	r := NewRegistry()
	failures := r.LoadBatch(context.Background(), NewLoader(WithConcurrency(8)), inputs)
	require.Empty(t, failures)
	require.Equal(t, 40, r.Len())
	for i, d := range r.Documents() {
		assert.Equal(t, inputs[i].Name, d.Name)
		assert.Equal(t, decode.StageContainer, d.Stage)
		got, _ := d.Value.(jsonv.Object).Get("i")
		assert.Equal(t, jsonv.Number(float64(i)), got)
	}
}

func TestRegistry_LoadBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRegistry()
	failures := r.LoadBatch(ctx, NewLoader(WithConcurrency(1)), []Input{
		{Name: "a", Data: testutil.SampleUpdate()},
		{Name: "b", Data: testutil.SampleUpdate()},
	})
	require.Len(t, failures, 2)
	assert.ErrorIs(t, failures[0], context.Canceled)
	assert.Equal(t, 0, r.Len())
	_, ok := r.Selected()
	assert.False(t, ok)
}
