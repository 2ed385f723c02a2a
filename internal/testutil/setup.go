package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/ydockit/pkg/jsonv"
)

// WriteFixture writes data to a file named name in a per-test temporary
// directory and returns its path.
//
// Example:
//
//	path := testutil.WriteFixture(t, "doc.bin", testutil.SampleUpdate())
func WriteFixture(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", name, err)
	}
	return path
}

// WriteFixtures writes several fixtures into one temporary directory and
// returns their paths in the order given.
func WriteFixtures(t *testing.T, files map[string][]byte, order ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, len(order))
	for _, name := range order {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, files[name], 0o600); err != nil {
			t.Fatalf("Failed to write fixture %s: %v", name, err)
		}
		paths = append(paths, path)
	}
	return paths
}

// SampleUpdate returns an update whose "objects" share holds
// {"object_data": {"title": "hello", "tags": ["a", "b"]}, "count": 2}.
func SampleUpdate() []byte {
	u := NewUpdate()
	c := u.Client(1)
	objects := c.Map("objects")
	data := objects.SetMap("object_data")
	data.Set("title", jsonv.String("hello"))
	data.SetArray("tags").Push(jsonv.String("a"), jsonv.String("b"))
	objects.Set("count", jsonv.Number(2))
	return u.Bytes()
}

// ObjectsOnlyUpdate returns an update whose "objects" share has no
// "object_data" entry: {"a": 1}.
func ObjectsOnlyUpdate() []byte {
	u := NewUpdate()
	u.Client(1).Map("objects").Set("a", jsonv.Number(1))
	return u.Bytes()
}

// OtherShareUpdate returns an update that only touches the "meta" share:
// {"meta": {"v": true}}.
func OtherShareUpdate() []byte {
	u := NewUpdate()
	u.Client(7).Map("meta").Set("v", jsonv.Bool(true))
	return u.Bytes()
}

// EmptyUpdate is the update produced by encoding an empty document.
func EmptyUpdate() []byte { return []byte{0, 0} }
