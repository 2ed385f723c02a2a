package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("load: %w", New(ErrKindMalformed, "decode doc.bin", errors.New("unexpected end")))

	assert.ErrorIs(t, err, ErrMalformedUpdate)
	assert.NotErrorIs(t, err, ErrIO)
	assert.Equal(t, "load: decode doc.bin: unexpected end", err.Error())

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrKindMalformed, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := New(ErrKindIO, "read", cause)
	assert.ErrorIs(t, err, cause)

	var nilErr *Error
	assert.Equal(t, "<nil>", nilErr.Error())
	assert.Equal(t, "unsupported", ErrUnsupported.Error())
}

func TestErrKind_String(t *testing.T) {
	tests := []struct {
		kind ErrKind
		want string
	}{
		{ErrKindMalformed, "malformed"},
		{ErrKindIO, "io"},
		{ErrKindState, "state"},
		{ErrKindUnsupported, "unsupported"},
		{ErrKind(99), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestLimits(t *testing.T) {
	l := DefaultLimits()
	assert.EqualValues(t, DefaultMaxInputBytes, l.MaxInputBytes)

	raised := StrictLimits().WithMaxInput(32 << 20)
	assert.EqualValues(t, 32<<20, raised.MaxInputBytes)
	assert.EqualValues(t, 32<<20, raised.MaxDecodedBytes)

	assert.Equal(t, l, l.WithMaxInput(0))
}

func TestDiagnosticReport(t *testing.T) {
	r := NewDiagnosticReport()
	r.Source = "doc.bin"
	r.Size = 12
	assert.False(t, r.HasAnyIssues())
	assert.Contains(t, r.FormatText(), "No issues found.")

	r.Addf(SevInfo, "preferred", "entry %q not found", "object_data")
	r.Add(Diagnostic{Severity: SevWarning, Stage: "apply", Issue: "2 structs pending"})
	r.Add(Diagnostic{Severity: SevError, Stage: "container", Issue: "materialize failed", Cause: "boom"})

	assert.True(t, r.HasErrors())
	assert.Equal(t, DiagSummary{Errors: 1, Warnings: 1, Info: 1}, r.Summary)

	text := r.FormatText()
	assert.Contains(t, text, "Source:      doc.bin")
	assert.Contains(t, text, "ERROR (1)")
	assert.Contains(t, text, "cause: boom")
	assert.Contains(t, text, `[preferred] entry "object_data" not found`)

	assert.Equal(t,
		"[INFO/preferred] entry \"object_data\" not found\n[WARNING/apply] 2 structs pending\n[ERROR/container] materialize failed\n",
		r.FormatTextCompact())

	js, err := r.FormatJSON()
	require.NoError(t, err)
	assert.Contains(t, js, `"severity": "WARNING"`)
	assert.Contains(t, js, `"warnings": 1`)
}
