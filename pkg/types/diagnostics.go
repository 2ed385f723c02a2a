package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// -----------------------------------------------------------------------------
// Decode Diagnostics
// -----------------------------------------------------------------------------
//
// A decode succeeds whenever the update applies, but the value may come from
// a degraded stage, and the update may contain structs that could not be
// integrated. Diagnostics record those facts without failing the decode.
//
// Usage:
//   1. Pass a *DiagnosticReport to decode.WithDiagnostics.
//   2. Print it with FormatText or FormatJSON.

// Severity classifies how serious a diagnostic issue is.
type Severity int

const (
	SevInfo    Severity = iota // Informational (expected fallback)
	SevWarning                 // Data left out of the decoded value
	SevError                   // Stage failed unexpectedly
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Diagnostic is a single finding about one decode.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Stage    string   `json:"stage"`           // pipeline stage or "apply"
	Issue    string   `json:"issue"`           // human readable description
	Cause    string   `json:"cause,omitempty"` // underlying error text
}

// DiagnosticReport collects all diagnostics for one input.
type DiagnosticReport struct {
	// Metadata
	Source     string        `json:"source,omitempty"`
	Size       int           `json:"size"`
	DecodeTime time.Duration `json:"decode_time"`

	// Issues
	Diagnostics []Diagnostic `json:"diagnostics"`

	// Summary statistics
	Summary DiagSummary `json:"summary"`

	BySeverity map[Severity][]Diagnostic `json:"-"`
}

// DiagSummary provides quick statistics.
type DiagSummary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// NewDiagnosticReport creates an empty report.
func NewDiagnosticReport() *DiagnosticReport {
	return &DiagnosticReport{
		Diagnostics: []Diagnostic{},
		BySeverity:  make(map[Severity][]Diagnostic),
	}
}

// Add adds a diagnostic to the report and updates indices.
func (r *DiagnosticReport) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)

	switch d.Severity {
	case SevError:
		r.Summary.Errors++
	case SevWarning:
		r.Summary.Warnings++
	case SevInfo:
		r.Summary.Info++
	}

	if r.BySeverity == nil {
		r.BySeverity = make(map[Severity][]Diagnostic)
	}
	r.BySeverity[d.Severity] = append(r.BySeverity[d.Severity], d)
}

// Addf is shorthand for adding a diagnostic without a cause.
func (r *DiagnosticReport) Addf(sev Severity, stage, format string, args ...any) {
	r.Add(Diagnostic{Severity: sev, Stage: stage, Issue: fmt.Sprintf(format, args...)})
}

// HasErrors returns true if any errors were found.
func (r *DiagnosticReport) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasAnyIssues returns true if anything was recorded, including info.
func (r *DiagnosticReport) HasAnyIssues() bool {
	return len(r.Diagnostics) > 0
}

// -----------------------------------------------------------------------------
// Output Formatters
// -----------------------------------------------------------------------------

// FormatJSON returns the report as formatted JSON (2-space indentation).
func (r *DiagnosticReport) FormatJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatText returns a human-readable text report.
func (r *DiagnosticReport) FormatText() string {
	var b strings.Builder

	if r.Source != "" {
		b.WriteString(fmt.Sprintf("Source:      %s\n", r.Source))
	}
	b.WriteString(fmt.Sprintf("Size:        %d bytes\n", r.Size))
	b.WriteString(fmt.Sprintf("Decode time: %v\n", r.DecodeTime))

	if len(r.Diagnostics) == 0 {
		b.WriteString("No issues found.\n")
		return b.String()
	}

	for _, severity := range []Severity{SevError, SevWarning, SevInfo} {
		diags := r.BySeverity[severity]
		if len(diags) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("\n%s (%d)\n", severity, len(diags)))
		for i, d := range diags {
			b.WriteString(fmt.Sprintf("  %d. [%s] %s\n", i+1, d.Stage, d.Issue))
			if d.Cause != "" {
				b.WriteString(fmt.Sprintf("     cause: %s\n", d.Cause))
			}
		}
	}

	return b.String()
}

// FormatTextCompact returns one line per issue.
func (r *DiagnosticReport) FormatTextCompact() string {
	var b strings.Builder
	for _, d := range r.Diagnostics {
		b.WriteString(fmt.Sprintf("[%s/%s] %s\n", d.Severity, d.Stage, d.Issue))
	}
	if len(r.Diagnostics) == 0 {
		b.WriteString("No issues found.\n")
	}
	return b.String()
}
