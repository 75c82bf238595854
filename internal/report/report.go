// Package report collects per-layer conversion outcomes.
package report

import "sort"

// Severity classifies the outcome of a single layer conversion.
type Severity string

const (
	// SeveritySuccess means the layer converted with full fidelity.
	SeveritySuccess Severity = "success"
	// SeverityPartial means the layer converted but some attributes were
	// dropped or approximated; the notes itemize each loss.
	SeverityPartial Severity = "partial"
	// SeverityFailure means the layer could not be converted at all.
	SeverityFailure Severity = "failure"
)

// Code identifies a recoverable fidelity loss or a fatal condition.
type Code string

const (
	CodeRendererKindUnsupported    Code = "RendererKindUnsupported"
	CodeSymbolAttributeUnsupported Code = "SymbolAttributeUnsupported"
	CodeUnitApproximated           Code = "UnitApproximated"
	CodeLabelClassDropped          Code = "LabelClassDropped"
	CodeDataSourceNormalized       Code = "DataSourceNormalized"
	CodeMalformedSourceDocument    Code = "MalformedSourceDocument"
	CodeUnsupportedSchemaVersion   Code = "UnsupportedSchemaVersion"
	CodeInvariantViolation         Code = "InvariantViolation"
	CodeWriteTargetFailed          Code = "WriteTargetFailed"
)

// Note records a single dropped or approximated attribute.
type Note struct {
	Code   Code   `json:"code"`
	Detail string `json:"detail"`
}

// Entry is the outcome for one top-level layer.
type Entry struct {
	Layer    string   `json:"layer"`
	LayerID  string   `json:"layer_id,omitempty"`
	ZOrder   int      `json:"z_order"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message,omitempty"`
	Notes    []Note   `json:"notes,omitempty"`
}

// Report is the ordered sequence of per-layer outcomes for one conversion
// run. It is append-only while the run is in flight and read-only after.
type Report struct {
	Entries []Entry `json:"entries"`
}

// Add appends an entry to the report.
func (r *Report) Add(e Entry) {
	r.Entries = append(r.Entries, e)
}

// Merge folds entries produced out of order (e.g. by parallel workers) into
// the report, restoring original document order by z-order index.
func (r *Report) Merge(entries []Entry) {
	r.Entries = append(r.Entries, entries...)
	sort.SliceStable(r.Entries, func(i, j int) bool {
		return r.Entries[i].ZOrder < r.Entries[j].ZOrder
	})
}

// Summary aggregates entry counts by severity.
type Summary struct {
	Succeeded int `json:"succeeded"`
	Partial   int `json:"partial"`
	Failed    int `json:"failed"`
}

// Summary returns conversion counts by severity.
func (r *Report) Summary() Summary {
	var s Summary
	for _, e := range r.Entries {
		switch e.Severity {
		case SeveritySuccess:
			s.Succeeded++
		case SeverityPartial:
			s.Partial++
		case SeverityFailure:
			s.Failed++
		}
	}
	return s
}

// HasFailures reports whether any layer failed outright.
func (r *Report) HasFailures() bool {
	for _, e := range r.Entries {
		if e.Severity == SeverityFailure {
			return true
		}
	}
	return false
}

// EntrySeverity derives an entry severity from collected notes: no notes is
// a success, any recoverable note downgrades to partial.
func EntrySeverity(notes []Note) Severity {
	if len(notes) == 0 {
		return SeveritySuccess
	}
	return SeverityPartial
}
