package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeRestoresDocumentOrder(t *testing.T) {
	var r Report
	r.Merge([]Entry{
		{Layer: "c", ZOrder: 2, Severity: SeveritySuccess},
		{Layer: "a", ZOrder: 0, Severity: SeverityFailure},
		{Layer: "b", ZOrder: 1, Severity: SeverityPartial},
	})

	require.Len(t, r.Entries, 3)
	assert.Equal(t, "a", r.Entries[0].Layer)
	assert.Equal(t, "b", r.Entries[1].Layer)
	assert.Equal(t, "c", r.Entries[2].Layer)
}

func TestSummary(t *testing.T) {
	var r Report
	r.Add(Entry{Severity: SeveritySuccess})
	r.Add(Entry{Severity: SeveritySuccess})
	r.Add(Entry{Severity: SeverityPartial})
	r.Add(Entry{Severity: SeverityFailure})

	s := r.Summary()
	assert.Equal(t, 2, s.Succeeded)
	assert.Equal(t, 1, s.Partial)
	assert.Equal(t, 1, s.Failed)
	assert.True(t, r.HasFailures())
}

func TestEntrySeverity(t *testing.T) {
	assert.Equal(t, SeveritySuccess, EntrySeverity(nil))
	assert.Equal(t, SeverityPartial, EntrySeverity([]Note{{Code: CodeUnitApproximated}}))
}

func TestReportMarshalsForTooling(t *testing.T) {
	var r Report
	r.Add(Entry{
		Layer:    "Roads",
		Severity: SeverityPartial,
		Message:  "Roads.qlr",
		Notes:    []Note{{Code: CodeSymbolAttributeUnsupported, Detail: "dash template [6 0]"}},
	})

	data, err := json.Marshal(&r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"severity":"partial"`)
	assert.Contains(t, string(data), `"SymbolAttributeUnsupported"`)
}
