package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() Report {
	return Report{
		Title:       "Insights report",
		GeneratedAt: time.Date(2024, 3, 25, 12, 0, 0, 0, time.UTC),
		Tables: []Table{
			{
				Name:    "Metrics",
				Headers: []string{"Metric", "Value"},
				Rows: [][]string{
					{"Resolution rate", "75.0"},
					{"Open tickets", "5"},
				},
			},
			{
				Name:    "Recommendations",
				Headers: []string{"Priority", "Title", "Description"},
				Weights: []float64{1, 2, 4},
				Rows: [][]string{
					{"high", "Improve resolution process", strings.Repeat("Triage the backlog daily. ", 12)},
				},
			},
		},
	}
}

func TestCSVExporterRendersTables(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleReport())
	require.NoError(t, err)

	reader := csv.NewReader(bytes.NewReader(out))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"Insights report", "2024-03-25T12:00:00Z"}, records[0])
	assert.Equal(t, []string{"Metrics"}, records[1])
	assert.Equal(t, []string{"Metric", "Value"}, records[2])
	assert.Equal(t, []string{"Resolution rate", "75.0"}, records[3])
	assert.Equal(t, []string{"Recommendations"}, records[5])
	assert.Equal(t, "Improve resolution process", records[7][1])
	assert.Len(t, records, 8)
}

func TestCSVExporterRejectsRaggedRows(t *testing.T) {
	report := Report{Tables: []Table{{Headers: []string{"A", "B"}, Rows: [][]string{{"only one"}}}}}
	_, err := NewCSVExporter().Render(report)
	assert.Error(t, err)
}

func TestCSVExporterRequiresTables(t *testing.T) {
	_, err := NewCSVExporter().Render(Report{Title: "empty"})
	assert.Error(t, err)
}

func TestPDFExporterRendersDocument(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleReport())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFExporterRejectsMismatchedWeights(t *testing.T) {
	report := sampleReport()
	report.Tables[0].Weights = []float64{1}
	_, err := NewPDFExporter().Render(report)
	assert.Error(t, err)
}

func TestColumnWidthsFollowWeights(t *testing.T) {
	widths := columnWidths(Table{Headers: []string{"a", "b"}, Weights: []float64{1, 3}})
	assert.InDelta(t, 47.5, widths[0], 0.001)
	assert.InDelta(t, 142.5, widths[1], 0.001)

	equal := columnWidths(Table{Headers: []string{"a", "b"}})
	assert.InDelta(t, 95.0, equal[0], 0.001)
}
