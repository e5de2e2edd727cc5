package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	return Document{
		Title:       "Substitution Plan",
		Subtitles:   []string{"Date: 2024-03-04", "School Teacher Substitution System"},
		PageNumbers: true,
		Sections: []Section{
			{
				Title: "Period 1",
				Data: Dataset{
					Headers: []string{"Absent Teacher", "Substitute"},
					Rows: []map[string]string{
						{"Absent Teacher": "Jane Doe", "Substitute": "John Smith"},
						{"Absent Teacher": "Bob Williams", "Substitute": "Alice Johnson"},
					},
				},
			},
			{Title: "Period 2", EmptyText: "No substitutions needed for this period."},
		},
	}
}

func TestPDFExporterRender(t *testing.T) {
	exporter := NewPDFExporter().WithClock(func() time.Time {
		return time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	})

	data, err := exporter.Render(sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestPDFExporterLandscape(t *testing.T) {
	doc := sampleDocument()
	doc.Orientation = OrientationLandscape
	data, err := NewPDFExporter().Render(doc)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestCSVExporterFlatten(t *testing.T) {
	data, err := NewCSVExporter().Render(Flatten(sampleDocument()))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Section,Absent Teacher,Substitute", lines[0])
	assert.Equal(t, "Period 1,Jane Doe,John Smith", lines[1])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}
