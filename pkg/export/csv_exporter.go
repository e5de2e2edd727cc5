package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Flatten merges document sections into one dataset, prefixing each row with its section
// title when the document has more than one section.
func Flatten(doc Document) Dataset {
	var out Dataset
	multi := len(doc.Sections) > 1
	for _, section := range doc.Sections {
		if len(section.Data.Headers) == 0 {
			continue
		}
		if out.Headers == nil {
			if multi {
				out.Headers = append([]string{"Section"}, section.Data.Headers...)
			} else {
				out.Headers = append([]string(nil), section.Data.Headers...)
			}
		}
		for _, row := range section.Data.Rows {
			cp := make(map[string]string, len(row)+1)
			for k, v := range row {
				cp[k] = v
			}
			if multi {
				cp["Section"] = section.Title
			}
			out.Rows = append(out.Rows, cp)
		}
	}
	return out
}
