package models

import "strings"

// ActionColumn is the trailing button column stripped from printed tables.
const ActionColumn = "Action"

// TableSnapshot is the text content of a rendered HTML table.
type TableSnapshot struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// WithoutColumn drops the named column (case-insensitive) from headers and rows.
func (t TableSnapshot) WithoutColumn(name string) TableSnapshot {
	idx := -1
	for i, h := range t.Headers {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return t
	}
	out := TableSnapshot{Headers: remove(t.Headers, idx)}
	for _, row := range t.Rows {
		if idx < len(row) {
			row = remove(row, idx)
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// Records converts rows to header-keyed maps.
func (t TableSnapshot) Records() []map[string]string {
	records := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(row) {
				rec[h] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records
}

func remove(in []string, idx int) []string {
	out := make([]string, 0, len(in)-1)
	out = append(out, in[:idx]...)
	return append(out, in[idx+1:]...)
}

// TeacherTable is a printable table lifted from one of the teacher pages.
type TeacherTable struct {
	TeacherName string         `json:"teacher_name"`
	DateText    string         `json:"date_text,omitempty"`
	Table       *TableSnapshot `json:"table,omitempty"`
}
