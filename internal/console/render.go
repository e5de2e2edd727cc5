package console

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/noah-isme/sma-substitution-console/internal/models"
)

// RenderRoster writes the visible roster rows with their checkboxes.
func RenderRoster(w io.Writer, rows []models.RosterRow) {
	table := models.TableSnapshot{Headers: []string{"", "ID", "Name", "Teacher ID", "Phone", "Email"}}
	for _, row := range rows {
		if !row.Visible {
			continue
		}
		box := "[ ]"
		if row.Selected {
			box = "[x]"
		}
		table.Rows = append(table.Rows, []string{box, row.ID, row.Name, row.Code, row.Phone, row.Email})
	}
	if len(table.Rows) == 0 {
		fmt.Fprintln(w, "  (no teachers match the search)")
		return
	}
	RenderTable(w, table)
}

// RenderPanel writes the selected-teachers panel.
func RenderPanel(w io.Writer, panel models.SelectionPanel) {
	fmt.Fprintf(w, "Selected Teachers (%d)\n", panel.Count)
	if len(panel.Entries) == 0 {
		fmt.Fprintf(w, "  %s\n", panel.Placeholder)
		return
	}
	for _, e := range panel.Entries {
		fmt.Fprintf(w, "  - %s (%s)  [remove %s]\n", e.Name, e.Code, e.RemoveID)
	}
}

// RenderTable writes table as padded columns.
func RenderTable(w io.Writer, table models.TableSnapshot) {
	widths := make([]int, len(table.Headers))
	for i, h := range table.Headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range table.Rows {
		for i, cell := range row {
			if i < len(widths) {
				if n := utf8.RuneCountInString(cell); n > widths[i] {
					widths[i] = n
				}
			}
		}
	}

	writeRow := func(cells []string) {
		parts := make([]string, len(widths))
		for i := range widths {
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = padRight(cell, widths[i])
		}
		fmt.Fprintln(w, strings.TrimRight("  "+strings.Join(parts, "  "), " "))
	}

	writeRow(table.Headers)
	sep := make([]string, len(widths))
	for i, n := range widths {
		sep[i] = strings.Repeat("-", n)
	}
	writeRow(sep)
	for _, row := range table.Rows {
		writeRow(row)
	}
}

// RenderPlan writes every period of a substitution plan.
func RenderPlan(w io.Writer, plan *models.SubstitutionPlan) {
	fmt.Fprintf(w, "Substitution Plan for %s\n", plan.Date)
	for _, period := range plan.Periods {
		fmt.Fprintf(w, "\n%s\n", period.Title)
		if period.Table == nil || len(period.Table.Rows) == 0 {
			fmt.Fprintln(w, "  No substitutions needed for this period.")
			continue
		}
		RenderTable(w, period.Table.WithoutColumn(models.ActionColumn))
		if len(period.EditIDs) > 0 {
			fmt.Fprintf(w, "  edit ids: %s\n", strings.Join(period.EditIDs, ", "))
		}
	}
}

func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
