package service

import (
	"strings"
	"sync"

	"github.com/noah-isme/sma-substitution-console/internal/models"
	appErrors "github.com/noah-isme/sma-substitution-console/pkg/errors"
)

// SelectionService keeps checkbox and visibility state for one loaded roster. The selection
// and the panel are always recomputed from the rows.
type SelectionService struct {
	mu    sync.Mutex
	rows  []models.RosterRow
	index map[string]int
	query string
}

// NewSelectionService copies roster; every row starts visible.
func NewSelectionService(roster []models.RosterRow) *SelectionService {
	rows := make([]models.RosterRow, len(roster))
	index := make(map[string]int, len(roster))
	for i, row := range roster {
		row.Visible = true
		rows[i] = row
		index[row.ID] = i
	}
	return &SelectionService{rows: rows, index: index}
}

// Filter shows rows whose name, code or email contains query, case-insensitively. Selection
// is not touched.
func (s *SelectionService) Filter(query string) []models.RosterRow {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = query
	needle := strings.ToLower(query)
	for i := range s.rows {
		s.rows[i].Visible = matches(s.rows[i].Teacher, needle)
	}
	return s.visibleLocked()
}

func matches(t models.Teacher, needle string) bool {
	return strings.Contains(strings.ToLower(t.Name), needle) ||
		strings.Contains(strings.ToLower(t.Code), needle) ||
		strings.Contains(strings.ToLower(t.Email), needle)
}

// SelectAll sets every visible row to checked. Hidden rows keep their state.
func (s *SelectionService) SelectAll(checked bool) models.SelectionPanel {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rows {
		if s.rows[i].Visible {
			s.rows[i].Selected = checked
		}
	}
	return s.panelLocked()
}

// Toggle sets one row's checkbox.
func (s *SelectionService) Toggle(id string, checked bool) (models.SelectionPanel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return models.SelectionPanel{}, appErrors.Clone(appErrors.ErrNotFound, "teacher "+id+" is not on the roster")
	}
	s.rows[i].Selected = checked
	return s.panelLocked(), nil
}

// Remove unchecks a row from the selected panel.
func (s *SelectionService) Remove(id string) (models.SelectionPanel, error) {
	return s.Toggle(id, false)
}

// Panel renders the selected-teachers panel.
func (s *SelectionService) Panel() models.SelectionPanel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panelLocked()
}

// Selection returns the checked teachers in roster order, whether visible or not.
func (s *SelectionService) Selection() models.SelectionSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectionLocked()
}

// Rows returns a copy of every row.
func (s *SelectionService) Rows() []models.RosterRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.RosterRow(nil), s.rows...)
}

// Visible returns a copy of the rows matching the current filter.
func (s *SelectionService) Visible() []models.RosterRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleLocked()
}

// Query returns the active search text.
func (s *SelectionService) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

func (s *SelectionService) visibleLocked() []models.RosterRow {
	out := make([]models.RosterRow, 0, len(s.rows))
	for _, row := range s.rows {
		if row.Visible {
			out = append(out, row)
		}
	}
	return out
}

func (s *SelectionService) selectionLocked() models.SelectionSet {
	var set models.SelectionSet
	for _, row := range s.rows {
		if row.Selected {
			set.Teachers = append(set.Teachers, row.Teacher)
		}
	}
	return set
}

func (s *SelectionService) panelLocked() models.SelectionPanel {
	return RenderPanel(s.selectionLocked())
}

// RenderPanel projects a selection into panel entries, or the placeholder when empty.
func RenderPanel(set models.SelectionSet) models.SelectionPanel {
	panel := models.SelectionPanel{Count: set.Len(), Entries: make([]models.PanelEntry, 0, set.Len())}
	if set.Empty() {
		panel.Placeholder = models.NoSelectionPlaceholder
		return panel
	}
	for _, t := range set.Teachers {
		panel.Entries = append(panel.Entries, models.PanelEntry{Name: t.Name, Code: t.Code, RemoveID: t.ID})
	}
	return panel
}
