package models

// NoSelectionPlaceholder is shown in the selected panel when nothing is checked.
const NoSelectionPlaceholder = "No teachers selected"

// SelectionSet is derived from checkbox state; it is never maintained incrementally.
type SelectionSet struct {
	Teachers []Teacher `json:"teachers"`
}

// IDs returns the selected identifiers in roster order.
func (s SelectionSet) IDs() []string {
	ids := make([]string, 0, len(s.Teachers))
	for _, t := range s.Teachers {
		ids = append(ids, t.ID)
	}
	return ids
}

// Len reports the number of selected teachers.
func (s SelectionSet) Len() int {
	return len(s.Teachers)
}

// Empty reports whether nothing is selected.
func (s SelectionSet) Empty() bool {
	return len(s.Teachers) == 0
}

// PanelEntry is one line of the selected-teachers panel. RemoveID unchecks the row.
type PanelEntry struct {
	Name     string `json:"name"`
	Code     string `json:"teacher_id"`
	RemoveID string `json:"remove_id"`
}

// SelectionPanel is the rendered projection of a SelectionSet.
type SelectionPanel struct {
	Count       int          `json:"count"`
	Entries     []PanelEntry `json:"entries"`
	Placeholder string       `json:"placeholder,omitempty"`
}
