package models

import "fmt"

// SubstitutionCandidate is a teacher offered in the edit-substitution modal.
type SubstitutionCandidate struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	TeacherID string `json:"teacher_id"`
}

// Label renders the option text used by the portal.
func (c SubstitutionCandidate) Label() string {
	return fmt.Sprintf("%s (ID: %s)", c.Name, c.TeacherID)
}

// CandidateList is the JSON body of the available-teachers endpoint.
type CandidateList struct {
	Success  bool                    `json:"success"`
	Message  string                  `json:"message,omitempty"`
	Teachers []SubstitutionCandidate `json:"teachers"`
}

// SubstitutionEdit is posted to the edit endpoint.
type SubstitutionEdit struct {
	NewTeacherID string `json:"new_teacher_id" validate:"required"`
	Reason       string `json:"reason" validate:"required"`
}

// PlanPeriod is one "Period N" section of the substitution plan page.
type PlanPeriod struct {
	Title string         `json:"title"`
	Table *TableSnapshot `json:"table,omitempty"`
	// EditIDs are the substitution ids behind the rows' edit buttons.
	EditIDs []string `json:"edit_ids,omitempty"`
}

// SubstitutionPlan is the plan page as rendered for one date.
type SubstitutionPlan struct {
	Date    string       `json:"date"`
	Periods []PlanPeriod `json:"periods"`
}
