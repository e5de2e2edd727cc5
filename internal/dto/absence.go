package dto

import "github.com/noah-isme/sma-substitution-console/internal/models"

// SubmitAbsenceRequest is the gateway form of the absence page. Confirm answers the
// confirmation dialog; leaving it out returns the dialog unanswered.
type SubmitAbsenceRequest struct {
	Date       string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Day        string   `json:"day" validate:"omitempty,oneof='Day 1' 'Day 2' 'Day 3' 'Day 4' 'Day 5'"`
	TeacherIDs []string `json:"teacher_ids" validate:"dive,required"`
	Confirm    *bool    `json:"confirm"`
}

// RosterResponse is the absence page as the gateway renders it.
type RosterResponse struct {
	Rows   []models.RosterRow    `json:"rows"`
	Panel  models.SelectionPanel `json:"panel"`
	Date   string                `json:"date,omitempty"`
	Day    string                `json:"day,omitempty"`
	Action string                `json:"action"`
	Query  string                `json:"query,omitempty"`
}

// DayResponse reports the rotation day for a date. Derived is false when the input was
// empty or malformed and the day should stay as it is.
type DayResponse struct {
	Date    string `json:"date"`
	Day     string `json:"day,omitempty"`
	Derived bool   `json:"derived"`
}
