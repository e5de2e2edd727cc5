package models

import (
	"net/url"
	"time"
)

// DateLayout is the format of the portal's date control.
const DateLayout = "2006-01-02"

// Form field names expected by the absence endpoint.
const (
	FieldDate             = "date"
	FieldDay              = "day"
	FieldSelectedTeachers = "selected_teachers"
	FieldCSRFToken        = "csrf_token"
)

// AbsencePayload is what a confirmed submission sends.
type AbsencePayload struct {
	Date       time.Time `json:"date"`
	Day        string    `json:"day"`
	TeacherIDs []string  `json:"teacher_ids"`
}

// Form encodes the payload. Selected identifiers are written once each, in order.
func (p AbsencePayload) Form(csrfToken string) url.Values {
	form := url.Values{}
	if !p.Date.IsZero() {
		form.Set(FieldDate, p.Date.Format(DateLayout))
	}
	form.Set(FieldDay, p.Day)
	seen := make(map[string]struct{}, len(p.TeacherIDs))
	for _, id := range p.TeacherIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		form.Add(FieldSelectedTeachers, id)
	}
	if csrfToken != "" {
		form.Set(FieldCSRFToken, csrfToken)
	}
	return form
}

// AbsenceForm holds the non-selection controls of the absence page.
type AbsenceForm struct {
	Date time.Time `json:"date"`
	Day  string    `json:"day"`
}

// SubmissionState enumerates the stages of one submission attempt.
type SubmissionState string

const (
	SubmissionIdle       SubmissionState = "idle"
	SubmissionValidating SubmissionState = "validating"
	SubmissionConfirming SubmissionState = "confirming"
	SubmissionSubmitting SubmissionState = "submitting"
	SubmissionResolved   SubmissionState = "resolved"
	SubmissionCancelled  SubmissionState = "cancelled"
)

// SubmissionResult summarises a finished attempt.
type SubmissionResult struct {
	AttemptID string          `json:"attempt_id"`
	State     SubmissionState `json:"state"`
	Success   bool            `json:"success"`
	Outcome   *Outcome        `json:"outcome,omitempty"`
	// NavigateTo is empty when the page stays put.
	NavigateTo string          `json:"navigate_to,omitempty"`
	Degraded   bool            `json:"degraded,omitempty"`
	Payload    *AbsencePayload `json:"payload,omitempty"`
}

// AbsencePage is the parsed absence page: roster rows, form defaults and the token.
type AbsencePage struct {
	Roster    []RosterRow `json:"roster"`
	Form      AbsenceForm `json:"form"`
	Action    string      `json:"action"`
	CSRFToken string      `json:"-"`
}
