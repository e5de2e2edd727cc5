package service

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/noah-isme/sma-substitution-console/internal/models"
)

type scriptedDialog struct {
	mu         sync.Mutex
	answer     bool
	confirmErr error
	alertErr   error
	alerts     []models.DialogRequest
	confirms   []models.DialogRequest
	// onConfirm runs while the confirmation is open.
	onConfirm func()
}

func (d *scriptedDialog) Alert(_ context.Context, req models.DialogRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.alertErr != nil {
		return d.alertErr
	}
	d.alerts = append(d.alerts, req)
	return nil
}

func (d *scriptedDialog) Confirm(_ context.Context, req models.DialogRequest) (bool, error) {
	d.mu.Lock()
	d.confirms = append(d.confirms, req)
	hook := d.onConfirm
	d.mu.Unlock()
	if hook != nil {
		hook()
	}
	if d.confirmErr != nil {
		return false, d.confirmErr
	}
	return d.answer, nil
}

type nativePrompt struct {
	answer   bool
	err      error
	prompts  []string
	messages []string
}

func (n *nativePrompt) Confirm(_ context.Context, message string) (bool, error) {
	n.prompts = append(n.prompts, message)
	return n.answer, n.err
}

func (n *nativePrompt) Alert(_ context.Context, message string) {
	n.messages = append(n.messages, message)
}

type recordingNavigator struct {
	targets []string
	reloads int
}

func (n *recordingNavigator) Navigate(_ context.Context, location string) {
	n.targets = append(n.targets, location)
}

func (n *recordingNavigator) Reload(context.Context) {
	n.reloads++
}

type submittedForm struct {
	action string
	form   url.Values
	csrf   string
	native bool
}

type fakeAbsenceRepo struct {
	page      *models.AbsencePage
	token     string
	outcome   models.Outcome
	submitErr error
	submits   []submittedForm
	tokenHits int
}

func (r *fakeAbsenceRepo) LoadPage(context.Context) (*models.AbsencePage, error) {
	if r.page == nil {
		return nil, errors.New("no page")
	}
	return r.page, nil
}

func (r *fakeAbsenceRepo) CSRFToken(context.Context) (string, error) {
	r.tokenHits++
	return r.token, nil
}

func (r *fakeAbsenceRepo) Submit(_ context.Context, action string, form url.Values, csrf string) (models.Outcome, error) {
	r.submits = append(r.submits, submittedForm{action: action, form: form, csrf: csrf})
	return r.outcome, r.submitErr
}

func (r *fakeAbsenceRepo) SubmitNative(_ context.Context, action string, form url.Values) (models.Outcome, error) {
	r.submits = append(r.submits, submittedForm{action: action, form: form, native: true})
	if r.submitErr != nil {
		return models.Outcome{}, r.submitErr
	}
	return models.Outcome{Kind: models.OutcomeRedirect, Location: "/admin/substitution?date=2024-03-06", StatusCode: 200}, nil
}

type countingObserver struct {
	results []string
}

func (o *countingObserver) ObserveSubmission(result string) {
	o.results = append(o.results, result)
}

func sampleRoster() []models.RosterRow {
	return []models.RosterRow{
		{Teacher: models.Teacher{ID: "1", Name: "Alice Smith", Code: "T001", Email: "alice@school.edu"}},
		{Teacher: models.Teacher{ID: "2", Name: "Bob Jones", Code: "T002", Email: "bob@school.edu"}},
		{Teacher: models.Teacher{ID: "3", Name: "Carol White", Code: "T003", Email: "carol@school.edu"}},
		{Teacher: models.Teacher{ID: "4", Name: "Dan Brown", Code: "X104", Email: "dan@other.org"}},
	}
}
