package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-substitution-console/internal/dto"
	"github.com/noah-isme/sma-substitution-console/internal/models"
	"github.com/noah-isme/sma-substitution-console/internal/service"
	appErrors "github.com/noah-isme/sma-substitution-console/pkg/errors"
)

type responseEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) responseEnvelope {
	t.Helper()
	var env responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func boolPtr(v bool) *bool { return &v }

type fakeAbsenceWorkflow struct {
	page      *models.AbsencePage
	loadErr   error
	submitErr error
	lastInput service.SubmissionInput
}

func (f *fakeAbsenceWorkflow) LoadPage(context.Context) (*models.AbsencePage, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	cp := *f.page
	cp.Roster = append([]models.RosterRow(nil), f.page.Roster...)
	return &cp, nil
}

func (f *fakeAbsenceWorkflow) Submit(ctx context.Context, in service.SubmissionInput, page service.Page) (*models.SubmissionResult, error) {
	f.lastInput = in
	ok, err := page.Dialog.Confirm(ctx, models.DialogRequest{Title: "Confirm Absence", Icon: models.IconQuestion})
	if err != nil {
		return nil, err
	}
	if !ok {
		return &models.SubmissionResult{State: models.SubmissionCancelled}, nil
	}
	if f.submitErr != nil {
		_ = page.Dialog.Alert(ctx, models.DialogRequest{Title: "Error", Text: "rejected", Icon: models.IconError})
		return &models.SubmissionResult{State: models.SubmissionResolved}, f.submitErr
	}
	page.Navigator.Navigate(ctx, "/admin/substitution?date=2024-03-06")
	return &models.SubmissionResult{State: models.SubmissionResolved, Success: true, NavigateTo: "/admin/substitution?date=2024-03-06"}, nil
}

func (f *fakeAbsenceWorkflow) Cancel(ctx context.Context, page service.Page) string {
	page.Navigator.Navigate(ctx, "/admin/dashboard")
	return "/admin/dashboard"
}

func newFakeAbsence() *fakeAbsenceWorkflow {
	return &fakeAbsenceWorkflow{page: &models.AbsencePage{
		Roster: []models.RosterRow{
			{Teacher: models.Teacher{ID: "1", Name: "Alice Smith", Code: "T001", Email: "alice@school.test"}, Visible: true},
			{Teacher: models.Teacher{ID: "2", Name: "Bob Jones", Code: "T002", Email: "bob@school.test"}, Selected: true, Visible: true},
		},
		Form:      models.AbsenceForm{Date: time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), Day: "Day 3"},
		Action:    "/admin/absence",
		CSRFToken: "tok",
	}}
}

func TestAbsenceHandlerRosterFiltersRows(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAbsenceHandler(newFakeAbsence(), nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/absence/roster?search=alice", nil)
	h.Roster(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.RosterResponse
	decodeEnvelope(t, rec, &resp)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "Alice Smith", resp.Rows[0].Name)
	assert.Equal(t, 1, resp.Panel.Count)
	assert.Equal(t, "2024-03-06", resp.Date)
	assert.Equal(t, "Day 3", resp.Day)
	assert.Equal(t, "alice", resp.Query)
}

func TestAbsenceHandlerRosterPortalError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fake := newFakeAbsence()
	fake.loadErr = appErrors.ErrPortalUnauthorized
	h := NewAbsenceHandler(fake, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/absence/roster", nil)
	h.Roster(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAbsenceHandlerDay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAbsenceHandler(newFakeAbsence(), nil)

	cases := []struct {
		query   string
		day     string
		derived bool
	}{
		{"2024-03-05", "Day 2", true},
		{"2024-03-09", "Day 1", true},
		{"", "", false},
		{"not-a-date", "", false},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/absence/day?date="+tc.query, nil)
		h.Day(c)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.DayResponse
		decodeEnvelope(t, rec, &resp)
		assert.Equal(t, tc.day, resp.Day, tc.query)
		assert.Equal(t, tc.derived, resp.Derived, tc.query)
	}
}

func TestAbsenceHandlerSubmitUsesRequestSelection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fake := newFakeAbsence()
	h := NewAbsenceHandler(fake, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = jsonRequest(t, http.MethodPost, "/absence", dto.SubmitAbsenceRequest{
		Date:       "2024-03-07",
		TeacherIDs: []string{"1"},
		Confirm:    boolPtr(true),
	})
	h.Submit(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.WorkflowResponse
	decodeEnvelope(t, rec, &resp)
	assert.Equal(t, "/admin/substitution?date=2024-03-06", resp.NavigateTo)
	require.Len(t, resp.Dialogs, 1)
	assert.Equal(t, "Confirm Absence", resp.Dialogs[0].Title)

	assert.Equal(t, []string{"1"}, fake.lastInput.Selection.IDs())
	assert.Equal(t, "Day 4", fake.lastInput.Day)
	assert.Equal(t, "2024-03-07", fake.lastInput.Date.Format(models.DateLayout))
	assert.Equal(t, "tok", fake.lastInput.CSRFToken)
}

func TestAbsenceHandlerSubmitWithoutConfirmationCancels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fake := newFakeAbsence()
	h := NewAbsenceHandler(fake, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = jsonRequest(t, http.MethodPost, "/absence", dto.SubmitAbsenceRequest{TeacherIDs: []string{"2"}})
	h.Submit(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Result models.SubmissionResult `json:"result"`
	}
	decodeEnvelope(t, rec, &resp)
	assert.Equal(t, models.SubmissionCancelled, resp.Result.State)
	assert.Equal(t, "Day 3", fake.lastInput.Day)
}

func TestAbsenceHandlerSubmitRejectsUnknownTeacher(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAbsenceHandler(newFakeAbsence(), nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = jsonRequest(t, http.MethodPost, "/absence", dto.SubmitAbsenceRequest{TeacherIDs: []string{"99"}})
	h.Submit(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAbsenceHandlerSubmitValidatesDay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAbsenceHandler(newFakeAbsence(), nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = jsonRequest(t, http.MethodPost, "/absence", dto.SubmitAbsenceRequest{Day: "Day 9", TeacherIDs: []string{"1"}})
	h.Submit(c)

	env := decodeEnvelope(t, rec, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestAbsenceHandlerSubmitFailureKeepsDialogs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fake := newFakeAbsence()
	fake.submitErr = appErrors.Clone(appErrors.ErrServerRejected, "rejected")
	h := NewAbsenceHandler(fake, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = jsonRequest(t, http.MethodPost, "/absence", dto.SubmitAbsenceRequest{TeacherIDs: []string{"1"}, Confirm: boolPtr(true)})
	h.Submit(c)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp dto.WorkflowResponse
	env := decodeEnvelope(t, rec, &resp)
	require.NotNil(t, env.Error)
	assert.Equal(t, "SERVER_REJECTED", env.Error.Code)
	require.Len(t, resp.Dialogs, 2)
	assert.Equal(t, models.IconError, resp.Dialogs[1].Icon)
}

func TestAbsenceHandlerCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAbsenceHandler(newFakeAbsence(), nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/absence/cancel", nil)
	h.Cancel(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	decodeEnvelope(t, rec, &resp)
	assert.Equal(t, "/admin/dashboard", resp["navigate_to"])
}
