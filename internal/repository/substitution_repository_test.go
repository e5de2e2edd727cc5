package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-substitution-console/internal/models"
	appErrors "github.com/noah-isme/sma-substitution-console/pkg/errors"
	"github.com/noah-isme/sma-substitution-console/pkg/storage"
)

const planPageHTML = `<html><head><meta name="csrf-token" content="plan-token"></head><body>
<div class="card"><div class="card-header"><h5>Substitution Plan for 2024-03-06</h5></div>
<div class="card-body">
  <h5 class="mt-4 mb-3">Period 1</h5>
  <div class="table-responsive"><table class="table">
    <thead><tr><th>Class</th><th>Absent Teacher</th><th>Substitute</th><th>Action</th></tr></thead>
    <tbody>
      <tr><td>10A</td><td>Alice</td><td>Carol</td><td><button class="btn edit-substitution" data-id="17">Edit</button></td></tr>
    </tbody>
  </table></div>
  <h5 class="mt-4 mb-3">Period 2</h5>
  <p class="text-muted">No substitutions needed for this period.</p>
</div></div></body></html>`

func TestSubstitutionRepositoryPlan(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/substitution", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-03-06", r.URL.Query().Get("date"))
		_, _ = w.Write([]byte(planPageHTML))
	})
	client, _ := newFakePortal(t, mux)
	repo := NewSubstitutionRepository(client)

	plan, err := repo.Plan(context.Background(), "2024-03-06")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-06", plan.Date)
	require.Len(t, plan.Periods, 2)
	assert.Equal(t, "Period 1", plan.Periods[0].Title)
	require.NotNil(t, plan.Periods[0].Table)
	assert.Equal(t, []string{"Class", "Absent Teacher", "Substitute", "Action"}, plan.Periods[0].Table.Headers)
	assert.Equal(t, "Carol", plan.Periods[0].Table.Rows[0][2])
	assert.Equal(t, []string{"17"}, plan.Periods[0].EditIDs)
	assert.Nil(t, plan.Periods[1].Table)
}

func TestSubstitutionRepositoryCandidatesAndEdit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/available_teachers_for_substitution/17", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"teachers":[{"id":4,"name":"Dan","teacher_id":"T004"}]}`))
	})
	mux.HandleFunc("/admin/edit_substitution/17", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "plan-token", r.Header.Get("X-CSRFToken"))
		var body models.SubstitutionEdit
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "4", body.NewTeacherID)
		assert.Equal(t, "clash", body.Reason)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"ok"}`))
	})
	client, _ := newFakePortal(t, mux)
	repo := NewSubstitutionRepository(client)

	list, err := repo.Candidates(context.Background(), "17")
	require.NoError(t, err)
	require.Len(t, list.Teachers, 1)
	assert.Equal(t, "Dan (ID: T004)", list.Teachers[0].Label())

	result, err := repo.Edit(context.Background(), "17", models.SubstitutionEdit{NewTeacherID: "4", Reason: "clash"}, "plan-token")
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestJSONEndpointsDetectExpiredSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/available_teachers_for_substitution/17", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login?next=/admin/substitution", http.StatusFound)
	})
	mux.HandleFunc("/admin/edit_substitution/17", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><form></form></html>"))
	})
	client, _ := newFakePortal(t, mux)
	repo := NewSubstitutionRepository(client)

	_, err := repo.Candidates(context.Background(), "17")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrPortalUnauthorized))

	_, err = repo.Edit(context.Background(), "17", models.SubstitutionEdit{NewTeacherID: "4", Reason: "clash"}, "plan-token")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrPortalUnauthorized))
}

func TestPlanPath(t *testing.T) {
	assert.Equal(t, "/admin/substitution", PlanPath(""))
	assert.Equal(t, "/admin/substitution?date=2024-03-06", PlanPath("2024-03-06"))
}

func TestTransferRepository(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/reject_transfer/9", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"message":"already handled"}`))
	})
	mux.HandleFunc("/teacher/transfer/17", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`<form><input name="csrf_token" value="t-token"></form>`))
			return
		}
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "on", r.PostForm.Get("transfer_all"))
		assert.Equal(t, "t-token", r.PostForm.Get("csrf_token"))
		http.Redirect(w, r, "/teacher/dashboard", http.StatusFound)
	})
	mux.HandleFunc("/teacher/dashboard", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html></html>"))
	})
	client, _ := newFakePortal(t, mux)
	repo := NewTransferRepository(client)

	result, err := repo.Decide(context.Background(), "9", models.TransferReject, "tok")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "already handled", result.Message)

	token, err := repo.RequestCSRFToken(context.Background(), "17")
	require.NoError(t, err)
	landing, err := repo.Request(context.Background(), models.TransferRequest{
		SubstitutionID: "17", NewTeacherID: "4", Reason: "sick leave", TransferAll: true,
	}, token)
	require.NoError(t, err)
	assert.Equal(t, "/teacher/dashboard", landing)
}

func TestScheduleRepository(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/teacher/schedule", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<div class="card-header"><h5>Alice Smith's Weekly Schedule</h5></div>
<table id="scheduleTable"><thead><tr><th>Period</th><th>Day 1</th></tr></thead><tbody><tr><td>1</td><td>10A Math</td></tr></tbody></table>`))
	})
	mux.HandleFunc("/teacher/dashboard", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<div class="card-body"><h4>Alice Smith</h4><span class="badge bg-primary">2024-03-06</span></div>
<div class="card-body"><table><thead><tr><th>Period</th><th>Class</th><th>Action</th></tr></thead><tbody><tr><td>2</td><td>11B</td><td>Transfer</td></tr></tbody></table></div>`))
	})
	client, _ := newFakePortal(t, mux)
	repo := NewScheduleRepository(client)

	schedule, err := repo.WeeklySchedule(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", schedule.TeacherName)
	require.NotNil(t, schedule.Table)
	assert.Equal(t, [][]string{{"1", "10A Math"}}, schedule.Table.Rows)

	subs, err := repo.Substitutions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", subs.TeacherName)
	assert.Equal(t, "2024-03-06", subs.DateText)
	require.NotNil(t, subs.Table)
	assert.Equal(t, []string{"Period", "Class", "Action"}, subs.Table.Headers)
}

func TestFilePreferenceRepository(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := NewFilePreferenceRepository(store)
	ctx := context.Background()

	_, ok, err := repo.Get(ctx, models.ThemePreferenceKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, models.ThemePreferenceKey, "dark"))
	value, ok, err := repo.Get(ctx, models.ThemePreferenceKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", value)

	_, err = os.Stat(store.Path(preferencesFile))
	assert.NoError(t, err)
}

func TestRedisPreferenceRepositoryWithoutClient(t *testing.T) {
	repo := NewRedisPreferenceRepository(nil, "subctl:pref:", nil)
	require.NoError(t, repo.Set(context.Background(), "theme", "dark"))
	_, ok, err := repo.Get(context.Background(), "theme")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, repo.Close())
}
