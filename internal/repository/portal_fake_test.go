package repository

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-substitution-console/pkg/config"
)

const absencePageHTML = `<!doctype html>
<html><head><meta name="csrf-token" content="meta-token"></head>
<body>
<form id="absenceForm" action="/admin/absence" method="post">
  <input type="hidden" name="csrf_token" value="input-token">
  <input type="date" name="date" value="2024-03-06">
  <select name="day">
    <option value="Day 1">Day 1</option>
    <option value="Day 3" selected>Day 3</option>
  </select>
  <table id="teacherTable">
    <thead><tr><th></th><th>Name</th><th>ID</th><th>Phone</th><th>Email</th></tr></thead>
    <tbody>
      <tr><td><input type="checkbox" class="teacher-checkbox" value="1"></td><td>Alice  Smith</td><td>T001</td><td>555-1</td><td>alice@school.edu</td></tr>
      <tr><td><input type="checkbox" class="teacher-checkbox" value="2" checked></td><td>Bob Jones</td><td>T002</td><td>555-2</td><td>bob@school.edu</td></tr>
    </tbody>
  </table>
</form>
</body></html>`

type observation struct {
	method string
	route  string
	status int
}

type recordingObserver struct {
	calls []observation
}

func (o *recordingObserver) ObservePortalRequest(method, route string, status int, _ time.Duration) {
	o.calls = append(o.calls, observation{method: method, route: route, status: status})
}

func newFakePortal(t *testing.T, mux *http.ServeMux) (*PortalClient, *recordingObserver) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	observer := &recordingObserver{}
	client, err := NewPortalClient(config.PortalConfig{BaseURL: srv.URL, UserAgent: "test"}, observer, zap.NewNop())
	require.NoError(t, err)
	return client, observer
}
