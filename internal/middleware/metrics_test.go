package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type requestRecorder struct {
	mu    sync.Mutex
	paths []string
	codes []int
}

func (r *requestRecorder) ObserveHTTPRequest(_ string, path string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	r.codes = append(r.codes, status)
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := &requestRecorder{}
	r := gin.New()
	r.Use(Metrics(rec))
	r.GET("/substitutions/:id/candidates", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, target := range []string{"/substitutions/12/candidates", "/nope"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	}

	require.Len(t, rec.paths, 2)
	assert.Equal(t, "/substitutions/:id/candidates", rec.paths[0])
	assert.Equal(t, http.StatusOK, rec.codes[0])
	assert.Equal(t, "unmatched", rec.paths[1])
	assert.Equal(t, http.StatusNotFound, rec.codes[1])
}

func TestMetricsNilObserver(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(nil))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
