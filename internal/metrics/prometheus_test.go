package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_Counters(t *testing.T) {
	r := NewPrometheus()

	r.IncUserRegistered()
	r.IncUserRegistered()
	r.IncLogin(LoginSuccess)
	r.IncLogin(LoginWrongPassword)
	r.IncLogin(LoginWrongPassword)
	r.IncNoteCreated()
	r.IncNoteShared()
	r.IncACLCache(CacheHit)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.usersRegistered))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.logins.WithLabelValues(LoginSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.logins.WithLabelValues(LoginWrongPassword)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.notesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.notesShared))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.aclCache.WithLabelValues(CacheHit)))
}

func TestPrometheusRecorder_Handler(t *testing.T) {
	r := NewPrometheus()
	r.ObserveHTTPRequest(http.MethodGet, "/home", http.StatusOK, 15*time.Millisecond)

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `gophnotes_http_requests_total{method="GET",route="/home",status="200"} 1`)
	assert.Contains(t, body, "gophnotes_http_request_duration_seconds")
}

func TestNoopRecorder(t *testing.T) {
	r := NewNoop()
	assert.NotPanics(t, func() {
		r.IncUserRegistered()
		r.IncLogin(LoginSuccess)
		r.IncNoteCreated()
		r.IncNoteShared()
		r.IncACLCache(CacheMiss)
		r.ObserveHTTPRequest(http.MethodPost, "/", http.StatusFound, time.Millisecond)
	})
}
