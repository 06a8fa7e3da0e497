package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	method string
	route  string
	status int
}

// recordingRecorder captures ObserveHTTPRequest calls
type recordingRecorder struct {
	observed []observation
	mu       sync.Mutex
}

func (r *recordingRecorder) IncUserRegistered()        {}
func (r *recordingRecorder) IncLogin(result string)    {}
func (r *recordingRecorder) IncNoteCreated()           {}
func (r *recordingRecorder) IncNoteShared()            {}
func (r *recordingRecorder) IncACLCache(result string) {}

func (r *recordingRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observed = append(r.observed, observation{method: method, route: route, status: status})
}

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	recorder := &recordingRecorder{}

	r := chi.NewRouter()
	r.Use(MetricsMiddleware(recorder))
	r.Get("/note/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/note/"+id, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	require.Len(t, recorder.observed, 3)
	assert.Equal(t, observation{method: http.MethodGet, route: "/note/{id}", status: http.StatusForbidden}, recorder.observed[0])
	assert.Equal(t, "/note/{id}", recorder.observed[1].route)
	assert.Equal(t, observation{method: http.MethodGet, route: unmatchedRoute, status: http.StatusNotFound}, recorder.observed[2])
}
