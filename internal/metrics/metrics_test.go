package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveUpstream(t *testing.T) {
	before := testutil.ToFloat64(upstreamRequestsTotal.WithLabelValues("apod", "rate_limited"))
	ObserveUpstream("apod", "rate_limited", 120*time.Millisecond)
	after := testutil.ToFloat64(upstreamRequestsTotal.WithLabelValues("apod", "rate_limited"))
	assert.Equal(t, before+1, after)
}

func TestObserveCycle(t *testing.T) {
	before := testutil.ToFloat64(cyclesTotal.WithLabelValues(CyclePartial))
	ObserveCycle(CyclePartial, time.Second)
	assert.Equal(t, before+1, testutil.ToFloat64(cyclesTotal.WithLabelValues(CyclePartial)))
}

func TestMiddlewareCapturesStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /brew", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := Middleware(mux)
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET /brew", http.MethodGet, "418"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/brew", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET /brew", http.MethodGet, "418")))
}

func TestMiddleware_UnmatchedPathsShareOneSeries(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := Middleware(mux)

	// Register the shared series first so the count below only grows on leaks.
	other := httpRequestsTotal.WithLabelValues(unmatchedRoute, http.MethodGet, "404")
	before := testutil.ToFloat64(other)
	series := testutil.CollectAndCount(httpRequestsTotal)

	paths := []string{"/a1", "/b2", "/c3", "/wp-admin.php"}
	for _, path := range paths {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, series, testutil.CollectAndCount(httpRequestsTotal))
	assert.Equal(t, before+float64(len(paths)), testutil.ToFloat64(other))
	for _, path := range paths {
		assert.NotContains(t, labelValues(t, "route"), path)
	}
}

func TestRouteLabel(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/anything", nil)
	assert.Equal(t, unmatchedRoute, routeLabel(r))

	r.Pattern = "GET /api/v1/snapshot"
	assert.Equal(t, "GET /api/v1/snapshot", routeLabel(r))
}

// labelValues returns every value of the named label on the request counter.
func labelValues(t *testing.T, name string) []string {
	t.Helper()
	ch := make(chan prometheus.Metric, 64)
	go func() {
		httpRequestsTotal.Collect(ch)
		close(ch)
	}()

	var values []string
	for m := range ch {
		var pb dto.Metric
		require.NoError(t, m.Write(&pb))
		for _, lp := range pb.GetLabel() {
			if lp.GetName() == name {
				values = append(values, lp.GetValue())
			}
		}
	}
	return values
}

func TestHandlerExposesExplorerMetrics(t *testing.T) {
	ObserveCycle(CycleOK, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "explorer_fetch_cycles_total"))
}
