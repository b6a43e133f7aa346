package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/walletledger/internal/infrastructure/metrics"
)

func TestMetricsMiddlewareRecordsRoutePattern(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		route      string
		statusCode int
	}{
		{
			name:       "uses pattern for account path",
			method:     http.MethodGet,
			path:       "/api/v1/accounts/ABC123",
			route:      "/api/v1/accounts/{code}",
			statusCode: http.StatusTeapot,
		},
		{
			name:       "static route",
			method:     http.MethodPost,
			path:       "/api/v1/journal-entries",
			route:      "/api/v1/journal-entries",
			statusCode: http.StatusCreated,
		},
		{
			name:       "unmatched path is collapsed",
			method:     http.MethodGet,
			path:       "/wp-admin/login.php",
			route:      unmatchedRoute,
			statusCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := metrics.New(prometheus.NewRegistry())

			r := chi.NewRouter()
			r.Use(Metrics(m))
			r.Get("/api/v1/accounts/{code}", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			})
			r.Post("/api/v1/journal-entries", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
			})

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rr := httptest.NewRecorder()

			r.ServeHTTP(rr, req)

			if got := testutil.ToFloat64(m.HTTPInFlight); got != 0 {
				t.Fatalf("expected in-flight gauge to return to 0, got %v", got)
			}

			if got := testutil.CollectAndCount(m.HTTPRequests); got != 1 {
				t.Fatalf("expected one label set, got %d", got)
			}
			if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues(tc.method, tc.route, strconv.Itoa(tc.statusCode))); got != 1 {
				t.Fatalf("expected counter for route %s to be 1, got %v", tc.route, got)
			}
		})
	}
}
