package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMiddleware_CountsRequests(t *testing.T) {
	c := NewCollector()
	handler := c.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/places/x", nil))
	}

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `places_http_requests_total{method="GET",status_code="404"} 3`) {
		t.Errorf("request counter missing or wrong:\n%s", body)
	}
	if !strings.Contains(body, "places_http_request_duration_seconds") {
		t.Error("duration histogram not exposed")
	}
}

func TestMiddleware_DefaultsTo200(t *testing.T) {
	c := NewCollector()
	handler := c.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No explicit WriteHeader.
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	metricsRec := httptest.NewRecorder()
	c.Handler().ServeHTTP(metricsRec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(metricsRec.Body.String(), `places_http_requests_total{method="GET",status_code="200"} 1`) {
		t.Error("implicit 200 not recorded")
	}
}
