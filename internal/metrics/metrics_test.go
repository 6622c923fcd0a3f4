package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCollectorExposesCounters(t *testing.T) {
	c := NewCollector()

	c.RecordRequest(http.MethodGet, "/api/v1/auth/me", http.StatusOK, 5*time.Millisecond)
	c.RecordLoginSuccess()
	c.RecordLoginFailure()
	c.RecordLoginFailure()
	c.RecordRefreshDenied()

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{
		`studiokit_http_requests_total{method="GET",route="/api/v1/auth/me",status="200"} 1`,
		"studiokit_login_success_total 1",
		"studiokit_login_failure_total 2",
		"studiokit_refresh_denied_total 1",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q:\n%s", want, body)
		}
	}
}

func TestUnmatchedRouteLabel(t *testing.T) {
	c := NewCollector()
	c.RecordRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(w.Body.String(), `route="unmatched"`) {
		t.Fatal("empty route not normalized to unmatched")
	}
}
