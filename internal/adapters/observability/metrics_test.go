package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"turbo_reviews/internal/adapters/observability"
	"turbo_reviews/internal/domain"
)

func scrape(t *testing.T) string {
	t.Helper()
	reg := observability.InitRegistry()
	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	return string(body)
}

func TestMetricsRegistryAndHandler(t *testing.T) {
	// record one sample so counters are non-zero
	observability.ObserveHTTP("/reviews", "GET", 200, 12*time.Millisecond)

	out := scrape(t)
	if !strings.Contains(out, "turbo_reviews_http_requests_total") {
		t.Fatalf("expected turbo_reviews_http_requests_total in output")
	}
}

func TestObserveRun(t *testing.T) {
	st := domain.Stats{TotalRows: 10, AfterDates: 6, UniqueAfterDedupe: 4}
	observability.ObserveRun("ok", st, 30*time.Millisecond)
	observability.ObserveRun("error", domain.Stats{}, time.Millisecond)

	out := scrape(t)
	for _, want := range []string{
		`turbo_reviews_pipeline_runs_total{outcome="ok"}`,
		`turbo_reviews_pipeline_runs_total{outcome="error"}`,
		"turbo_reviews_pipeline_rows_total",
		"turbo_reviews_pipeline_duplicates_total",
		"turbo_reviews_pipeline_run_duration_seconds_count",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output", want)
		}
	}
}
