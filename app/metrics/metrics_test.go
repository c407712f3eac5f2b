package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInstancesDoNotCollide(t *testing.T) {
	first := New()
	second := New()

	first.ObserveCache(true)
	if got := testutil.ToFloat64(first.CacheLookups.WithLabelValues("hit")); got != 1 {
		t.Errorf("Expected 1 hit, got %v", got)
	}
	if got := testutil.ToFloat64(second.CacheLookups.WithLabelValues("hit")); got != 0 {
		t.Errorf("Expected separate registries, got %v hits", got)
	}
}

func TestObserveRender(t *testing.T) {
	m := New()

	m.ObserveRender("project", time.Now(), nil)
	m.ObserveRender("project", time.Now(), errors.New("boom"))
	m.ObserveRender("home", time.Now(), nil)

	if got := testutil.ToFloat64(m.RendersTotal.WithLabelValues("project", "ok")); got != 1 {
		t.Errorf("Expected 1 ok project render, got %v", got)
	}
	if got := testutil.ToFloat64(m.RendersTotal.WithLabelValues("project", "error")); got != 1 {
		t.Errorf("Expected 1 failed project render, got %v", got)
	}
	if got := testutil.CollectAndCount(m.RenderDuration); got != 2 {
		t.Errorf("Expected 2 duration series, got %d", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.Records.Set(6)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if rec.Code != 200 {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(string(body), "folio_catalog_records 6") {
		t.Errorf("Expected catalog gauge in output")
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Errorf("Expected Go runtime collector in output")
	}
}
