package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector(t *testing.T) {
	c := NewCollector()

	c.Interaction("toggle")
	c.Interaction("toggle")
	c.Load(ResultOK, 6, 1)
	c.Load(ResultRejected, 0, 0)
	c.ObserveHTTP("GET", "/api/view", 200, 5*time.Millisecond)

	if got := testutil.ToFloat64(c.Interactions.WithLabelValues("toggle")); got != 2 {
		t.Errorf("toggle interactions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.ForestNodes); got != 6 {
		t.Errorf("forest nodes = %v, want 6", got)
	}
	if got := testutil.ToFloat64(c.Loads.WithLabelValues(ResultRejected)); got != 1 {
		t.Errorf("rejected loads = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.Generation); got != 1 {
		t.Errorf("a rejected load must not move the generation, got %v", got)
	}
}

func TestHandler(t *testing.T) {
	c := NewCollector()
	c.Interaction("expand_all")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `ontology_explorer_interactions_total{op="expand_all"} 1`) {
		t.Errorf("metric missing from output:\n%s", rec.Body.String())
	}
}

func TestCollectorsAreIndependent(t *testing.T) {
	a, b := NewCollector(), NewCollector()
	a.Interaction("toggle")
	if got := testutil.ToFloat64(b.Interactions.WithLabelValues("toggle")); got != 0 {
		t.Errorf("collectors share state: %v", got)
	}
}
