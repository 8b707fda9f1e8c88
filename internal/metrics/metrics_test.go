package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollector_RegistersAndCounts(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest("GET", 200, 5*time.Millisecond)
	c.RecordRequest("POST", 201, 10*time.Millisecond)
	c.RecordLikeWrite()
	c.RecordCommentWrite()
	c.RecordSnapshot()
	c.RecordRoleLookup("hit")
	c.RecordRoleLookup("miss")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}

	for _, want := range []string{
		"openheritage_http_requests_total",
		"openheritage_http_request_duration_seconds",
		"openheritage_likes_written_total",
		"openheritage_comments_written_total",
		"openheritage_snapshots_published_total",
		"openheritage_role_lookups_total",
	} {
		if !names[want] {
			t.Errorf("expected metric %s registered", want)
		}
	}
}

func TestCollector_StreamGauge(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RegisterStreamGauge(reg, func() int { return 7 })

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	for _, f := range families {
		if f.GetName() == "openheritage_stream_subscribers" {
			if v := f.GetMetric()[0].GetGauge().GetValue(); v != 7 {
				t.Errorf("expected gauge 7, got %v", v)
			}
			return
		}
	}
	t.Error("stream gauge not registered")
}

func TestHandler_ServesMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordLikeWrite()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	Handler(reg).ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected metric exposition body")
	}
}
