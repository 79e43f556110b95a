package observability

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestWritePrometheus(t *testing.T) {
	m := New()
	m.ObserveAPI("POST", "/api/generate-content", 200, 30*time.Millisecond)
	m.ObserveAPI("POST", "/api/generate-content", 200, 2*time.Second)
	m.IncGeneration("challenge", "advanced", "ok")
	m.ObservePhotoSearch("error", 100*time.Millisecond)
	m.AddPhotosReturned("generate", 12)
	m.AddPhotosReturned("generate", 0)
	m.APIInflightInc()

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"# TYPE artprompt_api_requests_total counter",
		`artprompt_api_requests_total{method="POST",route="/api/generate-content",status="200"} 2`,
		`artprompt_api_request_duration_seconds_bucket{method="POST",route="/api/generate-content",status="200",le="0.05"} 1`,
		`artprompt_api_request_duration_seconds_bucket{method="POST",route="/api/generate-content",status="200",le="+Inf"} 2`,
		`artprompt_api_request_duration_seconds_count{method="POST",route="/api/generate-content",status="200"} 2`,
		"artprompt_api_inflight_requests 1",
		`artprompt_generations_total{mode="challenge",level="advanced",status="ok"} 1`,
		`artprompt_photo_searches_total{status="error"} 1`,
		`artprompt_photos_returned_total{source="generate"} 12`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", 200, time.Millisecond)
	m.IncGeneration("idea", "beginner", "ok")
	m.APIInflightInc()

	rec := httptest.NewRecorder()
	m.WriteHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", rec.Code)
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"q", "missing"}, []string{`a"b\c`})
	if got != `{q="a\"b\\c",missing="unknown"}` {
		t.Fatalf("labels=%s", got)
	}
	if withLe("", "1") != `{le="1"}` {
		t.Fatalf("withLe empty")
	}
}
