package observability

import (
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Metrics is the service's in-process registry, exposed in Prometheus text
// format. A nil *Metrics is valid and records nothing.
type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	generations     *CounterVec
	photoSearches   *CounterVec
	photoSearchTime *HistogramVec
	photosReturned  *CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init builds the process-wide registry once. It returns nil when disabled.
func Init(enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = New()
	})
	return instance
}

func Current() *Metrics {
	return instance
}

// New returns a fresh registry. Tests use it directly to avoid the singleton.
func New() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("artprompt_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"artprompt_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		),
		apiInflight: NewGauge("artprompt_api_inflight_requests", "In-flight API requests."),

		generations: NewCounterVec("artprompt_generations_total", "Prompt generations by mode/level/status.", []string{"mode", "level", "status"}),
		photoSearches: NewCounterVec("artprompt_photo_searches_total", "Upstream photo searches by status.", []string{"status"}),
		photoSearchTime: NewHistogramVec(
			"artprompt_photo_search_duration_seconds",
			"Upstream photo search latency in seconds by status.",
			[]string{"status"},
			[]float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
		),
		photosReturned: NewCounterVec("artprompt_photos_returned_total", "Photos returned to callers by source.", []string{"source"}),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []collector{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.generations, m.photoSearches, m.photoSearchTime, m.photosReturned,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unmatched"
	}
	code := strconv.Itoa(status)
	m.apiRequests.Inc(method, route, code)
	m.apiLatency.Observe(dur.Seconds(), method, route, code)
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Add(1)
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Add(-1)
}

// IncGeneration counts one idea or challenge attempt.
func (m *Metrics) IncGeneration(mode, level, status string) {
	if m == nil {
		return
	}
	m.generations.Inc(mode, level, status)
}

// GenerationCount reads back one generations counter.
func (m *Metrics) GenerationCount(mode, level, status string) float64 {
	if m == nil {
		return 0
	}
	return m.generations.Value(mode, level, status)
}

func (m *Metrics) ObservePhotoSearch(status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.photoSearches.Inc(status)
	m.photoSearchTime.Observe(dur.Seconds(), status)
}

func (m *Metrics) AddPhotosReturned(source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.photosReturned.Add(float64(n), source)
}
