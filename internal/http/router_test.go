package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/artprompt-backend/internal/clients/unsplash"
	"github.com/yungbote/artprompt-backend/internal/composer"
	"github.com/yungbote/artprompt-backend/internal/domain"
	httpH "github.com/yungbote/artprompt-backend/internal/http/handlers"
	"github.com/yungbote/artprompt-backend/internal/observability"
	"github.com/yungbote/artprompt-backend/internal/photos"
	"github.com/yungbote/artprompt-backend/internal/platform/logger"
	"github.com/yungbote/artprompt-backend/internal/services"
	"github.com/yungbote/artprompt-backend/internal/taxonomy"
)

// fakeBackend answers every search with two photos unless the query is in failing.
type fakeBackend struct {
	configured bool
	failing    map[string]bool

	mu      sync.Mutex
	queries []string
}

func (b *fakeBackend) Configured() bool { return b.configured }

func (b *fakeBackend) Search(ctx context.Context, p unsplash.SearchParams) (unsplash.SearchResult, error) {
	b.mu.Lock()
	b.queries = append(b.queries, p.Query)
	b.mu.Unlock()
	if b.failing[p.Query] {
		return unsplash.SearchResult{}, &unsplash.HTTPError{StatusCode: 500, Body: "boom"}
	}
	alt := "alt " + p.Query
	return unsplash.SearchResult{
		Total:      2,
		TotalPages: 1,
		Results: []domain.Photo{
			{ID: p.Query + "-a", URLs: domain.PhotoURLs{Small: "s", Regular: "r"}, AltDescription: &alt, User: domain.PhotoUser{Name: "Ana"}},
			{ID: p.Query + "-b", URLs: domain.PhotoURLs{Small: "s", Regular: "r"}, User: domain.PhotoUser{Name: "Bo"}},
		},
	}, nil
}

func newTestRouter(t *testing.T, backend *fakeBackend, metrics *observability.Metrics) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tax, err := taxonomy.Default()
	if err != nil {
		t.Fatalf("taxonomy: %v", err)
	}
	log := logger.Nop()
	comp := composer.New(tax, rand.New(rand.NewPCG(3, 5)))
	fetcher := photos.New(backend, photos.Options{MaxPages: 1}, log)

	gen := services.NewGenerationService(log, tax, comp, fetcher, metrics, services.KeywordLimits{})
	gal := services.NewGalleryService(log, backend, metrics, services.GalleryOptions{})

	return NewRouter(RouterConfig{
		Log:             log,
		Metrics:         metrics,
		MaxRequestBytes: 1 << 10,
		GenerateHandler: httpH.NewGenerateHandler(gen),
		GalleryHandler:  httpH.NewGalleryHandler(gal),
		TaxonomyHandler: httpH.NewTaxonomyHandler(tax),
		HealthHandler:   httpH.NewHealthHandler(nil),
	})
}

func do(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *nethttp.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
		Param   string `json:"param"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var e errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return e
}

func TestGenerateContent(t *testing.T) {
	backend := &fakeBackend{configured: true}
	r := newTestRouter(t, backend, nil)

	rec := do(t, r, nethttp.MethodPost, "/api/generate-content",
		`{"filters":{"level":"intermediate","category":["nature","food"],"mood":"soft","style":"manga"}}`)
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var out domain.GeneratedContent
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(out.Sentence, "Imagine a combination of ") || strings.Count(out.Sentence, " and ") != 1 {
		t.Fatalf("sentence=%q", out.Sentence)
	}
	if len(out.Keywords) != 3 || out.Keywords[len(out.Keywords)-1] != "manga" {
		t.Fatalf("keywords=%v", out.Keywords)
	}
	if len(out.Photos) != 6 {
		t.Fatalf("photos=%d", len(out.Photos))
	}
	for i, kw := range out.Keywords {
		if out.Photos[2*i].ID != kw+"-a" || out.Photos[2*i+1].ID != kw+"-b" {
			t.Fatalf("photos out of keyword order at %d: %v", i, out.Photos)
		}
	}
}

func TestGenerateContentRejectsFourCategories(t *testing.T) {
	backend := &fakeBackend{configured: true}
	r := newTestRouter(t, backend, nil)

	rec := do(t, r, nethttp.MethodPost, "/api/generate-content",
		`{"filters":{"level":"advanced","category":["nature","food","worlds","objects"],"mood":"soft"}}`)
	if rec.Code != nethttp.StatusBadRequest {
		t.Fatalf("status=%d", rec.Code)
	}
	if e := decodeError(t, rec); e.Error.Code != "validation_error" || e.Error.Param != "category" {
		t.Fatalf("error=%+v", e)
	}
	if len(backend.queries) != 0 {
		t.Fatalf("no searches expected, got %v", backend.queries)
	}
}

func TestGenerateContentBadBodies(t *testing.T) {
	r := newTestRouter(t, &fakeBackend{configured: true}, nil)

	for name, body := range map[string]string{
		"empty":       "",
		"not json":    "{",
		"no filters":  `{}`,
		"wrong shape": `{"filters":{"category":"nature"}}`,
	} {
		rec := do(t, r, nethttp.MethodPost, "/api/generate-content", body)
		if rec.Code != nethttp.StatusBadRequest {
			t.Fatalf("%s: status=%d", name, rec.Code)
		}
		if e := decodeError(t, rec); e.Error.Code != "validation_error" {
			t.Fatalf("%s: error=%+v", name, e)
		}
	}

	big := fmt.Sprintf(`{"filters":{"level":"beginner","category":["nature"],"mood":"%s"}}`, strings.Repeat("x", 2048))
	if rec := do(t, r, nethttp.MethodPost, "/api/generate-content", big); rec.Code != nethttp.StatusRequestEntityTooLarge {
		t.Fatalf("oversized body status=%d", rec.Code)
	}
}

func TestGenerateChallenge(t *testing.T) {
	backend := &fakeBackend{configured: true}
	r := newTestRouter(t, backend, nil)

	want := map[string]int{"beginner": 2, "intermediate": 3, "advanced": 5}
	for level, n := range want {
		rec := do(t, r, nethttp.MethodPost, "/api/generate-challenge", fmt.Sprintf(`{"level":%q}`, level))
		if rec.Code != nethttp.StatusOK {
			t.Fatalf("%s: status=%d body=%s", level, rec.Code, rec.Body.String())
		}
		var out domain.GeneratedContent
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(out.Keywords) != n || !strings.HasPrefix(out.Sentence, "Create a painting ") {
			t.Fatalf("%s: %+v", level, out)
		}
	}

	rec := do(t, r, nethttp.MethodPost, "/api/generate-challenge", `{"level":"expert"}`)
	if rec.Code != nethttp.StatusBadRequest {
		t.Fatalf("status=%d", rec.Code)
	}
	if e := decodeError(t, rec); e.Error.Code != "invalid_level" {
		t.Fatalf("error=%+v", e)
	}

	before := len(backend.queries)
	rec = do(t, r, nethttp.MethodPost, "/api/generate-challenge", `{}`)
	if rec.Code != nethttp.StatusBadRequest {
		t.Fatalf("missing level status=%d", rec.Code)
	}
	if e := decodeError(t, rec); e.Error.Code != "validation_error" || e.Error.Param != "level" {
		t.Fatalf("error=%+v", e)
	}
	if len(backend.queries) != before {
		t.Fatalf("rejected challenges must not search, got %v", backend.queries[before:])
	}
}

func TestOneFailingKeywordKeepsTheOthers(t *testing.T) {
	backend := &fakeBackend{configured: true, failing: map[string]bool{"ink": true}}
	r := newTestRouter(t, backend, nil)

	rec := do(t, r, nethttp.MethodPost, "/api/load-more-photos", `{"keywords":["owl","ink","fern"]}`)
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var out struct {
		Photos []domain.Photo `json:"photos"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var got []string
	for _, p := range out.Photos {
		got = append(got, p.ID)
	}
	if strings.Join(got, ",") != "owl-a,owl-b,fern-a,fern-b" {
		t.Fatalf("photos=%v", got)
	}
}

func TestUnconfiguredBackend(t *testing.T) {
	r := newTestRouter(t, &fakeBackend{configured: false}, nil)

	rec := do(t, r, nethttp.MethodPost, "/api/generate-challenge", `{"level":"beginner"}`)
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("generation must not fail without photos, status=%d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"photos":[]`)) {
		t.Fatalf("photos should encode as [], body=%s", rec.Body.String())
	}

	rec = do(t, r, nethttp.MethodGet, "/api/gallery/search?query=owl", "")
	if rec.Code != nethttp.StatusServiceUnavailable {
		t.Fatalf("gallery status=%d", rec.Code)
	}
	if e := decodeError(t, rec); e.Error.Code != "retrieval_unavailable" {
		t.Fatalf("error=%+v", e)
	}
}

func TestLoadMoreValidation(t *testing.T) {
	r := newTestRouter(t, &fakeBackend{configured: true}, nil)
	for _, body := range []string{`{}`, `{"keywords":[]}`, `{"keywords":["  "]}`} {
		rec := do(t, r, nethttp.MethodPost, "/api/load-more-photos", body)
		if rec.Code != nethttp.StatusBadRequest {
			t.Fatalf("%s: status=%d", body, rec.Code)
		}
	}
}

func TestGallerySearch(t *testing.T) {
	backend := &fakeBackend{configured: true}
	r := newTestRouter(t, backend, nil)

	rec := do(t, r, nethttp.MethodGet, "/api/gallery/search?query=misty+forest&page=2&per_page=10", "")
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var page domain.GalleryPage
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Query != "misty forest" || page.Total != 2 || page.TotalPages != 1 || len(page.Photos) != 2 {
		t.Fatalf("page=%+v", page)
	}

	for _, path := range []string{"/api/gallery/search", "/api/gallery/search?query=owl&page=zero", "/api/gallery/search?query=owl&per_page=-3"} {
		if rec := do(t, r, nethttp.MethodGet, path, ""); rec.Code != nethttp.StatusBadRequest {
			t.Fatalf("%s: status=%d", path, rec.Code)
		}
	}

	failing := &fakeBackend{configured: true, failing: map[string]bool{"owl": true}}
	rec = do(t, newTestRouter(t, failing, nil), nethttp.MethodGet, "/api/gallery/search?query=owl", "")
	if rec.Code != nethttp.StatusBadGateway {
		t.Fatalf("status=%d", rec.Code)
	}
	if e := decodeError(t, rec); e.Error.Code != "upstream_error" || strings.Contains(e.Error.Message, "boom") {
		t.Fatalf("error=%+v", e)
	}
}

func TestTaxonomyOptions(t *testing.T) {
	r := newTestRouter(t, &fakeBackend{}, nil)

	rec := do(t, r, nethttp.MethodGet, "/api/taxonomy", "")
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	var out struct {
		Levels []struct {
			Name          string `json:"name"`
			MaxCategories int    `json:"max_categories"`
		} `json:"levels"`
		Categories []string `json:"categories"`
		Moods      []string `json:"moods"`
		Styles     []string `json:"styles"`
		Tools      []string `json:"tools"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Levels) != 3 || out.Levels[2].Name != "advanced" || out.Levels[2].MaxCategories != 3 {
		t.Fatalf("levels=%+v", out.Levels)
	}
	if len(out.Categories) != 8 || len(out.Styles) != 20 || len(out.Tools) != 16 {
		t.Fatalf("options=%+v", out)
	}
	if out.Moods[len(out.Moods)-1] != "random" {
		t.Fatalf("moods=%v", out.Moods)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	m := observability.New()
	r := newTestRouter(t, &fakeBackend{configured: true}, m)

	for _, path := range []string{"/healthcheck", "/readyz"} {
		if rec := do(t, r, nethttp.MethodGet, path, ""); rec.Code != nethttp.StatusOK || rec.Body.String() != "ok" {
			t.Fatalf("%s: %d %q", path, rec.Code, rec.Body.String())
		}
	}
	do(t, r, nethttp.MethodPost, "/api/generate-challenge", `{"level":"beginner"}`)

	rec := do(t, r, nethttp.MethodGet, "/metrics", "")
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`artprompt_api_requests_total{method="POST",route="/api/generate-challenge",status="200"} 1`,
		`artprompt_generations_total{mode="challenge",level="beginner",status="ok"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in:\n%s", want, body)
		}
	}

	if rec := do(t, newTestRouter(t, &fakeBackend{}, nil), nethttp.MethodGet, "/metrics", ""); rec.Code != nethttp.StatusNotFound {
		t.Fatalf("metrics route should not exist when disabled, status=%d", rec.Code)
	}
}
