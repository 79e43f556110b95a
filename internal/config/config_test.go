package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate clears every variable Load reads and moves into an empty directory
// so neither a developer's shell nor a checked-in config leaks into the test.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range []string{
		"ARTPROMPT_CONFIG_PATH", "LOG_MODE", "HTTP_ADDR", "PORT", "CORS_ALLOWED_ORIGINS",
		"UNSPLASH_ACCESS_KEY", "UNSPLASH_API_KEY", "UNSPLASH_BASE_URL", "UNSPLASH_TIMEOUT",
		"RETRIEVAL_PER_KEYWORD", "RETRIEVAL_MAX_PAGES", "RETRIEVAL_MAX_CONCURRENCY",
		"RETRIEVAL_SEARCH_TIMEOUT", "RETRIEVAL_GALLERY_PER_PAGE", "TAXONOMY_PATH",
		"OTEL_SERVICE_NAME", "SERVICE_VERSION", "OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT",
		"OTEL_EXPORTER_OTLP_HEADERS", "OTEL_EXPORTER_OTLP_INSECURE", "OTEL_SAMPLER_RATIO",
		"METRICS_ENABLED",
	} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "development" || cfg.Production() {
		t.Fatalf("env=%q", cfg.Env)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("addr=%q", cfg.HTTP.Addr)
	}
	if cfg.HTTP.MaxRequestBytes != 1<<20 {
		t.Fatalf("max_request_bytes=%d", cfg.HTTP.MaxRequestBytes)
	}
	if cfg.Unsplash.BaseURL != DefaultUnsplashBaseURL || cfg.Unsplash.AccessKey != "" {
		t.Fatalf("unsplash=%+v", cfg.Unsplash)
	}
	r := cfg.Retrieval
	if r.PerKeyword != 6 || r.MaxPages != 5 || r.SearchTimeout.Duration != 8*time.Second {
		t.Fatalf("retrieval=%+v", r)
	}
	if r.GalleryPerPage != 24 || r.GalleryMaxPerPage != 30 {
		t.Fatalf("gallery=%d/%d", r.GalleryPerPage, r.GalleryMaxPerPage)
	}
	if cfg.Telemetry.OTelEnabled || cfg.Telemetry.MetricsEnabled {
		t.Fatalf("telemetry should be off by default")
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := isolate(t)
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	doc := `
env: production
http:
  addr: ":9000"
  cors_allowed_origins: ["https://art.example"]
unsplash:
  base_url: "https://unsplash.internal/"
  access_key: from-file
retrieval:
  per_keyword: 4
  search_timeout: 3s
  max_pages: 2
telemetry:
  sample_ratio: 7
`
	if err := os.WriteFile(filepath.Join(dir, "config", "config.yaml"), []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("UNSPLASH_API_KEY", "from-env")
	t.Setenv("PORT", "7070")
	t.Setenv("RETRIEVAL_MAX_PAGES", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Production() {
		t.Fatalf("env=%q", cfg.Env)
	}
	if cfg.HTTP.Addr != ":7070" {
		t.Fatalf("PORT should win over file, addr=%q", cfg.HTTP.Addr)
	}
	if len(cfg.HTTP.CORSAllowedOrigins) != 1 || cfg.HTTP.CORSAllowedOrigins[0] != "https://art.example" {
		t.Fatalf("origins=%v", cfg.HTTP.CORSAllowedOrigins)
	}
	if cfg.Unsplash.BaseURL != "https://unsplash.internal" {
		t.Fatalf("base_url=%q", cfg.Unsplash.BaseURL)
	}
	if cfg.Unsplash.AccessKey != "from-env" {
		t.Fatalf("access_key=%q", cfg.Unsplash.AccessKey)
	}
	if cfg.Retrieval.PerKeyword != 4 || cfg.Retrieval.MaxPages != 3 {
		t.Fatalf("retrieval=%+v", cfg.Retrieval)
	}
	if cfg.Retrieval.SearchTimeout.Duration != 3*time.Second {
		t.Fatalf("search_timeout=%v", cfg.Retrieval.SearchTimeout.Duration)
	}
	// Keys missing from the file keep their defaults.
	if cfg.Retrieval.MaxConcurrency != 4 || cfg.HTTP.ShutdownTimeout.Duration != 15*time.Second {
		t.Fatalf("defaults lost: %+v %+v", cfg.Retrieval, cfg.HTTP)
	}
	if cfg.Telemetry.SampleRatio != 1 {
		t.Fatalf("sample_ratio=%v", cfg.Telemetry.SampleRatio)
	}
}

func TestAccessKeyPrefersPrimaryName(t *testing.T) {
	isolate(t)
	t.Setenv("UNSPLASH_ACCESS_KEY", "primary")
	t.Setenv("UNSPLASH_API_KEY", "legacy")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Unsplash.AccessKey != "primary" {
		t.Fatalf("access_key=%q", cfg.Unsplash.AccessKey)
	}
}

func TestLoadRejectsBadRetrieval(t *testing.T) {
	cases := map[string]string{
		"per keyword":  "retrieval:\n  per_keyword: 0\n",
		"max pages":    "retrieval:\n  max_pages: -1\n",
		"bad duration": "retrieval:\n  search_timeout: soon\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			dir := isolate(t)
			p := filepath.Join(dir, "custom.yaml")
			if err := os.WriteFile(p, []byte(doc), 0o600); err != nil {
				t.Fatalf("write: %v", err)
			}
			t.Setenv("ARTPROMPT_CONFIG_PATH", p)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestMissingExplicitConfigFails(t *testing.T) {
	dir := isolate(t)
	t.Setenv("ARTPROMPT_CONFIG_PATH", filepath.Join(dir, "nope.yaml"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestParseHeaders(t *testing.T) {
	h := parseHeaders(" x-api=1, bad, =v, k= ,team=art ")
	if len(h) != 2 || h["x-api"] != "1" || h["team"] != "art" {
		t.Fatalf("headers=%v", h)
	}
	if parseHeaders("  ") != nil {
		t.Fatalf("blank should be nil")
	}
}

func TestExampleConfigLoads(t *testing.T) {
	example, err := filepath.Abs(filepath.Join("..", "..", "config", "config.example.yaml"))
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	isolate(t)
	t.Setenv("ARTPROMPT_CONFIG_PATH", example)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Telemetry.MetricsEnabled || cfg.Retrieval.MaxConcurrency != 4 {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.HTTP.IdleTimeout.Duration != 2*time.Minute {
		t.Fatalf("idle=%s", cfg.HTTP.IdleTimeout)
	}
}
