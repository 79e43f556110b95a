package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/artprompt-backend/internal/platform/envutil"
)

const (
	DefaultUnsplashBaseURL = "https://api.unsplash.com"

	defaultMaxRequestBytes = 1 << 20
)

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", node.Line)
	}
	s := strings.TrimSpace(node.Value)
	if s == "" || node.Tag == "!!null" {
		d.Duration = 0
		return nil
	}
	if node.Tag == "!!int" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		d.Duration = time.Duration(n)
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: duration must be a string like \"5s\" or int nanoseconds: %w", node.Line, err)
	}
	d.Duration = dd
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			IdleTimeout:       Duration{Duration: 2 * time.Minute},
			ShutdownTimeout:   Duration{Duration: 15 * time.Second},
			MaxRequestBytes:   defaultMaxRequestBytes,
		},
		Unsplash: UnsplashConfig{
			BaseURL: DefaultUnsplashBaseURL,
			Timeout: Duration{Duration: 10 * time.Second},
		},
		Retrieval: RetrievalConfig{
			PerKeyword:          6,
			MaxPages:            5,
			MaxConcurrency:      4,
			SearchTimeout:       Duration{Duration: 8 * time.Second},
			GalleryPerPage:      24,
			GalleryMaxPerPage:   30,
			MaxLoadMoreKeywords: 10,
			MaxKeywordLength:    100,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "artprompt",
			SampleRatio: 0.1,
		},
	}
}

// Default returns the built-in configuration without consulting the
// environment or any file.
func Default() *Config {
	cfg := defaultConfig()
	_ = cfg.normalize()
	return cfg
}

// Load builds the process config: defaults, then .env, then the YAML file at
// ARTPROMPT_CONFIG_PATH (or ./config/config.yaml when present), then env
// overrides.
func Load() (*Config, error) {
	// A missing .env is normal outside local dev.
	_ = godotenv.Load()

	cfg := defaultConfig()

	cfgPath := strings.TrimSpace(os.Getenv("ARTPROMPT_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "config.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	if cfgPath != "" {
		if err := loadFile(cfgPath, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile overlays the YAML document at path onto cfg. Keys absent from the
// document keep their current values.
func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("LOG_MODE", cfg.Env)

	if v := envutil.FirstString("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	} else if port := envutil.FirstString("PORT"); port != "" {
		cfg.HTTP.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	if origins := envutil.List("CORS_ALLOWED_ORIGINS"); len(origins) > 0 {
		cfg.HTTP.CORSAllowedOrigins = origins
	}

	if v := envutil.FirstString("UNSPLASH_ACCESS_KEY", "UNSPLASH_API_KEY"); v != "" {
		cfg.Unsplash.AccessKey = v
	}
	cfg.Unsplash.BaseURL = envutil.String("UNSPLASH_BASE_URL", cfg.Unsplash.BaseURL)
	cfg.Unsplash.Timeout.Duration = envutil.Duration("UNSPLASH_TIMEOUT", cfg.Unsplash.Timeout.Duration)

	r := &cfg.Retrieval
	r.PerKeyword = envutil.Int("RETRIEVAL_PER_KEYWORD", r.PerKeyword)
	r.MaxPages = envutil.Int("RETRIEVAL_MAX_PAGES", r.MaxPages)
	r.MaxConcurrency = envutil.Int("RETRIEVAL_MAX_CONCURRENCY", r.MaxConcurrency)
	r.SearchTimeout.Duration = envutil.Duration("RETRIEVAL_SEARCH_TIMEOUT", r.SearchTimeout.Duration)
	r.GalleryPerPage = envutil.Int("RETRIEVAL_GALLERY_PER_PAGE", r.GalleryPerPage)

	cfg.Taxonomy.Path = envutil.String("TAXONOMY_PATH", cfg.Taxonomy.Path)

	t := &cfg.Telemetry
	t.ServiceName = envutil.String("OTEL_SERVICE_NAME", t.ServiceName)
	t.Version = envutil.String("SERVICE_VERSION", t.Version)
	t.OTelEnabled = envutil.Bool("OTEL_ENABLED", t.OTelEnabled)
	t.OTLPEndpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", t.OTLPEndpoint)
	if h := parseHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")); h != nil {
		t.OTLPHeaders = h
	}
	t.OTLPInsecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", t.OTLPInsecure)
	if v := strings.TrimSpace(os.Getenv("OTEL_SAMPLER_RATIO")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			t.SampleRatio = f
		}
	}
	t.MetricsEnabled = envutil.Bool("METRICS_ENABLED", t.MetricsEnabled)
}

func (c *Config) normalize() error {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if c.Env == "" {
		c.Env = "development"
	}

	if strings.TrimSpace(c.HTTP.Addr) == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.MaxRequestBytes <= 0 {
		c.HTTP.MaxRequestBytes = defaultMaxRequestBytes
	}
	if c.HTTP.ShutdownTimeout.Duration <= 0 {
		c.HTTP.ShutdownTimeout.Duration = 15 * time.Second
	}

	c.Unsplash.AccessKey = strings.TrimSpace(c.Unsplash.AccessKey)
	c.Unsplash.BaseURL = strings.TrimRight(strings.TrimSpace(c.Unsplash.BaseURL), "/")
	if c.Unsplash.BaseURL == "" {
		c.Unsplash.BaseURL = DefaultUnsplashBaseURL
	}
	if c.Unsplash.Timeout.Duration < 0 {
		return errors.New("unsplash.timeout must not be negative")
	}

	r := &c.Retrieval
	if r.PerKeyword < 1 || r.PerKeyword > 30 {
		return fmt.Errorf("retrieval.per_keyword=%d must be in [1,30]", r.PerKeyword)
	}
	if r.MaxPages < 1 {
		return fmt.Errorf("retrieval.max_pages=%d must be at least 1", r.MaxPages)
	}
	if r.MaxConcurrency < 1 {
		return fmt.Errorf("retrieval.max_concurrency=%d must be at least 1", r.MaxConcurrency)
	}
	if r.SearchTimeout.Duration <= 0 {
		return errors.New("retrieval.search_timeout must be positive")
	}
	if r.GalleryMaxPerPage < 1 || r.GalleryMaxPerPage > 30 {
		r.GalleryMaxPerPage = 30
	}
	if r.GalleryPerPage < 1 {
		r.GalleryPerPage = 24
	}
	if r.GalleryPerPage > r.GalleryMaxPerPage {
		r.GalleryPerPage = r.GalleryMaxPerPage
	}
	if r.MaxLoadMoreKeywords < 1 {
		r.MaxLoadMoreKeywords = 10
	}
	if r.MaxKeywordLength < 1 {
		r.MaxKeywordLength = 100
	}

	c.Taxonomy.Path = strings.TrimSpace(c.Taxonomy.Path)

	t := &c.Telemetry
	t.ServiceName = strings.TrimSpace(t.ServiceName)
	if t.ServiceName == "" {
		t.ServiceName = "artprompt"
	}
	switch {
	case t.SampleRatio < 0:
		t.SampleRatio = 0
	case t.SampleRatio > 1:
		t.SampleRatio = 1
	}
	return nil
}

// parseHeaders reads the OTLP "k1=v1,k2=v2" header list.
func parseHeaders(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	headers := map[string]string{}
	for _, part := range strings.Split(raw, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		key, val := strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1])
		if key == "" || val == "" {
			continue
		}
		headers[key] = val
	}
	if len(headers) == 0 {
		return nil
	}
	return headers
}
