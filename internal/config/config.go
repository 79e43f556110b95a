package config

import "time"

// Duration decodes "5s"-style strings or integer nanoseconds from YAML.
type Duration struct {
	Duration time.Duration
}

type HTTPConfig struct {
	Addr              string   `yaml:"addr"`
	ReadHeaderTimeout Duration `yaml:"read_header_timeout"`
	IdleTimeout       Duration `yaml:"idle_timeout"`
	ShutdownTimeout   Duration `yaml:"shutdown_timeout"`
	MaxRequestBytes   int64    `yaml:"max_request_bytes"`

	// CORSAllowedOrigins lists browser origins allowed to call the API. Empty
	// falls back to the local dev origins.
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

type UnsplashConfig struct {
	BaseURL   string `yaml:"base_url"`
	AccessKey string `yaml:"access_key"`

	// Timeout bounds a single outbound request at the HTTP client level.
	Timeout Duration `yaml:"timeout"`
}

// RetrievalConfig tunes photo fan-out and the gallery pass-through.
type RetrievalConfig struct {
	PerKeyword     int      `yaml:"per_keyword"`
	MaxPages       int      `yaml:"max_pages"`
	MaxConcurrency int      `yaml:"max_concurrency"`
	SearchTimeout  Duration `yaml:"search_timeout"`

	GalleryPerPage    int `yaml:"gallery_per_page"`
	GalleryMaxPerPage int `yaml:"gallery_max_per_page"`

	MaxLoadMoreKeywords int `yaml:"max_load_more_keywords"`
	MaxKeywordLength    int `yaml:"max_keyword_length"`
}

type TaxonomyConfig struct {
	// Path to a replacement taxonomy document. Empty uses the embedded tables.
	Path string `yaml:"path"`
}

type TelemetryConfig struct {
	ServiceName string `yaml:"service_name"`
	Version     string `yaml:"version"`

	OTelEnabled  bool              `yaml:"otel_enabled"`
	OTLPEndpoint string            `yaml:"otlp_endpoint"`
	OTLPHeaders  map[string]string `yaml:"otlp_headers"`
	OTLPInsecure bool              `yaml:"otlp_insecure"`
	SampleRatio  float64           `yaml:"sample_ratio"`

	MetricsEnabled bool `yaml:"metrics_enabled"`
}

type Config struct {
	Env       string          `yaml:"env"`
	HTTP      HTTPConfig      `yaml:"http"`
	Unsplash  UnsplashConfig  `yaml:"unsplash"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Taxonomy  TaxonomyConfig  `yaml:"taxonomy"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// Production reports whether Env selects production logging.
func (c *Config) Production() bool {
	switch c.Env {
	case "prod", "production":
		return true
	default:
		return false
	}
}
