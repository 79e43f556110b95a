package app

import (
	"github.com/yungbote/artprompt-backend/internal/config"
	httpserver "github.com/yungbote/artprompt-backend/internal/http"
	"github.com/yungbote/artprompt-backend/internal/observability"
	"github.com/yungbote/artprompt-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg *config.Config, h Handlers, metrics *observability.Metrics) *httpserver.Server {
	tracing := ""
	if cfg.Telemetry.OTelEnabled {
		tracing = cfg.Telemetry.ServiceName
	}
	return httpserver.NewServer(
		httpserver.ServerConfig{
			Addr:              cfg.HTTP.Addr,
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout.Duration,
			IdleTimeout:       cfg.HTTP.IdleTimeout.Duration,
			ShutdownTimeout:   cfg.HTTP.ShutdownTimeout.Duration,
		},
		httpserver.RouterConfig{
			Log:             log.With("component", "http"),
			Metrics:         metrics,
			TracingService:  tracing,
			AllowedOrigins:  cfg.HTTP.CORSAllowedOrigins,
			MaxRequestBytes: cfg.HTTP.MaxRequestBytes,
			GenerateHandler: h.Generate,
			GalleryHandler:  h.Gallery,
			TaxonomyHandler: h.Taxonomy,
			HealthHandler:   h.Health,
		},
	)
}
