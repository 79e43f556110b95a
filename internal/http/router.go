package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/artprompt-backend/internal/http/handlers"
	httpMW "github.com/yungbote/artprompt-backend/internal/http/middleware"
	"github.com/yungbote/artprompt-backend/internal/observability"
	"github.com/yungbote/artprompt-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	// TracingService names the otelgin server spans; empty disables them.
	TracingService  string
	AllowedOrigins  []string
	MaxRequestBytes int64

	GenerateHandler *httpH.GenerateHandler
	GalleryHandler  *httpH.GalleryHandler
	TaxonomyHandler *httpH.TaxonomyHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	api.Use(httpMW.LimitBody(cfg.MaxRequestBytes))
	{
		// Generation
		if cfg.GenerateHandler != nil {
			api.POST("/generate-content", cfg.GenerateHandler.GenerateContent)
			api.POST("/generate-challenge", cfg.GenerateHandler.GenerateChallenge)
			api.POST("/load-more-photos", cfg.GenerateHandler.LoadMorePhotos)
		}

		// Gallery
		if cfg.GalleryHandler != nil {
			api.GET("/gallery/search", cfg.GalleryHandler.Search)
		}

		// Filter options
		if cfg.TaxonomyHandler != nil {
			api.GET("/taxonomy", cfg.TaxonomyHandler.Options)
		}
	}

	return r
}
