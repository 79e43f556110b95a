package app

import (
	"fmt"

	"github.com/yungbote/artprompt-backend/internal/composer"
	"github.com/yungbote/artprompt-backend/internal/config"
	"github.com/yungbote/artprompt-backend/internal/observability"
	"github.com/yungbote/artprompt-backend/internal/photos"
	"github.com/yungbote/artprompt-backend/internal/platform/logger"
	"github.com/yungbote/artprompt-backend/internal/services"
	"github.com/yungbote/artprompt-backend/internal/taxonomy"
)

type Services struct {
	Taxonomy   *taxonomy.Taxonomy
	Generation services.GenerationService
	Gallery    services.GalleryService
}

func wireServices(log *logger.Logger, cfg *config.Config, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	tax, err := taxonomy.Load(cfg.Taxonomy.Path)
	if err != nil {
		return Services{}, fmt.Errorf("load taxonomy: %w", err)
	}
	log.Info("taxonomy loaded",
		"path", cfg.Taxonomy.Path,
		"categories", len(tax.AllCategories()),
		"moods", len(tax.AllMoods()),
		"styles", len(tax.AllStyles()),
		"tools", len(tax.AllTools()),
	)

	r := cfg.Retrieval
	fetcher := photos.New(clients.Unsplash, photos.Options{
		PerKeyword:     r.PerKeyword,
		MaxPages:       r.MaxPages,
		MaxConcurrency: r.MaxConcurrency,
		SearchTimeout:  r.SearchTimeout.Duration,
		Metrics:        metrics,
	}, log)

	return Services{
		Taxonomy: tax,
		Generation: services.NewGenerationService(log, tax, composer.New(tax, nil), fetcher, metrics, services.KeywordLimits{
			MaxKeywords: r.MaxLoadMoreKeywords,
			MaxLength:   r.MaxKeywordLength,
		}),
		Gallery: services.NewGalleryService(log, clients.Unsplash, metrics, services.GalleryOptions{
			DefaultPerPage: r.GalleryPerPage,
			MaxPerPage:     r.GalleryMaxPerPage,
			Timeout:        r.SearchTimeout.Duration,
		}),
	}, nil
}
