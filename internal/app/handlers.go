package app

import (
	httpH "github.com/yungbote/artprompt-backend/internal/http/handlers"
	"github.com/yungbote/artprompt-backend/internal/platform/logger"
)

type Handlers struct {
	Generate *httpH.GenerateHandler
	Gallery  *httpH.GalleryHandler
	Taxonomy *httpH.TaxonomyHandler
	Health   *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Generate: httpH.NewGenerateHandler(services.Generation),
		Gallery:  httpH.NewGalleryHandler(services.Gallery),
		Taxonomy: httpH.NewTaxonomyHandler(services.Taxonomy),
		Health:   httpH.NewHealthHandler(nil),
	}
}
