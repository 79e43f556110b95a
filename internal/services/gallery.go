package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/artprompt-backend/internal/clients/unsplash"
	"github.com/yungbote/artprompt-backend/internal/domain"
	"github.com/yungbote/artprompt-backend/internal/observability"
	"github.com/yungbote/artprompt-backend/internal/photos"
	"github.com/yungbote/artprompt-backend/internal/platform/ctxutil"
	"github.com/yungbote/artprompt-backend/internal/platform/logger"
)

type GalleryService interface {
	Search(ctx context.Context, query string, page, perPage int) (domain.GalleryPage, error)
}

type GalleryOptions struct {
	DefaultPerPage int
	MaxPerPage     int
	Timeout        time.Duration
	Orientation    string
	OrderBy        string
}

type galleryService struct {
	log      *logger.Logger
	searcher photos.Searcher
	metrics  *observability.Metrics
	opts     GalleryOptions
}

func NewGalleryService(baseLog *logger.Logger, searcher photos.Searcher, metrics *observability.Metrics, opts GalleryOptions) GalleryService {
	if opts.MaxPerPage <= 0 || opts.MaxPerPage > 30 {
		opts.MaxPerPage = 30
	}
	if opts.DefaultPerPage <= 0 {
		opts.DefaultPerPage = 24
	}
	if opts.DefaultPerPage > opts.MaxPerPage {
		opts.DefaultPerPage = opts.MaxPerPage
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 8 * time.Second
	}
	if opts.Orientation == "" {
		opts.Orientation = photos.DefaultOrientation
	}
	if opts.OrderBy == "" {
		opts.OrderBy = photos.DefaultOrderBy
	}
	return &galleryService{
		log:      baseLog.With("service", "GalleryService"),
		searcher: searcher,
		metrics:  metrics,
		opts:     opts,
	}
}

// Search is a direct pass-through to the photo backend. Unlike generation it
// reports backend failures to the caller.
func (s *galleryService) Search(ctx context.Context, query string, page, perPage int) (out domain.GalleryPage, err error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.GalleryPage{}, domain.Invalid("query", "search query is required")
	}
	if page < 1 {
		page = 1
	}
	switch {
	case perPage <= 0:
		perPage = s.opts.DefaultPerPage
	case perPage > s.opts.MaxPerPage:
		perPage = s.opts.MaxPerPage
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "gallery.search")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(
		attribute.String("gallery.query", query),
		attribute.Int("gallery.page", page),
		attribute.Int("gallery.per_page", perPage),
	)

	if s.searcher == nil || !s.searcher.Configured() {
		return domain.GalleryPage{}, domain.ErrRetrievalUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	res, err := s.searcher.Search(ctx, unsplash.SearchParams{
		Query:       query,
		Page:        page,
		PerPage:     perPage,
		Orientation: s.opts.Orientation,
		OrderBy:     s.opts.OrderBy,
	})
	if err != nil {
		s.log.With(ctxutil.LogFields(ctx)...).Warn("gallery search failed", "query", query, "page", page, "error", err)
		return domain.GalleryPage{}, fmt.Errorf("gallery search: %w", err)
	}

	out = domain.GalleryPage{
		Photos:     res.Results,
		Total:      res.Total,
		TotalPages: res.TotalPages,
		Query:      query,
	}
	if out.Photos == nil {
		out.Photos = []domain.Photo{}
	}
	s.metrics.AddPhotosReturned("gallery", len(out.Photos))
	return out, nil
}
