package services

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/artprompt-backend/internal/composer"
	"github.com/yungbote/artprompt-backend/internal/domain"
	"github.com/yungbote/artprompt-backend/internal/observability"
	"github.com/yungbote/artprompt-backend/internal/photos"
	"github.com/yungbote/artprompt-backend/internal/platform/ctxutil"
	"github.com/yungbote/artprompt-backend/internal/platform/logger"
)

const tracerName = "github.com/yungbote/artprompt-backend/internal/services"

// Catalog is the taxonomy membership the service validates requests against.
type Catalog interface {
	composer.Taxonomy
	Canonical(category string) string
	HasCategory(category string) bool
	CanonicalMood(mood string) string
	CanonicalStyle(style string) string
	HasMood(mood string) bool
	HasStyle(style string) bool
}

// PhotoFetcher is the retrieval adapter. *photos.Fetcher implements it.
type PhotoFetcher interface {
	FetchReport(ctx context.Context, keywords []string) photos.Report
}

type GenerationService interface {
	GenerateIdea(ctx context.Context, sel domain.FilterSelection) (domain.GeneratedContent, error)
	GenerateChallenge(ctx context.Context, level string) (domain.GeneratedContent, error)
	LoadMore(ctx context.Context, keywords []string) ([]domain.Photo, error)
}

// KeywordLimits bounds a load-more request.
type KeywordLimits struct {
	MaxKeywords int
	MaxLength   int
}

type generationService struct {
	log      *logger.Logger
	catalog  Catalog
	composer *composer.Composer
	fetcher  PhotoFetcher
	metrics  *observability.Metrics
	limits   KeywordLimits
}

func NewGenerationService(
	baseLog *logger.Logger,
	catalog Catalog,
	comp *composer.Composer,
	fetcher PhotoFetcher,
	metrics *observability.Metrics,
	limits KeywordLimits,
) GenerationService {
	if limits.MaxKeywords <= 0 {
		limits.MaxKeywords = 10
	}
	if limits.MaxLength <= 0 {
		limits.MaxLength = 100
	}
	return &generationService{
		log:      baseLog.With("service", "GenerationService"),
		catalog:  catalog,
		composer: comp,
		fetcher:  fetcher,
		metrics:  metrics,
		limits:   limits,
	}
}

func (s *generationService) GenerateIdea(ctx context.Context, sel domain.FilterSelection) (out domain.GeneratedContent, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "generate.idea")
	defer func() { endSpan(span, err) }()

	level := strings.ToLower(strings.TrimSpace(sel.Level))
	defer func() { s.metrics.IncGeneration("idea", level, generationStatus(err)) }()

	norm, err := s.validateSelection(sel)
	if err != nil {
		return domain.GeneratedContent{}, err
	}
	res, err := s.composer.Idea(norm)
	if err != nil {
		return domain.GeneratedContent{}, fmt.Errorf("compose idea: %w", err)
	}
	span.SetAttributes(
		attribute.String("prompt.level", norm.Level),
		attribute.StringSlice("prompt.categories", res.Categories),
		attribute.String("prompt.mood", norm.Mood),
		attribute.StringSlice("prompt.keywords", res.Keywords),
	)
	return s.withPhotos(ctx, "idea", res), nil
}

func (s *generationService) GenerateChallenge(ctx context.Context, level string) (out domain.GeneratedContent, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "generate.challenge")
	defer func() { endSpan(span, err) }()

	label := strings.ToLower(strings.TrimSpace(level))
	defer func() { s.metrics.IncGeneration("challenge", label, generationStatus(err)) }()

	res, err := s.composer.Challenge(level)
	if err != nil {
		return domain.GeneratedContent{}, fmt.Errorf("compose challenge: %w", err)
	}
	span.SetAttributes(
		attribute.String("prompt.level", label),
		attribute.StringSlice("prompt.categories", res.Categories),
		attribute.String("prompt.tool", res.Tool),
		attribute.StringSlice("prompt.keywords", res.Keywords),
	)
	return s.withPhotos(ctx, "challenge", res), nil
}

// LoadMore fetches another batch for keywords already returned by a
// generation. Nothing is re-sampled.
func (s *generationService) LoadMore(ctx context.Context, keywords []string) ([]domain.Photo, error) {
	terms, err := s.validateKeywords(keywords)
	if err != nil {
		return nil, err
	}
	report := s.fetcher.FetchReport(ctx, terms)
	s.metrics.AddPhotosReturned("load_more", len(report.Photos))
	s.log.With(ctxutil.LogFields(ctx)...).Info("loaded more photos",
		"keywords", terms, "photos", len(report.Photos), "failed_keywords", report.Failed())
	return report.Photos, nil
}

// withPhotos attaches retrieval results. Retrieval failures are logged and
// never fail the generation.
func (s *generationService) withPhotos(ctx context.Context, mode string, res composer.Result) domain.GeneratedContent {
	report := s.fetcher.FetchReport(ctx, res.Keywords)
	out := domain.GeneratedContent{Sentence: res.Sentence, Keywords: res.Keywords}
	out.AppendPhotos(report.Photos)

	s.metrics.AddPhotosReturned(mode, len(out.Photos))
	log := s.log.With(ctxutil.LogFields(ctx)...)
	if err := report.Err(); err != nil {
		log.Warn("photo retrieval degraded", "mode", mode, "failed_keywords", report.Failed(), "error", err)
	}
	log.Info("generated prompt",
		"mode", mode,
		"sentence", out.Sentence,
		"keywords", out.Keywords,
		"photos", len(out.Photos),
	)
	return out
}

// validateSelection enforces the request boundary: known level, 1..max
// distinct known categories, known mood or "random", style empty or known.
// Aliased categories come back in canonical form.
func (s *generationService) validateSelection(sel domain.FilterSelection) (domain.FilterSelection, error) {
	level, ok := domain.ParseLevel(sel.Level)
	if !ok {
		return sel, domain.Invalid("level", "must be one of beginner, intermediate, advanced")
	}
	max := level.MaxCategories()
	if n := len(sel.Category); n < 1 || n > max {
		return sel, domain.Invalid("category", "%s allows 1 to %d categories, got %d", level, max, n)
	}

	categories := make([]string, 0, len(sel.Category))
	seen := make(map[string]struct{}, len(sel.Category))
	for _, c := range sel.Category {
		if !s.catalog.HasCategory(c) {
			return sel, domain.Invalid("category", "unknown category %q", c)
		}
		canonical := s.catalog.Canonical(c)
		if _, dup := seen[canonical]; dup {
			return sel, domain.Invalid("category", "category %q selected more than once", canonical)
		}
		seen[canonical] = struct{}{}
		categories = append(categories, canonical)
	}

	mood := strings.TrimSpace(sel.Mood)
	if !strings.EqualFold(mood, domain.MoodRandom) && !s.catalog.HasMood(mood) {
		return sel, domain.Invalid("mood", "unknown mood %q", sel.Mood)
	}
	if strings.EqualFold(mood, domain.MoodRandom) {
		mood = domain.MoodRandom
	} else {
		mood = s.catalog.CanonicalMood(mood)
	}

	style := strings.TrimSpace(sel.Style)
	if style != "" {
		if !s.catalog.HasStyle(style) {
			return sel, domain.Invalid("style", "unknown style %q", sel.Style)
		}
		style = s.catalog.CanonicalStyle(style)
	}

	return domain.FilterSelection{Level: string(level), Category: categories, Mood: mood, Style: style}, nil
}

func (s *generationService) validateKeywords(keywords []string) ([]string, error) {
	terms := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if len(k) > s.limits.MaxLength {
			return nil, domain.Invalid("keywords", "keyword longer than %d characters", s.limits.MaxLength)
		}
		terms = append(terms, k)
	}
	if len(terms) == 0 {
		return nil, domain.Invalid("keywords", "at least one keyword is required")
	}
	if len(terms) > s.limits.MaxKeywords {
		return nil, domain.Invalid("keywords", "at most %d keywords, got %d", s.limits.MaxKeywords, len(terms))
	}
	return terms, nil
}

func generationStatus(err error) string {
	if err == nil {
		return "ok"
	}
	return ToAPIError(err).Code
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
