package photos

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/artprompt-backend/internal/clients/unsplash"
	"github.com/yungbote/artprompt-backend/internal/domain"
	"github.com/yungbote/artprompt-backend/internal/observability"
	"github.com/yungbote/artprompt-backend/internal/platform/ctxutil"
	"github.com/yungbote/artprompt-backend/internal/platform/logger"
)

const tracerName = "github.com/yungbote/artprompt-backend/internal/photos"

// Searcher is the photo backend. *unsplash.Client implements it.
type Searcher interface {
	Configured() bool
	Search(ctx context.Context, p unsplash.SearchParams) (unsplash.SearchResult, error)
}

// Rand draws the page offset for each keyword. A Fetcher shared across
// requests needs a Rand that is safe for concurrent use.
type Rand interface {
	IntN(n int) int
}

// Search parameters shared by keyword retrieval and gallery search.
const (
	DefaultOrientation = "landscape"
	DefaultOrderBy     = "relevant"
)

type Options struct {
	PerKeyword     int
	MaxPages       int
	MaxConcurrency int
	SearchTimeout  time.Duration
	Orientation    string
	OrderBy        string

	Rand    Rand
	Metrics *observability.Metrics
}

func (o Options) withDefaults() Options {
	if o.PerKeyword <= 0 {
		o.PerKeyword = 6
	}
	if o.MaxPages <= 0 {
		o.MaxPages = 5
	}
	if o.MaxConcurrency <= 0 {
		o.MaxConcurrency = 4
	}
	if o.SearchTimeout <= 0 {
		o.SearchTimeout = 8 * time.Second
	}
	if o.Orientation == "" {
		o.Orientation = DefaultOrientation
	}
	if o.OrderBy == "" {
		o.OrderBy = DefaultOrderBy
	}
	if o.Rand == nil {
		o.Rand = globalRand{}
	}
	return o
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Outcome records how one keyword search went.
type Outcome struct {
	Keyword string
	Page    int
	Count   int
	Err     error
}

// Report is the merged result of a fan-out plus the per-keyword outcomes.
type Report struct {
	Photos   []domain.Photo
	Outcomes []Outcome
}

// Failed counts keywords whose search errored.
func (r Report) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

// Err summarizes the report: nil when every search succeeded,
// ErrRetrievalUnavailable when all failed and ErrPartialRetrieval otherwise.
func (r Report) Err() error {
	failed := r.Failed()
	switch {
	case failed == 0:
		return nil
	case failed == len(r.Outcomes):
		return domain.ErrRetrievalUnavailable
	default:
		return domain.ErrPartialRetrieval
	}
}

type Fetcher struct {
	searcher Searcher
	opts     Options
	log      *logger.Logger
}

func New(searcher Searcher, opts Options, log *logger.Logger) *Fetcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Fetcher{
		searcher: searcher,
		opts:     opts.withDefaults(),
		log:      log.With("service", "PhotoFetcher"),
	}
}

// Configured reports whether the backend can serve searches at all.
func (f *Fetcher) Configured() bool {
	return f.searcher != nil && f.searcher.Configured()
}

// Fetch returns photos for keywords, grouped by keyword in input order. It
// never fails: a keyword whose search errors contributes no photos.
func (f *Fetcher) Fetch(ctx context.Context, keywords []string) []domain.Photo {
	return f.FetchReport(ctx, keywords).Photos
}

// FetchReport runs one search per non-blank keyword concurrently and merges
// the results in keyword order. Searches run detached from ctx cancellation
// and are bounded only by the per-search timeout.
func (f *Fetcher) FetchReport(ctx context.Context, keywords []string) Report {
	terms := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			terms = append(terms, k)
		}
	}
	report := Report{Photos: []domain.Photo{}, Outcomes: make([]Outcome, len(terms))}
	if len(terms) == 0 {
		return report
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "photos.fetch",
		trace.WithAttributes(attribute.Int("photos.keywords", len(terms))))
	defer span.End()

	log := f.log.With(ctxutil.LogFields(ctx)...)

	if !f.Configured() {
		for i, term := range terms {
			report.Outcomes[i] = Outcome{Keyword: term, Err: domain.ErrRetrievalUnavailable}
		}
		log.Warn("photo backend not configured; returning no photos", "keywords", len(terms))
		f.opts.Metrics.ObservePhotoSearch("unconfigured", 0)
		span.SetAttributes(attribute.Bool("photos.configured", false))
		return report
	}

	groups := make([][]domain.Photo, len(terms))
	detached := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(f.opts.MaxConcurrency)
	for i, term := range terms {
		page := 1 + f.opts.Rand.IntN(f.opts.MaxPages)
		g.Go(func() error {
			photos, err := f.searchOne(detached, term, page)
			groups[i] = photos
			report.Outcomes[i] = Outcome{Keyword: term, Page: page, Count: len(photos), Err: err}
			return nil
		})
	}
	_ = g.Wait()

	for i, o := range report.Outcomes {
		if o.Err != nil {
			log.Warn("photo search failed; keyword contributes no photos",
				"keyword", o.Keyword, "page", o.Page, "error", o.Err)
			continue
		}
		report.Photos = append(report.Photos, groups[i]...)
	}
	span.SetAttributes(
		attribute.Int("photos.returned", len(report.Photos)),
		attribute.Int("photos.failed", report.Failed()),
	)
	return report
}

func (f *Fetcher) searchOne(ctx context.Context, term string, page int) ([]domain.Photo, error) {
	ctx, cancel := context.WithTimeout(ctx, f.opts.SearchTimeout)
	defer cancel()

	start := time.Now()
	res, err := f.searcher.Search(ctx, unsplash.SearchParams{
		Query:       term,
		Page:        page,
		PerPage:     f.opts.PerKeyword,
		Orientation: f.opts.Orientation,
		OrderBy:     f.opts.OrderBy,
	})
	f.opts.Metrics.ObservePhotoSearch(searchStatus(err), time.Since(start))
	if err != nil {
		return nil, err
	}
	return res.Results, nil
}

func searchStatus(err error) string {
	var he *unsplash.HTTPError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &he):
		return "http_" + statusClass(he.StatusCode)
	default:
		return "error"
	}
}

func statusClass(code int) string {
	switch {
	case code == 429:
		return "429"
	case code >= 500:
		return "5xx"
	default:
		return "4xx"
	}
}
