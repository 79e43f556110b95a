package unsplash

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/artprompt-backend/internal/config"
	"github.com/yungbote/artprompt-backend/internal/domain"
)

const tracerName = "github.com/yungbote/artprompt-backend/internal/clients/unsplash"

// SearchParams maps onto the query string of GET /search/photos.
type SearchParams struct {
	Query       string
	Page        int
	PerPage     int
	Orientation string
	OrderBy     string
}

type SearchResult struct {
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
	Results    []domain.Photo `json:"results"`
}

type Client struct {
	baseURL   string
	accessKey string

	httpClient *http.Client
}

func New(cfg config.UnsplashConfig) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = config.DefaultUnsplashBaseURL
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	timeout := cfg.Timeout.Duration
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		accessKey:  strings.TrimSpace(cfg.AccessKey),
		httpClient: &http.Client{Transport: tr, Timeout: timeout},
	}
}

// NewWithHTTPClient is intended for tests; it avoids network access by using a custom RoundTripper.
func NewWithHTTPClient(cfg config.UnsplashConfig, httpClient *http.Client) *Client {
	c := New(cfg)
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c
}

// Configured reports whether the client holds an access key.
func (c *Client) Configured() bool {
	return c != nil && c.accessKey != ""
}

// Search runs one photo search. Zero-valued paging fields are left for the API to default.
func (c *Client) Search(ctx context.Context, p SearchParams) (res SearchResult, err error) {
	if !c.Configured() {
		return SearchResult{}, ErrNotConfigured
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "unsplash.search",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("unsplash.query", p.Query),
			attribute.Int("unsplash.page", p.Page),
			attribute.Int("unsplash.per_page", p.PerPage),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	q := url.Values{}
	q.Set("query", p.Query)
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}
	if p.Orientation != "" {
		q.Set("orientation", p.Orientation)
	}
	if p.OrderBy != "" {
		q.Set("order_by", p.OrderBy)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search/photos?"+q.Encode(), nil)
	if err != nil {
		return SearchResult{}, err
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)
	req.Header.Set("Accept-Version", "v1")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SearchResult{}, fmt.Errorf("unsplash search %q: %w", p.Query, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return SearchResult{}, &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return SearchResult{}, fmt.Errorf("decode unsplash search %q: %w", p.Query, err)
	}
	if res.Results == nil {
		res.Results = []domain.Photo{}
	}
	span.SetAttributes(attribute.Int("unsplash.results", len(res.Results)))
	return res, nil
}
