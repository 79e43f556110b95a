package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/yungbote/artprompt-backend/internal/clients/unsplash"
	"github.com/yungbote/artprompt-backend/internal/domain"
	"github.com/yungbote/artprompt-backend/internal/platform/logger"
)

type stubSearcher struct {
	configured bool
	err        error
	last       unsplash.SearchParams
}

func (s *stubSearcher) Configured() bool { return s.configured }

func (s *stubSearcher) Search(ctx context.Context, p unsplash.SearchParams) (unsplash.SearchResult, error) {
	s.last = p
	if s.err != nil {
		return unsplash.SearchResult{}, s.err
	}
	return unsplash.SearchResult{
		Total:      40,
		TotalPages: 2,
		Results:    []domain.Photo{{ID: "p1"}, {ID: "p2"}},
	}, nil
}

func TestGallerySearch(t *testing.T) {
	s := &stubSearcher{configured: true}
	svc := NewGalleryService(logger.Nop(), s, nil, GalleryOptions{})

	page, err := svc.Search(context.Background(), "  misty forest ", 0, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if page.Query != "misty forest" || page.Total != 40 || page.TotalPages != 2 || len(page.Photos) != 2 {
		t.Fatalf("page=%+v", page)
	}
	if s.last.Page != 1 || s.last.PerPage != 24 || s.last.Query != "misty forest" {
		t.Fatalf("params=%+v", s.last)
	}
	if s.last.Orientation != "landscape" || s.last.OrderBy != "relevant" {
		t.Fatalf("gallery should search like keyword retrieval, params=%+v", s.last)
	}

	if _, err := svc.Search(context.Background(), "owl", 3, 500); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if s.last.Page != 3 || s.last.PerPage != 30 {
		t.Fatalf("params=%+v", s.last)
	}
}

func TestGallerySearchErrors(t *testing.T) {
	svc := NewGalleryService(logger.Nop(), &stubSearcher{configured: true}, nil, GalleryOptions{})
	_, err := svc.Search(context.Background(), "   ", 1, 10)
	if ae := ToAPIError(err); ae.Code != "validation_error" || ae.Param != "query" {
		t.Fatalf("api error=%+v", ae)
	}

	svc = NewGalleryService(logger.Nop(), &stubSearcher{configured: false}, nil, GalleryOptions{})
	_, err = svc.Search(context.Background(), "owl", 1, 10)
	if !errors.Is(err, domain.ErrRetrievalUnavailable) {
		t.Fatalf("err=%v", err)
	}
	if ae := ToAPIError(err); ae.Status != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", ae.Status)
	}

	svc = NewGalleryService(logger.Nop(), &stubSearcher{configured: true, err: &unsplash.HTTPError{StatusCode: 500}}, nil, GalleryOptions{})
	_, err = svc.Search(context.Background(), "owl", 1, 10)
	if ae := ToAPIError(err); ae.Status != http.StatusBadGateway || ae.Code != "upstream_error" {
		t.Fatalf("api error=%+v", ae)
	}
}

func TestToAPIErrorFallsBackToInternal(t *testing.T) {
	ae := ToAPIError(errors.New("boom"))
	if ae.Status != http.StatusInternalServerError || ae.Code != "internal_error" {
		t.Fatalf("api error=%+v", ae)
	}
	ae = ToAPIError(domain.ErrSamplingExhausted)
	if ae.Status != http.StatusInternalServerError || ae.Code != "sampling_exhausted" {
		t.Fatalf("api error=%+v", ae)
	}
}
