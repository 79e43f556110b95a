package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/artprompt-backend/internal/config"
	"github.com/yungbote/artprompt-backend/internal/platform/logger"
)

func TestNewWithConfigServesRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	a, err := NewWithConfig(context.Background(), config.Default(), logger.Nop())
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	if a.Clients.Unsplash.Configured() {
		t.Fatalf("default config has no access key")
	}

	rec := httptest.NewRecorder()
	a.Server().Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthcheck status=%d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/generate-challenge", strings.NewReader(`{"level":"advanced"}`))
	a.Server().Engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"photos":[]`) {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestNewWithConfigRejectsBadTaxonomy(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tax.yaml")
	if err := os.WriteFile(p, []byte("categories: {}\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := config.Default()
	cfg.Taxonomy.Path = p

	if _, err := NewWithConfig(context.Background(), cfg, logger.Nop()); err == nil {
		t.Fatalf("expected taxonomy error")
	}
}
