package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/artprompt-backend/internal/domain"
	"github.com/yungbote/artprompt-backend/internal/http/response"
)

// TaxonomySource lists the option tables a client renders as filters.
type TaxonomySource interface {
	AllCategories() []string
	AllMoods() []string
	AllStyles() []string
	AllTools() []string
}

type TaxonomyHandler struct {
	options taxonomyOptions
}

type levelOption struct {
	Name          string `json:"name"`
	MaxCategories int    `json:"max_categories"`
}

type taxonomyOptions struct {
	Levels     []levelOption `json:"levels"`
	Categories []string      `json:"categories"`
	Moods      []string      `json:"moods"`
	Styles     []string      `json:"styles"`
	Tools      []string      `json:"tools"`
}

// NewTaxonomyHandler snapshots src once; the tables never change at runtime.
func NewTaxonomyHandler(src TaxonomySource) *TaxonomyHandler {
	levels := make([]levelOption, 0, len(domain.Levels))
	for _, l := range domain.Levels {
		levels = append(levels, levelOption{Name: string(l), MaxCategories: l.MaxCategories()})
	}
	return &TaxonomyHandler{options: taxonomyOptions{
		Levels:     levels,
		Categories: src.AllCategories(),
		Moods:      append(src.AllMoods(), domain.MoodRandom),
		Styles:     src.AllStyles(),
		Tools:      src.AllTools(),
	}}
}

// GET /api/taxonomy
func (h *TaxonomyHandler) Options(c *gin.Context) {
	response.RespondOK(c, h.options)
}
