package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/artprompt-backend/internal/domain"
	"github.com/yungbote/artprompt-backend/internal/http/response"
	"github.com/yungbote/artprompt-backend/internal/services"
)

type GenerateHandler struct {
	generation services.GenerationService
}

func NewGenerateHandler(generation services.GenerationService) *GenerateHandler {
	return &GenerateHandler{generation: generation}
}

type generateContentRequest struct {
	Filters *domain.FilterSelection `json:"filters" binding:"required"`
}

type generateChallengeRequest struct {
	Level string `json:"level" binding:"required"`
}

type loadMoreRequest struct {
	Keywords []string `json:"keywords" binding:"required"`
}

type loadMoreResponse struct {
	Photos []domain.Photo `json:"photos"`
}

// POST /api/generate-content
func (h *GenerateHandler) GenerateContent(c *gin.Context) {
	var req generateContentRequest
	if !bindJSON(c, &req, "filters") {
		return
	}
	out, err := h.generation.GenerateIdea(c.Request.Context(), *req.Filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/generate-challenge
func (h *GenerateHandler) GenerateChallenge(c *gin.Context) {
	var req generateChallengeRequest
	if !bindJSON(c, &req, "level") {
		return
	}
	out, err := h.generation.GenerateChallenge(c.Request.Context(), req.Level)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/load-more-photos
func (h *GenerateHandler) LoadMorePhotos(c *gin.Context) {
	var req loadMoreRequest
	if !bindJSON(c, &req, "keywords") {
		return
	}
	photos, err := h.generation.LoadMore(c.Request.Context(), req.Keywords)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if photos == nil {
		photos = []domain.Photo{}
	}
	response.RespondOK(c, loadMoreResponse{Photos: photos})
}
