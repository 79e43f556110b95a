package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/artprompt-backend/internal/http/response"
	"github.com/yungbote/artprompt-backend/internal/platform/apierr"
	"github.com/yungbote/artprompt-backend/internal/services"
)

type GalleryHandler struct {
	gallery services.GalleryService
}

func NewGalleryHandler(gallery services.GalleryService) *GalleryHandler {
	return &GalleryHandler{gallery: gallery}
}

type gallerySearchQuery struct {
	Query   string `form:"query" binding:"required"`
	Page    int    `form:"page" binding:"omitempty,min=1"`
	PerPage int    `form:"per_page" binding:"omitempty,min=1"`
}

// GET /api/gallery/search
func (h *GalleryHandler) Search(c *gin.Context) {
	var q gallerySearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondAPIError(c, apierr.BadRequest("validation_error", "query", err))
		return
	}
	page, err := h.gallery.Search(c.Request.Context(), q.Query, q.Page, q.PerPage)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, page)
}
