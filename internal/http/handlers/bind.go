package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/artprompt-backend/internal/http/response"
	"github.com/yungbote/artprompt-backend/internal/platform/apierr"
	"github.com/yungbote/artprompt-backend/internal/services"
)

// bindJSON decodes the body into dst and writes the error response itself
// when decoding fails.
func bindJSON(c *gin.Context, dst any, param string) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		response.RespondAPIError(c, apierr.New(http.StatusRequestEntityTooLarge, "request_too_large", err))
	case errors.Is(err, io.EOF):
		response.RespondAPIError(c, apierr.BadRequest("validation_error", param, errors.New("request body is required")))
	default:
		response.RespondAPIError(c, apierr.BadRequest("validation_error", param, err))
	}
	return false
}

func respondServiceError(c *gin.Context, err error) {
	response.RespondAPIError(c, services.ToAPIError(err))
}
