package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/yungbote/artprompt-backend/internal/clients/unsplash"
	"github.com/yungbote/artprompt-backend/internal/domain"
	"github.com/yungbote/artprompt-backend/internal/platform/apierr"
)

// ToAPIError maps a service error onto the status and code the API reports.
// Errors that already carry an *apierr.Error pass through unchanged.
func ToAPIError(err error) *apierr.Error {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae
	}
	switch {
	case errors.Is(err, domain.ErrValidation):
		var ve *domain.ValidationError
		param := ""
		if errors.As(err, &ve) {
			param = ve.Field
		}
		return apierr.BadRequest("validation_error", param, err)
	case errors.Is(err, domain.ErrInvalidLevel):
		return apierr.BadRequest("invalid_level", "level", err)
	case errors.Is(err, domain.ErrSamplingExhausted):
		return apierr.New(http.StatusInternalServerError, "sampling_exhausted", err)
	case errors.Is(err, domain.ErrRetrievalUnavailable), errors.Is(err, unsplash.ErrNotConfigured):
		return apierr.New(http.StatusServiceUnavailable, "retrieval_unavailable", err)
	}

	var he *unsplash.HTTPError
	if errors.As(err, &he) || errors.Is(err, context.DeadlineExceeded) {
		return apierr.New(http.StatusBadGateway, "upstream_error", err)
	}
	return apierr.Internal(err)
}
