package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a malformed or out-of-range request.
	ErrValidation = errors.New("validation error")
	// ErrInvalidLevel is returned by challenge generation for a level outside the closed set.
	ErrInvalidLevel = errors.New("invalid level")
	// ErrSamplingExhausted means distinct draws could not be satisfied; the taxonomy is misconfigured.
	ErrSamplingExhausted = errors.New("sampling exhausted")
	// ErrRetrievalUnavailable means the photo backend is unreachable or has no credentials.
	ErrRetrievalUnavailable = errors.New("photo retrieval unavailable")
	// ErrPartialRetrieval means some, but not all, keyword searches failed.
	ErrPartialRetrieval = errors.New("partial photo retrieval")

	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownMood     = errors.New("unknown mood")
)

// ValidationError names the request field that failed and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
