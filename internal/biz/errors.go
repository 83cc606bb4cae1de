package biz

import (
	"github.com/go-kratos/kratos/v2/errors"
)

// Error kinds surfaced by the usecases. Each one carries its HTTP code and
// a stable reason; errors.Is matches on both.
var (
	// ErrInvalidRequest is returned for missing or malformed input.
	ErrInvalidRequest = errors.BadRequest("INVALID_REQUEST", "url and validity are required")
	// ErrCodeConflict is returned when a requested short code is taken.
	ErrCodeConflict = errors.Conflict("SHORTCODE_EXISTS", "Shortcode already exists")
	// ErrNotFound is returned when no record exists for a short code.
	ErrNotFound = errors.NotFound("URL_NOT_FOUND", "URL not found")
	// ErrExpired is returned when a record exists but is past its expiry.
	ErrExpired = errors.New(410, "URL_EXPIRED", "URL has expired")
	// ErrStorage wraps store failures. Use WithCause to attach the cause.
	ErrStorage = errors.InternalServer("STORAGE_ERROR", "storage error")
	// ErrGenerationExhausted is returned when no free random code was found
	// within the attempt budget.
	ErrGenerationExhausted = errors.InternalServer("GENERATION_EXHAUSTED", "could not generate a unique short code")
)

// storageError classifies err for the boundary. Typed errors pass through.
func storageError(err error) error {
	if err == nil {
		return nil
	}
	if se := new(errors.Error); errors.As(err, &se) {
		return err
	}
	return ErrStorage.WithCause(err)
}
