package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/snaplink-io/snaplink/internal/shortener"
)

// mapError normalizes errors to the HTTP boundary: domain errors keep
// their status and machine-readable code, everything else collapses to an
// opaque 500 with internals stripped.
func mapError(err error) error {
	var derr *shortener.Error
	if errors.As(err, &derr) {
		return huma.NewError(derr.Status, derr.Message,
			&huma.ErrorDetail{Message: derr.Code, Location: "code"})
	}

	return huma.Error500InternalServerError("an unexpected error occurred on the server")
}
