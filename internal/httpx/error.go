// Package httpx translates store errors into HTTP responses.
package httpx

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"igp-sales-backend/internal/store"
)

// FromStoreError maps the store's error taxonomy onto HTTP status codes,
// keeping the human-readable reason. Unexpected errors pass through to the
// app-level error handler as a 500.
func FromStoreError(err error) error {
	var ve *store.ValidationError
	if errors.As(err, &ve) {
		return fiber.NewError(fiber.StatusBadRequest, ve.Error())
	}
	var nf *store.NotFoundError
	if errors.As(err, &nf) {
		return fiber.NewError(fiber.StatusNotFound, nf.Error())
	}
	var is *store.InsufficientStockError
	if errors.As(err, &is) {
		return fiber.NewError(fiber.StatusConflict, is.Error())
	}
	return err
}
