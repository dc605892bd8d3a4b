package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Rakhulsr/mini-pos/app/repositories"
	"github.com/Rakhulsr/mini-pos/app/services"
)

// StatusFor maps a service error to the HTTP status reported to clients.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrInvalidState),
		errors.Is(err, repositories.ErrReferenced),
		errors.Is(err, repositories.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message is the short, user-facing text for err. Internal errors are not
// described beyond a generic message.
func Message(err error) string {
	var stockErr *services.InsufficientStockError
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &stockErr):
		return strings.Join(stockErr.Messages(), " ")
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.Is(err, repositories.ErrReferenced):
		return "Data masih digunakan oleh data lain sehingga tidak dapat dihapus."
	case errors.Is(err, repositories.ErrDuplicate):
		return "Data dengan nama tersebut sudah ada."
	case errors.Is(err, services.ErrNotFound):
		return "Data tidak ditemukan."
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrInvalidState):
		return err.Error()
	default:
		return "Terjadi kesalahan server."
	}
}
