package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Rakhulsr/mini-pos/app/helpers"
	"github.com/go-playground/validator/v10"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient product stock")
	ErrConflict          = errors.New("conflict")
	ErrInvalidState      = errors.New("invalid state")
)

// ValidationError carries one message per offending field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, " ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func fromValidator(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return &ValidationError{Fields: helpers.FormatValidationErrors(verrs)}
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

type StockShortage struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (s StockShortage) Short() int {
	return s.Requested - s.Available
}

func (s StockShortage) Message() string {
	return fmt.Sprintf("Stok tidak cukup untuk produk '%s'. Diminta %d, tersedia %d.", s.ProductName, s.Requested, s.Available)
}

// InsufficientStockError lists every product of an order that cannot be
// fulfilled.
type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("product '%s' has insufficient stock. Available: %d, Requested: %d", s.ProductName, s.Available, s.Requested))
	}
	return fmt.Sprintf("%s: %s", ErrInsufficientStock, strings.Join(parts, "; "))
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

func (e *InsufficientStockError) Messages() []string {
	msgs := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		msgs = append(msgs, s.Message())
	}
	return msgs
}
