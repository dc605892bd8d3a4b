package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Rakhulsr/mini-pos/app/repositories"
	"github.com/Rakhulsr/mini-pos/app/services"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	stock := &services.InsufficientStockError{Shortages: []services.StockShortage{
		{ProductName: "Kopi", Requested: 5, Available: 3},
	}}

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", &services.ValidationError{Fields: map[string]string{"name": "Nama wajib diisi."}}, http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("get order: %w", services.ErrNotFound), http.StatusNotFound},
		{"stock", stock, http.StatusConflict},
		{"invalid state", services.ErrInvalidState, http.StatusConflict},
		{"referenced", repositories.ErrReferenced, http.StatusConflict},
		{"duplicate", repositories.ErrDuplicate, http.StatusConflict},
		{"unknown", errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFor(tc.err))
		})
	}
}

func TestMessage(t *testing.T) {
	stock := &services.InsufficientStockError{Shortages: []services.StockShortage{
		{ProductName: "Kopi", Requested: 5, Available: 3},
		{ProductName: "Teh", Requested: 2, Available: 0},
	}}
	msg := Message(stock)
	assert.Contains(t, msg, "Stok tidak cukup untuk produk 'Kopi'. Diminta 5, tersedia 3.")
	assert.Contains(t, msg, "'Teh'")

	assert.Equal(t, "Data tidak ditemukan.", Message(fmt.Errorf("x: %w", services.ErrNotFound)))
	assert.Equal(t, "Terjadi kesalahan server.", Message(errors.New("connection refused")))
	assert.NotContains(t, Message(errors.New("connection refused")), "refused")
}
