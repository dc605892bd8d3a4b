package exports

import (
	"bytes"
	"testing"
	"time"

	"github.com/Rakhulsr/mini-pos/app/models"
	"github.com/Rakhulsr/mini-pos/app/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var store = StoreInfo{Name: "MINI POS", Address: "Jl. Merdeka 1, Bandung", Phone: "022-123456"}

func sampleOrder() *models.Order {
	return &models.Order{
		ID:         "3f2a9c1e-0000-4000-8000-000000000001",
		Customer:   models.Customer{Name: "Budi"},
		TotalPrice: decimal.NewFromInt(23000),
		CreatedAt:  time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
		OrderItems: []models.OrderItem{
			{Product: models.Product{Name: "Nasi Goreng Spesial"}, Quantity: 2, Price: decimal.NewFromInt(10000), DiscountPercent: decimal.NewFromInt(10)},
			{Product: models.Product{Name: "Es Teh"}, Quantity: 1, Price: decimal.NewFromInt(5000)},
		},
	}
}

func sampleReport(orders []models.Order) *services.SalesReport {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &services.SalesReport{
		Period:      services.PeriodDaily,
		Start:       now.Truncate(24 * time.Hour),
		End:         now.Truncate(24 * time.Hour),
		Summary:     services.Summarize(orders),
		Orders:      orders,
		GeneratedAt: now,
	}
}

func TestReceiptPDF(t *testing.T) {
	data, err := ReceiptPDF(sampleOrder(), store)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestReportPDF(t *testing.T) {
	for _, orders := range [][]models.Order{nil, {*sampleOrder(), *sampleOrder()}} {
		data, err := ReportPDF(sampleReport(orders), store)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	}
}

func TestReportExcel(t *testing.T) {
	data, err := ReportExcel(sampleReport([]models.Order{*sampleOrder()}), store)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Laporan")
	require.NoError(t, err)
	require.Len(t, rows, 11)
	assert.Equal(t, "MINI POS", rows[0][0])
	assert.Equal(t, "Laporan Penjualan Harian", rows[1][0])
	assert.Equal(t, []string{"No", "ID Pesanan", "Tanggal", "Pelanggan", "Total"}, rows[9])
	assert.Equal(t, "3f2a9c1e", rows[10][1])
	assert.Equal(t, "Budi", rows[10][3])
}

func TestProductImportTemplate(t *testing.T) {
	data, err := ProductImportTemplate()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, services.ImportColumns, rows[0])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Es Teh", truncate("Es Teh", 25))
	assert.Equal(t, "Nasi Goreng Spesial Telur", truncate("Nasi Goreng Spesial Telur Dadar", 25))
}
