package exports

import (
	"fmt"

	"github.com/Rakhulsr/mini-pos/app/services"
	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

// ReportExcel writes the sales report into a workbook: a summary sheet and
// one row per order.
func ReportExcel(report *services.SalesReport, store StoreInfo) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Laporan"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E6E6E6"}},
		Border: []excelize.Border{{Type: "bottom", Color: "#000000", Style: 1}},
	})
	if err != nil {
		return nil, err
	}
	moneyFmt := "#,##0"
	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return nil, err
	}

	rows := [][]interface{}{
		{store.Name},
		{"Laporan Penjualan " + report.Period.Label()},
		{"Periode", report.Start.Format("02/01/2006") + " - " + report.End.Format("02/01/2006")},
		{"Dibuat", report.GeneratedAt.Format(dateLayout)},
		{},
		{"Total Penjualan", report.Summary.TotalSales.InexactFloat64()},
		{"Jumlah Transaksi", report.Summary.TotalOrders},
		{"Rata-rata per Transaksi", report.Summary.AverageSales.InexactFloat64()},
		{},
		{"No", "ID Pesanan", "Tanggal", "Pelanggan", "Total"},
	}
	for i := range rows {
		if err := setRow(f, sheet, i+1, rows[i]); err != nil {
			return nil, err
		}
	}
	_ = f.SetCellStyle(sheet, "A1", "A2", bold)
	_ = f.SetCellStyle(sheet, "B6", "B8", money)
	_ = f.SetCellStyle(sheet, "A10", "E10", header)

	first := len(rows) + 1
	for i := range report.Orders {
		o := &report.Orders[i]
		row := []interface{}{i + 1, o.ShortID(), o.CreatedAt.Format(dateLayout), o.Customer.Name, o.TotalPrice.InexactFloat64()}
		if err := setRow(f, sheet, first+i, row); err != nil {
			return nil, err
		}
	}
	if n := len(report.Orders); n > 0 {
		_ = f.SetCellStyle(sheet, fmt.Sprintf("E%d", first), fmt.Sprintf("E%d", first+n-1), money)
	}

	_ = f.SetColWidth(sheet, "A", "A", 24)
	_ = f.SetColWidth(sheet, "B", "C", 18)
	_ = f.SetColWidth(sheet, "D", "D", 28)
	_ = f.SetColWidth(sheet, "E", "E", 16)

	return write(f)
}

// ProductImportTemplate is an empty import sheet with the expected header
// and two sample rows.
func ProductImportTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]interface{}, len(services.ImportColumns))
	for i, c := range services.ImportColumns {
		header[i] = c
	}
	rows := [][]interface{}{
		header,
		{"Kopi Susu", "Minuman", 18000, 20, "Kopi susu gula aren"},
		{"Roti Bakar", "Makanan", 15000, 10, ""},
	}
	for i := range rows {
		if err := setRow(f, sheet, i+1, rows[i]); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(sheet, "A", "E", 20)
	return write(f)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func write(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
