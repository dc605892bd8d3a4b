// Package exports renders receipts and sales reports as PDF and Excel files.
package exports

import (
	"bytes"
	"fmt"

	"github.com/Rakhulsr/mini-pos/app/models"
	"github.com/Rakhulsr/mini-pos/app/services"
	"github.com/Rakhulsr/mini-pos/app/utils/format"
	"github.com/go-pdf/fpdf"
)

// StoreInfo is printed on top of receipts and reports.
type StoreInfo struct {
	Name    string
	Address string
	Phone   string
}

const (
	receiptWidth   = 58.0
	receiptMargin  = 3.0
	receiptNameMax = 25
	dateLayout     = "02/01/2006 15:04"
)

// ReceiptPDF renders a 58mm thermal receipt for the order. The page height
// grows with the number of lines.
func ReceiptPDF(order *models.Order, store StoreInfo) ([]byte, error) {
	height := 70.0 + float64(len(order.OrderItems))*14
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: receiptWidth, Ht: height},
	})
	pdf.SetMargins(receiptMargin, receiptMargin, receiptMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	width := receiptWidth - 2*receiptMargin

	pdf.SetFont("Courier", "B", 10)
	pdf.CellFormat(width, 5, tr(store.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Courier", "", 7)
	if store.Address != "" {
		pdf.MultiCell(width, 3.5, tr(store.Address), "", "C", false)
	}
	if store.Phone != "" {
		pdf.CellFormat(width, 3.5, tr("Telp: "+store.Phone), "", 1, "C", false, 0, "")
	}
	separator(pdf, width)

	pdf.CellFormat(width, 3.5, tr("No    : "+order.ShortID()), "", 1, "L", false, 0, "")
	pdf.CellFormat(width, 3.5, tr("Waktu : "+order.CreatedAt.Format(dateLayout)), "", 1, "L", false, 0, "")
	pdf.CellFormat(width, 3.5, tr("Plgn  : "+order.Customer.Name), "", 1, "L", false, 0, "")
	separator(pdf, width)

	for i := range order.OrderItems {
		item := &order.OrderItems[i]
		pdf.CellFormat(width, 3.5, tr(truncate(item.Product.Name, receiptNameMax)), "", 1, "L", false, 0, "")
		qty := fmt.Sprintf("  %d x %s", item.Quantity, format.Rupiah(item.Price))
		pdf.CellFormat(width*0.6, 3.5, tr(qty), "", 0, "L", false, 0, "")
		pdf.CellFormat(width*0.4, 3.5, tr(format.Rupiah(item.BaseTotal())), "", 1, "R", false, 0, "")
		if item.DiscountPercent.IsPositive() {
			disc := fmt.Sprintf("  Diskon %s", format.Percent(item.DiscountPercent))
			pdf.CellFormat(width*0.6, 3.5, tr(disc), "", 0, "L", false, 0, "")
			pdf.CellFormat(width*0.4, 3.5, tr("-"+format.Rupiah(item.DiscountAmount())), "", 1, "R", false, 0, "")
			pdf.CellFormat(width*0.6, 3.5, "  Subtotal", "", 0, "L", false, 0, "")
			pdf.CellFormat(width*0.4, 3.5, tr(format.Rupiah(item.Subtotal())), "", 1, "R", false, 0, "")
		}
	}
	separator(pdf, width)

	pdf.SetFont("Courier", "B", 8)
	pdf.CellFormat(width*0.4, 4, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(width*0.6, 4, tr(format.Rupiah(order.TotalPrice)), "", 1, "R", false, 0, "")
	pdf.Ln(3)
	pdf.SetFont("Courier", "", 7)
	pdf.CellFormat(width, 3.5, "Terima kasih", "", 1, "C", false, 0, "")

	return output(pdf)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func separator(pdf *fpdf.Fpdf, width float64) {
	x, y := pdf.GetXY()
	pdf.SetDashPattern([]float64{0.8, 0.6}, 0)
	pdf.Line(x, y+1, x+width, y+1)
	pdf.SetDashPattern([]float64{}, 0)
	pdf.Ln(2)
}

// ReportPDF renders the sales report on A4: summary block and the order
// table.
func ReportPDF(report *services.SalesReport, store StoreInfo) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("Halaman %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(store.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, tr("Laporan Penjualan "+report.Period.Label()), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Periode %s - %s", report.Start.Format("02/01/2006"), report.End.Format("02/01/2006"))), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, tr("Dibuat "+report.GeneratedAt.Format(dateLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	summary := [][2]string{
		{"Total Penjualan", format.Rupiah(report.Summary.TotalSales)},
		{"Jumlah Transaksi", fmt.Sprintf("%d", report.Summary.TotalOrders)},
		{"Rata-rata per Transaksi", format.Rupiah(report.Summary.AverageSales)},
	}
	for _, row := range summary {
		pdf.CellFormat(60, 6, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, tr(row[1]), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(5)

	widths := []float64{10, 30, 35, 55, 50}
	headers := []string{"No", "ID Pesanan", "Tanggal", "Pelanggan", "Total"}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	if len(report.Orders) == 0 {
		pdf.CellFormat(sum(widths), 7, "Tidak ada transaksi pada periode ini.", "1", 1, "C", false, 0, "")
	}
	for i := range report.Orders {
		o := &report.Orders[i]
		pdf.CellFormat(widths[0], 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, o.ShortID(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, o.CreatedAt.Format(dateLayout), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, tr(o.Customer.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 6, tr(format.Rupiah(o.TotalPrice)), "1", 1, "R", false, 0, "")
	}

	return output(pdf)
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
