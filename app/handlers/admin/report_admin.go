package admin

import (
	"net/http"

	"github.com/Rakhulsr/mini-pos/app/exports"
	"github.com/Rakhulsr/mini-pos/app/helpers"
	"github.com/Rakhulsr/mini-pos/app/models/other"
	"github.com/Rakhulsr/mini-pos/app/services"
	"github.com/Rakhulsr/mini-pos/app/utils/breadcrumb"
	"github.com/shopspring/decimal"
)

type PeriodOption struct {
	Value    services.Period
	Label    string
	Selected bool
}

func periodOptions(current services.Period) []PeriodOption {
	periods := []services.Period{services.PeriodDaily, services.PeriodWeekly, services.PeriodMonthly, services.PeriodAll}
	options := make([]PeriodOption, 0, len(periods))
	for _, p := range periods {
		options = append(options, PeriodOption{Value: p, Label: p.Label(), Selected: p == current})
	}
	return options
}

type ReportPageData struct {
	other.BasePageData
	Period  services.Period
	Periods []PeriodOption
	Report  *services.SalesReport
	Page    services.OrdersPage
}

func (h *AdminHandler) Reports(w http.ResponseWriter, r *http.Request) {
	period := services.ParsePeriod(r.URL.Query().Get("period"))
	data := &ReportPageData{Period: period, Periods: periodOptions(period)}
	h.populate(r, data, "Laporan Penjualan", breadcrumb.Trail("Laporan", "/reports"))

	report, err := h.reports.SalesReport(r.Context(), period)
	if err != nil {
		h.logError("Reports", map[string]string{"period": string(period)}, err)
		data.Message = "Gagal memuat laporan."
		data.MessageStatus = "error"
		report = &services.SalesReport{Period: period}
	}
	data.Report = report
	data.Page = services.Paginate(report.Orders, helpers.ParseIntDefault(r.URL.Query().Get("page"), 1))
	h.html(w, http.StatusOK, "reports/index", data)
}

func (h *AdminHandler) ReportExportPDF(w http.ResponseWriter, r *http.Request) {
	period := services.ParsePeriod(r.URL.Query().Get("period"))
	report, err := h.reports.SalesReport(r.Context(), period)
	if err != nil {
		h.fail(w, r, err, "ReportExportPDF", "/reports")
		return
	}
	pdf, err := exports.ReportPDF(report, h.store)
	if err != nil {
		h.fail(w, r, err, "ReportExportPDF", "/reports")
		return
	}
	sendFile(w, exports.ContentTypePDF, "laporan_penjualan_"+string(period)+".pdf", pdf)
}

func (h *AdminHandler) ReportExportExcel(w http.ResponseWriter, r *http.Request) {
	period := services.ParsePeriod(r.URL.Query().Get("period"))
	report, err := h.reports.SalesReport(r.Context(), period)
	if err != nil {
		h.fail(w, r, err, "ReportExportExcel", "/reports")
		return
	}
	xlsx, err := exports.ReportExcel(report, h.store)
	if err != nil {
		h.fail(w, r, err, "ReportExportExcel", "/reports")
		return
	}
	sendFile(w, exports.ContentTypeXLSX, "laporan_penjualan_"+string(period)+".xlsx", xlsx)
}

type AnalyticsPageData struct {
	other.BasePageData
	Period        services.Period
	Periods       []PeriodOption
	Summary       services.SalesSummary
	TopCategories []services.CategorySales
	TopProducts   []services.ProductSales
	Hourly        []services.HourlyBucket
	MaxCategory   decimal.Decimal
	MaxProduct    decimal.Decimal
	MaxHourly     decimal.Decimal
}

func (h *AdminHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	period := services.ParsePeriod(r.URL.Query().Get("period"))
	data := &AnalyticsPageData{Period: period, Periods: periodOptions(period)}
	h.populate(r, data, "Analitik", breadcrumb.Trail("Analitik", "/analytics"))

	analytics, err := h.reports.Analytics(r.Context(), period)
	if err != nil {
		h.logError("Analytics", map[string]string{"period": string(period)}, err)
		data.Message = "Gagal memuat analitik."
		data.MessageStatus = "error"
	} else {
		data.Summary = analytics.Summary
		data.TopCategories = analytics.TopCategories
		data.TopProducts = analytics.TopProducts
		data.Hourly = analytics.Hourly
	}

	for _, c := range data.TopCategories {
		data.MaxCategory = decimal.Max(data.MaxCategory, c.Total)
	}
	for _, p := range data.TopProducts {
		data.MaxProduct = decimal.Max(data.MaxProduct, p.Total)
	}
	for _, b := range data.Hourly {
		data.MaxHourly = decimal.Max(data.MaxHourly, b.Total)
	}
	h.html(w, http.StatusOK, "analytics/index", data)
}
