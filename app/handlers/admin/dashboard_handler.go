package admin

import (
	"errors"
	"net/http"

	"github.com/Rakhulsr/mini-pos/app/configs"
	"github.com/Rakhulsr/mini-pos/app/exports"
	"github.com/Rakhulsr/mini-pos/app/handlers"
	"github.com/Rakhulsr/mini-pos/app/helpers"
	"github.com/Rakhulsr/mini-pos/app/models"
	"github.com/Rakhulsr/mini-pos/app/models/other"
	"github.com/Rakhulsr/mini-pos/app/services"
	"github.com/Rakhulsr/mini-pos/app/utils/breadcrumb"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/unrolled/render"
)

type AdminHandler struct {
	render    *render.Render
	catalog   *services.CatalogService
	orders    *services.OrderService
	purchases *services.PurchaseService
	reports   *services.ReportService
	imports   *services.ImportService
	store     exports.StoreInfo
	log       logrus.FieldLogger
}

func NewAdminHandler(
	render *render.Render,
	catalog *services.CatalogService,
	orders *services.OrderService,
	purchases *services.PurchaseService,
	reports *services.ReportService,
	imports *services.ImportService,
	store exports.StoreInfo,
	log logrus.FieldLogger,
) *AdminHandler {
	return &AdminHandler{
		render:    render,
		catalog:   catalog,
		orders:    orders,
		purchases: purchases,
		reports:   reports,
		imports:   imports,
		store:     store,
		log:       log.WithField("module", "AdminHandler"),
	}
}

type DashboardPageData struct {
	other.BasePageData
	Stats    *services.DashboardStats
	MaxDaily decimal.Decimal
}

type ErrorPageData struct {
	other.BasePageData
	Status int
}

// populate fills the shared page fields, including the low stock badge.
func (h *AdminHandler) populate(r *http.Request, data helpers.BasePageDataSetter, title string, crumbs []breadcrumb.Breadcrumb) {
	helpers.PopulateBaseData(r, data, h.store.Name)
	base := data.Base()
	base.Title = title
	base.Breadcrumbs = crumbs
	if count, err := h.catalog.CountLowStock(r.Context()); err == nil {
		base.LowStockCount = count
	}
}

func (h *AdminHandler) html(w http.ResponseWriter, status int, name string, data interface{}) {
	if err := h.render.HTML(w, status, name, data); err != nil {
		h.log.WithError(err).WithField("template", name).Error("html: failed to render template")
	}
}

func (h *AdminHandler) logError(funcName string, data any, err error) {
	configs.LogError(h.log, "AdminHandler", funcName, data, err)
}

func (h *AdminHandler) redirect(w http.ResponseWriter, r *http.Request, path, status, message string) {
	http.Redirect(w, r, helpers.RedirectURL(path, status, message), http.StatusSeeOther)
}

// fail shows a not found page for missing records and otherwise sends the
// user back to path with the error as message.
func (h *AdminHandler) fail(w http.ResponseWriter, r *http.Request, err error, funcName, path string) {
	if errors.Is(err, services.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if handlers.StatusFor(err) == http.StatusInternalServerError {
		h.logError(funcName, nil, err)
	}
	h.redirect(w, r, path, "error", handlers.Message(err))
}

func (h *AdminHandler) notFound(w http.ResponseWriter, r *http.Request) {
	data := &ErrorPageData{Status: http.StatusNotFound}
	h.populate(r, data, "Tidak Ditemukan", breadcrumb.Trail())
	data.Message = "Data yang Anda cari tidak ditemukan."
	data.MessageStatus = "error"
	h.html(w, http.StatusNotFound, "errors/error", data)
}

// fieldErrors returns the per-field messages of a validation error.
func fieldErrors(err error) (map[string]string, bool) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := &DashboardPageData{}
	h.populate(r, data, "Dashboard", nil)

	stats, err := h.reports.Dashboard(r.Context())
	if err != nil {
		h.logError("Dashboard", nil, err)
		data.Message = "Gagal memuat ringkasan dashboard."
		data.MessageStatus = "error"
		stats = &services.DashboardStats{}
	}
	data.Stats = stats
	data.MaxDaily = decimal.Zero
	for _, d := range stats.Daily {
		if d.Total.GreaterThan(data.MaxDaily) {
			data.MaxDaily = d.Total
		}
	}
	h.html(w, http.StatusOK, "dashboard", data)
}

type LowStockPageData struct {
	other.BasePageData
	Products  []models.Product
	Threshold int
}

func (h *AdminHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	data := &LowStockPageData{Threshold: models.LowStockThreshold}
	h.populate(r, data, "Stok Menipis", breadcrumb.Trail("Stok Menipis", "/low-stock"))

	products, err := h.catalog.LowStockProducts(r.Context())
	if err != nil {
		h.logError("LowStock", nil, err)
		data.Message = "Gagal memuat produk."
		data.MessageStatus = "error"
	}
	data.Products = products
	h.html(w, http.StatusOK, "products/low_stock", data)
}
