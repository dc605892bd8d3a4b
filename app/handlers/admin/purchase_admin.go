package admin

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Rakhulsr/mini-pos/app/handlers"
	"github.com/Rakhulsr/mini-pos/app/helpers"
	"github.com/Rakhulsr/mini-pos/app/models"
	"github.com/Rakhulsr/mini-pos/app/models/other"
	"github.com/Rakhulsr/mini-pos/app/services"
	"github.com/Rakhulsr/mini-pos/app/utils/breadcrumb"
	"github.com/gorilla/mux"
)

// emptyLines is how many blank item rows a new form offers.
const emptyLines = 3

type PurchaseOrderPageData struct {
	other.BasePageData
	PurchaseOrders []models.PurchaseOrder
	PurchaseOrder  *models.PurchaseOrder
	Suppliers      []models.Supplier
	Products       []models.Product
	Form           PurchaseOrderForm
	Errors         map[string]string
	FormAction     string
	IsEdit         bool
}

type PurchaseOrderForm struct {
	ID          string
	SupplierID  string
	OrderNumber string
	Notes       string
	Lines       []PurchaseLineForm
}

type PurchaseLineForm struct {
	ProductID string
	Quantity  string
	UnitPrice string
}

func purchaseFormFrom(r *http.Request) PurchaseOrderForm {
	form := PurchaseOrderForm{
		SupplierID:  r.PostFormValue("supplier_id"),
		OrderNumber: r.PostFormValue("order_number"),
		Notes:       r.PostFormValue("notes"),
	}
	products := r.PostForm["product_id"]
	quantities := r.PostForm["quantity"]
	prices := r.PostForm["unit_price"]
	for i, productID := range products {
		line := PurchaseLineForm{ProductID: strings.TrimSpace(productID)}
		if i < len(quantities) {
			line.Quantity = quantities[i]
		}
		if i < len(prices) {
			line.UnitPrice = prices[i]
		}
		if line.ProductID == "" && strings.TrimSpace(line.Quantity) == "" {
			continue
		}
		form.Lines = append(form.Lines, line)
	}
	return form
}

func (f PurchaseOrderForm) request(actor string) (services.PurchaseOrderRequest, map[string]string) {
	errs := map[string]string{}
	req := services.PurchaseOrderRequest{
		SupplierID:  f.SupplierID,
		OrderNumber: f.OrderNumber,
		Notes:       f.Notes,
		Actor:       actor,
	}
	for i, line := range f.Lines {
		qty, err := strconv.Atoi(strings.TrimSpace(line.Quantity))
		if err != nil {
			errs[fmt.Sprintf("items[%d].quantity", i)] = fmt.Sprintf("Jumlah baris %d harus berupa angka.", i+1)
		}
		price, err := helpers.ParseDecimal(line.UnitPrice)
		if err != nil {
			errs[fmt.Sprintf("items[%d].unit_price", i)] = fmt.Sprintf("Harga satuan baris %d harus berupa angka.", i+1)
		}
		req.Items = append(req.Items, services.PurchaseLineRequest{ProductID: line.ProductID, Quantity: qty, UnitPrice: price})
	}
	return req, errs
}

func purchaseFormOf(po *models.PurchaseOrder) PurchaseOrderForm {
	form := PurchaseOrderForm{
		ID:          po.ID,
		SupplierID:  po.SupplierID,
		OrderNumber: po.OrderNumber,
		Notes:       po.Notes,
	}
	for _, item := range po.Items {
		form.Lines = append(form.Lines, PurchaseLineForm{
			ProductID: item.ProductID,
			Quantity:  strconv.Itoa(item.Quantity),
			UnitPrice: item.UnitPrice.StringFixed(2),
		})
	}
	return form
}

func (h *AdminHandler) GetPurchaseOrdersPage(w http.ResponseWriter, r *http.Request) {
	data := &PurchaseOrderPageData{}
	h.populate(r, data, "Pembelian", breadcrumb.Trail("Pembelian", "/purchase-orders"))

	pos, err := h.purchases.ListPurchaseOrders(r.Context(), data.Search)
	if err != nil {
		h.logError("GetPurchaseOrdersPage", nil, err)
		data.Message = "Gagal mengambil daftar pembelian."
		data.MessageStatus = "error"
	}
	data.PurchaseOrders = pos
	h.html(w, http.StatusOK, "purchase_orders/index", data)
}

func (h *AdminHandler) purchaseForm(w http.ResponseWriter, r *http.Request, status int, form PurchaseOrderForm, errs map[string]string) {
	data := &PurchaseOrderPageData{Form: form, Errors: errs, IsEdit: form.ID != ""}
	title, action := "Buat Pembelian", "/purchase-orders/create"
	if data.IsEdit {
		title, action = "Edit Pembelian", "/purchase-orders/"+form.ID+"/edit"
	}
	for len(data.Form.Lines) < emptyLines {
		data.Form.Lines = append(data.Form.Lines, PurchaseLineForm{})
	}
	data.FormAction = action
	h.populate(r, data, title, breadcrumb.Trail("Pembelian", "/purchase-orders", title, action))

	var err error
	if data.Suppliers, err = h.catalog.ListSuppliers(r.Context(), ""); err != nil {
		h.logError("purchaseForm", nil, err)
	}
	if data.Products, err = h.catalog.ListProducts(r.Context(), ""); err != nil {
		h.logError("purchaseForm", nil, err)
	}
	h.html(w, status, "purchase_orders/form", data)
}

func (h *AdminHandler) CreatePurchaseOrderPage(w http.ResponseWriter, r *http.Request) {
	h.purchaseForm(w, r, http.StatusOK, PurchaseOrderForm{}, map[string]string{})
}

func (h *AdminHandler) CreatePurchaseOrderPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/purchase-orders/create", "error", "Kesalahan parsing form.")
		return
	}
	form := purchaseFormFrom(r)
	req, errs := form.request(helpers.Actor(r))
	if len(errs) > 0 {
		h.purchaseForm(w, r, http.StatusBadRequest, form, errs)
		return
	}

	po, err := h.purchases.CreatePurchaseOrder(r.Context(), req)
	if err != nil {
		h.purchaseFormError(w, r, form, err, "CreatePurchaseOrderPost")
		return
	}
	h.redirect(w, r, "/purchase-orders/"+po.ID, "success", "Pembelian berhasil dibuat.")
}

// purchaseFormError re-renders the form for every rejection the user can
// fix in place; only server errors leave the page.
func (h *AdminHandler) purchaseFormError(w http.ResponseWriter, r *http.Request, form PurchaseOrderForm, err error, funcName string) {
	if errs, ok := fieldErrors(err); ok {
		h.purchaseForm(w, r, http.StatusBadRequest, form, errs)
		return
	}
	status := handlers.StatusFor(err)
	if status == http.StatusInternalServerError {
		h.logError(funcName, nil, err)
	}
	h.purchaseForm(w, r, status, form, map[string]string{"form": handlers.Message(err)})
}

func (h *AdminHandler) PurchaseOrderDetail(w http.ResponseWriter, r *http.Request) {
	po, err := h.purchases.GetPurchaseOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err, "PurchaseOrderDetail", "/purchase-orders")
		return
	}
	data := &PurchaseOrderPageData{PurchaseOrder: po}
	h.populate(r, data, "Pembelian "+po.OrderNumber, breadcrumb.Trail("Pembelian", "/purchase-orders", po.OrderNumber, "/purchase-orders/"+po.ID))
	h.html(w, http.StatusOK, "purchase_orders/detail", data)
}

func (h *AdminHandler) EditPurchaseOrderPage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	po, err := h.purchases.GetPurchaseOrder(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "EditPurchaseOrderPage", "/purchase-orders")
		return
	}
	if !po.IsPending() {
		h.redirect(w, r, "/purchase-orders/"+id, "error", "Hanya pembelian berstatus pending yang dapat diubah.")
		return
	}
	h.purchaseForm(w, r, http.StatusOK, purchaseFormOf(po), map[string]string{})
}

func (h *AdminHandler) EditPurchaseOrderPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/purchase-orders/"+id+"/edit", "error", "Kesalahan parsing form.")
		return
	}
	form := purchaseFormFrom(r)
	form.ID = id
	req, errs := form.request(helpers.Actor(r))
	if len(errs) > 0 {
		h.purchaseForm(w, r, http.StatusBadRequest, form, errs)
		return
	}

	if _, err := h.purchases.UpdatePurchaseOrder(r.Context(), id, req); err != nil {
		h.purchaseFormError(w, r, form, err, "EditPurchaseOrderPost")
		return
	}
	h.redirect(w, r, "/purchase-orders/"+id, "success", "Pembelian berhasil diperbarui.")
}

func (h *AdminHandler) ReceivePurchaseOrderPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.purchases.ReceivePurchaseOrder(r.Context(), id, helpers.Actor(r)); err != nil {
		h.fail(w, r, err, "ReceivePurchaseOrderPost", "/purchase-orders/"+id)
		return
	}
	h.redirect(w, r, "/purchase-orders/"+id, "success", "Barang diterima, stok produk telah ditambahkan.")
}

func (h *AdminHandler) CancelPurchaseOrderPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.purchases.CancelPurchaseOrder(r.Context(), id, helpers.Actor(r)); err != nil {
		h.fail(w, r, err, "CancelPurchaseOrderPost", "/purchase-orders/"+id)
		return
	}
	h.redirect(w, r, "/purchase-orders/"+id, "success", "Pembelian dibatalkan.")
}

func (h *AdminHandler) DeletePurchaseOrderPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.purchases.DeletePurchaseOrder(r.Context(), id, helpers.Actor(r)); err != nil {
		h.fail(w, r, err, "DeletePurchaseOrderPost", "/purchase-orders")
		return
	}
	h.redirect(w, r, "/purchase-orders", "success", "Pembelian berhasil dihapus.")
}
