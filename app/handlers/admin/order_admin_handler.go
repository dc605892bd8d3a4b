package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Rakhulsr/mini-pos/app/exports"
	"github.com/Rakhulsr/mini-pos/app/handlers"
	"github.com/Rakhulsr/mini-pos/app/helpers"
	"github.com/Rakhulsr/mini-pos/app/models"
	"github.com/Rakhulsr/mini-pos/app/models/other"
	"github.com/Rakhulsr/mini-pos/app/services"
	"github.com/Rakhulsr/mini-pos/app/utils/breadcrumb"
	"github.com/gorilla/mux"
)

type OrderPageData struct {
	other.BasePageData
	Orders      []models.Order
	Order       *models.Order
	Customers   []models.Customer
	Products    []models.Product
	Form        OrderForm
	Errors      map[string]string
	StockErrors []string
	FormAction  string
}

type OrderForm struct {
	ID         string
	CustomerID string
	Lines      []OrderLineForm
}

type OrderLineForm struct {
	ProductID string
	Quantity  string
	Discount  string
}

func orderFormFrom(r *http.Request) OrderForm {
	form := OrderForm{CustomerID: r.PostFormValue("customer_id")}
	products := r.PostForm["product_id"]
	quantities := r.PostForm["quantity"]
	discounts := r.PostForm["discount"]
	for i, productID := range products {
		line := OrderLineForm{ProductID: strings.TrimSpace(productID)}
		if i < len(quantities) {
			line.Quantity = quantities[i]
		}
		if i < len(discounts) {
			line.Discount = discounts[i]
		}
		if line.ProductID == "" {
			continue
		}
		form.Lines = append(form.Lines, line)
	}
	return form
}

func (f OrderForm) request(actor string) (services.CreateOrderRequest, map[string]string) {
	errs := map[string]string{}
	req := services.CreateOrderRequest{CustomerID: f.CustomerID, Actor: actor}
	for i, line := range f.Lines {
		qty, err := strconv.Atoi(strings.TrimSpace(line.Quantity))
		if err != nil {
			errs[fmt.Sprintf("items[%d].quantity", i)] = fmt.Sprintf("Jumlah baris %d harus berupa angka.", i+1)
		}
		item := services.OrderLineRequest{ProductID: line.ProductID, Quantity: qty}
		if strings.TrimSpace(line.Discount) != "" {
			d, err := helpers.ParseDecimal(line.Discount)
			if err != nil {
				errs[fmt.Sprintf("items[%d].discount", i)] = fmt.Sprintf("Diskon baris %d harus berupa angka.", i+1)
			} else {
				item.DiscountPercent = &d
			}
		}
		req.Items = append(req.Items, item)
	}
	return req, errs
}

func (h *AdminHandler) GetOrdersPage(w http.ResponseWriter, r *http.Request) {
	data := &OrderPageData{}
	h.populate(r, data, "Pesanan", breadcrumb.Trail("Pesanan", "/orders"))

	orders, err := h.orders.ListOrders(r.Context(), data.Search)
	if err != nil {
		h.logError("GetOrdersPage", nil, err)
		data.Message = "Gagal mengambil daftar pesanan."
		data.MessageStatus = "error"
	}
	data.Orders = orders
	h.html(w, http.StatusOK, "orders/index", data)
}

func (h *AdminHandler) orderForm(w http.ResponseWriter, r *http.Request, status int, data *OrderPageData) {
	for len(data.Form.Lines) < emptyLines {
		data.Form.Lines = append(data.Form.Lines, OrderLineForm{Quantity: "1"})
	}
	if data.Errors == nil {
		data.Errors = map[string]string{}
	}
	data.FormAction = "/orders/create"
	h.populate(r, data, "Buat Pesanan", breadcrumb.Trail("Pesanan", "/orders", "Buat Pesanan", "/orders/create"))

	var err error
	if data.Customers, err = h.catalog.ListCustomers(r.Context(), ""); err != nil {
		h.logError("orderForm", nil, err)
	}
	if data.Products, err = h.catalog.ListProducts(r.Context(), ""); err != nil {
		h.logError("orderForm", nil, err)
	}
	h.html(w, status, "orders/form", data)
}

func (h *AdminHandler) CreateOrderPage(w http.ResponseWriter, r *http.Request) {
	form := OrderForm{CustomerID: r.URL.Query().Get("customer")}
	h.orderForm(w, r, http.StatusOK, &OrderPageData{Form: form})
}

func (h *AdminHandler) CreateOrderPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/orders/create", "error", "Kesalahan parsing form.")
		return
	}
	form := orderFormFrom(r)
	req, errs := form.request(helpers.Actor(r))
	if len(errs) > 0 {
		h.orderForm(w, r, http.StatusBadRequest, &OrderPageData{Form: form, Errors: errs})
		return
	}

	result, err := h.orders.CreateOrder(r.Context(), req)
	if err != nil {
		data := &OrderPageData{Form: form}
		var stockErr *services.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			data.StockErrors = stockErr.Messages()
		default:
			if fields, ok := fieldErrors(err); ok {
				data.Errors = fields
			} else {
				if handlers.StatusFor(err) == http.StatusInternalServerError {
					h.logError("CreateOrderPost", nil, err)
				}
				data.Errors = map[string]string{"form": handlers.Message(err)}
			}
		}
		h.orderForm(w, r, handlers.StatusFor(err), data)
		return
	}

	message := "Pesanan berhasil dibuat."
	status := "success"
	if len(result.OutOfStock) > 0 {
		message += " Stok habis: " + strings.Join(result.OutOfStock, ", ") + "."
		status = "warning"
	}
	h.redirect(w, r, "/orders/"+result.Order.ID, status, message)
}

func (h *AdminHandler) OrderDetail(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err, "OrderDetail", "/orders")
		return
	}
	data := &OrderPageData{Order: order}
	h.populate(r, data, "Pesanan #"+order.ShortID(), breadcrumb.Trail("Pesanan", "/orders", "#"+order.ShortID(), "/orders/"+order.ID))
	h.html(w, http.StatusOK, "orders/detail", data)
}

func (h *AdminHandler) EditOrderPage(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err, "EditOrderPage", "/orders")
		return
	}
	h.editOrderForm(w, r, http.StatusOK, order, order.CustomerID, map[string]string{})
}

func (h *AdminHandler) editOrderForm(w http.ResponseWriter, r *http.Request, status int, order *models.Order, customerID string, errs map[string]string) {
	data := &OrderPageData{Order: order, Form: OrderForm{ID: order.ID, CustomerID: customerID}, Errors: errs}
	data.FormAction = "/orders/" + order.ID + "/edit"
	h.populate(r, data, "Edit Pesanan", breadcrumb.Trail("Pesanan", "/orders", "#"+order.ShortID(), "/orders/"+order.ID, "Edit", data.FormAction))

	customers, err := h.catalog.ListCustomers(r.Context(), "")
	if err != nil {
		h.logError("editOrderForm", nil, err)
	}
	data.Customers = customers
	h.html(w, status, "orders/edit", data)
}

func (h *AdminHandler) EditOrderPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/orders/"+id+"/edit", "error", "Kesalahan parsing form.")
		return
	}
	customerID := r.PostFormValue("customer_id")

	if _, err := h.orders.UpdateOrderCustomer(r.Context(), id, customerID, helpers.Actor(r)); err != nil {
		order, getErr := h.orders.GetOrder(r.Context(), id)
		if getErr != nil {
			h.fail(w, r, getErr, "EditOrderPost", "/orders")
			return
		}
		errs, ok := fieldErrors(err)
		if !ok {
			errs = map[string]string{"customer": handlers.Message(err)}
		}
		h.editOrderForm(w, r, handlers.StatusFor(err), order, customerID, errs)
		return
	}
	h.redirect(w, r, "/orders/"+id, "success", "Pesanan berhasil diperbarui.")
}

func (h *AdminHandler) DeleteOrderPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.orders.DeleteOrder(r.Context(), id, helpers.Actor(r)); err != nil {
		h.fail(w, r, err, "DeleteOrderPost", "/orders")
		return
	}
	h.redirect(w, r, "/orders", "success", "Pesanan berhasil dihapus.")
}

func (h *AdminHandler) OrderReceipt(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err, "OrderReceipt", "/orders")
		return
	}
	order.CreatedAt = order.CreatedAt.In(h.reports.Location())

	pdf, err := exports.ReceiptPDF(order, h.store)
	if err != nil {
		h.fail(w, r, err, "OrderReceipt", "/orders/"+order.ID)
		return
	}
	w.Header().Set("Content-Type", exports.ContentTypePDF)
	w.Header().Set("Content-Disposition", "inline; filename=struk_"+order.ShortID()+".pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
