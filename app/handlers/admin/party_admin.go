package admin

import (
	"net/http"

	"github.com/Rakhulsr/mini-pos/app/helpers"
	"github.com/Rakhulsr/mini-pos/app/models"
	"github.com/Rakhulsr/mini-pos/app/models/other"
	"github.com/Rakhulsr/mini-pos/app/services"
	"github.com/Rakhulsr/mini-pos/app/utils/breadcrumb"
	"github.com/gorilla/mux"
)

type CustomerPageData struct {
	other.BasePageData
	Customers  []models.Customer
	Form       CustomerForm
	Errors     map[string]string
	FormAction string
	IsEdit     bool
}

type CustomerForm struct {
	ID      string
	Name    string
	Phone   string
	Address string
}

func (f CustomerForm) input() services.CustomerInput {
	return services.CustomerInput{Name: f.Name, Phone: f.Phone, Address: f.Address}
}

func customerFormFrom(r *http.Request) CustomerForm {
	return CustomerForm{
		Name:    r.PostFormValue("name"),
		Phone:   r.PostFormValue("phone"),
		Address: r.PostFormValue("address"),
	}
}

func (h *AdminHandler) GetCustomersPage(w http.ResponseWriter, r *http.Request) {
	data := &CustomerPageData{}
	h.populate(r, data, "Pelanggan", breadcrumb.Trail("Pelanggan", "/customers"))

	customers, err := h.catalog.ListCustomers(r.Context(), data.Search)
	if err != nil {
		h.logError("GetCustomersPage", nil, err)
		data.Message = "Gagal mengambil daftar pelanggan."
		data.MessageStatus = "error"
	}
	data.Customers = customers
	h.html(w, http.StatusOK, "customers/index", data)
}

func (h *AdminHandler) customerForm(w http.ResponseWriter, r *http.Request, status int, form CustomerForm, errs map[string]string) {
	data := &CustomerPageData{Form: form, Errors: errs, IsEdit: form.ID != ""}
	title, action := "Tambah Pelanggan", "/customers/add"
	if data.IsEdit {
		title, action = "Edit Pelanggan", "/customers/"+form.ID+"/edit"
	}
	data.FormAction = action
	h.populate(r, data, title, breadcrumb.Trail("Pelanggan", "/customers", title, action))
	h.html(w, status, "customers/form", data)
}

func (h *AdminHandler) AddCustomerPage(w http.ResponseWriter, r *http.Request) {
	h.customerForm(w, r, http.StatusOK, CustomerForm{}, map[string]string{})
}

func (h *AdminHandler) AddCustomerPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/customers/add", "error", "Kesalahan parsing form.")
		return
	}
	form := customerFormFrom(r)
	if _, err := h.catalog.CreateCustomer(r.Context(), form.input()); err != nil {
		if errs, ok := fieldErrors(err); ok {
			h.customerForm(w, r, http.StatusBadRequest, form, errs)
			return
		}
		h.fail(w, r, err, "AddCustomerPost", "/customers/add")
		return
	}
	h.redirect(w, r, "/customers", "success", "Pelanggan berhasil ditambahkan.")
}

func (h *AdminHandler) EditCustomerPage(w http.ResponseWriter, r *http.Request) {
	customer, err := h.catalog.GetCustomer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err, "EditCustomerPage", "/customers")
		return
	}
	form := CustomerForm{ID: customer.ID, Name: customer.Name, Phone: customer.Phone, Address: customer.Address}
	h.customerForm(w, r, http.StatusOK, form, map[string]string{})
}

func (h *AdminHandler) EditCustomerPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/customers/"+id+"/edit", "error", "Kesalahan parsing form.")
		return
	}
	form := customerFormFrom(r)
	form.ID = id
	if _, err := h.catalog.UpdateCustomer(r.Context(), id, form.input()); err != nil {
		if errs, ok := fieldErrors(err); ok {
			h.customerForm(w, r, http.StatusBadRequest, form, errs)
			return
		}
		h.fail(w, r, err, "EditCustomerPost", "/customers/"+id+"/edit")
		return
	}
	h.redirect(w, r, "/customers", "success", "Pelanggan berhasil diperbarui.")
}

func (h *AdminHandler) DeleteCustomerPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.catalog.DeleteCustomer(r.Context(), id, helpers.Actor(r)); err != nil {
		h.fail(w, r, err, "DeleteCustomerPost", "/customers")
		return
	}
	h.redirect(w, r, "/customers", "success", "Pelanggan beserta pesanannya berhasil dihapus.")
}

type SupplierPageData struct {
	other.BasePageData
	Suppliers  []models.Supplier
	Form       SupplierForm
	Errors     map[string]string
	FormAction string
	IsEdit     bool
}

type SupplierForm struct {
	ID            string
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
}

func (f SupplierForm) input() services.SupplierInput {
	return services.SupplierInput{
		Name:          f.Name,
		ContactPerson: f.ContactPerson,
		Phone:         f.Phone,
		Email:         f.Email,
		Address:       f.Address,
	}
}

func supplierFormFrom(r *http.Request) SupplierForm {
	return SupplierForm{
		Name:          r.PostFormValue("name"),
		ContactPerson: r.PostFormValue("contact_person"),
		Phone:         r.PostFormValue("phone"),
		Email:         r.PostFormValue("email"),
		Address:       r.PostFormValue("address"),
	}
}

func (h *AdminHandler) GetSuppliersPage(w http.ResponseWriter, r *http.Request) {
	data := &SupplierPageData{}
	h.populate(r, data, "Supplier", breadcrumb.Trail("Supplier", "/suppliers"))

	suppliers, err := h.catalog.ListSuppliers(r.Context(), data.Search)
	if err != nil {
		h.logError("GetSuppliersPage", nil, err)
		data.Message = "Gagal mengambil daftar supplier."
		data.MessageStatus = "error"
	}
	data.Suppliers = suppliers
	h.html(w, http.StatusOK, "suppliers/index", data)
}

func (h *AdminHandler) supplierForm(w http.ResponseWriter, r *http.Request, status int, form SupplierForm, errs map[string]string) {
	data := &SupplierPageData{Form: form, Errors: errs, IsEdit: form.ID != ""}
	title, action := "Tambah Supplier", "/suppliers/add"
	if data.IsEdit {
		title, action = "Edit Supplier", "/suppliers/"+form.ID+"/edit"
	}
	data.FormAction = action
	h.populate(r, data, title, breadcrumb.Trail("Supplier", "/suppliers", title, action))
	h.html(w, status, "suppliers/form", data)
}

func (h *AdminHandler) AddSupplierPage(w http.ResponseWriter, r *http.Request) {
	h.supplierForm(w, r, http.StatusOK, SupplierForm{}, map[string]string{})
}

func (h *AdminHandler) AddSupplierPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/suppliers/add", "error", "Kesalahan parsing form.")
		return
	}
	form := supplierFormFrom(r)
	if _, err := h.catalog.CreateSupplier(r.Context(), form.input()); err != nil {
		if errs, ok := fieldErrors(err); ok {
			h.supplierForm(w, r, http.StatusBadRequest, form, errs)
			return
		}
		h.fail(w, r, err, "AddSupplierPost", "/suppliers/add")
		return
	}
	h.redirect(w, r, "/suppliers", "success", "Supplier berhasil ditambahkan.")
}

func (h *AdminHandler) EditSupplierPage(w http.ResponseWriter, r *http.Request) {
	supplier, err := h.catalog.GetSupplier(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err, "EditSupplierPage", "/suppliers")
		return
	}
	form := SupplierForm{
		ID:            supplier.ID,
		Name:          supplier.Name,
		ContactPerson: supplier.ContactPerson,
		Phone:         supplier.Phone,
		Email:         supplier.Email,
		Address:       supplier.Address,
	}
	h.supplierForm(w, r, http.StatusOK, form, map[string]string{})
}

func (h *AdminHandler) EditSupplierPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/suppliers/"+id+"/edit", "error", "Kesalahan parsing form.")
		return
	}
	form := supplierFormFrom(r)
	form.ID = id
	if _, err := h.catalog.UpdateSupplier(r.Context(), id, form.input()); err != nil {
		if errs, ok := fieldErrors(err); ok {
			h.supplierForm(w, r, http.StatusBadRequest, form, errs)
			return
		}
		h.fail(w, r, err, "EditSupplierPost", "/suppliers/"+id+"/edit")
		return
	}
	h.redirect(w, r, "/suppliers", "success", "Supplier berhasil diperbarui.")
}

func (h *AdminHandler) DeleteSupplierPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.catalog.DeleteSupplier(r.Context(), id, helpers.Actor(r)); err != nil {
		h.fail(w, r, err, "DeleteSupplierPost", "/suppliers")
		return
	}
	h.redirect(w, r, "/suppliers", "success", "Supplier berhasil dihapus.")
}
