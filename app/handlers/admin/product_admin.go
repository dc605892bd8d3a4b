package admin

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Rakhulsr/mini-pos/app/exports"
	"github.com/Rakhulsr/mini-pos/app/helpers"
	"github.com/Rakhulsr/mini-pos/app/models"
	"github.com/Rakhulsr/mini-pos/app/models/other"
	"github.com/Rakhulsr/mini-pos/app/services"
	"github.com/Rakhulsr/mini-pos/app/utils/breadcrumb"
	"github.com/gorilla/mux"
)

// maxImportSize bounds product import uploads.
const maxImportSize = 10 << 20

type ProductPageData struct {
	other.BasePageData
	Products   []models.Product
	Categories []models.Category
	Form       ProductForm
	Errors     map[string]string
	FormAction string
	IsEdit     bool
}

type ProductForm struct {
	ID          string
	Name        string
	CategoryID  string
	Price       string
	Stock       string
	StockBefore string
	ImageURL    string
	Description string
}

type ImportPageData struct {
	other.BasePageData
	Result *services.ImportResult
}

func productFormFrom(r *http.Request) ProductForm {
	return ProductForm{
		Name:        r.PostFormValue("name"),
		CategoryID:  r.PostFormValue("category_id"),
		Price:       r.PostFormValue("price"),
		Stock:       r.PostFormValue("stock"),
		StockBefore: r.PostFormValue("stock_before"),
		ImageURL:    r.PostFormValue("image_url"),
		Description: r.PostFormValue("description"),
	}
}

// input converts the raw form; number parse failures come back as field
// errors in the same shape the service uses.
func (f ProductForm) input() (services.ProductInput, map[string]string) {
	errs := map[string]string{}
	price, err := helpers.ParseDecimal(f.Price)
	if err != nil {
		errs["price"] = "Harga harus berupa angka."
	}
	stock, err := strconv.Atoi(strings.TrimSpace(f.Stock))
	if err != nil {
		errs["stock"] = "Stok harus berupa bilangan bulat."
	}
	input := services.ProductInput{
		Name:        f.Name,
		CategoryID:  f.CategoryID,
		Price:       price,
		Stock:       stock,
		ImageURL:    f.ImageURL,
		Description: f.Description,
	}
	if before, err := strconv.Atoi(strings.TrimSpace(f.StockBefore)); err == nil {
		input.StockBefore = &before
	}
	return input, errs
}

func productFormOf(p *models.Product) ProductForm {
	form := ProductForm{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.StringFixed(2),
		Stock:       strconv.Itoa(p.Stock),
		StockBefore: strconv.Itoa(p.Stock),
		ImageURL:    p.ImageURL,
		Description: p.Description,
	}
	if p.CategoryID != nil {
		form.CategoryID = *p.CategoryID
	}
	return form
}

func (h *AdminHandler) GetProductsPage(w http.ResponseWriter, r *http.Request) {
	data := &ProductPageData{}
	h.populate(r, data, "Produk", breadcrumb.Trail("Produk", "/products"))

	products, err := h.catalog.ListProducts(r.Context(), data.Search)
	if err != nil {
		h.logError("GetProductsPage", nil, err)
		data.Message = "Gagal mengambil daftar produk."
		data.MessageStatus = "error"
	}
	data.Products = products
	h.html(w, http.StatusOK, "products/index", data)
}

func (h *AdminHandler) productForm(w http.ResponseWriter, r *http.Request, status int, form ProductForm, errs map[string]string) {
	data := &ProductPageData{Form: form, Errors: errs, IsEdit: form.ID != ""}
	title, action := "Tambah Produk", "/products/add"
	if data.IsEdit {
		title, action = "Edit Produk", "/products/"+form.ID+"/edit"
	}
	data.FormAction = action
	h.populate(r, data, title, breadcrumb.Trail("Produk", "/products", title, action))

	categories, err := h.catalog.ListCategories(r.Context(), "")
	if err != nil {
		h.logError("productForm", nil, err)
		data.Message = "Gagal memuat kategori."
		data.MessageStatus = "error"
	}
	data.Categories = categories
	h.html(w, status, "products/form", data)
}

func (h *AdminHandler) AddProductPage(w http.ResponseWriter, r *http.Request) {
	h.productForm(w, r, http.StatusOK, ProductForm{Stock: "0"}, map[string]string{})
}

func (h *AdminHandler) AddProductPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/products/add", "error", "Kesalahan parsing form.")
		return
	}
	form := productFormFrom(r)
	input, errs := form.input()
	if len(errs) > 0 {
		h.productForm(w, r, http.StatusBadRequest, form, errs)
		return
	}

	if _, err := h.catalog.CreateProduct(r.Context(), input); err != nil {
		if errs, ok := fieldErrors(err); ok {
			h.productForm(w, r, http.StatusBadRequest, form, errs)
			return
		}
		h.fail(w, r, err, "AddProductPost", "/products/add")
		return
	}
	h.redirect(w, r, "/products", "success", "Produk berhasil ditambahkan.")
}

func (h *AdminHandler) EditProductPage(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err, "EditProductPage", "/products")
		return
	}
	h.productForm(w, r, http.StatusOK, productFormOf(product), map[string]string{})
}

func (h *AdminHandler) EditProductPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/products/"+id+"/edit", "error", "Kesalahan parsing form.")
		return
	}
	form := productFormFrom(r)
	form.ID = id
	input, errs := form.input()
	if len(errs) > 0 {
		h.productForm(w, r, http.StatusBadRequest, form, errs)
		return
	}

	if _, err := h.catalog.UpdateProduct(r.Context(), id, input, helpers.Actor(r)); err != nil {
		if errs, ok := fieldErrors(err); ok {
			h.productForm(w, r, http.StatusBadRequest, form, errs)
			return
		}
		h.fail(w, r, err, "EditProductPost", "/products/"+id+"/edit")
		return
	}
	h.redirect(w, r, "/products", "success", "Produk berhasil diperbarui.")
}

func (h *AdminHandler) DeleteProductPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.catalog.DeleteProduct(r.Context(), id, helpers.Actor(r)); err != nil {
		h.fail(w, r, err, "DeleteProductPost", "/products")
		return
	}
	h.redirect(w, r, "/products", "success", "Produk berhasil dihapus.")
}

func (h *AdminHandler) ImportProductsPage(w http.ResponseWriter, r *http.Request) {
	data := &ImportPageData{}
	h.populate(r, data, "Impor Produk", breadcrumb.Trail("Produk", "/products", "Impor", "/products/import"))
	h.html(w, http.StatusOK, "products/import", data)
}

func (h *AdminHandler) ImportProductsPost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		h.redirect(w, r, "/products/import", "error", "File terlalu besar atau tidak valid.")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		h.redirect(w, r, "/products/import", "error", "Pilih file Excel (.xlsx) untuk diimpor.")
		return
	}
	defer file.Close()

	result, err := h.imports.ImportProducts(r.Context(), file, helpers.Actor(r))
	if err != nil {
		h.fail(w, r, err, "ImportProductsPost", "/products/import")
		return
	}

	data := &ImportPageData{Result: result}
	h.populate(r, data, "Impor Produk", breadcrumb.Trail("Produk", "/products", "Impor", "/products/import"))
	data.Message = strconv.Itoa(result.Created) + " produk berhasil diimpor."
	data.MessageStatus = "success"
	if len(result.Skipped) > 0 {
		data.MessageStatus = "warning"
	}
	h.html(w, http.StatusOK, "products/import", data)
}

func (h *AdminHandler) ImportTemplate(w http.ResponseWriter, r *http.Request) {
	data, err := exports.ProductImportTemplate()
	if err != nil {
		h.fail(w, r, err, "ImportTemplate", "/products/import")
		return
	}
	sendFile(w, exports.ContentTypeXLSX, "template_import_produk.xlsx", data)
}

func sendFile(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
