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

type CategoryPageData struct {
	other.BasePageData
	Categories []models.Category
	Form       CategoryForm
	Errors     map[string]string
	FormAction string
	IsEdit     bool
}

type CategoryForm struct {
	ID          string
	Name        string
	Description string
}

func categoryFormFrom(r *http.Request) CategoryForm {
	return CategoryForm{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
	}
}

func (f CategoryForm) input() services.CategoryInput {
	return services.CategoryInput{Name: f.Name, Description: f.Description}
}

func (h *AdminHandler) GetCategoriesPage(w http.ResponseWriter, r *http.Request) {
	data := &CategoryPageData{}
	h.populate(r, data, "Kategori", breadcrumb.Trail("Kategori", "/categories"))

	categories, err := h.catalog.ListCategories(r.Context(), data.Search)
	if err != nil {
		h.logError("GetCategoriesPage", nil, err)
		data.Message = "Gagal mengambil daftar kategori."
		data.MessageStatus = "error"
	}
	data.Categories = categories
	h.html(w, http.StatusOK, "categories/index", data)
}

func (h *AdminHandler) categoryForm(w http.ResponseWriter, r *http.Request, status int, form CategoryForm, errs map[string]string) {
	data := &CategoryPageData{Form: form, Errors: errs, IsEdit: form.ID != ""}
	title, action := "Tambah Kategori", "/categories/add"
	if data.IsEdit {
		title, action = "Edit Kategori", "/categories/"+form.ID+"/edit"
	}
	data.FormAction = action
	h.populate(r, data, title, breadcrumb.Trail("Kategori", "/categories", title, action))
	h.html(w, status, "categories/form", data)
}

func (h *AdminHandler) AddCategoryPage(w http.ResponseWriter, r *http.Request) {
	h.categoryForm(w, r, http.StatusOK, CategoryForm{}, map[string]string{})
}

func (h *AdminHandler) AddCategoryPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/categories/add", "error", "Kesalahan parsing form.")
		return
	}
	form := categoryFormFrom(r)

	if _, err := h.catalog.CreateCategory(r.Context(), form.input()); err != nil {
		if errs, ok := fieldErrors(err); ok {
			h.categoryForm(w, r, http.StatusBadRequest, form, errs)
			return
		}
		h.fail(w, r, err, "AddCategoryPost", "/categories/add")
		return
	}
	h.redirect(w, r, "/categories", "success", "Kategori berhasil ditambahkan.")
}

func (h *AdminHandler) EditCategoryPage(w http.ResponseWriter, r *http.Request) {
	category, err := h.catalog.GetCategory(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err, "EditCategoryPage", "/categories")
		return
	}
	form := CategoryForm{ID: category.ID, Name: category.Name, Description: category.Description}
	h.categoryForm(w, r, http.StatusOK, form, map[string]string{})
}

func (h *AdminHandler) EditCategoryPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/categories/"+id+"/edit", "error", "Kesalahan parsing form.")
		return
	}
	form := categoryFormFrom(r)
	form.ID = id

	if _, err := h.catalog.UpdateCategory(r.Context(), id, form.input()); err != nil {
		if errs, ok := fieldErrors(err); ok {
			h.categoryForm(w, r, http.StatusBadRequest, form, errs)
			return
		}
		h.fail(w, r, err, "EditCategoryPost", "/categories/"+id+"/edit")
		return
	}
	h.redirect(w, r, "/categories", "success", "Kategori berhasil diperbarui.")
}

func (h *AdminHandler) DeleteCategoryPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.catalog.DeleteCategory(r.Context(), id, helpers.Actor(r)); err != nil {
		h.fail(w, r, err, "DeleteCategoryPost", "/categories")
		return
	}
	h.redirect(w, r, "/categories", "success", "Kategori berhasil dihapus.")
}
