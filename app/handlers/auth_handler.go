package handlers

import (
	"net/http"
	"strings"

	"github.com/Rakhulsr/mini-pos/app/helpers"
	"github.com/Rakhulsr/mini-pos/app/models/other"
	"github.com/Rakhulsr/mini-pos/app/repositories"
	"github.com/Rakhulsr/mini-pos/app/utils/breadcrumb"
	"github.com/Rakhulsr/mini-pos/app/utils/sessions"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/unrolled/render"
)

type AuthHandler struct {
	render       *render.Render
	userRepo     repositories.UserRepositoryImpl
	sessionStore sessions.SessionStore
	validator    *validator.Validate
	storeName    string
	log          logrus.FieldLogger
}

func NewAuthHandler(r *render.Render, userRepo repositories.UserRepositoryImpl, sessionStore sessions.SessionStore, validator *validator.Validate, storeName string, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		render:       r,
		userRepo:     userRepo,
		sessionStore: sessionStore,
		validator:    validator,
		storeName:    storeName,
		log:          log.WithField("module", "AuthHandler"),
	}
}

type LoginPageData struct {
	other.BasePageData
	Username string
}

type PasswordForm struct {
	Current string `validate:"required"`
	New     string `validate:"required,min=6,max=72"`
	Confirm string `validate:"required,eqfield=New"`
}

type PasswordPageData struct {
	other.BasePageData
	Errors map[string]string
}

func (h *AuthHandler) LoginGetHandler(w http.ResponseWriter, r *http.Request) {
	if helpers.CurrentUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	data := &LoginPageData{}
	helpers.PopulateBaseData(r, data, h.storeName)
	data.Title = "Login"
	_ = h.render.HTML(w, http.StatusOK, "auth/login", data)
}

func (h *AuthHandler) LoginPostHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, helpers.RedirectURL("/login", "error", "Terjadi kesalahan saat memproses data."), http.StatusSeeOther)
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	logger := h.log.WithFields(logrus.Fields{"funcName": "LoginPostHandler", "username": username})

	user, err := h.userRepo.FindByUsername(r.Context(), username)
	if err != nil {
		logger.WithError(err).Error("LoginPostHandler: failed to look up user")
		http.Redirect(w, r, helpers.RedirectURL("/login", "error", "Terjadi kesalahan server."), http.StatusSeeOther)
		return
	}
	if user == nil || !helpers.PasswordCompare(user.Password, []byte(password)) {
		logger.Warn("LoginPostHandler: invalid credentials")
		data := &LoginPageData{Username: username}
		helpers.PopulateBaseData(r, data, h.storeName)
		data.Title = "Login"
		data.Message = "Username atau password salah."
		data.MessageStatus = "error"
		_ = h.render.HTML(w, http.StatusUnauthorized, "auth/login", data)
		return
	}

	if err := h.sessionStore.SetUserID(w, r, user.ID); err != nil {
		logger.WithError(err).Error("LoginPostHandler: failed to save session")
		http.Redirect(w, r, helpers.RedirectURL("/login", "error", "Gagal membuat sesi login."), http.StatusSeeOther)
		return
	}

	logger.Info("LoginPostHandler: user logged in")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionStore.ClearSession(w, r); err != nil {
		h.log.WithError(err).Error("LogoutHandler: failed to clear session")
	}
	http.Redirect(w, r, helpers.RedirectURL("/login", "success", "Anda telah berhasil logout."), http.StatusSeeOther)
}

func (h *AuthHandler) passwordPage(w http.ResponseWriter, r *http.Request, status int, errs map[string]string) {
	data := &PasswordPageData{Errors: errs}
	helpers.PopulateBaseData(r, data, h.storeName)
	data.Title = "Ubah Password"
	data.Breadcrumbs = breadcrumb.Trail("Ubah Password", "/account/password")
	_ = h.render.HTML(w, status, "auth/password", data)
}

func (h *AuthHandler) ChangePasswordPage(w http.ResponseWriter, r *http.Request) {
	h.passwordPage(w, r, http.StatusOK, map[string]string{})
}

func (h *AuthHandler) ChangePasswordPost(w http.ResponseWriter, r *http.Request) {
	user := helpers.CurrentUser(r)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, helpers.RedirectURL("/account/password", "error", "Gagal memproses form."), http.StatusSeeOther)
		return
	}

	form := PasswordForm{
		Current: r.PostFormValue("current_password"),
		New:     r.PostFormValue("new_password"),
		Confirm: r.PostFormValue("confirm_password"),
	}
	if err := h.validator.Struct(&form); err != nil {
		errs := map[string]string{"form": "Periksa kembali isian password."}
		if verrs, ok := err.(validator.ValidationErrors); ok {
			errs = helpers.FormatValidationErrors(verrs)
		}
		h.passwordPage(w, r, http.StatusBadRequest, errs)
		return
	}
	if !helpers.PasswordCompare(user.Password, []byte(form.Current)) {
		h.passwordPage(w, r, http.StatusBadRequest, map[string]string{"current": "Password lama salah."})
		return
	}

	if err := h.userRepo.UpdatePassword(r.Context(), user.ID, form.New); err != nil {
		h.log.WithError(err).WithField("user_id", user.ID).Error("ChangePasswordPost: failed to update password")
		http.Redirect(w, r, helpers.RedirectURL("/account/password", "error", "Gagal memperbarui password."), http.StatusSeeOther)
		return
	}
	h.log.WithFields(logrus.Fields{"funcName": "ChangePasswordPost", "actor": user.Username}).Info("ChangePasswordPost: password changed")
	http.Redirect(w, r, helpers.RedirectURL("/", "success", "Password berhasil diperbarui."), http.StatusSeeOther)
}
