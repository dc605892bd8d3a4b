package middlewares

import (
	"crypto/subtle"
	"net/http"

	"github.com/Rakhulsr/mini-pos/app/helpers"
	"github.com/Rakhulsr/mini-pos/app/repositories"
	"github.com/Rakhulsr/mini-pos/app/utils/sessions"
	"github.com/sirupsen/logrus"
	"github.com/unrolled/render"
)

const APIKeyHeader = "X-API-KEY"

// OptionalUserMiddleware resolves the session user, if any, onto the request
// context without enforcing a login.
func OptionalUserMiddleware(userRepo repositories.UserRepositoryImpl, store sessions.SessionStore, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := store.GetUserID(r)
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}
			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				log.WithError(err).WithField("user_id", userID).Error("OptionalUserMiddleware: failed to load session user")
			}
			if user != nil {
				r = r.WithContext(helpers.WithUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AuthMiddleware sends requests without a valid session user to the login
// page. It expects OptionalUserMiddleware to have run first.
func AuthMiddleware(store sessions.SessionStore, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if helpers.CurrentUser(r) != nil {
				next.ServeHTTP(w, r)
				return
			}
			if store.GetUserID(r) != "" {
				log.WithField("path", r.URL.Path).Warn("AuthMiddleware: session user no longer exists")
				_ = store.ClearSession(w, r)
			}
			http.Redirect(w, r, helpers.RedirectURL("/login", "error", "Silakan login terlebih dahulu."), http.StatusSeeOther)
		})
	}
}

// APIKeyMiddleware guards the JSON API with a shared key.
func APIKeyMiddleware(apiKey string, rnd *render.Render, log logrus.FieldLogger) func(http.Handler) http.Handler {
	expected := []byte(apiKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			given := []byte(r.Header.Get(APIKeyHeader))
			if len(expected) == 0 || subtle.ConstantTimeCompare(given, expected) != 1 {
				log.WithFields(logrus.Fields{"path": r.URL.Path, "remote": r.RemoteAddr}).Warn("APIKeyMiddleware: rejected request")
				_ = rnd.JSON(w, http.StatusForbidden, map[string]string{"error": "Forbidden"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
