package helpers

import (
	"context"
	"net/http"

	"github.com/Rakhulsr/mini-pos/app/models"
	"github.com/Rakhulsr/mini-pos/app/models/other"
	"github.com/gorilla/csrf"
)

type contextKey string

const (
	ContextKeyUserID contextKey = "userID"
	ContextKeyUser   contextKey = "userObject"
)

type BasePageDataSetter interface {
	Base() *other.BasePageData
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	ctx = context.WithValue(ctx, ContextKeyUserID, user.ID)
	return context.WithValue(ctx, ContextKeyUser, user)
}

// CurrentUser returns the user resolved by the auth middleware, or nil.
func CurrentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(ContextKeyUser).(*models.User)
	return user
}

// Actor names the signed-in user for audit logging.
func Actor(r *http.Request) string {
	if user := CurrentUser(r); user != nil {
		return user.Username
	}
	return "anonymous"
}

func PopulateBaseData(r *http.Request, data BasePageDataSetter, storeName string) {
	base := data.Base()
	base.StoreName = storeName
	base.Query = r.URL.Query()
	base.Search = r.URL.Query().Get("q")
	base.CurrentPath = r.URL.Path
	base.CSRFField = csrf.TemplateField(r)
	if base.MessageStatus == "" {
		base.MessageStatus = r.URL.Query().Get("status")
	}
	if base.Message == "" {
		base.Message = r.URL.Query().Get("message")
	}
	if user := CurrentUser(r); user != nil {
		base.User = other.NewUserForTemplate(user)
		base.IsLoggedIn = true
	}
}
