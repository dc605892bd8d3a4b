package other

import (
	"html/template"
	"net/url"

	"github.com/Rakhulsr/mini-pos/app/models"
	"github.com/Rakhulsr/mini-pos/app/utils/breadcrumb"
)

type UserForTemplate struct {
	ID       string
	Username string
	FullName string
	Role     string
}

func NewUserForTemplate(u *models.User) *UserForTemplate {
	if u == nil {
		return nil
	}
	return &UserForTemplate{ID: u.ID, Username: u.Username, FullName: u.FullName, Role: u.Role}
}

type BasePageData struct {
	Title         string
	StoreName     string
	IsLoggedIn    bool
	User          *UserForTemplate
	CSRFField     template.HTML
	Message       string
	MessageStatus string
	Query         url.Values
	Search        string
	Breadcrumbs   []breadcrumb.Breadcrumb
	CurrentPath   string
	LowStockCount int64
}

// Base lets page structs that embed BasePageData be filled generically.
func (b *BasePageData) Base() *BasePageData {
	return b
}
