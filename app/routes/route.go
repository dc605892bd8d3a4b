package routes

import (
	"net/http"

	"github.com/Rakhulsr/mini-pos/app/configs"
	"github.com/Rakhulsr/mini-pos/app/exports"
	"github.com/Rakhulsr/mini-pos/app/handlers"
	"github.com/Rakhulsr/mini-pos/app/handlers/admin"
	"github.com/Rakhulsr/mini-pos/app/helpers"
	"github.com/Rakhulsr/mini-pos/app/middlewares"
	"github.com/Rakhulsr/mini-pos/app/repositories"
	"github.com/Rakhulsr/mini-pos/app/services"
	"github.com/Rakhulsr/mini-pos/app/utils/metrics"
	"github.com/Rakhulsr/mini-pos/app/utils/renderer"
	"github.com/Rakhulsr/mini-pos/app/utils/sessions"
	"github.com/Rakhulsr/mini-pos/app/web"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Options struct {
	DB      *gorm.DB
	Env     configs.ENV
	Keys    *configs.SessionKeys
	Log     logrus.FieldLogger
	Metrics *metrics.Metrics
}

func NewRouter(opts Options) *mux.Router {
	env, log, db := opts.Env, opts.Log, opts.DB
	m := opts.Metrics
	if m == nil {
		m = metrics.New(nil)
	}

	rnd := renderer.New(web.Templates, !env.IsProduction())
	validate := helpers.NewValidator(env.PhoneRegion)
	sessionStore := sessions.NewCookieSessionStore(env.IsProduction(), opts.Keys.AuthKey, opts.Keys.EncKey)

	userRepo := repositories.NewUserRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)
	supplierRepo := repositories.NewSupplierRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	poRepo := repositories.NewPurchaseOrderRepository(db)

	catalogService := services.NewCatalogService(categoryRepo, productRepo, supplierRepo, customerRepo, validate, log)
	orderService := services.NewOrderService(db, orderRepo, productRepo, customerRepo, validate, log, m)
	purchaseService := services.NewPurchaseService(db, poRepo, productRepo, supplierRepo, validate, log, m)
	reportService := services.NewReportService(orderRepo, productRepo, customerRepo, env.Location(), log)
	importService := services.NewImportService(catalogService, categoryRepo, log)

	store := exports.StoreInfo{Name: env.StoreName, Address: env.StoreAddress, Phone: env.StorePhone}
	authHandler := handlers.NewAuthHandler(rnd, userRepo, sessionStore, validate, env.StoreName, log)
	apiHandler := handlers.NewAPIHandler(rnd, catalogService, orderService, log)
	adminHandler := admin.NewAdminHandler(rnd, catalogService, orderService, purchaseService, reportService, importService, store, log)

	router := mux.NewRouter()
	router.Use(
		middlewares.SecurityHeadersMiddleware,
		middlewares.RequestLoggerMiddleware(log),
		middlewares.MetricsMiddleware(m),
	)

	router.Handle("/metrics", m.Handler()).Methods("GET")
	router.HandleFunc("/healthz", handlers.Healthz(rnd, db)).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middlewares.APIKeyMiddleware(env.APIKey, rnd, log))
	api.HandleFunc("/products/", apiHandler.ListProducts).Methods("GET")
	api.HandleFunc("/orders/create/", apiHandler.CreateOrder).Methods("POST")

	csrfMiddleware := csrf.Protect(
		opts.Keys.CSRFKey,
		csrf.Secure(env.IsProduction()),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.WithFields(logrus.Fields{"path": r.URL.Path, "reason": csrf.FailureReason(r)}).Warn("csrf: request rejected")
			http.Error(w, "Forbidden - CSRF token invalid", http.StatusForbidden)
		})),
	)

	pages := router.NewRoute().Subrouter()
	pages.Use(csrfMiddleware, middlewares.OptionalUserMiddleware(userRepo, sessionStore, log))
	pages.HandleFunc("/login", authHandler.LoginGetHandler).Methods("GET")
	pages.HandleFunc("/login", authHandler.LoginPostHandler).Methods("POST")

	secured := pages.NewRoute().Subrouter()
	secured.Use(middlewares.AuthMiddleware(sessionStore, log))
	secured.HandleFunc("/logout", authHandler.LogoutHandler).Methods("POST")
	secured.HandleFunc("/account/password", authHandler.ChangePasswordPage).Methods("GET")
	secured.HandleFunc("/account/password", authHandler.ChangePasswordPost).Methods("POST")

	secured.HandleFunc("/", adminHandler.Dashboard).Methods("GET")
	secured.HandleFunc("/low-stock", adminHandler.LowStock).Methods("GET")

	secured.HandleFunc("/categories", adminHandler.GetCategoriesPage).Methods("GET")
	secured.HandleFunc("/categories/add", adminHandler.AddCategoryPage).Methods("GET")
	secured.HandleFunc("/categories/add", adminHandler.AddCategoryPost).Methods("POST")
	secured.HandleFunc("/categories/{id}/edit", adminHandler.EditCategoryPage).Methods("GET")
	secured.HandleFunc("/categories/{id}/edit", adminHandler.EditCategoryPost).Methods("POST")
	secured.HandleFunc("/categories/{id}/delete", adminHandler.DeleteCategoryPost).Methods("POST")

	secured.HandleFunc("/products", adminHandler.GetProductsPage).Methods("GET")
	secured.HandleFunc("/products/add", adminHandler.AddProductPage).Methods("GET")
	secured.HandleFunc("/products/add", adminHandler.AddProductPost).Methods("POST")
	secured.HandleFunc("/products/import", adminHandler.ImportProductsPage).Methods("GET")
	secured.HandleFunc("/products/import", adminHandler.ImportProductsPost).Methods("POST")
	secured.HandleFunc("/products/import/template", adminHandler.ImportTemplate).Methods("GET")
	secured.HandleFunc("/products/{id}/edit", adminHandler.EditProductPage).Methods("GET")
	secured.HandleFunc("/products/{id}/edit", adminHandler.EditProductPost).Methods("POST")
	secured.HandleFunc("/products/{id}/delete", adminHandler.DeleteProductPost).Methods("POST")

	secured.HandleFunc("/customers", adminHandler.GetCustomersPage).Methods("GET")
	secured.HandleFunc("/customers/add", adminHandler.AddCustomerPage).Methods("GET")
	secured.HandleFunc("/customers/add", adminHandler.AddCustomerPost).Methods("POST")
	secured.HandleFunc("/customers/{id}/edit", adminHandler.EditCustomerPage).Methods("GET")
	secured.HandleFunc("/customers/{id}/edit", adminHandler.EditCustomerPost).Methods("POST")
	secured.HandleFunc("/customers/{id}/delete", adminHandler.DeleteCustomerPost).Methods("POST")

	secured.HandleFunc("/suppliers", adminHandler.GetSuppliersPage).Methods("GET")
	secured.HandleFunc("/suppliers/add", adminHandler.AddSupplierPage).Methods("GET")
	secured.HandleFunc("/suppliers/add", adminHandler.AddSupplierPost).Methods("POST")
	secured.HandleFunc("/suppliers/{id}/edit", adminHandler.EditSupplierPage).Methods("GET")
	secured.HandleFunc("/suppliers/{id}/edit", adminHandler.EditSupplierPost).Methods("POST")
	secured.HandleFunc("/suppliers/{id}/delete", adminHandler.DeleteSupplierPost).Methods("POST")

	secured.HandleFunc("/purchase-orders", adminHandler.GetPurchaseOrdersPage).Methods("GET")
	secured.HandleFunc("/purchase-orders/create", adminHandler.CreatePurchaseOrderPage).Methods("GET")
	secured.HandleFunc("/purchase-orders/create", adminHandler.CreatePurchaseOrderPost).Methods("POST")
	secured.HandleFunc("/purchase-orders/{id}", adminHandler.PurchaseOrderDetail).Methods("GET")
	secured.HandleFunc("/purchase-orders/{id}/edit", adminHandler.EditPurchaseOrderPage).Methods("GET")
	secured.HandleFunc("/purchase-orders/{id}/edit", adminHandler.EditPurchaseOrderPost).Methods("POST")
	secured.HandleFunc("/purchase-orders/{id}/receive", adminHandler.ReceivePurchaseOrderPost).Methods("POST")
	secured.HandleFunc("/purchase-orders/{id}/cancel", adminHandler.CancelPurchaseOrderPost).Methods("POST")
	secured.HandleFunc("/purchase-orders/{id}/delete", adminHandler.DeletePurchaseOrderPost).Methods("POST")

	secured.HandleFunc("/orders", adminHandler.GetOrdersPage).Methods("GET")
	secured.HandleFunc("/orders/create", adminHandler.CreateOrderPage).Methods("GET")
	secured.HandleFunc("/orders/create", adminHandler.CreateOrderPost).Methods("POST")
	secured.HandleFunc("/orders/{id}", adminHandler.OrderDetail).Methods("GET")
	secured.HandleFunc("/orders/{id}/edit", adminHandler.EditOrderPage).Methods("GET")
	secured.HandleFunc("/orders/{id}/edit", adminHandler.EditOrderPost).Methods("POST")
	secured.HandleFunc("/orders/{id}/delete", adminHandler.DeleteOrderPost).Methods("POST")
	secured.HandleFunc("/orders/{id}/receipt", adminHandler.OrderReceipt).Methods("GET")

	secured.HandleFunc("/reports", adminHandler.Reports).Methods("GET")
	secured.HandleFunc("/reports/export/pdf", adminHandler.ReportExportPDF).Methods("GET")
	secured.HandleFunc("/reports/export/excel", adminHandler.ReportExportExcel).Methods("GET")
	secured.HandleFunc("/analytics", adminHandler.Analytics).Methods("GET")

	return router
}
