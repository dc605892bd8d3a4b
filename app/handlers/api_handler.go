package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Rakhulsr/mini-pos/app/services"
	"github.com/sirupsen/logrus"
	"github.com/unrolled/render"
)

// APIHandler serves the JSON endpoints used by external terminals.
type APIHandler struct {
	render  *render.Render
	catalog *services.CatalogService
	orders  *services.OrderService
	log     logrus.FieldLogger
}

func NewAPIHandler(r *render.Render, catalog *services.CatalogService, orders *services.OrderService, log logrus.FieldLogger) *APIHandler {
	return &APIHandler{render: r, catalog: catalog, orders: orders, log: log.WithField("module", "APIHandler")}
}

type ProductJSON struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Description string  `json:"description"`
}

type CreateOrderResponse struct {
	Status     string   `json:"status"`
	OrderID    string   `json:"order_id"`
	OutOfStock []string `json:"out_of_stock"`
}

func (h *APIHandler) writeError(w http.ResponseWriter, status int, message string) {
	_ = h.render.JSON(w, status, map[string]string{"error": message})
}

func (h *APIHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.log.WithError(err).Error("ListProducts: failed to load products")
		h.writeError(w, http.StatusInternalServerError, Message(err))
		return
	}

	out := make([]ProductJSON, 0, len(products))
	for _, p := range products {
		out = append(out, ProductJSON{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price.InexactFloat64(),
			Stock:       p.Stock,
			Description: p.Description,
		})
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"products": out})
}

func (h *APIHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req services.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	req.Actor = "api"

	result, err := h.orders.CreateOrder(r.Context(), req)
	if err != nil {
		status := StatusFor(err)
		if status == http.StatusInternalServerError {
			h.log.WithError(err).Error("CreateOrder: failed to create order")
		}
		h.writeError(w, status, Message(err))
		return
	}

	outOfStock := result.OutOfStock
	if outOfStock == nil {
		outOfStock = []string{}
	}
	_ = h.render.JSON(w, http.StatusOK, CreateOrderResponse{
		Status:     "ok",
		OrderID:    result.Order.ID,
		OutOfStock: outOfStock,
	})
}
