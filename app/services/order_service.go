package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rakhulsr/mini-pos/app/models"
	"github.com/Rakhulsr/mini-pos/app/repositories"
	"github.com/Rakhulsr/mini-pos/app/utils/calc"
	"github.com/Rakhulsr/mini-pos/app/utils/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type OrderLineRequest struct {
	ProductID       string           `json:"product" validate:"required"`
	Quantity        int              `json:"quantity" validate:"gte=1"`
	DiscountPercent *decimal.Decimal `json:"discount,omitempty"`
}

type CreateOrderRequest struct {
	CustomerID string             `json:"customer" validate:"required"`
	Items      []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
	Actor      string             `json:"-"`
}

type OrderResult struct {
	Order *models.Order
	// OutOfStock names the products whose stock reached zero with this order.
	OutOfStock []string
}

type OrderService struct {
	db           *gorm.DB
	orderRepo    repositories.OrderRepository
	productRepo  repositories.ProductRepositoryImpl
	customerRepo repositories.CustomerRepositoryImpl
	validator    *validator.Validate
	log          logrus.FieldLogger
	metrics      *metrics.Metrics
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepositoryImpl,
	customerRepo repositories.CustomerRepositoryImpl,
	validator *validator.Validate,
	log logrus.FieldLogger,
	m *metrics.Metrics,
) *OrderService {
	if m == nil {
		m = metrics.New(nil)
	}
	return &OrderService{
		db:           db,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		validator:    validator,
		log:          log.WithField("module", "OrderService"),
		metrics:      m,
	}
}

var maxDiscount = decimal.NewFromInt(100)

func (s *OrderService) validate(req *CreateOrderRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return fromValidator(err)
	}
	for i, line := range req.Items {
		if line.DiscountPercent == nil {
			continue
		}
		if line.DiscountPercent.IsNegative() || line.DiscountPercent.GreaterThan(maxDiscount) {
			return newValidationError(fmt.Sprintf("items[%d].discount", i), "Diskon harus antara 0 dan 100.")
		}
		if !calc.HasCents(*line.DiscountPercent) {
			return newValidationError(fmt.Sprintf("items[%d].discount", i), "Diskon maksimal dua angka desimal.")
		}
	}
	return nil
}

// CreateOrder records a sale atomically: every line is checked against stock,
// prices are frozen from the catalog, and stock is decremented. Nothing is
// written when any line fails.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error) {
	logger := s.log.WithFields(logrus.Fields{"funcName": "CreateOrder", "actor": req.Actor, "customer_id": req.CustomerID})

	if err := s.validate(&req); err != nil {
		s.metrics.OrdersRejected.WithLabelValues("validation").Inc()
		return nil, err
	}

	customer, err := s.customerRepo.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		s.metrics.OrdersRejected.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("%w: customer %s", ErrNotFound, req.CustomerID)
	}

	// Requested quantity per product, in first-seen order, so that a product
	// listed on two lines is checked against its stock once.
	var productIDs []string
	requested := make(map[string]int)
	for _, line := range req.Items {
		if _, seen := requested[line.ProductID]; !seen {
			productIDs = append(productIDs, line.ProductID)
		}
		requested[line.ProductID] += line.Quantity
	}

	order := &models.Order{CustomerID: customer.ID}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products, err := s.productRepo.GetByIDs(ctx, tx, productIDs)
		if err != nil {
			return fmt.Errorf("failed to load products: %w", err)
		}

		var shortages []StockShortage
		for _, id := range productIDs {
			product, ok := products[id]
			if !ok {
				return fmt.Errorf("%w: product %s", ErrNotFound, id)
			}
			if product.Stock < requested[id] {
				shortages = append(shortages, StockShortage{
					ProductID:   id,
					ProductName: product.Name,
					Requested:   requested[id],
					Available:   product.Stock,
				})
			}
		}
		if len(shortages) > 0 {
			return &InsufficientStockError{Shortages: shortages}
		}

		items := make([]models.OrderItem, 0, len(req.Items))
		total := decimal.Zero
		for _, line := range req.Items {
			product := products[line.ProductID]
			discount := decimal.Zero
			if line.DiscountPercent != nil {
				discount = *line.DiscountPercent
			}
			items = append(items, models.OrderItem{
				ProductID:       product.ID,
				Quantity:        line.Quantity,
				Price:           product.Price,
				DiscountPercent: discount,
			})
			total = total.Add(calc.LineSubtotal(product.Price, line.Quantity, discount))
		}
		order.OrderItems = items
		order.TotalPrice = total.Round(2)

		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return err
		}

		for _, id := range productIDs {
			ok, err := s.productRepo.DecrementStock(ctx, tx, id, requested[id])
			if err != nil {
				return err
			}
			if !ok {
				// Stock moved between the check and the update.
				current, err := s.productRepo.GetByIDs(ctx, tx, []string{id})
				if err != nil {
					return err
				}
				available := 0
				if p, found := current[id]; found {
					available = p.Stock
				}
				return &InsufficientStockError{Shortages: []StockShortage{{
					ProductID:   id,
					ProductName: products[id].Name,
					Requested:   requested[id],
					Available:   available,
				}}}
			}
		}
		return nil
	})
	if err != nil {
		s.metrics.OrdersRejected.WithLabelValues(rejectReason(err)).Inc()
		logger.WithError(err).Warn("CreateOrder: order rejected")
		return nil, err
	}

	s.metrics.OrdersCreated.Inc()
	s.metrics.OrderRevenue.Add(order.TotalPrice.InexactFloat64())

	result := &OrderResult{Order: order}
	after, err := s.productRepo.GetByIDs(ctx, nil, productIDs)
	if err != nil {
		logger.WithError(err).Error("CreateOrder: failed to reload products after commit")
	} else {
		for _, id := range productIDs {
			if p, ok := after[id]; ok && p.Stock == 0 {
				result.OutOfStock = append(result.OutOfStock, p.Name)
			}
		}
	}

	order.Customer = *customer
	logger.WithFields(logrus.Fields{"order_id": order.ID, "total": order.TotalPrice.String(), "lines": len(order.OrderItems)}).Info("CreateOrder: order created")
	return result, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "error"
	}
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, query string) ([]models.Order, error) {
	return s.orderRepo.GetAll(ctx, query)
}

// UpdateOrderCustomer reassigns the order to another customer. Lines are
// immutable once sold; the stored total is recomputed from them.
func (s *OrderService) UpdateOrderCustomer(ctx context.Context, id, customerID, actor string) (*models.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if customerID == "" {
		return nil, newValidationError("customer", "Pelanggan wajib diisi.")
	}
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: customer %s", ErrNotFound, customerID)
	}

	total := order.ComputeTotal()
	if err := s.orderRepo.UpdateCustomer(ctx, s.db, id, customerID, total); err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", id, err)
	}
	order.CustomerID = customerID
	order.Customer = *customer
	order.TotalPrice = total

	s.log.WithFields(logrus.Fields{"funcName": "UpdateOrderCustomer", "order_id": id, "actor": actor}).Info("UpdateOrderCustomer: order updated")
	return order, nil
}

// DeleteOrder removes an order and its lines. Stock is not restored.
func (s *OrderService) DeleteOrder(ctx context.Context, id, actor string) error {
	if _, err := s.GetOrder(ctx, id); err != nil {
		return err
	}
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}
	s.log.WithFields(logrus.Fields{"funcName": "DeleteOrder", "order_id": id, "actor": actor}).Info("DeleteOrder: order deleted")
	return nil
}
