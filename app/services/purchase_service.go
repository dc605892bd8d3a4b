package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rakhulsr/mini-pos/app/models"
	"github.com/Rakhulsr/mini-pos/app/repositories"
	"github.com/Rakhulsr/mini-pos/app/utils/calc"
	"github.com/Rakhulsr/mini-pos/app/utils/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type PurchaseLineRequest struct {
	ProductID string          `json:"product" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gte=1"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type PurchaseOrderRequest struct {
	SupplierID  string                `json:"supplier" validate:"required"`
	OrderNumber string                `json:"order_number" validate:"required,max=50"`
	Notes       string                `json:"notes"`
	Items       []PurchaseLineRequest `json:"items" validate:"required,min=1,dive"`
	Actor       string                `json:"-"`
}

type PurchaseService struct {
	db           *gorm.DB
	poRepo       repositories.PurchaseOrderRepository
	productRepo  repositories.ProductRepositoryImpl
	supplierRepo repositories.SupplierRepositoryImpl
	validator    *validator.Validate
	log          logrus.FieldLogger
	metrics      *metrics.Metrics
}

func NewPurchaseService(
	db *gorm.DB,
	poRepo repositories.PurchaseOrderRepository,
	productRepo repositories.ProductRepositoryImpl,
	supplierRepo repositories.SupplierRepositoryImpl,
	validator *validator.Validate,
	log logrus.FieldLogger,
	m *metrics.Metrics,
) *PurchaseService {
	if m == nil {
		m = metrics.New(nil)
	}
	return &PurchaseService{
		db:           db,
		poRepo:       poRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		validator:    validator,
		log:          log.WithField("module", "PurchaseService"),
		metrics:      m,
	}
}

func (s *PurchaseService) validate(req *PurchaseOrderRequest) error {
	req.OrderNumber = strings.TrimSpace(req.OrderNumber)
	if err := s.validator.Struct(req); err != nil {
		return fromValidator(err)
	}
	for i, line := range req.Items {
		if !line.UnitPrice.IsPositive() {
			return newValidationError(fmt.Sprintf("items[%d].unit_price", i), "Harga satuan harus lebih dari 0.")
		}
		if !calc.HasCents(line.UnitPrice) {
			return newValidationError(fmt.Sprintf("items[%d].unit_price", i), "Harga satuan maksimal dua angka desimal.")
		}
	}
	return nil
}

// buildItems checks supplier and products inside tx and returns the lines.
func (s *PurchaseService) buildItems(ctx context.Context, tx *gorm.DB, req *PurchaseOrderRequest) ([]models.PurchaseOrderItem, error) {
	var supplierCount int64
	if err := tx.WithContext(ctx).Model(&models.Supplier{}).Where("id = ?", req.SupplierID).Count(&supplierCount).Error; err != nil {
		return nil, err
	}
	if supplierCount == 0 {
		return nil, fmt.Errorf("%w: supplier %s", ErrNotFound, req.SupplierID)
	}

	ids := make([]string, 0, len(req.Items))
	for _, line := range req.Items {
		ids = append(ids, line.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.PurchaseOrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		if _, ok := products[line.ProductID]; !ok {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, line.ProductID)
		}
		items = append(items, models.PurchaseOrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return items, nil
}

// CreatePurchaseOrder stores a pending purchase order with its lines.
// Stock is untouched until the order is received.
func (s *PurchaseService) CreatePurchaseOrder(ctx context.Context, req PurchaseOrderRequest) (*models.PurchaseOrder, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	po := &models.PurchaseOrder{
		SupplierID:  req.SupplierID,
		OrderNumber: req.OrderNumber,
		Notes:       req.Notes,
		Status:      models.PurchaseStatusPending,
		OrderDate:   time.Now(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.poRepo.ExistsOrderNumber(ctx, tx, req.OrderNumber, "")
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: order number %s already used", ErrConflict, req.OrderNumber)
		}

		items, err := s.buildItems(ctx, tx, &req)
		if err != nil {
			return err
		}
		po.Items = items
		po.TotalAmount = po.ComputeTotal()
		return s.poRepo.Create(ctx, tx, po)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.PurchaseOrdersTotal.WithLabelValues(models.PurchaseStatusPending).Inc()
	s.log.WithFields(logrus.Fields{"funcName": "CreatePurchaseOrder", "po_id": po.ID, "order_number": po.OrderNumber, "actor": req.Actor}).Info("CreatePurchaseOrder: purchase order created")
	return po, nil
}

// UpdatePurchaseOrder replaces header and lines of a pending purchase order.
func (s *PurchaseService) UpdatePurchaseOrder(ctx context.Context, id string, req PurchaseOrderRequest) (*models.PurchaseOrder, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	var po *models.PurchaseOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		po, err = s.poRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if po == nil {
			return fmt.Errorf("%w: purchase order %s", ErrNotFound, id)
		}
		if !po.IsPending() {
			return fmt.Errorf("%w: purchase order %s is %s", ErrInvalidState, po.OrderNumber, po.Status)
		}

		exists, err := s.poRepo.ExistsOrderNumber(ctx, tx, req.OrderNumber, id)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: order number %s already used", ErrConflict, req.OrderNumber)
		}

		items, err := s.buildItems(ctx, tx, &req)
		if err != nil {
			return err
		}
		po.SupplierID = req.SupplierID
		po.OrderNumber = req.OrderNumber
		po.Notes = req.Notes
		po.Items = items
		po.TotalAmount = po.ComputeTotal()

		if err := s.poRepo.ReplaceItems(ctx, tx, po); err != nil {
			return err
		}
		return s.poRepo.UpdateHeader(ctx, tx, po)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"funcName": "UpdatePurchaseOrder", "po_id": id, "actor": req.Actor}).Info("UpdatePurchaseOrder: purchase order updated")
	return po, nil
}

// ReceivePurchaseOrder marks a pending purchase order received and adds each
// line's quantity to stock, all in one transaction. A purchase order can be
// received only once.
func (s *PurchaseService) ReceivePurchaseOrder(ctx context.Context, id, actor string) (*models.PurchaseOrder, error) {
	logger := s.log.WithFields(logrus.Fields{"funcName": "ReceivePurchaseOrder", "po_id": id, "actor": actor})

	var po *models.PurchaseOrder
	units := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		po, err = s.poRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if po == nil {
			return fmt.Errorf("%w: purchase order %s", ErrNotFound, id)
		}

		now := time.Now()
		changed, err := s.poRepo.TransitionStatus(ctx, tx, id, models.PurchaseStatusPending, models.PurchaseStatusReceived, &now)
		if err != nil {
			return err
		}
		if !changed {
			return fmt.Errorf("%w: purchase order %s is %s, only pending orders can be received", ErrInvalidState, po.OrderNumber, po.Status)
		}

		for _, item := range po.Items {
			if err := s.productRepo.IncrementStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
			units += item.Quantity
		}
		po.Status = models.PurchaseStatusReceived
		po.ReceivedDate = &now
		return nil
	})
	if err != nil {
		logger.WithError(err).Warn("ReceivePurchaseOrder: receive failed")
		return nil, err
	}

	s.metrics.PurchaseOrdersTotal.WithLabelValues(models.PurchaseStatusReceived).Inc()
	s.metrics.UnitsReceived.Add(float64(units))
	logger.WithField("units", units).Info("ReceivePurchaseOrder: stock received")
	return po, nil
}

func (s *PurchaseService) CancelPurchaseOrder(ctx context.Context, id, actor string) error {
	po, err := s.GetPurchaseOrder(ctx, id)
	if err != nil {
		return err
	}
	changed, err := s.poRepo.TransitionStatus(ctx, nil, id, models.PurchaseStatusPending, models.PurchaseStatusCancelled, nil)
	if err != nil {
		return err
	}
	if !changed {
		return fmt.Errorf("%w: purchase order %s is %s, only pending orders can be cancelled", ErrInvalidState, po.OrderNumber, po.Status)
	}
	s.metrics.PurchaseOrdersTotal.WithLabelValues(models.PurchaseStatusCancelled).Inc()
	s.log.WithFields(logrus.Fields{"funcName": "CancelPurchaseOrder", "po_id": id, "actor": actor}).Info("CancelPurchaseOrder: purchase order cancelled")
	return nil
}

func (s *PurchaseService) DeletePurchaseOrder(ctx context.Context, id, actor string) error {
	if _, err := s.GetPurchaseOrder(ctx, id); err != nil {
		return err
	}
	if err := s.poRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete purchase order %s: %w", id, err)
	}
	s.log.WithFields(logrus.Fields{"funcName": "DeletePurchaseOrder", "po_id": id, "actor": actor}).Info("DeletePurchaseOrder: purchase order deleted")
	return nil
}

func (s *PurchaseService) GetPurchaseOrder(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	po, err := s.poRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, fmt.Errorf("%w: purchase order %s", ErrNotFound, id)
	}
	return po, nil
}

func (s *PurchaseService) ListPurchaseOrders(ctx context.Context, query string) ([]models.PurchaseOrder, error) {
	return s.poRepo.GetAll(ctx, query)
}
