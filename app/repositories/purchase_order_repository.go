package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rakhulsr/mini-pos/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseOrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, po *models.PurchaseOrder) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.PurchaseOrder, error)
	GetAll(ctx context.Context, query string) ([]models.PurchaseOrder, error)
	ExistsOrderNumber(ctx context.Context, tx *gorm.DB, orderNumber, exceptID string) (bool, error)
	ReplaceItems(ctx context.Context, tx *gorm.DB, po *models.PurchaseOrder) error
	UpdateHeader(ctx context.Context, tx *gorm.DB, po *models.PurchaseOrder) error
	TransitionStatus(ctx context.Context, tx *gorm.DB, id, from, to string, receivedAt *time.Time) (bool, error)
	Delete(ctx context.Context, id string) error
}

type gormPurchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &gormPurchaseOrderRepository{db: db}
}

func (r *gormPurchaseOrderRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *gormPurchaseOrderRepository) Create(ctx context.Context, tx *gorm.DB, po *models.PurchaseOrder) error {
	items := po.Items
	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(po).Error; err != nil {
		return fmt.Errorf("failed to create purchase order: %w", err)
	}
	for i := range items {
		items[i].PurchaseOrderID = po.ID
	}
	if len(items) > 0 {
		if err := tx.WithContext(ctx).Omit(clause.Associations).Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create purchase order items: %w", err)
		}
	}
	po.Items = items
	return nil
}

func (r *gormPurchaseOrderRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := r.conn(tx).WithContext(ctx).
		Preload("Supplier").
		Preload("Items").
		Preload("Items.Product").
		First(&po, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &po, nil
}

func (r *gormPurchaseOrderRepository) GetAll(ctx context.Context, query string) ([]models.PurchaseOrder, error) {
	var orders []models.PurchaseOrder
	db := r.db.WithContext(ctx).
		Preload("Supplier").
		Order("purchase_orders.order_date DESC")
	if strings.TrimSpace(query) != "" {
		pattern := likePattern(query)
		db = db.Joins("JOIN suppliers ON suppliers.id = purchase_orders.supplier_id").
			Where("LOWER(purchase_orders.order_number) LIKE ? ESCAPE '!' OR LOWER(suppliers.name) LIKE ? ESCAPE '!'", pattern, pattern)
	}
	if err := db.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *gormPurchaseOrderRepository) ExistsOrderNumber(ctx context.Context, tx *gorm.DB, orderNumber, exceptID string) (bool, error) {
	var count int64
	db := r.conn(tx).WithContext(ctx).Model(&models.PurchaseOrder{}).Where("order_number = ?", orderNumber)
	if exceptID != "" {
		db = db.Where("id <> ?", exceptID)
	}
	if err := db.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormPurchaseOrderRepository) ReplaceItems(ctx context.Context, tx *gorm.DB, po *models.PurchaseOrder) error {
	if err := tx.WithContext(ctx).Where("purchase_order_id = ?", po.ID).Delete(&models.PurchaseOrderItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear purchase order items: %w", err)
	}
	for i := range po.Items {
		po.Items[i].ID = ""
		po.Items[i].PurchaseOrderID = po.ID
	}
	if len(po.Items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Omit(clause.Associations).Create(&po.Items).Error
}

func (r *gormPurchaseOrderRepository) UpdateHeader(ctx context.Context, tx *gorm.DB, po *models.PurchaseOrder) error {
	return tx.WithContext(ctx).Model(&models.PurchaseOrder{}).Where("id = ?", po.ID).Updates(map[string]interface{}{
		"supplier_id":  po.SupplierID,
		"order_number": po.OrderNumber,
		"notes":        po.Notes,
		"total_amount": po.TotalAmount,
		"updated_at":   time.Now(),
	}).Error
}

// TransitionStatus moves a purchase order from one status to another only if
// it is still in the expected status. It reports whether a row changed.
func (r *gormPurchaseOrderRepository) TransitionStatus(ctx context.Context, tx *gorm.DB, id, from, to string, receivedAt *time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	if receivedAt != nil {
		updates["received_date"] = *receivedAt
	}
	result := r.conn(tx).WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *gormPurchaseOrderRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_order_id = ?", id).Delete(&models.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.PurchaseOrder{}, "id = ?", id).Error
	})
}
