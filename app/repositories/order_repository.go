package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rakhulsr/mini-pos/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetAll(ctx context.Context, query string) ([]models.Order, error)
	GetRecent(ctx context.Context, limit int) ([]models.Order, error)
	FindBetween(ctx context.Context, from, to *time.Time) ([]models.Order, error)
	FirstOrderDate(ctx context.Context) (*time.Time, error)
	UpdateCustomer(ctx context.Context, tx *gorm.DB, id, customerID string, total decimal.Decimal) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
}

type gormOrderRepository struct {
	db        *gorm.DB
	itemsRepo OrderItemRepository
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db, itemsRepo: NewOrderItemRepository(db)}
}

// Create inserts the header and its items inside tx.
func (r *gormOrderRepository) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	items := order.OrderItems
	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := r.itemsRepo.BulkCreate(ctx, tx, items); err != nil {
		return fmt.Errorf("failed to create order items: %w", err)
	}
	order.OrderItems = items
	return nil
}

func (r *gormOrderRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Customer").
		Preload("OrderItems").
		Preload("OrderItems.Product").
		Preload("OrderItems.Product.Category")
}

func (r *gormOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order

	err := r.withRelations(ctx).First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order with relations: %w", err)
	}
	return &order, nil
}

func (r *gormOrderRepository) GetAll(ctx context.Context, query string) ([]models.Order, error) {
	var orders []models.Order

	db := r.db.WithContext(ctx).Preload("Customer").Order("orders.created_at DESC")
	if strings.TrimSpace(query) != "" {
		db = db.Joins("JOIN customers ON customers.id = orders.customer_id").
			Where("LOWER(customers.name) LIKE ? ESCAPE '!'", likePattern(query))
	}
	if err := db.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *gormOrderRepository) GetRecent(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

// FindBetween loads orders with created_at in [from, to); a nil bound is open.
// Results are ordered newest first.
func (r *gormOrderRepository) FindBetween(ctx context.Context, from, to *time.Time) ([]models.Order, error) {
	var orders []models.Order

	db := r.withRelations(ctx).Order("created_at DESC")
	if from != nil {
		db = db.Where("created_at >= ?", from.In(time.Local))
	}
	if to != nil {
		db = db.Where("created_at < ?", to.In(time.Local))
	}
	if err := db.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return orders, nil
}

func (r *gormOrderRepository) FirstOrderDate(ctx context.Context) (*time.Time, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Order("created_at ASC").First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order.CreatedAt, nil
}

func (r *gormOrderRepository) UpdateCustomer(ctx context.Context, tx *gorm.DB, id, customerID string, total decimal.Decimal) error {
	result := tx.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"customer_id": customerID,
		"total_price": total,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the order and its lines. Stock is left untouched.
func (r *gormOrderRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.itemsRepo.DeleteByOrderID(ctx, tx, id); err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, "id = ?", id).Error
	})
}

func (r *gormOrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}

func (r *gormOrderRepository) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var totals []decimal.Decimal
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Pluck("total_price", &totals).Error; err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t)
	}
	return sum, nil
}
