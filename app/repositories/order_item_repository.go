package repositories

import (
	"context"

	"github.com/Rakhulsr/mini-pos/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderItemRepository interface {
	BulkCreate(ctx context.Context, db *gorm.DB, items []models.OrderItem) error
	DeleteByOrderID(ctx context.Context, db *gorm.DB, orderID string) error
}

type OrderItemRepositoryImpl struct {
	DB *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &OrderItemRepositoryImpl{DB: db}
}

func (r *OrderItemRepositoryImpl) BulkCreate(ctx context.Context, db *gorm.DB, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Omit(clause.Associations).Create(&items).Error
}

func (r *OrderItemRepositoryImpl) DeleteByOrderID(ctx context.Context, db *gorm.DB, orderID string) error {
	return db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error
}
