package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Rakhulsr/mini-pos/app/models"
	"gorm.io/gorm"
)

type ProductRepositoryImpl interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) (map[string]*models.Product, error)
	GetAll(ctx context.Context, query string) ([]models.Product, error)
	GetLowStock(ctx context.Context, threshold, limit int) ([]models.Product, error)
	CountLowStock(ctx context.Context, threshold int) (int64, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	DecrementStock(ctx context.Context, tx *gorm.DB, id string, qty int) (bool, error)
	IncrementStock(ctx context.Context, tx *gorm.DB, id string, qty int) error
	AdjustStock(ctx context.Context, id string, delta int) (bool, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Omit("Category").Create(product).Error
}

func (p *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := p.db.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetByIDs loads the given products inside tx, keyed by id. Missing ids are
// simply absent from the map.
func (p *productRepository) GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) (map[string]*models.Product, error) {
	if tx == nil {
		tx = p.db
	}
	var products []models.Product
	if err := tx.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}

func (p *productRepository) GetAll(ctx context.Context, query string) ([]models.Product, error) {
	var products []models.Product
	db := p.db.WithContext(ctx).Preload("Category").Order("created_at DESC")
	if strings.TrimSpace(query) != "" {
		db = db.Where("LOWER(name) LIKE ? ESCAPE '!'", likePattern(query))
	}
	if err := db.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (p *productRepository) GetLowStock(ctx context.Context, threshold, limit int) ([]models.Product, error) {
	var products []models.Product
	db := p.db.WithContext(ctx).
		Preload("Category").
		Where("stock < ?", threshold).
		Order("stock ASC").
		Order("name ASC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	if err := db.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (p *productRepository) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).Model(&models.Product{}).Where("stock < ?", threshold).Count(&count).Error
	return count, err
}

// Update writes the catalog columns only. Stock moves through the guarded
// stock methods so a stale edit cannot overwrite sales or receipts.
func (p *productRepository) Update(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":        product.Name,
			"category_id": product.CategoryID,
			"price":       product.Price,
			"image_url":   product.ImageURL,
			"description": product.Description,
		}).Error
}

// Delete refuses to remove a product that appears on any sales or purchase line.
func (p *productRepository) Delete(ctx context.Context, id string) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sold, purchased int64
		if err := tx.Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&sold).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.PurchaseOrderItem{}).Where("product_id = ?", id).Count(&purchased).Error; err != nil {
			return err
		}
		if sold > 0 || purchased > 0 {
			return fmt.Errorf("%w: product is used by %d order item(s) and %d purchase order item(s)", ErrReferenced, sold, purchased)
		}
		return tx.Delete(&models.Product{}, "id = ?", id).Error
	})
}

func (p *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

// DecrementStock subtracts qty only while enough stock remains. It reports
// false when the guard failed, i.e. another sale got there first.
func (p *productRepository) DecrementStock(ctx context.Context, tx *gorm.DB, id string, qty int) (bool, error) {
	result := tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return false, fmt.Errorf("failed to decrement stock for product %s: %w", id, result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (p *productRepository) IncrementStock(ctx context.Context, tx *gorm.DB, id string, qty int) error {
	result := tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if result.Error != nil {
		return fmt.Errorf("failed to increment stock for product %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to increment stock: product %s no longer exists", id)
	}
	return nil
}

// AdjustStock applies a manual correction relative to the current stock. It
// reports false when the result would drop below zero.
func (p *productRepository) AdjustStock(ctx context.Context, id string, delta int) (bool, error) {
	result := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return false, fmt.Errorf("failed to adjust stock for product %s: %w", id, result.Error)
	}
	return result.RowsAffected == 1, nil
}
