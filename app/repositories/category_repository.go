package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Rakhulsr/mini-pos/app/models"
	"gorm.io/gorm"
)

type CategoryRepositoryImpl interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	GetOrCreateByName(ctx context.Context, name string) (*models.Category, error)
	GetAll(ctx context.Context, query string) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepositoryImpl {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	existing, err := r.GetByName(ctx, category.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: category '%s'", ErrDuplicate, category.Name)
	}
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, "LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetOrCreateByName(ctx context.Context, name string) (*models.Category, error) {
	category, err := r.GetByName(ctx, name)
	if err != nil || category != nil {
		return category, err
	}
	category = &models.Category{Name: strings.TrimSpace(name)}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category %s: %w", name, err)
	}
	return category, nil
}

func (r *categoryRepository) GetAll(ctx context.Context, query string) ([]models.Category, error) {
	var categories []models.Category
	db := r.db.WithContext(ctx).Order("name ASC")
	if strings.TrimSpace(query) != "" {
		db = db.Where("LOWER(name) LIKE ? ESCAPE '!'", likePattern(query))
	}
	if err := db.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	existing, err := r.GetByName(ctx, category.Name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != category.ID {
		return fmt.Errorf("%w: category '%s'", ErrDuplicate, category.Name)
	}
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete detaches the category's products before removing it.
func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach products from category %s: %w", id, err)
		}
		return tx.Delete(&models.Category{}, "id = ?", id).Error
	})
}

func (r *categoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&count).Error
	return count, err
}
