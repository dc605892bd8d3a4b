package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Rakhulsr/mini-pos/app/models"
	"github.com/Rakhulsr/mini-pos/app/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type CategoryInput struct {
	Name        string `validate:"required,max=100"`
	Description string
}

type ProductInput struct {
	Name        string `validate:"required,max=200"`
	CategoryID  string
	Price       decimal.Decimal
	Stock       int    `validate:"gte=0"`
	ImageURL    string `validate:"omitempty,url,max=500"`
	Description string
	// StockBefore is the stock the edit form was loaded with. When set, an
	// update applies only the difference to the live stock.
	StockBefore *int
}

type SupplierInput struct {
	Name          string `validate:"required,max=200"`
	ContactPerson string `validate:"max=100"`
	Phone         string `validate:"max=20,phone"`
	Email         string `validate:"omitempty,email,max=100"`
	Address       string
}

type CustomerInput struct {
	Name    string `validate:"required,max=200"`
	Phone   string `validate:"max=20,phone"`
	Address string
}

// CatalogService covers categories, products, suppliers and customers.
type CatalogService struct {
	categoryRepo repositories.CategoryRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
	supplierRepo repositories.SupplierRepositoryImpl
	customerRepo repositories.CustomerRepositoryImpl
	validator    *validator.Validate
	log          logrus.FieldLogger
}

func NewCatalogService(
	categoryRepo repositories.CategoryRepositoryImpl,
	productRepo repositories.ProductRepositoryImpl,
	supplierRepo repositories.SupplierRepositoryImpl,
	customerRepo repositories.CustomerRepositoryImpl,
	validator *validator.Validate,
	log logrus.FieldLogger,
) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		customerRepo: customerRepo,
		validator:    validator,
		log:          log.WithField("module", "CatalogService"),
	}
}

func (s *CatalogService) check(input interface{}) error {
	if err := s.validator.Struct(input); err != nil {
		return fromValidator(err)
	}
	return nil
}

func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrReferenced), errors.Is(err, repositories.ErrDuplicate):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	default:
		return err
	}
}

// Categories

func (s *CatalogService) ListCategories(ctx context.Context, query string) ([]models.Category, error) {
	return s.categoryRepo.GetAll(ctx, query)
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("%w: category %s", ErrNotFound, id)
	}
	return category, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := s.check(&input); err != nil {
		return nil, err
	}
	category := &models.Category{Name: input.Name, Description: input.Description}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, mapRepoError(err)
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, input CategoryInput) (*models.Category, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := s.check(&input); err != nil {
		return nil, err
	}
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = input.Name
	category.Description = input.Description
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, mapRepoError(err)
	}
	return category, nil
}

// DeleteCategory keeps the products and leaves them uncategorized.
func (s *CatalogService) DeleteCategory(ctx context.Context, id, actor string) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}
	s.log.WithFields(logrus.Fields{"funcName": "DeleteCategory", "category_id": id, "actor": actor}).Info("DeleteCategory: category deleted")
	return nil
}

// Products

func (s *CatalogService) ListProducts(ctx context.Context, query string) ([]models.Product, error) {
	return s.productRepo.GetAll(ctx, query)
}

func (s *CatalogService) LowStockProducts(ctx context.Context) ([]models.Product, error) {
	return s.productRepo.GetLowStock(ctx, models.LowStockThreshold, 0)
}

func (s *CatalogService) CountLowStock(ctx context.Context) (int64, error) {
	return s.productRepo.CountLowStock(ctx, models.LowStockThreshold)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	return product, nil
}

func (s *CatalogService) productCategory(ctx context.Context, categoryID string) (*string, error) {
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return nil, nil
	}
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, newValidationError("categoryid", "Kategori tidak ditemukan.")
	}
	return &category.ID, nil
}

func (s *CatalogService) checkProduct(input *ProductInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.ImageURL = strings.TrimSpace(input.ImageURL)
	if err := s.check(input); err != nil {
		return err
	}
	if input.Price.IsNegative() {
		return newValidationError("price", "Harga tidak boleh negatif.")
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := s.checkProduct(&input); err != nil {
		return nil, err
	}
	categoryID, err := s.productCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	product := &models.Product{
		Name:        input.Name,
		CategoryID:  categoryID,
		Price:       input.Price.Round(2),
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		Description: input.Description,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct edits catalog data. A changed stock value is an
// administrative correction: only the difference from StockBefore (or from
// the current stock when unset) is applied, and it is logged.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input ProductInput, actor string) (*models.Product, error) {
	if err := s.checkProduct(&input); err != nil {
		return nil, err
	}
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	categoryID, err := s.productCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	delta := input.Stock - product.Stock
	if input.StockBefore != nil {
		delta = input.Stock - *input.StockBefore
	}
	if delta != 0 {
		ok, err := s.productRepo.AdjustStock(ctx, id, delta)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, newValidationError("stock", "Stok berubah sejak formulir dibuka; koreksi ini akan membuat stok negatif.")
		}
		s.log.WithFields(logrus.Fields{
			"funcName":   "UpdateProduct",
			"product_id": id,
			"actor":      actor,
			"from":       product.Stock,
			"to":         product.Stock + delta,
		}).Info("UpdateProduct: stock corrected manually")
	}

	product.Name = input.Name
	product.CategoryID = categoryID
	product.Category = nil
	product.Price = input.Price.Round(2)
	product.ImageURL = input.ImageURL
	product.Description = input.Description
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, id)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id, actor string) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}
	s.log.WithFields(logrus.Fields{"funcName": "DeleteProduct", "product_id": id, "actor": actor}).Info("DeleteProduct: product deleted")
	return nil
}

// Suppliers

func (s *CatalogService) ListSuppliers(ctx context.Context, query string) ([]models.Supplier, error) {
	return s.supplierRepo.GetAll(ctx, query)
}

func (s *CatalogService) GetSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: supplier %s", ErrNotFound, id)
	}
	return supplier, nil
}

func trimSupplier(input *SupplierInput) {
	input.Name = strings.TrimSpace(input.Name)
	input.ContactPerson = strings.TrimSpace(input.ContactPerson)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Email = strings.TrimSpace(input.Email)
}

func (s *CatalogService) CreateSupplier(ctx context.Context, input SupplierInput) (*models.Supplier, error) {
	trimSupplier(&input)
	if err := s.check(&input); err != nil {
		return nil, err
	}
	supplier := &models.Supplier{
		Name:          input.Name,
		ContactPerson: input.ContactPerson,
		Phone:         input.Phone,
		Email:         input.Email,
		Address:       input.Address,
	}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *CatalogService) UpdateSupplier(ctx context.Context, id string, input SupplierInput) (*models.Supplier, error) {
	trimSupplier(&input)
	if err := s.check(&input); err != nil {
		return nil, err
	}
	supplier, err := s.GetSupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	supplier.Name = input.Name
	supplier.ContactPerson = input.ContactPerson
	supplier.Phone = input.Phone
	supplier.Email = input.Email
	supplier.Address = input.Address
	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *CatalogService) DeleteSupplier(ctx context.Context, id, actor string) error {
	if _, err := s.GetSupplier(ctx, id); err != nil {
		return err
	}
	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}
	s.log.WithFields(logrus.Fields{"funcName": "DeleteSupplier", "supplier_id": id, "actor": actor}).Info("DeleteSupplier: supplier deleted")
	return nil
}

// Customers

func (s *CatalogService) ListCustomers(ctx context.Context, query string) ([]models.Customer, error) {
	return s.customerRepo.GetAll(ctx, query)
}

func (s *CatalogService) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: customer %s", ErrNotFound, id)
	}
	return customer, nil
}

func (s *CatalogService) CreateCustomer(ctx context.Context, input CustomerInput) (*models.Customer, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	if err := s.check(&input); err != nil {
		return nil, err
	}
	customer := &models.Customer{Name: input.Name, Phone: input.Phone, Address: input.Address}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CatalogService) UpdateCustomer(ctx context.Context, id string, input CustomerInput) (*models.Customer, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	if err := s.check(&input); err != nil {
		return nil, err
	}
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	customer.Name = input.Name
	customer.Phone = input.Phone
	customer.Address = input.Address
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer also deletes the customer's orders.
func (s *CatalogService) DeleteCustomer(ctx context.Context, id, actor string) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"funcName": "DeleteCustomer", "customer_id": id, "actor": actor}).Info("DeleteCustomer: customer and orders deleted")
	return nil
}
