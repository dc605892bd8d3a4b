package seeders

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/Rakhulsr/mini-pos/app/db/fakers"
	"github.com/Rakhulsr/mini-pos/app/models"
	"github.com/Rakhulsr/mini-pos/app/services"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Products  int
	Customers int
	Suppliers int
	Orders    int
}

type Result struct {
	Categories int
	Suppliers  int
	Products   int
	Customers  int
	Orders     int
}

// DBSeed fills the store with demo data. Everything goes through the
// services, so seeded orders decrement stock like real sales.
func DBSeed(ctx context.Context, catalog *services.CatalogService, orders *services.OrderService, opts Options, log logrus.FieldLogger) (*Result, error) {
	res := &Result{}

	for _, input := range fakers.CategoryFaker() {
		if _, err := catalog.CreateCategory(ctx, input); err != nil {
			if errors.Is(err, services.ErrConflict) {
				continue
			}
			return res, fmt.Errorf("seed category %s: %w", input.Name, err)
		}
		res.Categories++
	}
	categories, err := catalog.ListCategories(ctx, "")
	if err != nil {
		return res, err
	}

	for i := 0; i < opts.Suppliers; i++ {
		if _, err := catalog.CreateSupplier(ctx, fakers.SupplierFaker()); err != nil {
			return res, fmt.Errorf("seed supplier: %w", err)
		}
		res.Suppliers++
	}

	for i := 0; i < opts.Products; i++ {
		categoryID := ""
		if len(categories) > 0 {
			categoryID = categories[rand.Intn(len(categories))].ID
		}
		if _, err := catalog.CreateProduct(ctx, fakers.ProductFaker(categoryID)); err != nil {
			return res, fmt.Errorf("seed product: %w", err)
		}
		res.Products++
	}

	for i := 0; i < opts.Customers; i++ {
		if _, err := catalog.CreateCustomer(ctx, fakers.CustomerFaker()); err != nil {
			return res, fmt.Errorf("seed customer: %w", err)
		}
		res.Customers++
	}

	if opts.Orders == 0 {
		return res, nil
	}
	customers, err := catalog.ListCustomers(ctx, "")
	if err != nil {
		return res, err
	}
	products, err := catalog.ListProducts(ctx, "")
	if err != nil {
		return res, err
	}
	if len(customers) == 0 || len(products) == 0 {
		log.WithField("funcName", "DBSeed").Warn("DBSeed: no customers or products, skipping orders")
		return res, nil
	}

	for i := 0; i < opts.Orders; i++ {
		req := fakeOrder(customers, products)
		if _, err := orders.CreateOrder(ctx, req); err != nil {
			if errors.Is(err, services.ErrInsufficientStock) {
				continue
			}
			return res, fmt.Errorf("seed order: %w", err)
		}
		res.Orders++
	}
	return res, nil
}

func fakeOrder(customers []models.Customer, products []models.Product) services.CreateOrderRequest {
	req := services.CreateOrderRequest{
		CustomerID: customers[rand.Intn(len(customers))].ID,
		Actor:      "seeder",
	}
	lines := rand.Intn(3) + 1
	for _, idx := range rand.Perm(len(products))[:min(lines, len(products))] {
		req.Items = append(req.Items, services.OrderLineRequest{
			ProductID: products[idx].ID,
			Quantity:  rand.Intn(3) + 1,
		})
	}
	return req
}
