package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Rakhulsr/mini-pos/app/db/dbtest"
	"github.com/Rakhulsr/mini-pos/app/helpers"
	"github.com/Rakhulsr/mini-pos/app/models"
	"github.com/Rakhulsr/mini-pos/app/repositories"
	"github.com/Rakhulsr/mini-pos/app/utils/metrics"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	products  repositories.ProductRepositoryImpl
	orders    repositories.OrderRepository
	pos       repositories.PurchaseOrderRepository
	catalog   *CatalogService
	orderSvc  *OrderService
	purchases *PurchaseService
	reports   *ReportService
	imports   *ImportService
	logs      *test.Hook
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := dbtest.New(t)
	log, hook := test.NewNullLogger()
	v := helpers.NewValidator("ID")
	m := metrics.New(nil)

	categories := repositories.NewCategoryRepository(db)
	products := repositories.NewProductRepository(db)
	suppliers := repositories.NewSupplierRepository(db)
	customers := repositories.NewCustomerRepository(db)
	orders := repositories.NewOrderRepository(db)
	pos := repositories.NewPurchaseOrderRepository(db)

	catalog := NewCatalogService(categories, products, suppliers, customers, v, log)
	return &testEnv{
		db:        db,
		products:  products,
		orders:    orders,
		pos:       pos,
		catalog:   catalog,
		orderSvc:  NewOrderService(db, orders, products, customers, v, log, m),
		purchases: NewPurchaseService(db, pos, products, suppliers, v, log, m),
		reports:   NewReportService(orders, products, customers, time.UTC, log),
		imports:   NewImportService(catalog, categories, log),
		logs:      hook,
	}
}

func (e *testEnv) product(t *testing.T, name string, price int64, stock int) *models.Product {
	t.Helper()
	p, err := e.catalog.CreateProduct(context.Background(), ProductInput{Name: name, Price: decimal.NewFromInt(price), Stock: stock})
	require.NoError(t, err)
	return p
}

func (e *testEnv) customer(t *testing.T, name string) *models.Customer {
	t.Helper()
	c, err := e.catalog.CreateCustomer(context.Background(), CustomerInput{Name: name})
	require.NoError(t, err)
	return c
}

func (e *testEnv) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := e.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func (e *testEnv) orderCount(t *testing.T) int64 {
	t.Helper()
	n, err := e.orders.Count(context.Background())
	require.NoError(t, err)
	return n
}

func pct(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func dec(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestCreateOrderTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.product(t, "Nasi Goreng", 10000, 10)
	b := env.product(t, "Es Teh", 5000, 10)
	c := env.customer(t, "Budi")

	res, err := env.orderSvc.CreateOrder(ctx, CreateOrderRequest{
		CustomerID: c.ID,
		Items: []OrderLineRequest{
			{ProductID: a.ID, Quantity: 2, DiscountPercent: pct(10)},
			{ProductID: b.ID, Quantity: 1},
		},
		Actor: "kasir",
	})
	require.NoError(t, err)
	assert.True(t, res.Order.TotalPrice.Equal(decimal.NewFromInt(23000)), "total %s", res.Order.TotalPrice)
	assert.Empty(t, res.OutOfStock)

	assert.Equal(t, 8, env.stock(t, a.ID))
	assert.Equal(t, 9, env.stock(t, b.ID))

	stored, err := env.orderSvc.GetOrder(ctx, res.Order.ID)
	require.NoError(t, err)
	require.Len(t, stored.OrderItems, 2)
	assert.True(t, stored.TotalPrice.Equal(decimal.NewFromInt(23000)))
	assert.Equal(t, "Budi", stored.Customer.Name)
}

func TestCreateOrderPriceIsSnapshot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "Roti", 8000, 10)
	c := env.customer(t, "Sari")

	res, err := env.orderSvc.CreateOrder(ctx, CreateOrderRequest{CustomerID: c.ID, Items: []OrderLineRequest{{ProductID: p.ID, Quantity: 1}}})
	require.NoError(t, err)

	_, err = env.catalog.UpdateProduct(ctx, p.ID, ProductInput{Name: "Roti", Price: decimal.NewFromInt(9500), Stock: 9}, "admin")
	require.NoError(t, err)

	stored, err := env.orderSvc.GetOrder(ctx, res.Order.ID)
	require.NoError(t, err)
	assert.True(t, stored.OrderItems[0].Price.Equal(decimal.NewFromInt(8000)))
	assert.True(t, stored.TotalPrice.Equal(decimal.NewFromInt(8000)))
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	short := env.product(t, "Kopi", 15000, 3)
	fine := env.product(t, "Gula", 2000, 10)
	c := env.customer(t, "Andi")

	_, err := env.orderSvc.CreateOrder(ctx, CreateOrderRequest{
		CustomerID: c.ID,
		Items: []OrderLineRequest{
			{ProductID: fine.ID, Quantity: 2},
			{ProductID: short.ID, Quantity: 5},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientStock))

	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	require.Len(t, stockErr.Shortages, 1)
	assert.Equal(t, "Kopi", stockErr.Shortages[0].ProductName)
	assert.Equal(t, 2, stockErr.Shortages[0].Short())
	assert.Equal(t, "Stok tidak cukup untuk produk 'Kopi'. Diminta 5, tersedia 3.", stockErr.Messages()[0])

	assert.Equal(t, 3, env.stock(t, short.ID))
	assert.Equal(t, 10, env.stock(t, fine.ID))
	assert.Equal(t, int64(0), env.orderCount(t))
}

func TestCreateOrderReportsEveryShortage(t *testing.T) {
	env := newTestEnv(t)
	a := env.product(t, "A", 1000, 1)
	b := env.product(t, "B", 1000, 0)
	c := env.customer(t, "Dewi")

	_, err := env.orderSvc.CreateOrder(context.Background(), CreateOrderRequest{
		CustomerID: c.ID,
		Items:      []OrderLineRequest{{ProductID: a.ID, Quantity: 2}, {ProductID: b.ID, Quantity: 1}},
	})
	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Len(t, stockErr.Shortages, 2)
}

func TestCreateOrderExhaustsStock(t *testing.T) {
	env := newTestEnv(t)
	p := env.product(t, "Donat", 6000, 5)
	c := env.customer(t, "Rina")

	res, err := env.orderSvc.CreateOrder(context.Background(), CreateOrderRequest{
		CustomerID: c.ID,
		Items:      []OrderLineRequest{{ProductID: p.ID, Quantity: 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, env.stock(t, p.ID))
	assert.Equal(t, []string{"Donat"}, res.OutOfStock)
}

func TestCreateOrderAggregatesRepeatedProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "Air Mineral", 3000, 4)
	c := env.customer(t, "Tono")

	_, err := env.orderSvc.CreateOrder(ctx, CreateOrderRequest{
		CustomerID: c.ID,
		Items:      []OrderLineRequest{{ProductID: p.ID, Quantity: 3}, {ProductID: p.ID, Quantity: 2}},
	})
	require.True(t, errors.Is(err, ErrInsufficientStock))
	assert.Equal(t, 4, env.stock(t, p.ID))

	res, err := env.orderSvc.CreateOrder(ctx, CreateOrderRequest{
		CustomerID: c.ID,
		Items:      []OrderLineRequest{{ProductID: p.ID, Quantity: 2}, {ProductID: p.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Len(t, res.Order.OrderItems, 2)
	assert.Equal(t, 0, env.stock(t, p.ID))
}

func TestCreateOrderValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "Mie", 4000, 10)
	c := env.customer(t, "Eka")

	cases := map[string]CreateOrderRequest{
		"no items":          {CustomerID: c.ID},
		"zero quantity":     {CustomerID: c.ID, Items: []OrderLineRequest{{ProductID: p.ID, Quantity: 0}}},
		"no customer":       {Items: []OrderLineRequest{{ProductID: p.ID, Quantity: 1}}},
		"discount > 100":    {CustomerID: c.ID, Items: []OrderLineRequest{{ProductID: p.ID, Quantity: 1, DiscountPercent: pct(150)}}},
		"negative discount": {CustomerID: c.ID, Items: []OrderLineRequest{{ProductID: p.ID, Quantity: 1, DiscountPercent: pct(-5)}}},
		"discount scale":    {CustomerID: c.ID, Items: []OrderLineRequest{{ProductID: p.ID, Quantity: 1, DiscountPercent: dec("33.333")}}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := env.orderSvc.CreateOrder(ctx, req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation), "got %v", err)
		})
	}
	assert.Equal(t, 10, env.stock(t, p.ID))

	_, err := env.orderSvc.CreateOrder(ctx, CreateOrderRequest{CustomerID: "missing", Items: []OrderLineRequest{{ProductID: p.ID, Quantity: 1}}})
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = env.orderSvc.CreateOrder(ctx, CreateOrderRequest{CustomerID: c.ID, Items: []OrderLineRequest{{ProductID: "missing", Quantity: 1}}})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestTotalMatchesStoredLines(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "Kue Lapis", 10000, 5)
	c := env.customer(t, "Gita")

	res, err := env.orderSvc.CreateOrder(ctx, CreateOrderRequest{
		CustomerID: c.ID,
		Items:      []OrderLineRequest{{ProductID: p.ID, Quantity: 3, DiscountPercent: dec("33.33")}},
	})
	require.NoError(t, err)

	order, err := env.orderSvc.GetOrder(ctx, res.Order.ID)
	require.NoError(t, err)
	sum := decimal.Zero
	for _, item := range order.OrderItems {
		sum = sum.Add(item.Subtotal())
	}
	assert.Equal(t, "20001.00", order.TotalPrice.StringFixed(2))
	assert.True(t, sum.Round(2).Equal(order.TotalPrice), "lines %s total %s", sum, order.TotalPrice)
}

func TestFullDiscountIsAllowed(t *testing.T) {
	env := newTestEnv(t)
	p := env.product(t, "Sampel", 7000, 2)
	c := env.customer(t, "Fajar")

	res, err := env.orderSvc.CreateOrder(context.Background(), CreateOrderRequest{
		CustomerID: c.ID,
		Items:      []OrderLineRequest{{ProductID: p.ID, Quantity: 1, DiscountPercent: pct(100)}},
	})
	require.NoError(t, err)
	assert.True(t, res.Order.TotalPrice.IsZero())
}

func TestUpdateAndDeleteOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "Bakso", 12000, 5)
	first := env.customer(t, "Gita")
	second := env.customer(t, "Hadi")

	res, err := env.orderSvc.CreateOrder(ctx, CreateOrderRequest{CustomerID: first.ID, Items: []OrderLineRequest{{ProductID: p.ID, Quantity: 2}}})
	require.NoError(t, err)

	updated, err := env.orderSvc.UpdateOrderCustomer(ctx, res.Order.ID, second.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, second.ID, updated.CustomerID)
	assert.True(t, updated.TotalPrice.Equal(decimal.NewFromInt(24000)))

	_, err = env.orderSvc.UpdateOrderCustomer(ctx, res.Order.ID, "missing", "admin")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, env.orderSvc.DeleteOrder(ctx, res.Order.ID, "admin"))
	assert.Equal(t, int64(0), env.orderCount(t))
	assert.Equal(t, 3, env.stock(t, p.ID))

	err = env.orderSvc.DeleteOrder(ctx, res.Order.ID, "admin")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func newSupplier(t *testing.T, env *testEnv) *models.Supplier {
	t.Helper()
	s, err := env.catalog.CreateSupplier(context.Background(), SupplierInput{Name: "CV Sumber Rejeki", Email: "sales@sumber.test"})
	require.NoError(t, err)
	return s
}

func TestReceivePurchaseOrderOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "Beras", 60000, 2)
	s := newSupplier(t, env)

	po, err := env.purchases.CreatePurchaseOrder(ctx, PurchaseOrderRequest{
		SupplierID:  s.ID,
		OrderNumber: "PO-001",
		Items:       []PurchaseLineRequest{{ProductID: p.ID, Quantity: 10, UnitPrice: decimal.NewFromInt(55000)}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusPending, po.Status)
	assert.True(t, po.TotalAmount.Equal(decimal.NewFromInt(550000)))
	assert.Equal(t, 2, env.stock(t, p.ID))

	received, err := env.purchases.ReceivePurchaseOrder(ctx, po.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusReceived, received.Status)
	assert.NotNil(t, received.ReceivedDate)
	assert.Equal(t, 12, env.stock(t, p.ID))

	_, err = env.purchases.ReceivePurchaseOrder(ctx, po.ID, "admin")
	assert.True(t, errors.Is(err, ErrInvalidState), "got %v", err)
	assert.Equal(t, 12, env.stock(t, p.ID))

	_, err = env.purchases.UpdatePurchaseOrder(ctx, po.ID, PurchaseOrderRequest{
		SupplierID:  s.ID,
		OrderNumber: "PO-001",
		Items:       []PurchaseLineRequest{{ProductID: p.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
	})
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestPurchaseOrderRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "Minyak", 20000, 0)
	s := newSupplier(t, env)
	line := []PurchaseLineRequest{{ProductID: p.ID, Quantity: 3, UnitPrice: decimal.NewFromInt(18000)}}

	po, err := env.purchases.CreatePurchaseOrder(ctx, PurchaseOrderRequest{SupplierID: s.ID, OrderNumber: "PO-7", Items: line})
	require.NoError(t, err)

	_, err = env.purchases.CreatePurchaseOrder(ctx, PurchaseOrderRequest{SupplierID: s.ID, OrderNumber: "PO-7", Items: line})
	assert.True(t, errors.Is(err, ErrConflict))

	_, err = env.purchases.CreatePurchaseOrder(ctx, PurchaseOrderRequest{SupplierID: "missing", OrderNumber: "PO-8", Items: line})
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = env.purchases.CreatePurchaseOrder(ctx, PurchaseOrderRequest{
		SupplierID: s.ID, OrderNumber: "PO-9",
		Items: []PurchaseLineRequest{{ProductID: p.ID, Quantity: 1, UnitPrice: decimal.Zero}},
	})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = env.purchases.CreatePurchaseOrder(ctx, PurchaseOrderRequest{
		SupplierID: s.ID, OrderNumber: "PO-10",
		Items: []PurchaseLineRequest{{ProductID: p.ID, Quantity: 3, UnitPrice: decimal.RequireFromString("1000.005")}},
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Contains(t, verr.Fields, "items[0].unit_price")

	updated, err := env.purchases.UpdatePurchaseOrder(ctx, po.ID, PurchaseOrderRequest{
		SupplierID:  s.ID,
		OrderNumber: "PO-7A",
		Items:       []PurchaseLineRequest{{ProductID: p.ID, Quantity: 4, UnitPrice: decimal.NewFromInt(17500)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "PO-7A", updated.OrderNumber)
	assert.True(t, updated.TotalAmount.Equal(decimal.NewFromInt(70000)))

	stored, err := env.purchases.GetPurchaseOrder(ctx, po.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 4, stored.Items[0].Quantity)

	require.NoError(t, env.purchases.CancelPurchaseOrder(ctx, po.ID, "admin"))
	_, err = env.purchases.ReceivePurchaseOrder(ctx, po.ID, "admin")
	assert.True(t, errors.Is(err, ErrInvalidState))
	assert.Equal(t, 0, env.stock(t, p.ID))

	err = env.catalog.DeleteSupplier(ctx, s.ID, "admin")
	assert.True(t, errors.Is(err, ErrConflict))

	require.NoError(t, env.purchases.DeletePurchaseOrder(ctx, po.ID, "admin"))
	require.NoError(t, env.catalog.DeleteSupplier(ctx, s.ID, "admin"))
}

func TestCatalogValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.CreateProduct(ctx, ProductInput{Name: " ", Price: decimal.NewFromInt(1)})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = env.catalog.CreateProduct(ctx, ProductInput{Name: "Minus", Price: decimal.NewFromInt(-1)})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = env.catalog.CreateProduct(ctx, ProductInput{Name: "Orphan", Price: decimal.NewFromInt(1), CategoryID: "missing"})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = env.catalog.CreateCustomer(ctx, CustomerInput{Name: "Nomor Salah", Phone: "12"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "phone")

	_, err = env.catalog.CreateCustomer(ctx, CustomerInput{Name: "Nomor Benar", Phone: "+6281234567890"})
	assert.NoError(t, err)

	_, err = env.catalog.CreateSupplier(ctx, SupplierInput{Name: "Email Salah", Email: "bukan-email"})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = env.catalog.CreateCategory(ctx, CategoryInput{Name: "Makanan"})
	require.NoError(t, err)
	_, err = env.catalog.CreateCategory(ctx, CategoryInput{Name: "makanan"})
	assert.True(t, errors.Is(err, ErrConflict))
	assert.True(t, errors.Is(err, repositories.ErrDuplicate))

	_, err = env.catalog.GetProduct(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteReferencedProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "Susu", 9000, 3)
	c := env.customer(t, "Indah")
	_, err := env.orderSvc.CreateOrder(ctx, CreateOrderRequest{CustomerID: c.ID, Items: []OrderLineRequest{{ProductID: p.ID, Quantity: 1}}})
	require.NoError(t, err)

	err = env.catalog.DeleteProduct(ctx, p.ID, "admin")
	assert.True(t, errors.Is(err, ErrConflict))

	require.NoError(t, env.catalog.DeleteCustomer(ctx, c.ID, "admin"))
	assert.Equal(t, int64(0), env.orderCount(t))
	require.NoError(t, env.catalog.DeleteProduct(ctx, p.ID, "admin"))
}

func TestUpdateProductLogsStockCorrection(t *testing.T) {
	env := newTestEnv(t)
	p := env.product(t, "Sabun", 4000, 3)

	_, err := env.catalog.UpdateProduct(context.Background(), p.ID, ProductInput{Name: "Sabun", Price: decimal.NewFromInt(4000), Stock: 10}, "admin")
	require.NoError(t, err)

	var found bool
	for _, e := range env.logs.AllEntries() {
		if e.Message == "UpdateProduct: stock corrected manually" {
			found = true
			assert.Equal(t, 3, e.Data["from"])
			assert.Equal(t, 10, e.Data["to"])
		}
	}
	assert.True(t, found)
	assert.Equal(t, 10, env.stock(t, p.ID))
}

func TestStaleProductFormKeepsSales(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "Roti Tawar", 5000, 10)
	c := env.customer(t, "Hadi")
	loaded := p.Stock

	_, err := env.orderSvc.CreateOrder(ctx, CreateOrderRequest{CustomerID: c.ID, Items: []OrderLineRequest{{ProductID: p.ID, Quantity: 4}}})
	require.NoError(t, err)
	require.Equal(t, 6, env.stock(t, p.ID))

	updated, err := env.catalog.UpdateProduct(ctx, p.ID, ProductInput{
		Name: "Roti Tawar", Price: decimal.NewFromInt(6000), Stock: loaded, StockBefore: &loaded,
	}, "admin")
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Stock)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(6000)))
	assert.Equal(t, 6, env.stock(t, p.ID))

	// A correction typed into the stale form moves stock by the same amount.
	_, err = env.catalog.UpdateProduct(ctx, p.ID, ProductInput{
		Name: "Roti Tawar", Price: decimal.NewFromInt(6000), Stock: loaded + 2, StockBefore: &loaded,
	}, "admin")
	require.NoError(t, err)
	assert.Equal(t, 8, env.stock(t, p.ID))

	_, err = env.catalog.UpdateProduct(ctx, p.ID, ProductInput{
		Name: "Roti Tawar", Price: decimal.NewFromInt(6000), Stock: 0, StockBefore: &loaded,
	}, "admin")
	assert.True(t, errors.Is(err, ErrValidation), "got %v", err)
	assert.Equal(t, 8, env.stock(t, p.ID))
}

// drainingProducts empties one product's stock right before its decrement,
// inside the order transaction, like a concurrent sale landing in between.
type drainingProducts struct {
	repositories.ProductRepositoryImpl
	drainID string
}

func (d *drainingProducts) DecrementStock(ctx context.Context, tx *gorm.DB, id string, qty int) (bool, error) {
	if id == d.drainID {
		if err := tx.Model(&models.Product{}).Where("id = ?", id).UpdateColumn("stock", 0).Error; err != nil {
			return false, err
		}
	}
	return d.ProductRepositoryImpl.DecrementStock(ctx, tx, id, qty)
}

func TestCreateOrderRollsBackWhenDecrementLoses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.product(t, "Bakso", 15000, 10)
	b := env.product(t, "Es Jeruk", 6000, 10)
	c := env.customer(t, "Intan")

	log, _ := test.NewNullLogger()
	svc := NewOrderService(env.db, env.orders,
		&drainingProducts{ProductRepositoryImpl: env.products, drainID: b.ID},
		repositories.NewCustomerRepository(env.db), helpers.NewValidator("ID"), log, metrics.New(nil))

	_, err := svc.CreateOrder(ctx, CreateOrderRequest{
		CustomerID: c.ID,
		Items: []OrderLineRequest{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 3},
		},
	})
	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr), "got %v", err)
	require.Len(t, stockErr.Shortages, 1)
	assert.Equal(t, b.ID, stockErr.Shortages[0].ProductID)
	assert.Equal(t, 0, stockErr.Shortages[0].Available)

	assert.Equal(t, int64(0), env.orderCount(t))
	var items int64
	require.NoError(t, env.db.Model(&models.OrderItem{}).Count(&items).Error)
	assert.Equal(t, int64(0), items)
	assert.Equal(t, 10, env.stock(t, a.ID))
	assert.Equal(t, 10, env.stock(t, b.ID))
}

func TestSummaryEmpty(t *testing.T) {
	env := newTestEnv(t)
	for _, period := range []Period{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAll} {
		sum, err := env.reports.Summary(context.Background(), period)
		require.NoError(t, err)
		assert.True(t, sum.TotalSales.IsZero())
		assert.Equal(t, int64(0), sum.TotalOrders)
		assert.True(t, sum.AverageSales.IsZero())
	}
}

func TestReportsOverOrders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cat, err := env.catalog.CreateCategory(ctx, CategoryInput{Name: "Minuman"})
	require.NoError(t, err)
	drink, err := env.catalog.CreateProduct(ctx, ProductInput{Name: "Jus", CategoryID: cat.ID, Price: decimal.NewFromInt(10000), Stock: 20})
	require.NoError(t, err)
	loose := env.product(t, "Kerupuk", 2000, 20)
	c := env.customer(t, "Joko")

	for _, qty := range []int{1, 3} {
		_, err := env.orderSvc.CreateOrder(ctx, CreateOrderRequest{
			CustomerID: c.ID,
			Items:      []OrderLineRequest{{ProductID: drink.ID, Quantity: qty}, {ProductID: loose.ID, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	sum, err := env.reports.Summary(ctx, PeriodDaily)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sum.TotalOrders)
	assert.True(t, sum.TotalSales.Equal(decimal.NewFromInt(44000)), "sales %s", sum.TotalSales)
	assert.True(t, sum.AverageSales.Equal(decimal.NewFromInt(22000)))

	cats, err := env.reports.TopCategories(ctx, PeriodAll)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Minuman", cats[0].Name)
	assert.True(t, cats[0].Total.Equal(decimal.NewFromInt(40000)))

	top, err := env.reports.TopProducts(ctx, PeriodAll)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Jus", top[0].Name)
	assert.Equal(t, 4, top[0].Quantity)

	hourly, err := env.reports.HourlySales(ctx, PeriodAll)
	require.NoError(t, err)
	assert.Len(t, hourly, 24)

	var queries int
	require.NoError(t, env.db.Callback().Query().After("gorm:query").Register("test:count_queries", func(*gorm.DB) { queries++ }))
	_, err = env.reports.Summary(ctx, PeriodAll)
	require.NoError(t, err)
	perLoad := queries

	queries = 0
	analytics, err := env.reports.Analytics(ctx, PeriodAll)
	require.NoError(t, err)
	assert.Equal(t, perLoad, queries)
	require.NoError(t, env.db.Callback().Query().Remove("test:count_queries"))
	assert.Equal(t, int64(2), analytics.Summary.TotalOrders)
	require.Len(t, analytics.TopCategories, len(cats))
	assert.True(t, cats[0].Total.Equal(analytics.TopCategories[0].Total))
	require.Len(t, analytics.TopProducts, len(top))
	assert.Equal(t, top[0].Name, analytics.TopProducts[0].Name)
	assert.Equal(t, top[0].Quantity, analytics.TopProducts[0].Quantity)
	require.Len(t, analytics.Hourly, 24)
	for i := range hourly {
		assert.Equal(t, hourly[i].Count, analytics.Hourly[i].Count)
		assert.True(t, hourly[i].Total.Equal(analytics.Hourly[i].Total))
	}

	report, err := env.reports.SalesReport(ctx, PeriodAll)
	require.NoError(t, err)
	assert.Len(t, report.Orders, 2)
	assert.False(t, report.Start.After(report.End))

	stats, err := env.reports.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.True(t, stats.TotalRevenue.Equal(decimal.NewFromInt(44000)))
	assert.Len(t, stats.Daily, DashboardDays)
	assert.Equal(t, 2, stats.Daily[DashboardDays-1].Count)
}

func TestPeriodBounds(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, loc)

	from, to := PeriodDaily.Bounds(now, loc)
	require.NotNil(t, from)
	require.NotNil(t, to)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, loc), *from)
	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, loc), *to)

	from, to = PeriodWeekly.Bounds(now, loc)
	assert.Equal(t, time.Date(2024, 3, 8, 0, 0, 0, 0, loc), *from)
	assert.Nil(t, to)

	from, _ = PeriodMonthly.Bounds(now, loc)
	assert.Equal(t, time.Date(2024, 2, 14, 0, 0, 0, 0, loc), *from)

	from, to = PeriodAll.Bounds(now, loc)
	assert.Nil(t, from)
	assert.Nil(t, to)

	assert.Equal(t, PeriodAll, ParsePeriod("yearly"))
	assert.Equal(t, PeriodWeekly, ParsePeriod("weekly"))
	assert.Equal(t, "Bulanan", PeriodMonthly.Label())
}

func orderAt(at time.Time, total int64, items ...models.OrderItem) models.Order {
	return models.Order{CreatedAt: at, TotalPrice: decimal.NewFromInt(total), OrderItems: items}
}

func line(product string, category string, price int64, qty int) models.OrderItem {
	p := models.Product{Name: product}
	if category != "" {
		p.Category = &models.Category{Name: category}
	}
	return models.OrderItem{Product: p, Price: decimal.NewFromInt(price), Quantity: qty}
}

func TestAggregations(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	orders := []models.Order{
		orderAt(day.Add(9*time.Hour), 30000, line("Teh", "Minuman", 5000, 2), line("Roti", "", 20000, 1)),
		orderAt(day.Add(9*time.Hour+30*time.Minute), 10000, line("Kopi", "Minuman", 10000, 1)),
		orderAt(day.Add(26*time.Hour), 15000, line("Nasi", "Makanan", 15000, 1)),
	}

	sum := Summarize(orders)
	assert.Equal(t, int64(3), sum.TotalOrders)
	assert.True(t, sum.TotalSales.Equal(decimal.NewFromInt(55000)))

	cats := TopCategories(orders, 5)
	require.Len(t, cats, 2)
	assert.Equal(t, "Minuman", cats[0].Name)
	assert.True(t, cats[0].Total.Equal(decimal.NewFromInt(20000)))
	assert.Equal(t, "Makanan", cats[1].Name)

	assert.Len(t, TopCategories(orders, 1), 1)

	products := TopProducts(orders, 5)
	require.Len(t, products, 4)
	assert.Equal(t, "Roti", products[0].Name)
	// Kopi and Teh tie at 10000; name breaks the tie.
	assert.Equal(t, "Kopi", products[2].Name)
	assert.Equal(t, "Teh", products[3].Name)

	hourly := HourlyHistogram(orders, time.UTC)
	assert.Equal(t, 2, hourly[9].Count)
	assert.True(t, hourly[9].Total.Equal(decimal.NewFromInt(40000)))
	assert.Equal(t, 1, hourly[2].Count)

	daily := DailySeries(orders, day, 3, time.UTC)
	require.Len(t, daily, 3)
	assert.Equal(t, "01/05", daily[0].Label)
	assert.Equal(t, 2, daily[0].Count)
	assert.Equal(t, 1, daily[1].Count)
	assert.Equal(t, 0, daily[2].Count)
	assert.True(t, daily[2].Total.IsZero())
}

func TestPaginate(t *testing.T) {
	orders := make([]models.Order, 32)

	page := Paginate(orders, 1)
	assert.Len(t, page.Orders, ReportPageSize)
	assert.Equal(t, 3, page.TotalPages)
	assert.False(t, page.HasPrev())
	assert.True(t, page.HasNext())

	page = Paginate(orders, 3)
	assert.Len(t, page.Orders, 2)
	assert.False(t, page.HasNext())

	page = Paginate(orders, 99)
	assert.Equal(t, 3, page.Page)

	page = Paginate(nil, 0)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)
	assert.Empty(t, page.Orders)
}

func TestImportProducts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Name", "Category", "Price", "Stock", "Description"},
		{"Pisang Goreng", "Makanan", "5000", "10", "hangat"},
		{},
		{"Es Jeruk", "Minuman", "7000,50", "", ""},
		{"Tanpa Harga", "Makanan", "abc", "1", ""},
		{"", "Makanan", "1000", "1", ""},
		{"Stok Minus", "", "1000", "-2", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	result, err := env.imports.ImportProducts(ctx, buf, "admin")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	require.Len(t, result.Skipped, 3)
	assert.Contains(t, result.Skipped[0], "row 5:")
	assert.Contains(t, result.Skipped[1], "row 6:")
	assert.Contains(t, result.Skipped[2], "row 7:")

	products, err := env.catalog.ListProducts(ctx, "")
	require.NoError(t, err)
	require.Len(t, products, 2)

	categories, err := env.catalog.ListCategories(ctx, "")
	require.NoError(t, err)
	assert.Len(t, categories, 2)

	jeruk, err := env.catalog.ListProducts(ctx, "jeruk")
	require.NoError(t, err)
	require.Len(t, jeruk, 1)
	assert.True(t, jeruk[0].Price.Equal(decimal.RequireFromString("7000.50")))
	assert.Equal(t, 0, jeruk[0].Stock)
	assert.Equal(t, "Minuman", jeruk[0].CategoryName())
}

func TestImportRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.imports.ImportProducts(context.Background(), strings.NewReader("not a workbook"), "admin")
	assert.True(t, errors.Is(err, ErrValidation))
}
