package seeders

import (
	"context"
	"testing"
	"time"

	"github.com/Rakhulsr/mini-pos/app/db/dbtest"
	"github.com/Rakhulsr/mini-pos/app/helpers"
	"github.com/Rakhulsr/mini-pos/app/repositories"
	"github.com/Rakhulsr/mini-pos/app/services"
	"github.com/Rakhulsr/mini-pos/app/utils/metrics"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBSeed(t *testing.T) {
	db := dbtest.New(t)
	log, _ := test.NewNullLogger()
	validate := helpers.NewValidator("ID")

	productRepo := repositories.NewProductRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	catalog := services.NewCatalogService(
		repositories.NewCategoryRepository(db),
		productRepo,
		repositories.NewSupplierRepository(db),
		customerRepo,
		validate,
		log,
	)
	orders := services.NewOrderService(db, repositories.NewOrderRepository(db), productRepo, customerRepo, validate, log, metrics.New(nil))

	ctx := context.Background()
	res, err := DBSeed(ctx, catalog, orders, Options{Products: 8, Customers: 3, Suppliers: 2, Orders: 5}, log)
	require.NoError(t, err)
	assert.Equal(t, 6, res.Categories)
	assert.Equal(t, 8, res.Products)
	assert.Equal(t, 3, res.Customers)
	assert.Equal(t, 2, res.Suppliers)
	assert.LessOrEqual(t, res.Orders, 5)

	report := services.NewReportService(repositories.NewOrderRepository(db), productRepo, customerRepo, time.UTC, log)
	summary, err := report.Summary(ctx, services.PeriodAll)
	require.NoError(t, err)
	assert.EqualValues(t, res.Orders, summary.TotalOrders)

	// Categories already exist on a second run.
	again, err := DBSeed(ctx, catalog, orders, Options{}, log)
	require.NoError(t, err)
	assert.Zero(t, again.Categories)
}
