package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Rakhulsr/mini-pos/app/configs"
	"github.com/Rakhulsr/mini-pos/app/db/seeders"
	"github.com/Rakhulsr/mini-pos/app/helpers"
	"github.com/Rakhulsr/mini-pos/app/models"
	"github.com/Rakhulsr/mini-pos/app/models/migrations"
	"github.com/Rakhulsr/mini-pos/app/repositories"
	"github.com/Rakhulsr/mini-pos/app/services"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

// App wires the commands to a configuration and logger. Open is called
// lazily so generate-keys runs without a database.
type App struct {
	Env  configs.ENV
	Log  *logrus.Logger
	Out  io.Writer
	Open func() (*gorm.DB, error)
}

func NewApp(env configs.ENV, log *logrus.Logger) *App {
	return &App{
		Env: env,
		Log: log,
		Out: os.Stdout,
		Open: func() (*gorm.DB, error) {
			return configs.OpenConnection(env, log)
		},
	}
}

func (a *App) Command() *cli.Command {
	return &cli.Command{
		Name:  "mini-pos",
		Usage: "Point of sale for small shops",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Run database migration",
				Action: a.migrate,
			},
			{
				Name:  "generate-keys",
				Usage: "Generate session, CSRF and API keys for .env",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "write", Usage: "also write the keys to this file"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := configs.GenerateSessionKeys(a.Out, c.String("write")); err != nil {
						return err
					}
					a.Log.Info("Key generation complete. Copy the keys to your .env file.")
					return nil
				},
			},
			{
				Name:  "create-user",
				Usage: "Create a login account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "full-name"},
					&cli.StringFlag{Name: "role", Value: models.RoleAdmin, Usage: "admin or staff"},
				},
				Action: a.createUser,
			},
			{
				Name:  "seed",
				Usage: "Fill the database with demo data",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "products", Value: 30},
					&cli.IntFlag{Name: "customers", Value: 10},
					&cli.IntFlag{Name: "suppliers", Value: 3},
					&cli.IntFlag{Name: "orders", Value: 20},
				},
				Action: a.seed,
			},
			{
				Name:      "import-products",
				Usage:     "Import products from an Excel file",
				ArgsUsage: "<file.xlsx>",
				Action:    a.importProducts,
			},
		},
	}
}

func (a *App) migrated() (*gorm.DB, error) {
	db, err := a.Open()
	if err != nil {
		return nil, err
	}
	if err := migrations.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (a *App) catalog(db *gorm.DB) *services.CatalogService {
	return services.NewCatalogService(
		repositories.NewCategoryRepository(db),
		repositories.NewProductRepository(db),
		repositories.NewSupplierRepository(db),
		repositories.NewCustomerRepository(db),
		helpers.NewValidator(a.Env.PhoneRegion),
		a.Log,
	)
}

func (a *App) migrate(ctx context.Context, c *cli.Command) error {
	if _, err := a.migrated(); err != nil {
		return err
	}
	a.Log.Info("Migration complete")
	return nil
}

func (a *App) createUser(ctx context.Context, c *cli.Command) error {
	role := c.String("role")
	if role != models.RoleAdmin && role != models.RoleStaff {
		return fmt.Errorf("unknown role %q", role)
	}
	if len(c.String("password")) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	db, err := a.migrated()
	if err != nil {
		return err
	}
	user := &models.User{
		Username: c.String("username"),
		FullName: c.String("full-name"),
		Password: c.String("password"),
		Role:     role,
	}
	if err := repositories.NewUserRepository(db).Create(ctx, user); err != nil {
		return err
	}
	a.Log.WithFields(logrus.Fields{"username": user.Username, "role": user.Role}).Info("User created")
	return nil
}

func (a *App) seed(ctx context.Context, c *cli.Command) error {
	db, err := a.migrated()
	if err != nil {
		return err
	}
	validate := helpers.NewValidator(a.Env.PhoneRegion)
	orders := services.NewOrderService(
		db,
		repositories.NewOrderRepository(db),
		repositories.NewProductRepository(db),
		repositories.NewCustomerRepository(db),
		validate,
		a.Log,
		nil,
	)
	opts := seeders.Options{
		Products:  int(c.Int("products")),
		Customers: int(c.Int("customers")),
		Suppliers: int(c.Int("suppliers")),
		Orders:    int(c.Int("orders")),
	}
	res, err := seeders.DBSeed(ctx, a.catalog(db), orders, opts, a.Log)
	if err != nil {
		return err
	}
	a.Log.WithFields(logrus.Fields{
		"categories": res.Categories,
		"suppliers":  res.Suppliers,
		"products":   res.Products,
		"customers":  res.Customers,
		"orders":     res.Orders,
	}).Info("Seeding complete")
	return nil
}

func (a *App) importProducts(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: import-products <file.xlsx>")
	}
	f, err := os.Open(c.Args().First())
	if err != nil {
		return err
	}
	defer f.Close()

	db, err := a.migrated()
	if err != nil {
		return err
	}
	catalog := a.catalog(db)
	importer := services.NewImportService(catalog, repositories.NewCategoryRepository(db), a.Log)
	res, err := importer.ImportProducts(ctx, f, "cli")
	if err != nil {
		return err
	}
	for _, skipped := range res.Skipped {
		fmt.Fprintln(a.Out, "skipped:", skipped)
	}
	a.Log.WithFields(logrus.Fields{"created": res.Created, "skipped": len(res.Skipped)}).Info("Import complete")
	return nil
}

func RunCli(ctx context.Context, args []string, env configs.ENV, log *logrus.Logger) error {
	return NewApp(env, log).Command().Run(ctx, args)
}
