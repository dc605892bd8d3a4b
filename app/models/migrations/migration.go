package migrations

import (
	"github.com/Rakhulsr/mini-pos/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Supplier{},
		&models.Product{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderItem{},
	)
}
