package models

import (
	"github.com/Rakhulsr/mini-pos/app/utils/calc"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderItem struct {
	ID              string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	OrderID         string          `gorm:"size:36;not null;index" json:"order_id"`
	ProductID       string          `gorm:"size:36;not null;index" json:"product_id"`
	Product         Product         `gorm:"foreignKey:ProductID" json:"product"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percent"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if oi.ID == "" {
		oi.ID = uuid.New().String()
	}
	return
}

func (oi *OrderItem) BaseTotal() decimal.Decimal {
	return oi.Price.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}

func (oi *OrderItem) DiscountAmount() decimal.Decimal {
	return calc.CalculateDiscount(oi.BaseTotal(), oi.DiscountPercent)
}

func (oi *OrderItem) Subtotal() decimal.Decimal {
	return oi.BaseTotal().Sub(oi.DiscountAmount())
}
