package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	ID         string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	CustomerID string          `gorm:"size:36;not null;index" json:"customer_id"`
	Customer   Customer        `gorm:"foreignKey:CustomerID" json:"customer"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_price"`
	OrderItems []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt  time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return
}

// ShortID is the receipt number shown to customers.
func (o *Order) ShortID() string {
	if len(o.ID) <= 8 {
		return o.ID
	}
	return o.ID[:8]
}

// ComputeTotal sums the line subtotals, rounded to 2 decimal places.
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range o.OrderItems {
		total = total.Add(o.OrderItems[i].Subtotal())
	}
	return total.Round(2)
}
