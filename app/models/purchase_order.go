package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusReceived  = "received"
	PurchaseStatusCancelled = "cancelled"
)

type PurchaseOrder struct {
	ID           string              `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	SupplierID   string              `gorm:"size:36;not null;index" json:"supplier_id"`
	Supplier     Supplier            `gorm:"foreignKey:SupplierID" json:"supplier"`
	OrderNumber  string              `gorm:"size:50;not null;uniqueIndex" json:"order_number"`
	Status       string              `gorm:"size:20;not null;default:'pending'" json:"status"`
	TotalAmount  decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	Notes        string              `gorm:"type:text" json:"notes"`
	OrderDate    time.Time           `gorm:"index" json:"order_date"`
	ReceivedDate *time.Time          `json:"received_date"`
	Items        []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID" json:"items"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func (po *PurchaseOrder) BeforeCreate(tx *gorm.DB) (err error) {
	if po.ID == "" {
		po.ID = uuid.New().String()
	}
	return
}

func (po *PurchaseOrder) IsPending() bool {
	return po.Status == PurchaseStatusPending
}

func (po *PurchaseOrder) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range po.Items {
		total = total.Add(po.Items[i].Subtotal())
	}
	return total.Round(2)
}

type PurchaseOrderItem struct {
	ID              string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	PurchaseOrderID string          `gorm:"size:36;not null;index" json:"purchase_order_id"`
	ProductID       string          `gorm:"size:36;not null;index" json:"product_id"`
	Product         Product         `gorm:"foreignKey:ProductID" json:"product"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
}

func (pi *PurchaseOrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if pi.ID == "" {
		pi.ID = uuid.New().String()
	}
	return
}

func (pi *PurchaseOrderItem) Subtotal() decimal.Decimal {
	return pi.UnitPrice.Mul(decimal.NewFromInt(int64(pi.Quantity)))
}
