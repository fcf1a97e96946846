package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale draws stock from one investor's purchased inventory.
// Total = max(0, Subtotal - DiscountValue). Profit is not stored here;
// it is derived per line from sale_price - unit_price at read time.
type Sale struct {
	ID             uint            `gorm:"primaryKey"`
	OwnerID        uint            `gorm:"not null;index"`
	InvestorID     uint            `gorm:"not null;index"`
	InvoiceNumber  string          `gorm:"not null"`
	SaleDate       time.Time       `gorm:"not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountValue  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DiscountReason *string
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency       string          `gorm:"type:varchar(3);not null"`
	Note           *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Investor *Investor  `gorm:"foreignKey:InvestorID"`
	Items    []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// SaleItem consumes quantity from one purchase item. Creating a line
// increments the referenced item's quantity_selled in the same transaction,
// never past its purchased quantity.
type SaleItem struct {
	ID             uint            `gorm:"primaryKey"`
	SaleID         uint            `gorm:"not null;index"`
	PurchaseItemID uint            `gorm:"not null;index"`
	Quantity       int             `gorm:"not null"`
	SalePrice      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt      time.Time

	PurchaseItem *PurchaseItem `gorm:"foreignKey:PurchaseItemID"`
}
