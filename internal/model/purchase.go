package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is a stock acquisition funded by one investor from one supplier.
// Total = Subtotal - DiscountValue + ShippingValue; AmountPaid <= Total.
// Creating a purchase also creates the two linked ledger rows (supplier
// payment and investor outflow) in the same transaction.
type Purchase struct {
	ID             uint            `gorm:"primaryKey"`
	OwnerID        uint            `gorm:"not null;index"`
	SupplierID     uint            `gorm:"not null;index"`
	InvestorID     uint            `gorm:"not null;index"`
	InvoiceNumber  string          `gorm:"not null"`
	PurchaseDate   time.Time       `gorm:"not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountValue  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DiscountReason *string
	ShippingValue  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ShippingNote   *string
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AmountPaid     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency       string          `gorm:"type:varchar(3);not null"`
	InvoiceImage   *string
	Note           *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Supplier *Supplier      `gorm:"foreignKey:SupplierID"`
	Investor *Investor      `gorm:"foreignKey:InvestorID"`
	Items    []PurchaseItem `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
}

// PurchaseItem is one stock line of a purchase. QuantitySelled is the
// running total consumed by sales; 0 <= QuantitySelled <= Quantity holds
// before and after every operation.
type PurchaseItem struct {
	ID               uint   `gorm:"primaryKey"`
	PurchaseID       uint   `gorm:"not null;index"`
	ProductName      string `gorm:"not null"`
	BarcodePrincipal string
	// BarcodeGenerated is assigned once at creation (uppercase hex of the
	// row id + the principal barcode) and never reassigned, even when the
	// principal barcode changes later.
	BarcodeGenerated string          `gorm:"index"`
	Quantity         int             `gorm:"not null"`
	QuantitySelled   int             `gorm:"not null;default:0"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SalePrice        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Purchase *Purchase `gorm:"foreignKey:PurchaseID"`
}

// AvailableQuantity is the stock still on hand for this item.
func (i *PurchaseItem) AvailableQuantity() int {
	return i.Quantity - i.QuantitySelled
}

// SoldPercentage is derived for display, never stored.
func (i *PurchaseItem) SoldPercentage() float64 {
	if i.Quantity == 0 {
		return 0
	}
	return float64(i.QuantitySelled) / float64(i.Quantity) * 100
}
