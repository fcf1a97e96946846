package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvestorTransaction types.
const (
	TxIn  = "In"
	TxOut = "Out"
)

// SupplierTransaction is one cash movement toward a supplier.
// A non-nil PurchaseID marks the row as system-managed: it was created by
// the purchase workflow and cannot be edited or deleted directly.
type SupplierTransaction struct {
	ID         uint            `gorm:"primaryKey"`
	OwnerID    uint            `gorm:"not null;index"`
	SupplierID uint            `gorm:"not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Date       time.Time       `gorm:"not null"`
	Note       *string
	PurchaseID *uint `gorm:"index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}

// Linked reports whether the row is managed by the purchase workflow.
func (t *SupplierTransaction) Linked() bool { return t.PurchaseID != nil }

// InvestorTransaction is one capital movement for an investor: "In" for
// contributions, "Out" for money leaving (purchase funding, withdrawals).
// A non-nil PurchaseID or SaleID marks the row as system-managed.
type InvestorTransaction struct {
	ID         uint            `gorm:"primaryKey"`
	OwnerID    uint            `gorm:"not null;index"`
	InvestorID uint            `gorm:"not null;index"`
	Type       string          `gorm:"type:varchar(3);not null"` // In | Out
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Date       time.Time       `gorm:"not null"`
	Note       *string
	PurchaseID *uint `gorm:"index"`
	SaleID     *uint `gorm:"index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Investor *Investor `gorm:"foreignKey:InvestorID"`
}

// Linked reports whether the row is managed by a workflow.
func (t *InvestorTransaction) Linked() bool { return t.PurchaseID != nil || t.SaleID != nil }
