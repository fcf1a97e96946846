package model

import "time"

// Supplier holds contact data for a vendor the business buys stock from.
// A supplier with purchase history cannot be deleted.
type Supplier struct {
	ID      uint   `gorm:"primaryKey"`
	OwnerID uint   `gorm:"not null;index"`
	Name    string `gorm:"not null"`
	Phone   *string
	Email   *string
	Address *string
	Note    *string
	CreatedAt time.Time
	UpdatedAt time.Time

	Purchases []Purchase `gorm:"foreignKey:SupplierID"`
}
