package model

import "time"

// Investor is a capital partner. Available cash, cash in process, total
// capital and profit are never stored on this row — they are derived on
// every read from the ledger and inventory (see service.BalanceService).
type Investor struct {
	ID      uint   `gorm:"primaryKey"`
	OwnerID uint   `gorm:"not null;index"`
	Name    string `gorm:"not null"`
	Phone   *string
	Email   *string
	CreatedAt time.Time
	UpdatedAt time.Time

	Purchases    []Purchase           `gorm:"foreignKey:InvestorID"`
	Transactions []InvestorTransaction `gorm:"foreignKey:InvestorID"`
}
