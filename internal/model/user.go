package model

import "time"

// User is an account owner. Every business entity (supplier, investor,
// purchase, sale, ledger row) belongs to exactly one user; repositories
// filter by owner_id on every query.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Active       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
