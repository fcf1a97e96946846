package service

import (
	"context"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available, or
// calls fn(nil) directly when db is nil (unit test mode — stub repos
// accept a nil tx). Every multi-entity mutation in this package goes
// through here so a failure at any step rolls back the whole operation.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
