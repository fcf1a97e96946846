package repository

import (
	"context"

	"github.com/iskanderbentaleb/partenairex10/internal/model"

	"gorm.io/gorm"
)

type PurchaseItemRepository interface {
	CreateTx(tx *gorm.DB, item *model.PurchaseItem) error
	SetGeneratedBarcodeTx(tx *gorm.DB, id uint, barcode string) error
	SaveTx(tx *gorm.DB, item *model.PurchaseItem) error
	DeleteTx(tx *gorm.DB, id uint) error

	FindByID(ctx context.Context, id uint) (*model.PurchaseItem, error)
	ListByPurchase(ctx context.Context, purchaseID uint) ([]model.PurchaseItem, error)
	// ListAvailableByInvestor returns the investor's purchase items that
	// still have stock on hand.
	ListAvailableByInvestor(ctx context.Context, ownerID, investorID uint) ([]model.PurchaseItem, error)

	// ReserveTx increments quantity_selled by qty in a single conditional
	// UPDATE guarded by the availability check. Returns false when the
	// guard rejected the update (insufficient stock) — the check and the
	// increment are one statement, so concurrent sales cannot oversell.
	ReserveTx(tx *gorm.DB, id uint, qty int) (bool, error)
	// ReleaseTx decrements quantity_selled by qty, never below zero.
	ReleaseTx(tx *gorm.DB, id uint, qty int) (bool, error)

	DB() *gorm.DB
}

type purchaseItemRepo struct{ db *gorm.DB }

func NewPurchaseItemRepository(db *gorm.DB) PurchaseItemRepository {
	return &purchaseItemRepo{db: db}
}

func (r *purchaseItemRepo) DB() *gorm.DB { return r.db }

func (r *purchaseItemRepo) CreateTx(tx *gorm.DB, item *model.PurchaseItem) error {
	return tx.Create(item).Error
}

func (r *purchaseItemRepo) SetGeneratedBarcodeTx(tx *gorm.DB, id uint, barcode string) error {
	return tx.Model(&model.PurchaseItem{}).Where("id = ?", id).
		Update("barcode_generated", barcode).Error
}

func (r *purchaseItemRepo) SaveTx(tx *gorm.DB, item *model.PurchaseItem) error {
	return tx.Save(item).Error
}

func (r *purchaseItemRepo) DeleteTx(tx *gorm.DB, id uint) error {
	return tx.Delete(&model.PurchaseItem{}, id).Error
}

func (r *purchaseItemRepo) FindByID(ctx context.Context, id uint) (*model.PurchaseItem, error) {
	var item model.PurchaseItem
	err := r.db.WithContext(ctx).Preload("Purchase").First(&item, id).Error
	return &item, err
}

func (r *purchaseItemRepo) ListByPurchase(ctx context.Context, purchaseID uint) ([]model.PurchaseItem, error) {
	var items []model.PurchaseItem
	err := r.db.WithContext(ctx).
		Where("purchase_id = ?", purchaseID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *purchaseItemRepo) ListAvailableByInvestor(ctx context.Context, ownerID, investorID uint) ([]model.PurchaseItem, error) {
	var items []model.PurchaseItem
	err := r.db.WithContext(ctx).
		Joins("JOIN purchases ON purchases.id = purchase_items.purchase_id").
		Where("purchases.owner_id = ? AND purchases.investor_id = ?", ownerID, investorID).
		Where("purchase_items.quantity > purchase_items.quantity_selled").
		Order("purchase_items.id ASC").
		Find(&items).Error
	return items, err
}

func (r *purchaseItemRepo) ReserveTx(tx *gorm.DB, id uint, qty int) (bool, error) {
	res := tx.Model(&model.PurchaseItem{}).
		Where("id = ? AND quantity - quantity_selled >= ?", id, qty).
		Update("quantity_selled", gorm.Expr("quantity_selled + ?", qty))
	return res.RowsAffected > 0, res.Error
}

func (r *purchaseItemRepo) ReleaseTx(tx *gorm.DB, id uint, qty int) (bool, error) {
	res := tx.Model(&model.PurchaseItem{}).
		Where("id = ? AND quantity_selled >= ?", id, qty).
		Update("quantity_selled", gorm.Expr("quantity_selled - ?", qty))
	return res.RowsAffected > 0, res.Error
}
