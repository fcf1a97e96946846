package repository

import (
	"context"

	"github.com/iskanderbentaleb/partenairex10/internal/dto"
	"github.com/iskanderbentaleb/partenairex10/internal/model"

	"gorm.io/gorm"
)

type PurchaseRepository interface {
	// CreateTx inserts the purchase header only; items are created one by
	// one so each can receive its generated barcode (see PurchaseItemRepository).
	CreateTx(ctx context.Context, tx *gorm.DB, p *model.Purchase) error
	FindByID(ctx context.Context, ownerID, id uint) (*model.Purchase, error)
	List(ctx context.Context, ownerID uint, filter dto.PurchaseFilter) ([]model.Purchase, int64, error)
	SaveTx(tx *gorm.DB, p *model.Purchase) error
	DeleteTx(tx *gorm.DB, id uint) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) DB() *gorm.DB { return r.db }

func (r *purchaseRepo) CreateTx(ctx context.Context, tx *gorm.DB, p *model.Purchase) error {
	return tx.WithContext(ctx).Omit("Items").Create(p).Error
}

func (r *purchaseRepo) FindByID(ctx context.Context, ownerID, id uint) (*model.Purchase, error) {
	var p model.Purchase
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Supplier").Preload("Investor").
		Where("owner_id = ?", ownerID).
		First(&p, id).Error
	return &p, err
}

func (r *purchaseRepo) List(ctx context.Context, ownerID uint, filter dto.PurchaseFilter) ([]model.Purchase, int64, error) {
	var purchases []model.Purchase
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Purchase{}).Where("owner_id = ?", ownerID)
	if filter.SupplierID != 0 {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.InvestorID != 0 {
		q = q.Where("investor_id = ?", filter.InvestorID)
	}
	if filter.From != "" {
		q = q.Where("purchase_date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("purchase_date <= ?", filter.To)
	}
	if filter.Search != "" {
		q = q.Where("invoice_number ILIKE ?", "%"+filter.Search+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items").Preload("Supplier").Preload("Investor").
		Order("purchase_date DESC, id DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&purchases).Error
	return purchases, total, err
}

func (r *purchaseRepo) SaveTx(tx *gorm.DB, p *model.Purchase) error {
	return tx.Omit("Items").Save(p).Error
}

func (r *purchaseRepo) DeleteTx(tx *gorm.DB, id uint) error {
	return tx.Delete(&model.Purchase{}, id).Error
}
