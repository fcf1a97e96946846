package repository

import (
	"context"

	"github.com/iskanderbentaleb/partenairex10/internal/dto"
	"github.com/iskanderbentaleb/partenairex10/internal/model"

	"gorm.io/gorm"
)

type SaleRepository interface {
	// CreateTx inserts the sale with its items in one go; reservation of
	// the referenced purchase items happens separately in the same tx.
	CreateTx(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, ownerID, id uint) (*model.Sale, error)
	List(ctx context.Context, ownerID uint, filter dto.SaleFilter) ([]model.Sale, int64, error)
	DeleteTx(tx *gorm.DB, id uint) error
	DeleteItemsTx(tx *gorm.DB, saleID uint) error
	// CountByPurchaseItems reports how many sale lines reference any of the
	// given purchase items.
	CountByPurchaseItems(ctx context.Context, itemIDs []uint) (int64, error)
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, ownerID, id uint) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items.PurchaseItem").Preload("Investor").
		Where("owner_id = ?", ownerID).
		First(&s, id).Error
	return &s, err
}

func (r *saleRepo) List(ctx context.Context, ownerID uint, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sale{}).Where("owner_id = ?", ownerID)
	if filter.InvestorID != 0 {
		q = q.Where("investor_id = ?", filter.InvestorID)
	}
	if filter.From != "" {
		q = q.Where("sale_date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("sale_date <= ?", filter.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items.PurchaseItem").Preload("Investor").
		Order("sale_date DESC, id DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) DeleteTx(tx *gorm.DB, id uint) error {
	return tx.Delete(&model.Sale{}, id).Error
}

func (r *saleRepo) DeleteItemsTx(tx *gorm.DB, saleID uint) error {
	return tx.Where("sale_id = ?", saleID).Delete(&model.SaleItem{}).Error
}

func (r *saleRepo) CountByPurchaseItems(ctx context.Context, itemIDs []uint) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&model.SaleItem{}).
		Where("purchase_item_id IN ?", itemIDs).
		Count(&n).Error
	return n, err
}
