package repository

import (
	"context"

	"github.com/iskanderbentaleb/partenairex10/internal/dto"
	"github.com/iskanderbentaleb/partenairex10/internal/model"

	"gorm.io/gorm"
)

// SupplierTransactionRepository persists supplier ledger rows. The Tx
// variants are used by the purchase workflow inside its transaction; the
// plain variants serve manual (unlinked) entries.
type SupplierTransactionRepository interface {
	Create(ctx context.Context, t *model.SupplierTransaction) error
	CreateTx(tx *gorm.DB, t *model.SupplierTransaction) error
	FindByID(ctx context.Context, ownerID, id uint) (*model.SupplierTransaction, error)
	FindByPurchaseTx(tx *gorm.DB, purchaseID uint) (*model.SupplierTransaction, error)
	Save(ctx context.Context, t *model.SupplierTransaction) error
	SaveTx(tx *gorm.DB, t *model.SupplierTransaction) error
	Delete(ctx context.Context, id uint) error
	DeleteByPurchaseTx(tx *gorm.DB, purchaseID uint) error
	List(ctx context.Context, ownerID uint, filter dto.TransactionFilter) ([]model.SupplierTransaction, int64, error)
	DB() *gorm.DB
}

type supplierTxRepo struct{ db *gorm.DB }

func NewSupplierTransactionRepository(db *gorm.DB) SupplierTransactionRepository {
	return &supplierTxRepo{db: db}
}

func (r *supplierTxRepo) DB() *gorm.DB { return r.db }

func (r *supplierTxRepo) Create(ctx context.Context, t *model.SupplierTransaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *supplierTxRepo) CreateTx(tx *gorm.DB, t *model.SupplierTransaction) error {
	return tx.Create(t).Error
}

func (r *supplierTxRepo) FindByID(ctx context.Context, ownerID, id uint) (*model.SupplierTransaction, error) {
	var t model.SupplierTransaction
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		First(&t, id).Error
	return &t, err
}

func (r *supplierTxRepo) FindByPurchaseTx(tx *gorm.DB, purchaseID uint) (*model.SupplierTransaction, error) {
	var t model.SupplierTransaction
	err := tx.Where("purchase_id = ?", purchaseID).First(&t).Error
	return &t, err
}

func (r *supplierTxRepo) Save(ctx context.Context, t *model.SupplierTransaction) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *supplierTxRepo) SaveTx(tx *gorm.DB, t *model.SupplierTransaction) error {
	return tx.Save(t).Error
}

func (r *supplierTxRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.SupplierTransaction{}, id).Error
}

func (r *supplierTxRepo) DeleteByPurchaseTx(tx *gorm.DB, purchaseID uint) error {
	return tx.Where("purchase_id = ?", purchaseID).Delete(&model.SupplierTransaction{}).Error
}

func (r *supplierTxRepo) List(ctx context.Context, ownerID uint, filter dto.TransactionFilter) ([]model.SupplierTransaction, int64, error) {
	var txs []model.SupplierTransaction
	var total int64

	q := r.db.WithContext(ctx).Model(&model.SupplierTransaction{}).Where("owner_id = ?", ownerID)
	if filter.PartyID != 0 {
		q = q.Where("supplier_id = ?", filter.PartyID)
	}
	if filter.From != "" {
		q = q.Where("date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("date <= ?", filter.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Supplier").
		Order("date DESC, id DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&txs).Error
	return txs, total, err
}

// InvestorTransactionRepository persists investor ledger rows; same split
// between workflow (Tx) and manual entry points.
type InvestorTransactionRepository interface {
	Create(ctx context.Context, t *model.InvestorTransaction) error
	CreateTx(tx *gorm.DB, t *model.InvestorTransaction) error
	FindByID(ctx context.Context, ownerID, id uint) (*model.InvestorTransaction, error)
	FindByPurchaseTx(tx *gorm.DB, purchaseID uint) (*model.InvestorTransaction, error)
	Save(ctx context.Context, t *model.InvestorTransaction) error
	SaveTx(tx *gorm.DB, t *model.InvestorTransaction) error
	Delete(ctx context.Context, id uint) error
	DeleteByPurchaseTx(tx *gorm.DB, purchaseID uint) error
	DeleteBySaleTx(tx *gorm.DB, saleID uint) error
	List(ctx context.Context, ownerID uint, filter dto.TransactionFilter) ([]model.InvestorTransaction, int64, error)
	DB() *gorm.DB
}

type investorTxRepo struct{ db *gorm.DB }

func NewInvestorTransactionRepository(db *gorm.DB) InvestorTransactionRepository {
	return &investorTxRepo{db: db}
}

func (r *investorTxRepo) DB() *gorm.DB { return r.db }

func (r *investorTxRepo) Create(ctx context.Context, t *model.InvestorTransaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *investorTxRepo) CreateTx(tx *gorm.DB, t *model.InvestorTransaction) error {
	return tx.Create(t).Error
}

func (r *investorTxRepo) FindByID(ctx context.Context, ownerID, id uint) (*model.InvestorTransaction, error) {
	var t model.InvestorTransaction
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		First(&t, id).Error
	return &t, err
}

func (r *investorTxRepo) FindByPurchaseTx(tx *gorm.DB, purchaseID uint) (*model.InvestorTransaction, error) {
	var t model.InvestorTransaction
	err := tx.Where("purchase_id = ?", purchaseID).First(&t).Error
	return &t, err
}

func (r *investorTxRepo) Save(ctx context.Context, t *model.InvestorTransaction) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *investorTxRepo) SaveTx(tx *gorm.DB, t *model.InvestorTransaction) error {
	return tx.Save(t).Error
}

func (r *investorTxRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.InvestorTransaction{}, id).Error
}

func (r *investorTxRepo) DeleteByPurchaseTx(tx *gorm.DB, purchaseID uint) error {
	return tx.Where("purchase_id = ?", purchaseID).Delete(&model.InvestorTransaction{}).Error
}

func (r *investorTxRepo) DeleteBySaleTx(tx *gorm.DB, saleID uint) error {
	return tx.Where("sale_id = ?", saleID).Delete(&model.InvestorTransaction{}).Error
}

func (r *investorTxRepo) List(ctx context.Context, ownerID uint, filter dto.TransactionFilter) ([]model.InvestorTransaction, int64, error) {
	var txs []model.InvestorTransaction
	var total int64

	q := r.db.WithContext(ctx).Model(&model.InvestorTransaction{}).Where("owner_id = ?", ownerID)
	if filter.PartyID != 0 {
		q = q.Where("investor_id = ?", filter.PartyID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.From != "" {
		q = q.Where("date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("date <= ?", filter.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Investor").
		Order("date DESC, id DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&txs).Error
	return txs, total, err
}
