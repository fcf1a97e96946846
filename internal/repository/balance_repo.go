package repository

import (
	"context"

	"github.com/iskanderbentaleb/partenairex10/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BalanceRepository runs the aggregate queries behind derived balances.
// Everything here is read-only; nothing it computes is ever written back.
type BalanceRepository interface {
	SumInvestorTransactions(ctx context.Context, investorID uint, txType string) (decimal.Decimal, error)
	// CashInProcess is the cost value of the investor's unsold stock:
	// SUM(unit_price * (quantity - quantity_selled)).
	CashInProcess(ctx context.Context, investorID uint) (decimal.Decimal, error)
	// Profit is realized margin over the investor's sold stock:
	// SUM((sale_items.sale_price - purchase_items.unit_price) * sale_items.quantity).
	Profit(ctx context.Context, investorID uint) (decimal.Decimal, error)
	PurchasesTotal(ctx context.Context, supplierID uint) (decimal.Decimal, error)
	PaymentsTotal(ctx context.Context, supplierID uint) (decimal.Decimal, error)
}

type balanceRepo struct{ db *gorm.DB }

func NewBalanceRepository(db *gorm.DB) BalanceRepository { return &balanceRepo{db: db} }

type sumRow struct {
	Total decimal.Decimal
}

func (r *balanceRepo) SumInvestorTransactions(ctx context.Context, investorID uint, txType string) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.WithContext(ctx).Model(&model.InvestorTransaction{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("investor_id = ? AND type = ?", investorID, txType).
		Scan(&row).Error
	return row.Total, err
}

func (r *balanceRepo) CashInProcess(ctx context.Context, investorID uint) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.WithContext(ctx).Model(&model.PurchaseItem{}).
		Select("COALESCE(SUM(purchase_items.unit_price * (purchase_items.quantity - purchase_items.quantity_selled)), 0) AS total").
		Joins("JOIN purchases ON purchases.id = purchase_items.purchase_id").
		Where("purchases.investor_id = ?", investorID).
		Scan(&row).Error
	return row.Total, err
}

func (r *balanceRepo) Profit(ctx context.Context, investorID uint) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.WithContext(ctx).Model(&model.SaleItem{}).
		Select("COALESCE(SUM((sale_items.sale_price - purchase_items.unit_price) * sale_items.quantity), 0) AS total").
		Joins("JOIN purchase_items ON purchase_items.id = sale_items.purchase_item_id").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.investor_id = ?", investorID).
		Scan(&row).Error
	return row.Total, err
}

func (r *balanceRepo) PurchasesTotal(ctx context.Context, supplierID uint) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Select("COALESCE(SUM(total), 0) AS total").
		Where("supplier_id = ?", supplierID).
		Scan(&row).Error
	return row.Total, err
}

func (r *balanceRepo) PaymentsTotal(ctx context.Context, supplierID uint) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.WithContext(ctx).Model(&model.SupplierTransaction{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("supplier_id = ?", supplierID).
		Scan(&row).Error
	return row.Total, err
}
