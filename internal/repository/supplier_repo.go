package repository

import (
	"context"

	"github.com/iskanderbentaleb/partenairex10/internal/dto"
	"github.com/iskanderbentaleb/partenairex10/internal/model"

	"gorm.io/gorm"
)

// SupplierRepository is owner-scoped: every finder takes the owner id and
// never returns another tenant's rows.
type SupplierRepository interface {
	Create(ctx context.Context, s *model.Supplier) error
	FindByID(ctx context.Context, ownerID, id uint) (*model.Supplier, error)
	List(ctx context.Context, ownerID uint, filter dto.PageFilter) ([]model.Supplier, int64, error)
	Update(ctx context.Context, s *model.Supplier) error
	Delete(ctx context.Context, ownerID, id uint) error
	CountPurchases(ctx context.Context, supplierID uint) (int64, error)
}

type supplierRepo struct{ db *gorm.DB }

func NewSupplierRepository(db *gorm.DB) SupplierRepository { return &supplierRepo{db: db} }

func (r *supplierRepo) Create(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *supplierRepo) FindByID(ctx context.Context, ownerID, id uint) (*model.Supplier, error) {
	var s model.Supplier
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		First(&s, id).Error
	return &s, err
}

func (r *supplierRepo) List(ctx context.Context, ownerID uint, filter dto.PageFilter) ([]model.Supplier, int64, error) {
	var suppliers []model.Supplier
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Supplier{}).Where("owner_id = ?", ownerID)
	if filter.Search != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&suppliers).Error
	return suppliers, total, err
}

func (r *supplierRepo) Update(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *supplierRepo) Delete(ctx context.Context, ownerID, id uint) error {
	return r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&model.Supplier{}, id).Error
}

func (r *supplierRepo) CountPurchases(ctx context.Context, supplierID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Where("supplier_id = ?", supplierID).
		Count(&n).Error
	return n, err
}
