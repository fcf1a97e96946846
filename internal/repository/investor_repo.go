package repository

import (
	"context"

	"github.com/iskanderbentaleb/partenairex10/internal/dto"
	"github.com/iskanderbentaleb/partenairex10/internal/model"

	"gorm.io/gorm"
)

type InvestorRepository interface {
	Create(ctx context.Context, i *model.Investor) error
	FindByID(ctx context.Context, ownerID, id uint) (*model.Investor, error)
	List(ctx context.Context, ownerID uint, filter dto.PageFilter) ([]model.Investor, int64, error)
	Update(ctx context.Context, i *model.Investor) error
	Delete(ctx context.Context, ownerID, id uint) error
}

type investorRepo struct{ db *gorm.DB }

func NewInvestorRepository(db *gorm.DB) InvestorRepository { return &investorRepo{db: db} }

func (r *investorRepo) Create(ctx context.Context, i *model.Investor) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *investorRepo) FindByID(ctx context.Context, ownerID, id uint) (*model.Investor, error) {
	var i model.Investor
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		First(&i, id).Error
	return &i, err
}

func (r *investorRepo) List(ctx context.Context, ownerID uint, filter dto.PageFilter) ([]model.Investor, int64, error) {
	var investors []model.Investor
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Investor{}).Where("owner_id = ?", ownerID)
	if filter.Search != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&investors).Error
	return investors, total, err
}

func (r *investorRepo) Update(ctx context.Context, i *model.Investor) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *investorRepo) Delete(ctx context.Context, ownerID, id uint) error {
	return r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&model.Investor{}, id).Error
}
