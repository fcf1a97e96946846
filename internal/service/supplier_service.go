package service

import (
	"context"
	"fmt"
	"time"

	"github.com/iskanderbentaleb/partenairex10/internal/dto"
	"github.com/iskanderbentaleb/partenairex10/internal/model"
	"github.com/iskanderbentaleb/partenairex10/internal/repository"
)

type SupplierService interface {
	Create(ctx context.Context, ownerID uint, req dto.SupplierRequest) (*dto.SupplierResponse, error)
	Update(ctx context.Context, ownerID, id uint, req dto.SupplierRequest) (*dto.SupplierResponse, error)
	Delete(ctx context.Context, ownerID, id uint) error
	Get(ctx context.Context, ownerID, id uint) (*dto.SupplierResponse, error)
	List(ctx context.Context, ownerID uint, filter dto.PageFilter) (*dto.SupplierListResponse, error)
}

type supplierService struct {
	repo repository.SupplierRepository
}

func NewSupplierService(repo repository.SupplierRepository) SupplierService {
	return &supplierService{repo: repo}
}

func (s *supplierService) Create(ctx context.Context, ownerID uint, req dto.SupplierRequest) (*dto.SupplierResponse, error) {
	supplier := model.Supplier{
		OwnerID: ownerID,
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Note:    req.Note,
	}
	if err := s.repo.Create(ctx, &supplier); err != nil {
		return nil, err
	}
	return supplierToResponse(&supplier), nil
}

func (s *supplierService) Update(ctx context.Context, ownerID, id uint, req dto.SupplierRequest) (*dto.SupplierResponse, error) {
	supplier, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("supplier %d: %w", id, ErrNotFound)
	}
	supplier.Name = req.Name
	supplier.Phone = req.Phone
	supplier.Email = req.Email
	supplier.Address = req.Address
	supplier.Note = req.Note
	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplierToResponse(supplier), nil
}

// Delete refuses while purchase history exists; removing the supplier
// would orphan the purchases and their ledger rows.
func (s *supplierService) Delete(ctx context.Context, ownerID, id uint) error {
	supplier, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("supplier %d: %w", id, ErrNotFound)
	}
	n, err := s.repo.CountPurchases(ctx, supplier.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("supplier %d has %d purchases: %w", id, n, ErrConflict)
	}
	return s.repo.Delete(ctx, ownerID, id)
}

func (s *supplierService) Get(ctx context.Context, ownerID, id uint) (*dto.SupplierResponse, error) {
	supplier, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("supplier %d: %w", id, ErrNotFound)
	}
	return supplierToResponse(supplier), nil
}

func (s *supplierService) List(ctx context.Context, ownerID uint, filter dto.PageFilter) (*dto.SupplierListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	suppliers, total, err := s.repo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		data = append(data, *supplierToResponse(&suppliers[i]))
	}
	return &dto.SupplierListResponse{
		Data:     data,
		PageMeta: dto.PageMeta{Total: total, Page: filter.Page, Limit: filter.Limit},
	}, nil
}

func supplierToResponse(s *model.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Phone:     s.Phone,
		Email:     s.Email,
		Address:   s.Address,
		Note:      s.Note,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}
