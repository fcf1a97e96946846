package service

import (
	"context"
	"fmt"
	"time"

	"github.com/iskanderbentaleb/partenairex10/internal/dto"
	"github.com/iskanderbentaleb/partenairex10/internal/model"
	"github.com/iskanderbentaleb/partenairex10/internal/repository"
)

type InvestorService interface {
	Create(ctx context.Context, ownerID uint, req dto.InvestorRequest) (*dto.InvestorResponse, error)
	Update(ctx context.Context, ownerID, id uint, req dto.InvestorRequest) (*dto.InvestorResponse, error)
	Delete(ctx context.Context, ownerID, id uint) error
	Get(ctx context.Context, ownerID, id uint) (*dto.InvestorResponse, error)
	List(ctx context.Context, ownerID uint, filter dto.PageFilter) (*dto.InvestorListResponse, error)
}

type investorService struct {
	repo     repository.InvestorRepository
	balances BalanceService
}

func NewInvestorService(repo repository.InvestorRepository, balances BalanceService) InvestorService {
	return &investorService{repo: repo, balances: balances}
}

func (s *investorService) Create(ctx context.Context, ownerID uint, req dto.InvestorRequest) (*dto.InvestorResponse, error) {
	investor := model.Investor{
		OwnerID: ownerID,
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
	}
	if err := s.repo.Create(ctx, &investor); err != nil {
		return nil, err
	}
	return investorToResponse(&investor), nil
}

func (s *investorService) Update(ctx context.Context, ownerID, id uint, req dto.InvestorRequest) (*dto.InvestorResponse, error) {
	investor, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("investor %d: %w", id, ErrNotFound)
	}
	investor.Name = req.Name
	investor.Phone = req.Phone
	investor.Email = req.Email
	if err := s.repo.Update(ctx, investor); err != nil {
		return nil, err
	}
	return investorToResponse(investor), nil
}

// Delete refuses while the investor still has capital or profit in the
// books; all figures must be zero before the row can go.
func (s *investorService) Delete(ctx context.Context, ownerID, id uint) error {
	balances, err := s.balances.InvestorBalances(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if !balances.TotalCapital.IsZero() || !balances.Profit.IsZero() {
		return fmt.Errorf("investor %d still holds capital %s and profit %s: %w",
			id, balances.TotalCapital.String(), balances.Profit.String(), ErrConflict)
	}
	return s.repo.Delete(ctx, ownerID, id)
}

func (s *investorService) Get(ctx context.Context, ownerID, id uint) (*dto.InvestorResponse, error) {
	investor, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("investor %d: %w", id, ErrNotFound)
	}
	return investorToResponse(investor), nil
}

func (s *investorService) List(ctx context.Context, ownerID uint, filter dto.PageFilter) (*dto.InvestorListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	investors, total, err := s.repo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.InvestorResponse, 0, len(investors))
	for i := range investors {
		data = append(data, *investorToResponse(&investors[i]))
	}
	return &dto.InvestorListResponse{
		Data:     data,
		PageMeta: dto.PageMeta{Total: total, Page: filter.Page, Limit: filter.Limit},
	}, nil
}

func investorToResponse(i *model.Investor) *dto.InvestorResponse {
	return &dto.InvestorResponse{
		ID:        i.ID,
		Name:      i.Name,
		Phone:     i.Phone,
		Email:     i.Email,
		CreatedAt: i.CreatedAt.Format(time.RFC3339),
	}
}
