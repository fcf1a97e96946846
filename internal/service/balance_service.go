package service

import (
	"context"
	"fmt"

	"github.com/iskanderbentaleb/partenairex10/internal/dto"
	"github.com/iskanderbentaleb/partenairex10/internal/model"
	"github.com/iskanderbentaleb/partenairex10/internal/repository"
)

// BalanceService computes derived figures at read time. Nothing here is
// ever persisted, so the numbers cannot drift from the ledgers and
// inventory they are computed from.
type BalanceService interface {
	InvestorBalances(ctx context.Context, ownerID, investorID uint) (*dto.InvestorBalancesResponse, error)
	SupplierDebt(ctx context.Context, ownerID, supplierID uint) (*dto.SupplierDebtResponse, error)
}

type balanceService struct {
	repo         repository.BalanceRepository
	supplierRepo repository.SupplierRepository
	investorRepo repository.InvestorRepository
}

func NewBalanceService(
	repo repository.BalanceRepository,
	supplierRepo repository.SupplierRepository,
	investorRepo repository.InvestorRepository,
) BalanceService {
	return &balanceService{repo: repo, supplierRepo: supplierRepo, investorRepo: investorRepo}
}

// InvestorBalances derives the investor's cash position:
//
//	available_cash  = sum(In) - sum(Out) + profit
//	cash_in_process = cost value of unsold stock
//	total_capital   = available_cash + cash_in_process
//	profit          = sum((sale_price - unit_price) * quantity) over sold lines
func (s *balanceService) InvestorBalances(ctx context.Context, ownerID, investorID uint) (*dto.InvestorBalancesResponse, error) {
	if _, err := s.investorRepo.FindByID(ctx, ownerID, investorID); err != nil {
		return nil, fmt.Errorf("investor %d: %w", investorID, ErrNotFound)
	}

	in, err := s.repo.SumInvestorTransactions(ctx, investorID, model.TxIn)
	if err != nil {
		return nil, err
	}
	out, err := s.repo.SumInvestorTransactions(ctx, investorID, model.TxOut)
	if err != nil {
		return nil, err
	}
	profit, err := s.repo.Profit(ctx, investorID)
	if err != nil {
		return nil, err
	}
	inProcess, err := s.repo.CashInProcess(ctx, investorID)
	if err != nil {
		return nil, err
	}

	availableCash := in.Sub(out).Add(profit)
	return &dto.InvestorBalancesResponse{
		InvestorID:    investorID,
		AvailableCash: availableCash,
		CashInProcess: inProcess,
		TotalCapital:  availableCash.Add(inProcess),
		Profit:        profit,
	}, nil
}

// SupplierDebt is what is still owed; negative means the supplier was prepaid.
func (s *balanceService) SupplierDebt(ctx context.Context, ownerID, supplierID uint) (*dto.SupplierDebtResponse, error) {
	if _, err := s.supplierRepo.FindByID(ctx, ownerID, supplierID); err != nil {
		return nil, fmt.Errorf("supplier %d: %w", supplierID, ErrNotFound)
	}

	purchases, err := s.repo.PurchasesTotal(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.PaymentsTotal(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	return &dto.SupplierDebtResponse{
		SupplierID:     supplierID,
		PurchasesTotal: purchases,
		PaymentsTotal:  payments,
		Debt:           purchases.Sub(payments),
	}, nil
}
