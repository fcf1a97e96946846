package service

import (
	"context"
	"fmt"

	"github.com/iskanderbentaleb/partenairex10/internal/dto"
	"github.com/iskanderbentaleb/partenairex10/internal/model"
	"github.com/iskanderbentaleb/partenairex10/internal/repository"
)

// LedgerService is the external entry point to the cash ledgers. Manual
// entries are free-standing; rows linked to a purchase or sale were
// created by the workflows and reject direct edits and deletes here.
// Workflows write linked rows through the repository Tx methods inside
// their own transaction and never pass through this guard.
type LedgerService interface {
	CreateSupplierTransaction(ctx context.Context, ownerID uint, req dto.SupplierTransactionRequest) (*dto.SupplierTransactionResponse, error)
	UpdateSupplierTransaction(ctx context.Context, ownerID, id uint, req dto.TransactionUpdateRequest) (*dto.SupplierTransactionResponse, error)
	DeleteSupplierTransaction(ctx context.Context, ownerID, id uint) error
	ListSupplierTransactions(ctx context.Context, ownerID uint, filter dto.TransactionFilter) (*dto.SupplierTransactionListResponse, error)

	CreateInvestorTransaction(ctx context.Context, ownerID uint, req dto.InvestorTransactionRequest) (*dto.InvestorTransactionResponse, error)
	UpdateInvestorTransaction(ctx context.Context, ownerID, id uint, req dto.TransactionUpdateRequest) (*dto.InvestorTransactionResponse, error)
	DeleteInvestorTransaction(ctx context.Context, ownerID, id uint) error
	ListInvestorTransactions(ctx context.Context, ownerID uint, filter dto.TransactionFilter) (*dto.InvestorTransactionListResponse, error)
}

type ledgerService struct {
	supplierTxRepo repository.SupplierTransactionRepository
	investorTxRepo repository.InvestorTransactionRepository
	supplierRepo   repository.SupplierRepository
	investorRepo   repository.InvestorRepository
}

func NewLedgerService(
	supplierTxRepo repository.SupplierTransactionRepository,
	investorTxRepo repository.InvestorTransactionRepository,
	supplierRepo repository.SupplierRepository,
	investorRepo repository.InvestorRepository,
) LedgerService {
	return &ledgerService{
		supplierTxRepo: supplierTxRepo,
		investorTxRepo: investorTxRepo,
		supplierRepo:   supplierRepo,
		investorRepo:   investorRepo,
	}
}

// ── Supplier ledger ──────────────────────────────────────────────────────────

func (s *ledgerService) CreateSupplierTransaction(ctx context.Context, ownerID uint, req dto.SupplierTransactionRequest) (*dto.SupplierTransactionResponse, error) {
	if req.Amount.IsNegative() {
		return nil, validationErr("amount", "must be >= 0")
	}
	if _, err := s.supplierRepo.FindByID(ctx, ownerID, req.SupplierID); err != nil {
		return nil, fmt.Errorf("supplier %d: %w", req.SupplierID, ErrNotFound)
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	t := &model.SupplierTransaction{
		OwnerID:    ownerID,
		SupplierID: req.SupplierID,
		Amount:     req.Amount,
		Date:       date,
		Note:       req.Note,
	}
	if err := s.supplierTxRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return supplierTxToResponse(t), nil
}

func (s *ledgerService) UpdateSupplierTransaction(ctx context.Context, ownerID, id uint, req dto.TransactionUpdateRequest) (*dto.SupplierTransactionResponse, error) {
	t, err := s.supplierTxRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("supplier transaction %d: %w", id, ErrNotFound)
	}
	if t.Linked() {
		return nil, fmt.Errorf("supplier transaction %d: %w", id, ErrLinkedRecordImmutable)
	}
	if req.Amount.IsNegative() {
		return nil, validationErr("amount", "must be >= 0")
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	t.Amount = req.Amount
	t.Date = date
	t.Note = req.Note
	if err := s.supplierTxRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	return supplierTxToResponse(t), nil
}

func (s *ledgerService) DeleteSupplierTransaction(ctx context.Context, ownerID, id uint) error {
	t, err := s.supplierTxRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("supplier transaction %d: %w", id, ErrNotFound)
	}
	if t.Linked() {
		return fmt.Errorf("supplier transaction %d: %w", id, ErrLinkedRecordImmutable)
	}
	return s.supplierTxRepo.Delete(ctx, t.ID)
}

func (s *ledgerService) ListSupplierTransactions(ctx context.Context, ownerID uint, filter dto.TransactionFilter) (*dto.SupplierTransactionListResponse, error) {
	normalizeTxFilter(&filter)
	txs, total, err := s.supplierTxRepo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SupplierTransactionResponse, 0, len(txs))
	for i := range txs {
		data = append(data, *supplierTxToResponse(&txs[i]))
	}
	return &dto.SupplierTransactionListResponse{
		Data:     data,
		PageMeta: dto.PageMeta{Total: total, Page: filter.Page, Limit: filter.Limit},
	}, nil
}

// ── Investor ledger ──────────────────────────────────────────────────────────

func (s *ledgerService) CreateInvestorTransaction(ctx context.Context, ownerID uint, req dto.InvestorTransactionRequest) (*dto.InvestorTransactionResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, validationErr("amount", "must be > 0")
	}
	if req.Type != model.TxIn && req.Type != model.TxOut {
		return nil, validationErr("type", "must be In or Out")
	}
	if _, err := s.investorRepo.FindByID(ctx, ownerID, req.InvestorID); err != nil {
		return nil, fmt.Errorf("investor %d: %w", req.InvestorID, ErrNotFound)
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	t := &model.InvestorTransaction{
		OwnerID:    ownerID,
		InvestorID: req.InvestorID,
		Type:       req.Type,
		Amount:     req.Amount,
		Date:       date,
		Note:       req.Note,
	}
	if err := s.investorTxRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return investorTxToResponse(t), nil
}

func (s *ledgerService) UpdateInvestorTransaction(ctx context.Context, ownerID, id uint, req dto.TransactionUpdateRequest) (*dto.InvestorTransactionResponse, error) {
	t, err := s.investorTxRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("investor transaction %d: %w", id, ErrNotFound)
	}
	if t.Linked() {
		return nil, fmt.Errorf("investor transaction %d: %w", id, ErrLinkedRecordImmutable)
	}
	if !req.Amount.IsPositive() {
		return nil, validationErr("amount", "must be > 0")
	}
	if req.Type != "" && req.Type != model.TxIn && req.Type != model.TxOut {
		return nil, validationErr("type", "must be In or Out")
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	t.Amount = req.Amount
	t.Date = date
	t.Note = req.Note
	if req.Type != "" {
		t.Type = req.Type
	}
	if err := s.investorTxRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	return investorTxToResponse(t), nil
}

func (s *ledgerService) DeleteInvestorTransaction(ctx context.Context, ownerID, id uint) error {
	t, err := s.investorTxRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("investor transaction %d: %w", id, ErrNotFound)
	}
	if t.Linked() {
		return fmt.Errorf("investor transaction %d: %w", id, ErrLinkedRecordImmutable)
	}
	return s.investorTxRepo.Delete(ctx, t.ID)
}

func (s *ledgerService) ListInvestorTransactions(ctx context.Context, ownerID uint, filter dto.TransactionFilter) (*dto.InvestorTransactionListResponse, error) {
	normalizeTxFilter(&filter)
	txs, total, err := s.investorTxRepo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.InvestorTransactionResponse, 0, len(txs))
	for i := range txs {
		data = append(data, *investorTxToResponse(&txs[i]))
	}
	return &dto.InvestorTransactionListResponse{
		Data:     data,
		PageMeta: dto.PageMeta{Total: total, Page: filter.Page, Limit: filter.Limit},
	}, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func normalizeTxFilter(f *dto.TransactionFilter) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 50
	}
}

func supplierTxToResponse(t *model.SupplierTransaction) *dto.SupplierTransactionResponse {
	resp := &dto.SupplierTransactionResponse{
		ID:         t.ID,
		SupplierID: t.SupplierID,
		Amount:     t.Amount,
		Date:       t.Date.Format(dateLayout),
		Note:       t.Note,
		PurchaseID: t.PurchaseID,
		Linked:     t.Linked(),
	}
	if t.Supplier != nil {
		resp.SupplierName = t.Supplier.Name
	}
	return resp
}

func investorTxToResponse(t *model.InvestorTransaction) *dto.InvestorTransactionResponse {
	resp := &dto.InvestorTransactionResponse{
		ID:         t.ID,
		InvestorID: t.InvestorID,
		Type:       t.Type,
		Amount:     t.Amount,
		Date:       t.Date.Format(dateLayout),
		Note:       t.Note,
		PurchaseID: t.PurchaseID,
		SaleID:     t.SaleID,
		Linked:     t.Linked(),
	}
	if t.Investor != nil {
		resp.InvestorName = t.Investor.Name
	}
	return resp
}
