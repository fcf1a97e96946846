package service

import (
	"context"
	"fmt"
	"time"

	"github.com/iskanderbentaleb/partenairex10/internal/dto"
	"github.com/iskanderbentaleb/partenairex10/internal/model"
	"github.com/iskanderbentaleb/partenairex10/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleService records sales against one investor's purchased stock.
// A sale reserves quantity on each referenced purchase item and writes
// the linked investor inflow for the sale total, all in one transaction.
type SaleService interface {
	Create(ctx context.Context, ownerID uint, req dto.SaleRequest) (*dto.SaleResponse, error)
	Delete(ctx context.Context, ownerID, id uint) error
	Get(ctx context.Context, ownerID, id uint) (*dto.SaleResponse, error)
	List(ctx context.Context, ownerID uint, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	ListAvailableInventory(ctx context.Context, ownerID, investorID uint) ([]dto.AvailableItemResponse, error)
}

type saleService struct {
	repo            repository.SaleRepository
	itemRepo        repository.PurchaseItemRepository
	inventory       InventoryService
	investorRepo    repository.InvestorRepository
	investorTxRepo  repository.InvestorTransactionRepository
	defaultCurrency string
}

func NewSaleService(
	repo repository.SaleRepository,
	itemRepo repository.PurchaseItemRepository,
	inventory InventoryService,
	investorRepo repository.InvestorRepository,
	investorTxRepo repository.InvestorTransactionRepository,
	defaultCurrency string,
) SaleService {
	return &saleService{
		repo:            repo,
		itemRepo:        itemRepo,
		inventory:       inventory,
		investorRepo:    investorRepo,
		investorTxRepo:  investorTxRepo,
		defaultCurrency: defaultCurrency,
	}
}

func (s *saleService) Create(ctx context.Context, ownerID uint, req dto.SaleRequest) (*dto.SaleResponse, error) {
	if _, err := s.investorRepo.FindByID(ctx, ownerID, req.InvestorID); err != nil {
		return nil, fieldErr("investor_id", fmt.Errorf("investor %d: %w", req.InvestorID, ErrNotFound))
	}
	if req.DiscountValue.IsNegative() {
		return nil, validationErr("discount_value", "must be >= 0")
	}
	date, err := parseDate("sale_date", req.SaleDate)
	if err != nil {
		return nil, err
	}
	currency := req.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	// Lines are priced before the transaction; ownership of every
	// referenced item is re-checked inside it.
	subtotal := decimal.Zero
	lines := make([]model.SaleItem, 0, len(req.Items))
	for i, in := range req.Items {
		// A non-positive quantity would slip through the reserve guard
		// (quantity - quantity_selled >= n holds for any negative n) and
		// drive quantity_selled below zero.
		if in.Quantity < 1 {
			return nil, validationErr(fmt.Sprintf("items[%d].quantity", i), "must be >= 1")
		}
		if in.SalePrice.IsNegative() {
			return nil, validationErr(fmt.Sprintf("items[%d].sale_price", i), "must be >= 0")
		}
		lineSubtotal := in.SalePrice.Mul(intToDecimal(in.Quantity))
		subtotal = subtotal.Add(lineSubtotal)
		lines = append(lines, model.SaleItem{
			PurchaseItemID: in.PurchaseItemID,
			Quantity:       in.Quantity,
			SalePrice:      in.SalePrice,
			Subtotal:       lineSubtotal,
		})
	}
	// Total floors at zero; a discount larger than the subtotal is a
	// giveaway, not an error.
	total := subtotal.Sub(req.DiscountValue)
	if total.IsNegative() {
		total = decimal.Zero
	}

	sale := model.Sale{
		OwnerID:        ownerID,
		InvestorID:     req.InvestorID,
		InvoiceNumber:  req.InvoiceNumber,
		SaleDate:       date,
		Subtotal:       subtotal,
		DiscountValue:  req.DiscountValue,
		DiscountReason: req.DiscountReason,
		Total:          total,
		Currency:       currency,
		Note:           req.Note,
		Items:          lines,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for i, in := range req.Items {
			field := fmt.Sprintf("items[%d]", i)
			item, err := s.itemRepo.FindByID(ctx, in.PurchaseItemID)
			if err != nil {
				return fieldErr(field+".purchase_item_id",
					fmt.Errorf("purchase item %d: %w", in.PurchaseItemID, ErrNotFound))
			}
			if item.Purchase == nil || item.Purchase.OwnerID != ownerID {
				return fieldErr(field+".purchase_item_id",
					fmt.Errorf("purchase item %d: %w", in.PurchaseItemID, ErrNotFound))
			}
			if item.Purchase.InvestorID != req.InvestorID {
				return validationErr(field+".purchase_item_id",
					"item belongs to a different investor's purchase")
			}
			if err := s.inventory.ReserveSaleTx(tx, in.PurchaseItemID, in.Quantity); err != nil {
				return fmt.Errorf("%s: %w", field, err)
			}
		}

		if err := s.repo.CreateTx(ctx, tx, &sale); err != nil {
			return err
		}

		note := fmt.Sprintf("Sale %s", sale.InvoiceNumber)
		return s.investorTxRepo.CreateTx(tx, &model.InvestorTransaction{
			OwnerID:    ownerID,
			InvestorID: req.InvestorID,
			Type:       model.TxIn,
			Amount:     total,
			Date:       date,
			Note:       &note,
			SaleID:     &sale.ID,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	return saleToResponse(&sale), nil
}

// Delete removes a sale, returns the reserved quantities to their purchase
// items and drops the linked inflow, atomically.
func (s *saleService) Delete(ctx context.Context, ownerID, id uint) error {
	existing, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("sale %d: %w", id, ErrNotFound)
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for i := range existing.Items {
			line := &existing.Items[i]
			if err := s.inventory.ReleaseSaleTx(tx, line.PurchaseItemID, line.Quantity); err != nil {
				return fmt.Errorf("purchase item %d: %w", line.PurchaseItemID, err)
			}
		}
		if err := s.investorTxRepo.DeleteBySaleTx(tx, existing.ID); err != nil {
			return err
		}
		if err := s.repo.DeleteItemsTx(tx, existing.ID); err != nil {
			return err
		}
		return s.repo.DeleteTx(tx, existing.ID)
	})
}

func (s *saleService) Get(ctx context.Context, ownerID, id uint) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("sale %d: %w", id, ErrNotFound)
	}
	return saleToResponse(sale), nil
}

func (s *saleService) List(ctx context.Context, ownerID uint, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.repo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		data = append(data, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{
		Data:     data,
		PageMeta: dto.PageMeta{Total: total, Page: filter.Page, Limit: filter.Limit},
	}, nil
}

func (s *saleService) ListAvailableInventory(ctx context.Context, ownerID, investorID uint) ([]dto.AvailableItemResponse, error) {
	if _, err := s.investorRepo.FindByID(ctx, ownerID, investorID); err != nil {
		return nil, fmt.Errorf("investor %d: %w", investorID, ErrNotFound)
	}
	return s.inventory.ListAvailable(ctx, ownerID, investorID)
}

func saleToResponse(sale *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for i := range sale.Items {
		line := &sale.Items[i]
		out := dto.SaleItemResponse{
			ID:             line.ID,
			PurchaseItemID: line.PurchaseItemID,
			Quantity:       line.Quantity,
			SalePrice:      line.SalePrice,
			Subtotal:       line.Subtotal,
		}
		if line.PurchaseItem != nil {
			out.ProductName = line.PurchaseItem.ProductName
		}
		items = append(items, out)
	}
	resp := &dto.SaleResponse{
		ID:             sale.ID,
		InvestorID:     sale.InvestorID,
		InvoiceNumber:  sale.InvoiceNumber,
		SaleDate:       sale.SaleDate.Format(dateLayout),
		Subtotal:       sale.Subtotal,
		DiscountValue:  sale.DiscountValue,
		DiscountReason: sale.DiscountReason,
		Total:          sale.Total,
		Currency:       sale.Currency,
		Note:           sale.Note,
		Items:          items,
		CreatedAt:      sale.CreatedAt.Format(time.RFC3339),
	}
	if sale.Investor != nil {
		resp.InvestorName = sale.Investor.Name
	}
	return resp
}
