package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iskanderbentaleb/partenairex10/internal/dto"
	"github.com/iskanderbentaleb/partenairex10/internal/infra"
	"github.com/iskanderbentaleb/partenairex10/internal/model"
	"github.com/iskanderbentaleb/partenairex10/internal/repository"
	"github.com/iskanderbentaleb/partenairex10/internal/worker"

	"gorm.io/gorm"
)

// PurchaseService orchestrates a purchase together with its items and the
// two implied ledger rows (supplier payment for amount_paid, investor
// outflow for total). Every mutation runs in one transaction: a failure
// at any step leaves no partial purchase, no orphan items, no dangling
// ledger rows.
type PurchaseService interface {
	Create(ctx context.Context, ownerID uint, req dto.PurchaseRequest) (*dto.PurchaseResponse, error)
	Update(ctx context.Context, ownerID, id uint, req dto.PurchaseRequest) (*dto.PurchaseResponse, error)
	Delete(ctx context.Context, ownerID, id uint) error
	Get(ctx context.Context, ownerID, id uint) (*dto.PurchaseResponse, error)
	List(ctx context.Context, ownerID uint, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error)
	// GenerateInvoicePDF renders the purchase to a PDF file and returns its
	// on-disk path.
	GenerateInvoicePDF(ctx context.Context, ownerID, id uint) (string, error)
}

type purchaseService struct {
	repo            repository.PurchaseRepository
	inventory       InventoryService
	supplierRepo    repository.SupplierRepository
	investorRepo    repository.InvestorRepository
	supplierTxRepo  repository.SupplierTransactionRepository
	investorTxRepo  repository.InvestorTransactionRepository
	saleRepo        repository.SaleRepository
	dispatcher      *worker.Dispatcher
	defaultCurrency string
	pdfStoragePath  string
}

func NewPurchaseService(
	repo repository.PurchaseRepository,
	inventory InventoryService,
	supplierRepo repository.SupplierRepository,
	investorRepo repository.InvestorRepository,
	supplierTxRepo repository.SupplierTransactionRepository,
	investorTxRepo repository.InvestorTransactionRepository,
	saleRepo repository.SaleRepository,
	dispatcher *worker.Dispatcher,
	defaultCurrency string,
	pdfStoragePath string,
) PurchaseService {
	return &purchaseService{
		repo:            repo,
		inventory:       inventory,
		supplierRepo:    supplierRepo,
		investorRepo:    investorRepo,
		supplierTxRepo:  supplierTxRepo,
		investorTxRepo:  investorTxRepo,
		saleRepo:        saleRepo,
		dispatcher:      dispatcher,
		defaultCurrency: defaultCurrency,
		pdfStoragePath:  pdfStoragePath,
	}
}

// validatePurchase rejects out-of-range amounts before any storage write.
func validatePurchase(req *dto.PurchaseRequest) error {
	if req.Subtotal.IsNegative() {
		return validationErr("subtotal", "must be >= 0")
	}
	if req.DiscountValue.IsNegative() {
		return validationErr("discount_value", "must be >= 0")
	}
	if req.DiscountValue.GreaterThan(req.Subtotal) {
		return validationErr("discount_value", "cannot exceed subtotal")
	}
	if req.ShippingValue.IsNegative() {
		return validationErr("shipping_value", "must be >= 0")
	}
	if req.AmountPaid.IsNegative() {
		return validationErr("amount_paid", "must be >= 0")
	}
	if req.AmountPaid.GreaterThan(req.Total) {
		return fieldErr("amount_paid", fmt.Errorf("%w: paid %s of %s",
			ErrOverpayment, req.AmountPaid.String(), req.Total.String()))
	}
	for i, in := range req.Items {
		if in.Quantity < 1 {
			return validationErr(fmt.Sprintf("items[%d].quantity", i), "must be >= 1")
		}
		if in.UnitPrice.IsNegative() {
			return validationErr(fmt.Sprintf("items[%d].unit_price", i), "must be >= 0")
		}
		if in.SalePrice.IsNegative() {
			return validationErr(fmt.Sprintf("items[%d].sale_price", i), "must be >= 0")
		}
	}
	return nil
}

func (s *purchaseService) resolveRefs(ctx context.Context, ownerID uint, req *dto.PurchaseRequest) error {
	if _, err := s.supplierRepo.FindByID(ctx, ownerID, req.SupplierID); err != nil {
		return fieldErr("supplier_id", fmt.Errorf("supplier %d: %w", req.SupplierID, ErrNotFound))
	}
	if _, err := s.investorRepo.FindByID(ctx, ownerID, req.InvestorID); err != nil {
		return fieldErr("investor_id", fmt.Errorf("investor %d: %w", req.InvestorID, ErrNotFound))
	}
	return nil
}

func (s *purchaseService) Create(ctx context.Context, ownerID uint, req dto.PurchaseRequest) (*dto.PurchaseResponse, error) {
	if err := s.resolveRefs(ctx, ownerID, &req); err != nil {
		return nil, err
	}
	if err := validatePurchase(&req); err != nil {
		return nil, err
	}
	date, err := parseDate("purchase_date", req.PurchaseDate)
	if err != nil {
		return nil, err
	}
	currency := req.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	purchase := model.Purchase{
		OwnerID:        ownerID,
		SupplierID:     req.SupplierID,
		InvestorID:     req.InvestorID,
		InvoiceNumber:  req.InvoiceNumber,
		PurchaseDate:   date,
		Subtotal:       req.Subtotal,
		DiscountValue:  req.DiscountValue,
		DiscountReason: req.DiscountReason,
		ShippingValue:  req.ShippingValue,
		ShippingNote:   req.ShippingNote,
		Total:          req.Total,
		AmountPaid:     req.AmountPaid,
		Currency:       currency,
		InvoiceImage:   req.InvoiceImage,
		Note:           req.Note,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(ctx, tx, &purchase); err != nil {
			return err
		}

		// Items first, then ledger rows, so the ledger notes can
		// reference the purchase.
		for i, in := range req.Items {
			item, err := s.inventory.CreateItemTx(tx, purchase.ID, in)
			if err != nil {
				return fmt.Errorf("items[%d]: %w", i, err)
			}
			purchase.Items = append(purchase.Items, *item)
		}

		return s.writeLinkedLedgerTx(tx, &purchase, date, true)
	})
	if txErr != nil {
		return nil, txErr
	}

	return purchaseToResponse(&purchase), nil
}

func (s *purchaseService) Update(ctx context.Context, ownerID, id uint, req dto.PurchaseRequest) (*dto.PurchaseResponse, error) {
	existing, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("purchase %d: %w", id, ErrNotFound)
	}
	if err := s.resolveRefs(ctx, ownerID, &req); err != nil {
		return nil, err
	}
	if err := validatePurchase(&req); err != nil {
		return nil, err
	}
	date, err := parseDate("purchase_date", req.PurchaseDate)
	if err != nil {
		return nil, err
	}

	oldImage := existing.InvoiceImage

	existing.SupplierID = req.SupplierID
	existing.InvestorID = req.InvestorID
	existing.InvoiceNumber = req.InvoiceNumber
	existing.PurchaseDate = date
	existing.Subtotal = req.Subtotal
	existing.DiscountValue = req.DiscountValue
	existing.DiscountReason = req.DiscountReason
	existing.ShippingValue = req.ShippingValue
	existing.ShippingNote = req.ShippingNote
	existing.Total = req.Total
	existing.AmountPaid = req.AmountPaid
	if req.Currency != "" {
		existing.Currency = req.Currency
	}
	existing.Note = req.Note
	if req.InvoiceImage != nil {
		existing.InvoiceImage = req.InvoiceImage
	}

	currentItems := existing.Items
	existingByID := make(map[uint]*model.PurchaseItem, len(currentItems))
	for i := range currentItems {
		existingByID[currentItems[i].ID] = &currentItems[i]
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		existing.Items = nil
		if err := s.repo.SaveTx(tx, existing); err != nil {
			return err
		}

		// Diff items by id: update matched, create new, delete missing.
		// Any per-item failure aborts the whole update.
		seen := make(map[uint]bool, len(req.Items))
		var updated []model.PurchaseItem
		for i, in := range req.Items {
			field := fmt.Sprintf("items[%d]", i)
			if in.ID != nil {
				item, ok := existingByID[*in.ID]
				if !ok {
					return fieldErr(field+".id", fmt.Errorf("item %d: %w", *in.ID, ErrNotFound))
				}
				if err := s.inventory.UpdateItemTx(tx, item, in, field); err != nil {
					return err
				}
				seen[item.ID] = true
				updated = append(updated, *item)
				continue
			}
			item, err := s.inventory.CreateItemTx(tx, existing.ID, in)
			if err != nil {
				return fmt.Errorf("%s: %w", field, err)
			}
			updated = append(updated, *item)
		}
		for i := range currentItems {
			if seen[currentItems[i].ID] {
				continue
			}
			if err := s.inventory.DeleteItemTx(tx, &currentItems[i]); err != nil {
				return err
			}
		}
		existing.Items = updated

		return s.writeLinkedLedgerTx(tx, existing, date, false)
	})
	if txErr != nil {
		return nil, txErr
	}

	// The replaced invoice file is removed only after the transaction
	// committed; losing the delete is tolerable, losing the purchase is not.
	if req.InvoiceImage != nil && oldImage != nil && *oldImage != *req.InvoiceImage {
		s.enqueueFileCleanup(ctx, *oldImage)
	}

	return purchaseToResponse(existing), nil
}

// writeLinkedLedgerTx creates or mirrors the two system-managed ledger
// rows. On update, a missing row is created instead (purchases recorded
// before ledger linking existed have none).
func (s *purchaseService) writeLinkedLedgerTx(tx *gorm.DB, p *model.Purchase, date time.Time, create bool) error {
	note := fmt.Sprintf("Purchase %s", p.InvoiceNumber)

	if create {
		supplierTx := &model.SupplierTransaction{
			OwnerID:    p.OwnerID,
			SupplierID: p.SupplierID,
			Amount:     p.AmountPaid,
			Date:       date,
			Note:       &note,
			PurchaseID: &p.ID,
		}
		if err := s.supplierTxRepo.CreateTx(tx, supplierTx); err != nil {
			return err
		}
		investorTx := &model.InvestorTransaction{
			OwnerID:    p.OwnerID,
			InvestorID: p.InvestorID,
			Type:       model.TxOut,
			Amount:     p.Total,
			Date:       date,
			Note:       &note,
			PurchaseID: &p.ID,
		}
		return s.investorTxRepo.CreateTx(tx, investorTx)
	}

	supplierTx, err := s.supplierTxRepo.FindByPurchaseTx(tx, p.ID)
	switch {
	case err == nil:
		supplierTx.SupplierID = p.SupplierID
		supplierTx.Amount = p.AmountPaid
		supplierTx.Date = date
		supplierTx.Note = &note
		if err := s.supplierTxRepo.SaveTx(tx, supplierTx); err != nil {
			return err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		supplierTx = &model.SupplierTransaction{
			OwnerID:    p.OwnerID,
			SupplierID: p.SupplierID,
			Amount:     p.AmountPaid,
			Date:       date,
			Note:       &note,
			PurchaseID: &p.ID,
		}
		if err := s.supplierTxRepo.CreateTx(tx, supplierTx); err != nil {
			return err
		}
	default:
		return err
	}

	investorTx, err := s.investorTxRepo.FindByPurchaseTx(tx, p.ID)
	switch {
	case err == nil:
		investorTx.InvestorID = p.InvestorID
		investorTx.Type = model.TxOut
		investorTx.Amount = p.Total
		investorTx.Date = date
		investorTx.Note = &note
		return s.investorTxRepo.SaveTx(tx, investorTx)
	case errors.Is(err, gorm.ErrRecordNotFound):
		investorTx = &model.InvestorTransaction{
			OwnerID:    p.OwnerID,
			InvestorID: p.InvestorID,
			Type:       model.TxOut,
			Amount:     p.Total,
			Date:       date,
			Note:       &note,
			PurchaseID: &p.ID,
		}
		return s.investorTxRepo.CreateTx(tx, investorTx)
	default:
		return err
	}
}

func (s *purchaseService) Delete(ctx context.Context, ownerID, id uint) error {
	existing, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("purchase %d: %w", id, ErrNotFound)
	}

	// Same guard as the update path: a purchase whose stock was already
	// sold cannot disappear from under the sale records.
	for i := range existing.Items {
		if existing.Items[i].QuantitySelled > 0 {
			return fmt.Errorf("item %d: %w", existing.Items[i].ID, ErrItemHasSales)
		}
	}

	// The counters alone are not enough: check the sale lines themselves
	// so a row that still references one of these items keeps the
	// purchase alive even when its counter was tampered back to zero.
	itemIDs := make([]uint, 0, len(existing.Items))
	for i := range existing.Items {
		itemIDs = append(itemIDs, existing.Items[i].ID)
	}
	if len(itemIDs) > 0 {
		n, err := s.saleRepo.CountByPurchaseItems(ctx, itemIDs)
		if err != nil {
			return fmt.Errorf("count sale lines: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("purchase %d: %d sale lines: %w", existing.ID, n, ErrItemHasSales)
		}
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.supplierTxRepo.DeleteByPurchaseTx(tx, existing.ID); err != nil {
			return err
		}
		if err := s.investorTxRepo.DeleteByPurchaseTx(tx, existing.ID); err != nil {
			return err
		}
		for i := range existing.Items {
			if err := s.inventory.DeleteItemTx(tx, &existing.Items[i]); err != nil {
				return err
			}
		}
		return s.repo.DeleteTx(tx, existing.ID)
	})
	if txErr != nil {
		return txErr
	}

	if existing.InvoiceImage != nil {
		s.enqueueFileCleanup(ctx, *existing.InvoiceImage)
	}
	return nil
}

func (s *purchaseService) Get(ctx context.Context, ownerID, id uint) (*dto.PurchaseResponse, error) {
	p, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("purchase %d: %w", id, ErrNotFound)
	}
	return purchaseToResponse(p), nil
}

func (s *purchaseService) List(ctx context.Context, ownerID uint, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	purchases, total, err := s.repo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		data = append(data, *purchaseToResponse(&purchases[i]))
	}
	return &dto.PurchaseListResponse{
		Data:     data,
		PageMeta: dto.PageMeta{Total: total, Page: filter.Page, Limit: filter.Limit},
	}, nil
}

func (s *purchaseService) GenerateInvoicePDF(ctx context.Context, ownerID, id uint) (string, error) {
	p, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return "", fmt.Errorf("purchase %d: %w", id, ErrNotFound)
	}
	return infra.GeneratePurchasePDF(p, s.pdfStoragePath)
}

// enqueueFileCleanup is best-effort — the file keeps no ledger state, so a
// lost job only leaves a stray file behind.
func (s *purchaseService) enqueueFileCleanup(ctx context.Context, storedKey string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.EnqueueFileCleanup(ctx, worker.FileCleanupPayload{StoredKey: storedKey})
}

func purchaseToResponse(p *model.Purchase) *dto.PurchaseResponse {
	items := make([]dto.PurchaseItemResponse, 0, len(p.Items))
	for i := range p.Items {
		item := &p.Items[i]
		items = append(items, dto.PurchaseItemResponse{
			ID:                item.ID,
			ProductName:       item.ProductName,
			BarcodePrincipal:  item.BarcodePrincipal,
			BarcodeGenerated:  item.BarcodeGenerated,
			Quantity:          item.Quantity,
			QuantitySelled:    item.QuantitySelled,
			AvailableQuantity: item.AvailableQuantity(),
			SoldPercentage:    item.SoldPercentage(),
			UnitPrice:         item.UnitPrice,
			SalePrice:         item.SalePrice,
			Subtotal:          item.Subtotal,
		})
	}
	resp := &dto.PurchaseResponse{
		ID:             p.ID,
		SupplierID:     p.SupplierID,
		InvestorID:     p.InvestorID,
		InvoiceNumber:  p.InvoiceNumber,
		PurchaseDate:   p.PurchaseDate.Format(dateLayout),
		Subtotal:       p.Subtotal,
		DiscountValue:  p.DiscountValue,
		DiscountReason: p.DiscountReason,
		ShippingValue:  p.ShippingValue,
		ShippingNote:   p.ShippingNote,
		Total:          p.Total,
		AmountPaid:     p.AmountPaid,
		Currency:       p.Currency,
		InvoiceImage:   p.InvoiceImage,
		Note:           p.Note,
		Items:          items,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
	if p.Supplier != nil {
		resp.SupplierName = p.Supplier.Name
	}
	if p.Investor != nil {
		resp.InvestorName = p.Investor.Name
	}
	return resp
}
