package service

import (
	"context"
	"fmt"

	"github.com/iskanderbentaleb/partenairex10/internal/dto"
	"github.com/iskanderbentaleb/partenairex10/internal/model"
	"github.com/iskanderbentaleb/partenairex10/internal/repository"

	"gorm.io/gorm"
)

// InventoryService owns per-item sold/available quantities and barcode
// identity. The Tx methods run inside the calling workflow's transaction;
// they are the only writers to quantity_selled.
type InventoryService interface {
	CreateItemTx(tx *gorm.DB, purchaseID uint, in dto.PurchaseItemInput) (*model.PurchaseItem, error)
	// UpdateItemTx applies the incoming values to an existing item. The
	// generated barcode is never reassigned, even when the principal
	// barcode changes. field is the input path for error reporting.
	UpdateItemTx(tx *gorm.DB, item *model.PurchaseItem, in dto.PurchaseItemInput, field string) error
	DeleteItemTx(tx *gorm.DB, item *model.PurchaseItem) error
	ReserveSaleTx(tx *gorm.DB, itemID uint, qty int) error
	ReleaseSaleTx(tx *gorm.DB, itemID uint, qty int) error
	ListAvailable(ctx context.Context, ownerID, investorID uint) ([]dto.AvailableItemResponse, error)
}

type inventoryService struct {
	repo repository.PurchaseItemRepository
}

func NewInventoryService(repo repository.PurchaseItemRepository) InventoryService {
	return &inventoryService{repo: repo}
}

// GeneratedBarcode derives the system barcode for an item: uppercase hex
// of the numeric row id, then the supplier's principal barcode verbatim.
// Assigned once at creation; later changes to the principal barcode never
// touch it.
func GeneratedBarcode(id uint, principal string) string {
	return fmt.Sprintf("%X", id) + principal
}

func (s *inventoryService) CreateItemTx(tx *gorm.DB, purchaseID uint, in dto.PurchaseItemInput) (*model.PurchaseItem, error) {
	item := &model.PurchaseItem{
		PurchaseID:       purchaseID,
		ProductName:      in.ProductName,
		BarcodePrincipal: in.BarcodePrincipal,
		Quantity:         in.Quantity,
		QuantitySelled:   0,
		UnitPrice:        in.UnitPrice,
		SalePrice:        in.SalePrice,
		Subtotal:         in.UnitPrice.Mul(intToDecimal(in.Quantity)),
	}
	if err := s.repo.CreateTx(tx, item); err != nil {
		return nil, err
	}

	// The barcode needs the row id, so it is assigned by a second update
	// in the same transaction.
	item.BarcodeGenerated = GeneratedBarcode(item.ID, in.BarcodePrincipal)
	if err := s.repo.SetGeneratedBarcodeTx(tx, item.ID, item.BarcodeGenerated); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *inventoryService) UpdateItemTx(tx *gorm.DB, item *model.PurchaseItem, in dto.PurchaseItemInput, field string) error {
	if in.Quantity < item.QuantitySelled {
		return fieldErr(field+".quantity", fmt.Errorf("%w: %d already sold", ErrBelowSoldQuantity, item.QuantitySelled))
	}
	item.ProductName = in.ProductName
	item.BarcodePrincipal = in.BarcodePrincipal
	item.Quantity = in.Quantity
	item.UnitPrice = in.UnitPrice
	item.SalePrice = in.SalePrice
	item.Subtotal = in.UnitPrice.Mul(intToDecimal(in.Quantity))
	return s.repo.SaveTx(tx, item)
}

func (s *inventoryService) DeleteItemTx(tx *gorm.DB, item *model.PurchaseItem) error {
	if item.QuantitySelled > 0 {
		return fmt.Errorf("item %d: %w", item.ID, ErrItemHasSales)
	}
	return s.repo.DeleteTx(tx, item.ID)
}

func (s *inventoryService) ReserveSaleTx(tx *gorm.DB, itemID uint, qty int) error {
	ok, err := s.repo.ReserveTx(tx, itemID, qty)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("item %d: %w", itemID, ErrInsufficientStock)
	}
	return nil
}

func (s *inventoryService) ReleaseSaleTx(tx *gorm.DB, itemID uint, qty int) error {
	ok, err := s.repo.ReleaseTx(tx, itemID, qty)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("item %d: release of %d would go below zero: %w", itemID, qty, ErrConflict)
	}
	return nil
}

func (s *inventoryService) ListAvailable(ctx context.Context, ownerID, investorID uint) ([]dto.AvailableItemResponse, error) {
	items, err := s.repo.ListAvailableByInvestor(ctx, ownerID, investorID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.AvailableItemResponse, 0, len(items))
	for i := range items {
		item := &items[i]
		resp = append(resp, dto.AvailableItemResponse{
			ID:                item.ID,
			PurchaseID:        item.PurchaseID,
			ProductName:       item.ProductName,
			BarcodeGenerated:  item.BarcodeGenerated,
			AvailableQuantity: item.AvailableQuantity(),
			UnitPrice:         item.UnitPrice,
			SalePrice:         item.SalePrice,
		})
	}
	return resp, nil
}
