package dto

import "github.com/shopspring/decimal"

// SaleLineInput requests quantity from one of the investor's purchase items.
type SaleLineInput struct {
	PurchaseItemID uint            `json:"purchase_item_id" validate:"required"`
	Quantity       int             `json:"quantity"         validate:"required,min=1"`
	SalePrice      decimal.Decimal `json:"sale_price"       validate:"required"`
}

type SaleRequest struct {
	InvestorID     uint            `json:"investor_id"    validate:"required"`
	InvoiceNumber  string          `json:"invoice_number" validate:"required"`
	SaleDate       string          `json:"sale_date"      validate:"required,datetime=2006-01-02"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	DiscountReason *string         `json:"discount_reason"`
	Currency       string          `json:"currency" validate:"omitempty,len=3"`
	Note           *string         `json:"note"`
	Items          []SaleLineInput `json:"items" validate:"required,min=1,dive"`
}

type SaleItemResponse struct {
	ID             uint            `json:"id"`
	PurchaseItemID uint            `json:"purchase_item_id"`
	ProductName    string          `json:"product_name,omitempty"`
	Quantity       int             `json:"quantity"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID             uint               `json:"id"`
	InvestorID     uint               `json:"investor_id"`
	InvestorName   string             `json:"investor_name,omitempty"`
	InvoiceNumber  string             `json:"invoice_number"`
	SaleDate       string             `json:"sale_date"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	DiscountValue  decimal.Decimal    `json:"discount_value"`
	DiscountReason *string            `json:"discount_reason"`
	Total          decimal.Decimal    `json:"total"`
	Currency       string             `json:"currency"`
	Note           *string            `json:"note"`
	Items          []SaleItemResponse `json:"items"`
	CreatedAt      string             `json:"created_at"`
}

type SaleFilter struct {
	InvestorID uint   `form:"investor_id"`
	From       string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To         string `form:"to"   validate:"omitempty,datetime=2006-01-02"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SaleListResponse struct {
	Data []SaleResponse `json:"data"`
	PageMeta
}

// AvailableItemResponse lists sellable stock for one investor.
type AvailableItemResponse struct {
	ID                uint            `json:"id"`
	PurchaseID        uint            `json:"purchase_id"`
	ProductName       string          `json:"product_name"`
	BarcodeGenerated  string          `json:"barcode_generated"`
	AvailableQuantity int             `json:"available_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	SalePrice         decimal.Decimal `json:"sale_price"`
}
