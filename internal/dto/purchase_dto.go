package dto

import "github.com/shopspring/decimal"

// PurchaseItemInput is one stock line of a purchase create/update request.
// On update, a non-nil ID targets an existing item; missing ids are
// created, absent existing items are deleted (if unsold).
type PurchaseItemInput struct {
	ID               *uint           `json:"id"`
	ProductName      string          `json:"product_name"      validate:"required,min=1"`
	BarcodePrincipal string          `json:"barcode_principal"`
	Quantity         int             `json:"quantity"          validate:"required,min=1"`
	UnitPrice        decimal.Decimal `json:"unit_price"        validate:"required"`
	SalePrice        decimal.Decimal `json:"sale_price"        validate:"required"`
}

type PurchaseRequest struct {
	SupplierID     uint              `json:"supplier_id"   validate:"required"`
	InvestorID     uint              `json:"investor_id"   validate:"required"`
	InvoiceNumber  string            `json:"invoice_number" validate:"required"`
	PurchaseDate   string            `json:"purchase_date" validate:"required,datetime=2006-01-02"`
	Subtotal       decimal.Decimal   `json:"subtotal"       validate:"required"`
	DiscountValue  decimal.Decimal   `json:"discount_value"`
	DiscountReason *string           `json:"discount_reason"`
	ShippingValue  decimal.Decimal   `json:"shipping_value"`
	ShippingNote   *string           `json:"shipping_note"`
	Total          decimal.Decimal   `json:"total"          validate:"required"`
	AmountPaid     decimal.Decimal   `json:"amount_paid"`
	Currency       string            `json:"currency"       validate:"omitempty,len=3"`
	Note           *string           `json:"note"`
	Items          []PurchaseItemInput `json:"items" validate:"required,min=1,dive"`

	// InvoiceImage is the stored file key set by the handler after the
	// upload lands in the invoice store; the core only manages the reference.
	InvoiceImage *string `json:"-"`
}

type PurchaseItemResponse struct {
	ID               uint            `json:"id"`
	ProductName      string          `json:"product_name"`
	BarcodePrincipal string          `json:"barcode_principal"`
	BarcodeGenerated string          `json:"barcode_generated"`
	Quantity         int             `json:"quantity"`
	QuantitySelled   int             `json:"quantity_selled"`
	AvailableQuantity int            `json:"available_quantity"`
	SoldPercentage   float64         `json:"sold_percentage"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	SalePrice        decimal.Decimal `json:"sale_price"`
	Subtotal         decimal.Decimal `json:"subtotal"`
}

type PurchaseResponse struct {
	ID             uint                   `json:"id"`
	SupplierID     uint                   `json:"supplier_id"`
	SupplierName   string                 `json:"supplier_name,omitempty"`
	InvestorID     uint                   `json:"investor_id"`
	InvestorName   string                 `json:"investor_name,omitempty"`
	InvoiceNumber  string                 `json:"invoice_number"`
	PurchaseDate   string                 `json:"purchase_date"`
	Subtotal       decimal.Decimal        `json:"subtotal"`
	DiscountValue  decimal.Decimal        `json:"discount_value"`
	DiscountReason *string                `json:"discount_reason"`
	ShippingValue  decimal.Decimal        `json:"shipping_value"`
	ShippingNote   *string                `json:"shipping_note"`
	Total          decimal.Decimal        `json:"total"`
	AmountPaid     decimal.Decimal        `json:"amount_paid"`
	Currency       string                 `json:"currency"`
	InvoiceImage   *string                `json:"invoice_image"`
	Note           *string                `json:"note"`
	Items          []PurchaseItemResponse `json:"items"`
	CreatedAt      string                 `json:"created_at"`
}

type PurchaseFilter struct {
	SupplierID uint   `form:"supplier_id"`
	InvestorID uint   `form:"investor_id"`
	From       string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To         string `form:"to"   validate:"omitempty,datetime=2006-01-02"`
	Search     string `form:"search"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type PurchaseListResponse struct {
	Data []PurchaseResponse `json:"data"`
	PageMeta
}
