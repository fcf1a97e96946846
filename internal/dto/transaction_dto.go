package dto

import "github.com/shopspring/decimal"

type SupplierTransactionRequest struct {
	SupplierID uint            `json:"supplier_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount"      validate:"required"`
	Date       string          `json:"date"        validate:"required,datetime=2006-01-02"`
	Note       *string         `json:"note"`
}

type InvestorTransactionRequest struct {
	InvestorID uint            `json:"investor_id" validate:"required"`
	Type       string          `json:"type"        validate:"required,oneof=In Out"`
	Amount     decimal.Decimal `json:"amount"      validate:"required"`
	Date       string          `json:"date"        validate:"required,datetime=2006-01-02"`
	Note       *string         `json:"note"`
}

// TransactionUpdateRequest edits a manual ledger row. Linked rows reject
// these edits at the service boundary.
type TransactionUpdateRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Date   string          `json:"date"   validate:"required,datetime=2006-01-02"`
	Note   *string         `json:"note"`
	// Type only applies to investor transactions.
	Type string `json:"type" validate:"omitempty,oneof=In Out"`
}

type SupplierTransactionResponse struct {
	ID           uint            `json:"id"`
	SupplierID   uint            `json:"supplier_id"`
	SupplierName string          `json:"supplier_name,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date"`
	Note         *string         `json:"note"`
	PurchaseID   *uint           `json:"purchase_id"`
	Linked       bool            `json:"linked"`
}

type InvestorTransactionResponse struct {
	ID           uint            `json:"id"`
	InvestorID   uint            `json:"investor_id"`
	InvestorName string          `json:"investor_name,omitempty"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date"`
	Note         *string         `json:"note"`
	PurchaseID   *uint           `json:"purchase_id"`
	SaleID       *uint           `json:"sale_id"`
	Linked       bool            `json:"linked"`
}

type TransactionFilter struct {
	PartyID uint   `form:"party_id"`
	Type    string `form:"type" validate:"omitempty,oneof=In Out"`
	From    string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To      string `form:"to"   validate:"omitempty,datetime=2006-01-02"`
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SupplierTransactionListResponse struct {
	Data []SupplierTransactionResponse `json:"data"`
	PageMeta
}

type InvestorTransactionListResponse struct {
	Data []InvestorTransactionResponse `json:"data"`
	PageMeta
}
