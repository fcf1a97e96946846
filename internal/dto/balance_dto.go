package dto

import "github.com/shopspring/decimal"

// InvestorBalancesResponse carries the derived figures for one investor.
// All four are recomputed from the ledger and inventory on every read.
type InvestorBalancesResponse struct {
	InvestorID    uint            `json:"investor_id"`
	AvailableCash decimal.Decimal `json:"available_cash"`
	CashInProcess decimal.Decimal `json:"cash_in_process"`
	TotalCapital  decimal.Decimal `json:"total_capital"`
	Profit        decimal.Decimal `json:"profit"`
}

// InvestorBalanceRow is one line of the balances export.
type InvestorBalanceRow struct {
	InvestorID    uint
	Name          string
	AvailableCash decimal.Decimal
	CashInProcess decimal.Decimal
	TotalCapital  decimal.Decimal
	Profit        decimal.Decimal
}

// SupplierDebtRow is one line of the debts sheet in the balances export.
type SupplierDebtRow struct {
	SupplierID     uint
	Name           string
	PurchasesTotal decimal.Decimal
	PaymentsTotal  decimal.Decimal
	Debt           decimal.Decimal
}

// SupplierDebtResponse: debt = purchases_total - payments_total.
// Negative debt means the supplier was prepaid.
type SupplierDebtResponse struct {
	SupplierID     uint            `json:"supplier_id"`
	PurchasesTotal decimal.Decimal `json:"purchases_total"`
	PaymentsTotal  decimal.Decimal `json:"payments_total"`
	Debt           decimal.Decimal `json:"debt"`
}
