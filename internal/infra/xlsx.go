package infra

import (
	"fmt"
	"io"

	"github.com/iskanderbentaleb/partenairex10/internal/dto"

	"github.com/xuri/excelize/v2"
)

// WriteBalancesXLSX streams the balances workbook: one sheet of investor
// balances, one of supplier debts.
func WriteBalancesXLSX(w io.Writer, balances []dto.InvestorBalanceRow, debts []dto.SupplierDebtRow) error {
	f := excelize.NewFile()
	defer f.Close()

	const balanceSheet = "Balances"
	idx, err := f.NewSheet(balanceSheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	if err := writeHeaders(f, balanceSheet,
		"Investor", "Available cash", "Cash in process", "Total capital", "Profit"); err != nil {
		return err
	}
	for i, row := range balances {
		line := i + 2
		f.SetCellValue(balanceSheet, "A"+fmt.Sprint(line), row.Name)
		f.SetCellValue(balanceSheet, "B"+fmt.Sprint(line), row.AvailableCash.InexactFloat64())
		f.SetCellValue(balanceSheet, "C"+fmt.Sprint(line), row.CashInProcess.InexactFloat64())
		f.SetCellValue(balanceSheet, "D"+fmt.Sprint(line), row.TotalCapital.InexactFloat64())
		f.SetCellValue(balanceSheet, "E"+fmt.Sprint(line), row.Profit.InexactFloat64())
	}

	const debtSheet = "Supplier debts"
	if _, err := f.NewSheet(debtSheet); err != nil {
		return err
	}
	if err := writeHeaders(f, debtSheet,
		"Supplier", "Purchases total", "Payments total", "Debt"); err != nil {
		return err
	}
	for i, row := range debts {
		line := i + 2
		f.SetCellValue(debtSheet, "A"+fmt.Sprint(line), row.Name)
		f.SetCellValue(debtSheet, "B"+fmt.Sprint(line), row.PurchasesTotal.InexactFloat64())
		f.SetCellValue(debtSheet, "C"+fmt.Sprint(line), row.PaymentsTotal.InexactFloat64())
		f.SetCellValue(debtSheet, "D"+fmt.Sprint(line), row.Debt.InexactFloat64())
	}

	return f.Write(w)
}

func writeHeaders(f *excelize.File, sheet string, headers ...string) error {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	return nil
}
