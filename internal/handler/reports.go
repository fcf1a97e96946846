package handler

import (
	"net/http"

	"github.com/iskanderbentaleb/partenairex10/internal/apierror"
	"github.com/iskanderbentaleb/partenairex10/internal/dto"
	"github.com/iskanderbentaleb/partenairex10/internal/infra"
	"github.com/iskanderbentaleb/partenairex10/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct {
	suppliers service.SupplierService
	investors service.InvestorService
	balances  service.BalanceService
}

func NewReportsHandler(suppliers service.SupplierService, investors service.InvestorService, balances service.BalanceService) *ReportsHandler {
	return &ReportsHandler{suppliers: suppliers, investors: investors, balances: balances}
}

// BalancesXLSX streams a workbook with one sheet of investor balances and
// one of supplier debts, all figures derived at request time.
func (h *ReportsHandler) BalancesXLSX(c *gin.Context) {
	ctx := c.Request.Context()
	owner := ownerID(c)

	investors, err := h.investors.List(ctx, owner, dto.PageFilter{Page: 1, Limit: 200})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	balanceRows := make([]dto.InvestorBalanceRow, 0, len(investors.Data))
	for _, inv := range investors.Data {
		b, err := h.balances.InvestorBalances(ctx, owner, inv.ID)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		balanceRows = append(balanceRows, dto.InvestorBalanceRow{
			InvestorID:    inv.ID,
			Name:          inv.Name,
			AvailableCash: b.AvailableCash,
			CashInProcess: b.CashInProcess,
			TotalCapital:  b.TotalCapital,
			Profit:        b.Profit,
		})
	}

	suppliers, err := h.suppliers.List(ctx, owner, dto.PageFilter{Page: 1, Limit: 200})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	debtRows := make([]dto.SupplierDebtRow, 0, len(suppliers.Data))
	for _, sup := range suppliers.Data {
		d, err := h.balances.SupplierDebt(ctx, owner, sup.ID)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		debtRows = append(debtRows, dto.SupplierDebtRow{
			SupplierID:     sup.ID,
			Name:           sup.Name,
			PurchasesTotal: d.PurchasesTotal,
			PaymentsTotal:  d.PaymentsTotal,
			Debt:           d.Debt,
		})
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=balances.xlsx")
	if err := infra.WriteBalancesXLSX(c.Writer, balanceRows, debtRows); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to write report"))
	}
}
