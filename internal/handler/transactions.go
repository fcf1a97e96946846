package handler

import (
	"net/http"

	"github.com/iskanderbentaleb/partenairex10/internal/dto"
	"github.com/iskanderbentaleb/partenairex10/internal/service"

	"github.com/gin-gonic/gin"
)

type TransactionsHandler struct{ svc service.LedgerService }

func NewTransactionsHandler(svc service.LedgerService) *TransactionsHandler {
	return &TransactionsHandler{svc: svc}
}

// ── Supplier ledger ──────────────────────────────────────────────────────────

func (h *TransactionsHandler) CreateSupplier(c *gin.Context) {
	var req dto.SupplierTransactionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateSupplierTransaction(c.Request.Context(), ownerID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TransactionsHandler) UpdateSupplier(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req dto.TransactionUpdateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateSupplierTransaction(c.Request.Context(), ownerID(c), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TransactionsHandler) DeleteSupplier(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteSupplierTransaction(c.Request.Context(), ownerID(c), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TransactionsHandler) ListSupplier(c *gin.Context) {
	var filter dto.TransactionFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.ListSupplierTransactions(c.Request.Context(), ownerID(c), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Investor ledger ──────────────────────────────────────────────────────────

func (h *TransactionsHandler) CreateInvestor(c *gin.Context) {
	var req dto.InvestorTransactionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateInvestorTransaction(c.Request.Context(), ownerID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TransactionsHandler) UpdateInvestor(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req dto.TransactionUpdateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateInvestorTransaction(c.Request.Context(), ownerID(c), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TransactionsHandler) DeleteInvestor(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteInvestorTransaction(c.Request.Context(), ownerID(c), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TransactionsHandler) ListInvestor(c *gin.Context) {
	var filter dto.TransactionFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.ListInvestorTransactions(c.Request.Context(), ownerID(c), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
