package handler

import (
	"net/http"

	"github.com/iskanderbentaleb/partenairex10/internal/dto"
	"github.com/iskanderbentaleb/partenairex10/internal/service"

	"github.com/gin-gonic/gin"
)

type InvestorsHandler struct {
	svc      service.InvestorService
	balances service.BalanceService
}

func NewInvestorsHandler(svc service.InvestorService, balances service.BalanceService) *InvestorsHandler {
	return &InvestorsHandler{svc: svc, balances: balances}
}

func (h *InvestorsHandler) Create(c *gin.Context) {
	var req dto.InvestorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), ownerID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InvestorsHandler) List(c *gin.Context) {
	var filter dto.PageFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), ownerID(c), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InvestorsHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), ownerID(c), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InvestorsHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req dto.InvestorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), ownerID(c), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InvestorsHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), ownerID(c), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Balances exposes the derived investor figures, recomputed on every call.
func (h *InvestorsHandler) Balances(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.balances.InvestorBalances(c.Request.Context(), ownerID(c), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
