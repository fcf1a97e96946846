package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/iskanderbentaleb/partenairex10/internal/apierror"
	"github.com/iskanderbentaleb/partenairex10/internal/dto"
	"github.com/iskanderbentaleb/partenairex10/internal/infra"
	"github.com/iskanderbentaleb/partenairex10/internal/service"

	"github.com/gin-gonic/gin"
)

type PurchasesHandler struct {
	svc   service.PurchaseService
	store *infra.InvoiceStore
}

func NewPurchasesHandler(svc service.PurchaseService, store *infra.InvoiceStore) *PurchasesHandler {
	return &PurchasesHandler{svc: svc, store: store}
}

// bindPurchase accepts either a plain JSON body or multipart form data with
// a "payload" JSON part plus an optional "invoice_image" file. The stored
// file key is threaded into the request; the core only sees the reference.
func (h *PurchasesHandler) bindPurchase(c *gin.Context, req *dto.PurchaseRequest) bool {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		payload := c.PostForm("payload")
		if payload == "" {
			c.JSON(http.StatusBadRequest, apierror.New("missing payload part"))
			return false
		}
		if err := json.Unmarshal([]byte(payload), req); err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
			return false
		}
		if !validateStruct(c, req) {
			return false
		}
		file, err := c.FormFile("invoice_image")
		if err == nil {
			key, err := h.store.Save(file)
			if err != nil {
				c.JSON(http.StatusInternalServerError, apierror.New("failed to store invoice image"))
				return false
			}
			req.InvoiceImage = &key
		}
		return true
	}
	return bindAndValidate(c, req)
}

func (h *PurchasesHandler) Create(c *gin.Context) {
	var req dto.PurchaseRequest
	if !h.bindPurchase(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), ownerID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PurchasesHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req dto.PurchaseRequest
	if !h.bindPurchase(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), ownerID(c), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PurchasesHandler) Delete(c *gin.Context) {
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

func (h *PurchasesHandler) Get(c *gin.Context) {
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

func (h *PurchasesHandler) List(c *gin.Context) {
	var filter dto.PurchaseFilter
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

// DownloadPDF renders and streams the generated purchase invoice.
func (h *PurchasesHandler) DownloadPDF(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	path, err := h.svc.GenerateInvoicePDF(c.Request.Context(), ownerID(c), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.FileAttachment(path, "purchase_"+c.Param("id")+".pdf")
}

// DownloadInvoiceImage streams the uploaded invoice file.
func (h *PurchasesHandler) DownloadInvoiceImage(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), ownerID(c), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if resp.InvoiceImage == nil {
		c.JSON(http.StatusNotFound, apierror.New("purchase has no invoice image"))
		return
	}
	path, err := h.store.Path(*resp.InvoiceImage)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("invoice file missing"))
		return
	}
	c.File(path)
}
