package handler

import (
	"net/http"

	"github.com/ElenaG-E/temucosoft/internal/apierror"
	"github.com/ElenaG-E/temucosoft/internal/dto"
	"github.com/ElenaG-E/temucosoft/internal/middleware"
	"github.com/ElenaG-E/temucosoft/internal/service"

	"github.com/gin-gonic/gin"
)

// DocumentsHandler serves purchase and sale registration — both run the
// shared transactional document workflow.
type DocumentsHandler struct{ svc service.DocumentService }

func NewDocumentsHandler(svc service.DocumentService) *DocumentsHandler {
	return &DocumentsHandler{svc: svc}
}

// CreatePurchase registers incoming stock from a supplier.
// @Summary Register a purchase
// @Tags documents
// @Accept json
// @Produce json
// @Param body body dto.CreatePurchaseRequest true "Purchase"
// @Success 201 {object} dto.PurchaseResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/purchases [post]
func (h *DocumentsHandler) CreatePurchase(c *gin.Context) {
	tenant, ok := middleware.TenantFromClaims(c)
	if !ok {
		return
	}
	var req dto.CreatePurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreatePurchase(c.Request.Context(), tenant, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DocumentsHandler) ListPurchases(c *gin.Context) {
	tenant, ok := middleware.TenantFromClaims(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListPurchases(c.Request.Context(), tenant)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list purchases"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateSale registers a point-of-sale transaction and decrements stock.
// @Summary Register a sale
// @Tags documents
// @Accept json
// @Produce json
// @Param body body dto.CreateSaleRequest true "Sale"
// @Success 201 {object} dto.SaleResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/sales [post]
func (h *DocumentsHandler) CreateSale(c *gin.Context) {
	tenant, ok := middleware.TenantFromClaims(c)
	if !ok {
		return
	}
	var req dto.CreateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateSale(c.Request.Context(), tenant, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DocumentsHandler) ListSales(c *gin.Context) {
	tenant, ok := middleware.TenantFromClaims(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListSales(c.Request.Context(), tenant)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list sales"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
