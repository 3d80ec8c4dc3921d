package handler

import (
	"net/http"

	"github.com/ElenaG-E/temucosoft/internal/apierror"
	"github.com/ElenaG-E/temucosoft/internal/dto"
	"github.com/ElenaG-E/temucosoft/internal/middleware"
	"github.com/ElenaG-E/temucosoft/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

func (h *InventoryHandler) List(c *gin.Context) {
	tenant, ok := middleware.TenantFromClaims(c)
	if !ok {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), tenant)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list inventory"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Adjust applies a manual stock correction (shrinkage, recount). The reason
// is mandatory; the delta can never drive stock negative.
func (h *InventoryHandler) Adjust(c *gin.Context) {
	tenant, ok := middleware.TenantFromClaims(c)
	if !ok {
		return
	}
	var req dto.AdjustInventoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Adjust(c.Request.Context(), tenant, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
