package handler

import (
	"net/http"

	"github.com/ElenaG-E/temucosoft/internal/apierror"
	"github.com/ElenaG-E/temucosoft/internal/dto"
	"github.com/ElenaG-E/temucosoft/internal/middleware"
	"github.com/ElenaG-E/temucosoft/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BranchesHandler struct{ svc service.BranchService }

func NewBranchesHandler(svc service.BranchService) *BranchesHandler {
	return &BranchesHandler{svc: svc}
}

func (h *BranchesHandler) Create(c *gin.Context) {
	tenant, ok := middleware.TenantFromClaims(c)
	if !ok {
		return
	}
	var req dto.CreateBranchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), tenant, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *BranchesHandler) List(c *gin.Context) {
	tenant, ok := middleware.TenantFromClaims(c)
	if !ok {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), tenant)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list branches"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BranchesHandler) Update(c *gin.Context) {
	tenant, ok := middleware.TenantFromClaims(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.CreateBranchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), tenant, id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BranchesHandler) Deactivate(c *gin.Context) {
	tenant, ok := middleware.TenantFromClaims(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), tenant, id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
