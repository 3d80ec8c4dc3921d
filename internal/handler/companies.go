package handler

import (
	"net/http"

	"github.com/ElenaG-E/temucosoft/internal/apierror"
	"github.com/ElenaG-E/temucosoft/internal/dto"
	"github.com/ElenaG-E/temucosoft/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CompaniesHandler serves the platform-level tenant administration; every
// route behind it is SUPER_ADMIN only.
type CompaniesHandler struct{ svc service.CompanyService }

func NewCompaniesHandler(svc service.CompanyService) *CompaniesHandler {
	return &CompaniesHandler{svc: svc}
}

func (h *CompaniesHandler) Create(c *gin.Context) {
	var req dto.CreateCompanyRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CompaniesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CompaniesHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list companies"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CompaniesHandler) Subscribe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.CreateSubscriptionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Subscribe(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
