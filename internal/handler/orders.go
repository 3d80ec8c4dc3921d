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

type OrdersHandler struct {
	documents service.DocumentService
	orders    service.OrderService
}

func NewOrdersHandler(documents service.DocumentService, orders service.OrderService) *OrdersHandler {
	return &OrdersHandler{documents: documents, orders: orders}
}

// Create registers an order: stock is committed at creation, exactly like a
// sale, and the order starts its PENDIENTE lifecycle.
func (h *OrdersHandler) Create(c *gin.Context) {
	tenant, ok := middleware.TenantFromClaims(c)
	if !ok {
		return
	}
	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.documents.CreateOrder(c.Request.Context(), tenant, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *OrdersHandler) Get(c *gin.Context) {
	tenant, ok := middleware.TenantFromClaims(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.orders.Get(c.Request.Context(), tenant, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) List(c *gin.Context) {
	tenant, ok := middleware.TenantFromClaims(c)
	if !ok {
		return
	}
	resp, err := h.orders.List(c.Request.Context(), tenant, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list orders"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Transition moves an order through its state machine. Cancelling restores
// the committed stock in the same transaction.
// @Summary Transition order status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param body body dto.TransitionOrderRequest true "Target status"
// @Success 200 {object} dto.OrderResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/orders/{id}/status [patch]
func (h *OrdersHandler) Transition(c *gin.Context) {
	tenant, ok := middleware.TenantFromClaims(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.TransitionOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.orders.TransitionStatus(c.Request.Context(), tenant, id, req.Status)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
