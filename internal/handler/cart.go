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

// CartHandler serves the storefront cart. Routes run behind OptionalJWT:
// logged-in clients operate on their user cart, guests on a session cart
// keyed by the X-Session-Key header (or session_key in the body).
type CartHandler struct{ svc service.CartService }

func NewCartHandler(svc service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

// resolveOwner picks the cart owner for this request. bodyKey carries the
// session key when the request had a JSON body; pass nil otherwise.
func resolveOwner(c *gin.Context, bodyKey *string) (service.CartOwner, bool) {
	if claims := middleware.GetClaims(c); claims != nil {
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, apierror.New("invalid or expired token"))
			return service.CartOwner{}, false
		}
		return service.UserCart(userID), true
	}
	key := c.GetHeader("X-Session-Key")
	if key == "" && bodyKey != nil {
		key = *bodyKey
	}
	if key == "" {
		c.JSON(http.StatusBadRequest, apierror.New("a session key or login is required"))
		return service.CartOwner{}, false
	}
	return service.SessionCart(key), true
}

func (h *CartHandler) Get(c *gin.Context) {
	owner, ok := resolveOwner(c, nil)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), owner)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to load cart"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddToCartRequest
	if !bindAndValidate(c, &req) {
		return
	}
	owner, ok := resolveOwner(c, req.SessionKey)
	if !ok {
		return
	}

	var tenant service.TenantContext
	if claims := middleware.GetClaims(c); claims != nil {
		tenant, ok = middleware.TenantFromClaims(c)
		if !ok {
			return
		}
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product_id"))
		return
	}
	resp, err := h.svc.AddItem(c.Request.Context(), tenant, owner, productID, req.Quantity)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	owner, ok := resolveOwner(c, nil)
	if !ok {
		return
	}
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product_id"))
		return
	}
	if err := h.svc.RemoveItem(c.Request.Context(), owner, productID); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Checkout converts the user's cart into an order. Login required — guests
// log in (merging their session cart) before checking out.
func (h *CartHandler) Checkout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("authentication required"))
		return
	}
	tenant, ok := middleware.TenantFromClaims(c)
	if !ok {
		return
	}
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Checkout(c.Request.Context(), tenant, tenant.UserID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
