package dto

import "github.com/shopspring/decimal"

// ─── Shared line item ────────────────────────────────────────────────────────

// DocumentItemRequest is one line of a purchase, sale, or order. The unit
// value is NOT accepted from the client: it is snapshotted server-side from
// the product's current cost (purchases) or price (sales/orders).
type DocumentItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type DocumentItemResponse struct {
	ProductID string          `json:"product_id"`
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitValue decimal.Decimal `json:"unit_value"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// ─── Purchase ────────────────────────────────────────────────────────────────

type CreatePurchaseRequest struct {
	SupplierID   *string               `json:"supplier_id"   validate:"omitempty,uuid"`
	BranchID     string                `json:"branch_id"     validate:"required,uuid"`
	PurchaseDate string                `json:"purchase_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Items        []DocumentItemRequest `json:"items"         validate:"required,min=1,dive"`
}

type PurchaseResponse struct {
	ID           string                 `json:"id"`
	SupplierID   *string                `json:"supplier_id,omitempty"`
	BranchID     string                 `json:"branch_id"`
	Total        decimal.Decimal        `json:"total"`
	PurchaseDate string                 `json:"purchase_date"`
	Items        []DocumentItemResponse `json:"items"`
}

// ─── Sale ────────────────────────────────────────────────────────────────────

type CreateSaleRequest struct {
	BranchID      string                `json:"branch_id"      validate:"required,uuid"`
	PaymentMethod string                `json:"payment_method" validate:"required,oneof=EFECTIVO TARJETA TRANSFERENCIA OTRO"`
	SoldAt        string                `json:"sold_at"        validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Items         []DocumentItemRequest `json:"items"          validate:"required,min=1,dive"`
}

type SaleResponse struct {
	ID            string                 `json:"id"`
	BranchID      string                 `json:"branch_id"`
	Total         decimal.Decimal        `json:"total"`
	PaymentMethod string                 `json:"payment_method"`
	SoldAt        string                 `json:"sold_at"`
	Items         []DocumentItemResponse `json:"items"`
}

// ─── Order ───────────────────────────────────────────────────────────────────

type CreateOrderRequest struct {
	BranchID    string                `json:"branch_id"    validate:"required,uuid"`
	ClientName  string                `json:"client_name"  validate:"required,max=255"`
	ClientEmail string                `json:"client_email" validate:"required,email"`
	Items       []DocumentItemRequest `json:"items"        validate:"required,min=1,dive"`
}

type OrderResponse struct {
	ID          string                 `json:"id"`
	BranchID    string                 `json:"branch_id"`
	ClientName  string                 `json:"client_name"`
	ClientEmail string                 `json:"client_email"`
	Status      string                 `json:"status"`
	Total       decimal.Decimal        `json:"total"`
	Items       []DocumentItemResponse `json:"items"`
	CreatedAt   string                 `json:"created_at"`
}

type TransitionOrderRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDIENTE ENVIADO ENTREGADO ANULADA"`
}

type OrderStatusChangeResponse struct {
	From    string `json:"from"`
	To      string `json:"to"`
	ActorID string `json:"actor_id"`
	At      string `json:"at"`
}
