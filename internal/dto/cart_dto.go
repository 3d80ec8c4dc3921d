package dto

import "github.com/shopspring/decimal"

type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
	// SessionKey identifies an anonymous cart; omitted for logged-in users.
	SessionKey *string `json:"session_key" validate:"omitempty,max=40"`
}

type CartItemResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	Product      string          `json:"product"`
	Quantity     int             `json:"quantity"`
	CurrentPrice decimal.Decimal `json:"current_price"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

type CheckoutRequest struct {
	BranchID    string `json:"branch_id"    validate:"required,uuid"`
	ClientName  string `json:"client_name"  validate:"required,max=255"`
	ClientEmail string `json:"client_email" validate:"required,email"`
}
