package dto

import "github.com/shopspring/decimal"

type ProductFilter struct {
	SKU      string `form:"sku"`
	Name     string `form:"name"`
	Category string `form:"category"`
	Active   string `form:"active"` // "false" | "all" | default active only
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CreateProductRequest struct {
	SKU         string          `json:"sku"         validate:"required,max=50"`
	Name        string          `json:"name"        validate:"required,max=255"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"       validate:"min=0"`
	Cost        decimal.Decimal `json:"cost"        validate:"min=0"`
	Category    string          `json:"category"    validate:"required,max=100"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	Category    *string          `json:"category"    validate:"omitempty,max=100"`
}

type ProductResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Category    string          `json:"category"`
	Active      bool            `json:"active"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// PriceLookupResponse is returned by the public GET /v1/price/:sku endpoint
// (served from the Redis cache when warm).
type PriceLookupResponse struct {
	SKU   string          `json:"sku"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}
