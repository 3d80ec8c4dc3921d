package dto

type AdjustInventoryRequest struct {
	BranchID  string `json:"branch_id"  validate:"required,uuid"`
	ProductID string `json:"product_id" validate:"required,uuid"`
	// Delta may be negative (shrinkage, breakage) but can never drive the
	// stock below zero.
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"required,min=5"`
}

type InventoryResponse struct {
	BranchID     string `json:"branch_id"`
	Branch       string `json:"branch"`
	ProductID    string `json:"product_id"`
	Product      string `json:"product"`
	Stock        int    `json:"stock"`
	ReorderPoint int    `json:"reorder_point"`
}
