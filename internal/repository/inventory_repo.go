package repository

import (
	"context"

	"github.com/ElenaG-E/temucosoft/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryRepository owns the per-(branch, product) stock rows. All stock
// writes go through UpdateStockCAS: the UPDATE only fires when the row still
// carries the version the caller read, so two concurrent writers can never
// both apply against the same snapshot.
type InventoryRepository interface {
	Find(ctx context.Context, branchID, productID uuid.UUID) (*model.Inventory, error)
	FindTx(tx *gorm.DB, branchID, productID uuid.UUID) (*model.Inventory, error)
	CreateTx(tx *gorm.DB, inv *model.Inventory) error
	// UpdateStockCAS sets stock to newStock iff the row version is still
	// readVersion. Returns true when the swap applied.
	UpdateStockCAS(tx *gorm.DB, id uuid.UUID, readVersion int64, newStock int) (bool, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]model.Inventory, error)
	ListBelowReorderPoint(ctx context.Context, companyID uuid.UUID) ([]model.Inventory, error)

	DB() *gorm.DB
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepository(db *gorm.DB) InventoryRepository { return &inventoryRepo{db: db} }

func (r *inventoryRepo) Find(ctx context.Context, branchID, productID uuid.UUID) (*model.Inventory, error) {
	var inv model.Inventory
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND product_id = ?", branchID, productID).
		First(&inv).Error
	return &inv, err
}

func (r *inventoryRepo) FindTx(tx *gorm.DB, branchID, productID uuid.UUID) (*model.Inventory, error) {
	var inv model.Inventory
	err := tx.Where("branch_id = ? AND product_id = ?", branchID, productID).First(&inv).Error
	return &inv, err
}

func (r *inventoryRepo) CreateTx(tx *gorm.DB, inv *model.Inventory) error {
	return tx.Create(inv).Error
}

func (r *inventoryRepo) UpdateStockCAS(tx *gorm.DB, id uuid.UUID, readVersion int64, newStock int) (bool, error) {
	res := tx.Model(&model.Inventory{}).
		Where("id = ? AND version = ?", id, readVersion).
		Updates(map[string]interface{}{
			"stock":   newStock,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *inventoryRepo) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]model.Inventory, error) {
	var invs []model.Inventory
	err := r.db.WithContext(ctx).
		Joins("JOIN branches ON branches.id = inventories.branch_id").
		Where("branches.company_id = ?", companyID).
		Preload("Branch").Preload("Product").
		Find(&invs).Error
	return invs, err
}

func (r *inventoryRepo) ListBelowReorderPoint(ctx context.Context, companyID uuid.UUID) ([]model.Inventory, error) {
	var invs []model.Inventory
	err := r.db.WithContext(ctx).
		Joins("JOIN branches ON branches.id = inventories.branch_id").
		Where("branches.company_id = ? AND inventories.stock <= inventories.reorder_point", companyID).
		Preload("Branch").Preload("Product").
		Find(&invs).Error
	return invs, err
}

func (r *inventoryRepo) DB() *gorm.DB { return r.db }
