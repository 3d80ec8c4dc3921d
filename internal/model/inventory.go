package model

import (
	"time"

	"github.com/google/uuid"
)

// Inventory is the per-(branch, product) stock counter — the one piece of
// state the transactional core protects. Version backs the optimistic
// compare-and-swap discipline: every stock write must match the version it
// read or retry. The stock >= 0 CHECK lives in the schema as well
// (infra.NewDatabase), so no code path can drive it negative.
type Inventory struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BranchID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventories_branch_product,priority:1"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventories_branch_product,priority:2"`
	Stock        int       `gorm:"not null;default:0"`
	ReorderPoint int       `gorm:"not null;default:5"`
	Version      int64     `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Branch  *Branch  `gorm:"foreignKey:BranchID"`
	Product *Product `gorm:"foreignKey:ProductID"`
}

func (Inventory) TableName() string { return "inventories" }
