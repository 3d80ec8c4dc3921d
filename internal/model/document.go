package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted at the POS.
const (
	PaymentCash     = "EFECTIVO"
	PaymentCard     = "TARJETA"
	PaymentTransfer = "TRANSFERENCIA"
	PaymentOther    = "OTRO"
)

// Purchase registers stock arriving from a supplier.
// Items carry the unit cost snapshotted at creation.
type Purchase struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	SupplierID   *uuid.UUID `gorm:"type:uuid;index"`
	BranchID     uuid.UUID  `gorm:"type:uuid;not null"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PurchaseDate time.Time       `gorm:"not null"`
	CreatedAt    time.Time

	Supplier *Supplier      `gorm:"foreignKey:SupplierID"`
	Items    []PurchaseItem `gorm:"foreignKey:PurchaseID"`
}

// PurchaseItem references its product with ON DELETE RESTRICT so products in
// historical documents can never be hard-deleted.
type PurchaseItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity       int             `gorm:"not null"`
	CostAtPurchase decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}

// Sale is a point-of-sale transaction. Stock is decremented at creation;
// sales have no lifecycle after that.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	BranchID      uuid.UUID       `gorm:"type:uuid;not null"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	SoldAt        time.Time       `gorm:"not null"`
	CreatedAt     time.Time

	Items []SaleItem `gorm:"foreignKey:SaleID"`
}

type SaleItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity    int             `gorm:"not null"`
	PriceAtSale decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}
