package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product belongs to exactly one company. Price and cost are mutable, but
// documents snapshot the value in force at creation time — changing a price
// never rewrites history.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_products_company_sku,priority:1"`
	SKU         string    `gorm:"column:sku;not null;uniqueIndex:idx_products_company_sku,priority:2"`
	Name        string    `gorm:"index;not null"`
	Description *string
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Cost        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Category    string          `gorm:"not null"`
	Active      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Company *Company `gorm:"foreignKey:CompanyID"`
}

// Branch is a physical or virtual point of sale of a company.
type Branch struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"not null"`
	Address   string
	Phone     string
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Company *Company `gorm:"foreignKey:CompanyID"`
}

func (Branch) TableName() string { return "branches" }

// Supplier provides products to a company. RUT is validated at the service
// layer before any write.
type Supplier struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"not null"`
	RUT       string    `gorm:"column:rut;not null"`
	Contact   string
	CreatedAt time.Time
	UpdatedAt time.Time

	Company *Company `gorm:"foreignKey:CompanyID"`
}
