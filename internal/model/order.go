package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses. PENDIENTE is the only creation state; ENTREGADO and
// ANULADA are terminal.
const (
	OrderPending   = "PENDIENTE"
	OrderShipped   = "ENVIADO"
	OrderDelivered = "ENTREGADO"
	OrderCancelled = "ANULADA"
)

// Order is an e-commerce sale. Stock is committed at creation (same as a
// Sale); cancellation before delivery returns it. ClientUserID is nil for
// guest checkouts — ClientName/ClientEmail identify the buyer then.
type Order struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	BranchID     uuid.UUID  `gorm:"type:uuid;not null"`
	ClientUserID *uuid.UUID `gorm:"type:uuid;index"`
	ClientName   string     `gorm:"not null"`
	ClientEmail  string     `gorm:"not null"`
	Status       string     `gorm:"type:varchar(20);not null;default:'PENDIENTE'"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Items   []OrderItem         `gorm:"foreignKey:OrderID"`
	Changes []OrderStatusChange `gorm:"foreignKey:OrderID"`
}

type OrderItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity     int             `gorm:"not null"`
	PriceAtOrder decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}

// OrderStatusChange is the audit trail of the order state machine: who moved
// the order, from where to where, and when.
type OrderStatusChange struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null"`
	FromStatus string    `gorm:"type:varchar(20);not null"`
	ToStatus   string    `gorm:"type:varchar(20);not null"`
	CreatedAt  time.Time
}

func (OrderStatusChange) TableName() string { return "order_status_changes" }
