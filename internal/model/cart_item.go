package model

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is keyed by either an authenticated user or an anonymous session
// key — never both, never neither. Partial unique indexes (see
// infra.NewDatabase) guarantee a product appears at most once per cart.
type CartItem struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     *uuid.UUID `gorm:"type:uuid;index"`
	SessionKey *string    `gorm:"type:varchar(40);index"`
	ProductID  uuid.UUID  `gorm:"type:uuid;not null"`
	Quantity   int        `gorm:"not null"`
	AddedAt    time.Time  `gorm:"autoCreateTime"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
