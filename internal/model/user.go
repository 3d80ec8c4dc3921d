package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles. SUPER_ADMIN users have no company (CompanyID is nil); everyone
// else is bound to exactly one tenant.
const (
	RoleSuperAdmin   = "SUPER_ADMIN"
	RoleAdminCliente = "ADMIN_CLIENTE"
	RoleGerente      = "GERENTE"
	RoleVendedor     = "VENDEDOR"
	RoleClienteFinal = "CLIENTE_FINAL"
)

// User stores platform users with role-based access.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    *uuid.UUID `gorm:"type:uuid;index"`
	Username     string     `gorm:"uniqueIndex;not null"`
	Email        string     `gorm:"not null"`
	RUT          string     `gorm:"column:rut;uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	Role         string     `gorm:"type:varchar(20);not null;default:'VENDEDOR'"`
	Active       bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Company *Company `gorm:"foreignKey:CompanyID"`
}
