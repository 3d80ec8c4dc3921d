package model

import (
	"time"

	"github.com/google/uuid"
)

// Company is the tenant. Every operational entity hangs off a company and
// all queries are partitioned by company_id.
type Company struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	RUT       string    `gorm:"column:rut;uniqueIndex;not null"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time

	Subscription *Subscription `gorm:"foreignKey:CompanyID"`
}

func (Company) TableName() string { return "companies" }

// Subscription plans sold to each company.
// PlanName: "BASICO" | "ESTANDAR" | "PREMIUM"
type Subscription struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	PlanName  string    `gorm:"type:varchar(20);not null"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	Active    bool      `gorm:"not null;default:true"`
}
