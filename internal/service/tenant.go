package service

import "github.com/google/uuid"

// TenantContext identifies the acting user and their company for one request.
// It is built by the auth middleware from the JWT claims and passed explicitly
// into every core operation — there is no ambient "current tenant" state, so
// concurrent requests can never leak a tenant into each other.
type TenantContext struct {
	CompanyID uuid.UUID
	UserID    uuid.UUID
	Role      string
}

// Owns reports whether the given company reference belongs to this tenant.
func (t TenantContext) Owns(companyID uuid.UUID) bool {
	return t.CompanyID == companyID
}
