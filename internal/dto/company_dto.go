package dto

type CreateCompanyRequest struct {
	Name  string  `json:"name"  validate:"required,max=100"`
	RUT   string  `json:"rut"   validate:"required"`
	Email string  `json:"email" validate:"required,email"`
	Phone *string `json:"phone" validate:"omitempty,max=20"`
}

type CompanyResponse struct {
	ID      string                `json:"id"`
	Name    string                `json:"name"`
	RUT     string                `json:"rut"`
	Email   string                `json:"email"`
	Phone   *string               `json:"phone,omitempty"`
	Plan    *SubscriptionResponse `json:"subscription,omitempty"`
	Created string                `json:"created_at"`
}

type CreateSubscriptionRequest struct {
	PlanName  string `json:"plan_name"  validate:"required,oneof=BASICO ESTANDAR PREMIUM"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date"   validate:"required,datetime=2006-01-02"`
}

type SubscriptionResponse struct {
	PlanName  string `json:"plan_name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Active    bool   `json:"active"`
}

type CreateBranchRequest struct {
	Name    string `json:"name"    validate:"required,max=100"`
	Address string `json:"address" validate:"max=255"`
	Phone   string `json:"phone"   validate:"max=20"`
}

type BranchResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Active  bool   `json:"active"`
}

type CreateSupplierRequest struct {
	Name    string `json:"name"    validate:"required,max=100"`
	RUT     string `json:"rut"     validate:"required"`
	Contact string `json:"contact" validate:"max=255"`
}

type SupplierResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	RUT     string `json:"rut"`
	Contact string `json:"contact"`
}
