package dto

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	// SessionKey: when the login comes from the storefront with an anonymous
	// cart, the session cart is merged into the user cart atomically.
	SessionKey *string `json:"session_key" validate:"omitempty,max=40"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	RUT      string `json:"rut"      validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"required,oneof=SUPER_ADMIN ADMIN_CLIENTE GERENTE VENDEDOR CLIENTE_FINAL"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Role     *string `json:"role"     validate:"omitempty,oneof=ADMIN_CLIENTE GERENTE VENDEDOR CLIENTE_FINAL"`
}

type UserResponse struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	RUT       string  `json:"rut"`
	Role      string  `json:"role"`
	CompanyID *string `json:"company_id,omitempty"`
	Active    bool    `json:"active"`
}

// ValidateRUTRequest is the body of the public RUT validation endpoint.
type ValidateRUTRequest struct {
	RUT string `json:"rut" validate:"required"`
}

type ValidateRUTResponse struct {
	RUT   string `json:"rut"`
	Valid bool   `json:"valid"`
	// Computed carries the correct check digit when the input failed the
	// checksum, so the client can explain the failure.
	Computed string `json:"computed_dv,omitempty"`
	Detail   string `json:"detail,omitempty"`
}
