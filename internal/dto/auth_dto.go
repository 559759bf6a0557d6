package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CreateUserRequest struct {
	Username  string  `json:"username"   validate:"required,min=1,max=150"`
	FirstName string  `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string  `json:"last_name"  validate:"required,min=1,max=100"`
	Email     *string `json:"email"      validate:"omitempty,email"`
	Phone     *string `json:"phone"`
	Password  string  `json:"password"   validate:"required,min=8"`
	Role      string  `json:"role"       validate:"required,oneof=admin supervisor technician referent manufacturer"`
}

type UpdateUserRequest struct {
	FirstName string  `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  string  `json:"last_name"  validate:"omitempty,min=1,max=100"`
	Email     *string `json:"email"      validate:"omitempty,email"`
	Phone     *string `json:"phone"`
	Role      string  `json:"role"       validate:"omitempty,oneof=admin supervisor technician referent manufacturer"`
	Password  string  `json:"password"   validate:"omitempty,min=8"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Role      string  `json:"role"`
	Active    bool    `json:"active"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // seconds
	User         UserResponse `json:"user"`
}

type CapabilitiesResponse struct {
	Role     string   `json:"role"`
	Features []string `json:"features"`
}
