package dto

type CreateClientRequest struct {
	Name        string  `json:"name"         validate:"required,min=2,max=200"`
	Address     string  `json:"address"      validate:"omitempty,max=300"`
	City        string  `json:"city"         validate:"omitempty,max=100"`
	PostalCode  string  `json:"postal_code"  validate:"omitempty,max=10"`
	ContactName string  `json:"contact_name" validate:"omitempty,max=150"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"        validate:"omitempty,email"`
}

type UpdateClientRequest struct {
	Name        string  `json:"name"         validate:"omitempty,min=2,max=200"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	PostalCode  *string `json:"postal_code"`
	ContactName *string `json:"contact_name"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"        validate:"omitempty,email"`
}

type ClientResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	PostalCode  string  `json:"postal_code"`
	ContactName string  `json:"contact_name"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	CreatedAt   string  `json:"created_at"`
}
