package dto

import "time"

// CreateWarehouseRequest entrada para crear un almacén.
type CreateWarehouseRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	BranchID    string `json:"branch_id,omitempty"`
	Description string `json:"description"`
}

// WarehouseResponse salida de un almacén.
type WarehouseResponse struct {
	ID          string    `json:"id"`
	BranchID    string    `json:"branch_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateCustomerRequest entrada para dar de alta un socio.
type CreateCustomerRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	RFC   string `json:"rfc,omitempty" validate:"omitempty,min=12,max=13"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty" validate:"max=30"`
}

// CustomerResponse salida de un socio.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	RFC       string    `json:"rfc,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
