package dto

import "time"

// CreateTenantRequest entrada para crear una farmacia.
type CreateTenantRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	LicenseNumber string `json:"license_number" validate:"omitempty,max=100"`
}

// UpdateTenantStatusRequest cambio de estado de la farmacia.
type UpdateTenantStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active suspended closed"`
}

// TenantResponse salida de una farmacia.
type TenantResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Status        string    `json:"status"`
	LicenseNumber string    `json:"license_number,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
