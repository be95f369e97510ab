package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa. El dueño es el llamador.
type CreateCompanyRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// RenameCompanyRequest entrada para renombrar una empresa.
type RenameCompanyRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// TransferCompanyRequest entrada para transferir la propiedad (solo administrador de plataforma).
type TransferCompanyRequest struct {
	NewOwner string `json:"new_owner" validate:"required"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID        int64     `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanyListResponse lista de empresas en orden de creación.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  ListResponse      `json:"page"`
}
