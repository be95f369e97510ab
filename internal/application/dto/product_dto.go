package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	CompanyID int64           `json:"company_id" validate:"required"`
	Name      string          `json:"name" validate:"required,min=1,max=200"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image" validate:"required,min=1,max=100"`
	Stock     int64           `json:"stock" validate:"min=0"`
}

// UpdateProductRequest entrada para actualizar un producto. Revalida todos los campos.
type UpdateProductRequest struct {
	Name  string          `json:"name" validate:"required,min=1,max=200"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image" validate:"required,min=1,max=100"`
}

// StockRequest body para reponer o vender por fuera de una factura.
type StockRequest struct {
	Quantity int64 `json:"quantity" validate:"required,min=1"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        int64           `json:"id"`
	CompanyID int64           `json:"company_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Stock     int64           `json:"stock"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductListResponse lista de productos en orden de creación.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  ListResponse      `json:"page"`
}
