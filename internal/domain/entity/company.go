package entity

import "time"

// Company representa una empresa/tenant que vende productos a sus clientes.
// Nunca se borra: solo se activa o desactiva.
type Company struct {
	ID        int64
	OwnerID   string // identidad del dueño; solo el administrador de plataforma puede transferirla
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Límites de validación compartidos por empresas y productos.
const (
	MaxNameLen  = 200
	MaxImageLen = 100
)
