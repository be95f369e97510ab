package dto

// ListResponse metadatos de un listado completo (sin paginación: orden de creación).
type ListResponse struct {
	Total int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ActiveRequest body para PATCH .../active.
type ActiveRequest struct {
	Active bool `json:"active"`
}
