package dto

import "time"

// AuditEventResponse evento de auditoría expuesto.
type AuditEventResponse struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Store     string         `json:"store,omitempty"`
	Actor     string         `json:"actor"`
	Payload   map[string]any `json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
}

// AuditListResponse últimos eventos, del más antiguo al más reciente.
type AuditListResponse struct {
	Items []AuditEventResponse `json:"items"`
	Page  ListResponse         `json:"page"`
}
