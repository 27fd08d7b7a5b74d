package dto

import "time"

// AuditListRequest filtros da consulta do log de auditoria.
type AuditListRequest struct {
	Action string `query:"action"`
	Table  string `query:"table"`
	UserID string `query:"user_id"`
	From   string `query:"from"` // yyyy-mm-dd
	To     string `query:"to"`
	Search string `query:"search"`
	PageRequest
}

// AuditLogResponse saída de um registro de auditoria.
type AuditLogResponse struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Action    string         `json:"action"`
	TableName string         `json:"table_name"`
	RecordID  string         `json:"record_id,omitempty"`
	OldData   map[string]any `json:"old_data,omitempty"`
	NewData   map[string]any `json:"new_data,omitempty"`
	Actor     ActorResponse  `json:"actor"`
	CreatedAt time.Time      `json:"created_at"`
}

// ActorResponse snapshot do ator no momento da ação.
type ActorResponse struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
