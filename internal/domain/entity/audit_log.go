package entity

import "time"

// Ações registráveis no log de auditoria.
const (
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionMovement = "movement"
	ActionLogin    = "login"
	ActionLogout   = "logout"
	ActionView     = "view"
	ActionExport   = "export"
)

// AuditLog registro imutável de uma ação que alterou estado (e de eventos
// selecionados de leitura, para conformidade). Nunca é mutado após o insert.
//
// A correlação com a entidade descrita é lógica (TableName + RecordID), não
// uma foreign key: o registro é um snapshot histórico desnormalizado que deve
// sobreviver a mudanças ou exclusão posterior da entidade.
type AuditLog struct {
	ID        string
	UserID    string
	Action    string // create, update, delete, movement, login, logout, view, export
	TableName string
	RecordID  string
	OldData   map[string]any
	NewData   map[string]any
	Actor     Actor // snapshot de quem agiu, no momento da ação
	CreatedAt time.Time
}
