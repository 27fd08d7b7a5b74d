package repository

import (
	"time"

	"github.com/congregacao-portao/publicacoes-api/internal/domain/entity"
)

// AuditFilter filtros de consulta do log de auditoria.
type AuditFilter struct {
	Action    string
	TableName string
	UserID    string
	From      *time.Time
	To        *time.Time
	Search    string // busca livre em table_name/record_id/snapshot do ator
	Limit     int
	Offset    int
}

// AuditLogRepository porto do log de auditoria. Append-only por contrato:
// não existem Update nem Delete; o histórico é imutável.
type AuditLogRepository interface {
	Create(e *entity.AuditLog) error
	List(filter AuditFilter) ([]*entity.AuditLog, int, error)
	// DistinctUsers devolve os atores que aparecem no log, para filtros de UI.
	DistinctUsers() ([]entity.Actor, error)
}
