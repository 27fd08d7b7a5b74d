package usecase

import (
	"time"

	"github.com/congregacao-portao/publicacoes-api/internal/application/dto"
	"github.com/congregacao-portao/publicacoes-api/internal/domain"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/entity"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/repository"
)

// exportLimit teto de linhas por exportação.
const exportLimit = 5000

// SessionRecorder registra eventos de sessão/consulta de forma best-effort.
type SessionRecorder interface {
	Record(e entity.AuditLog)
}

// AuditUseCase consulta do log de auditoria e exportação. Consultas e
// exportações também viram eventos (view/export), gravados best-effort
// para não atrasarem a resposta.
type AuditUseCase struct {
	repo     repository.AuditLogRepository
	recorder SessionRecorder
}

// NewAuditUseCase constrói o caso de uso.
func NewAuditUseCase(repo repository.AuditLogRepository, recorder SessionRecorder) *AuditUseCase {
	return &AuditUseCase{repo: repo, recorder: recorder}
}

// List consulta o log com filtros e devolve o total para paginação.
func (uc *AuditUseCase) List(actor entity.Actor, in dto.AuditListRequest) ([]*entity.AuditLog, int, error) {
	filter, err := toAuditFilter(in)
	if err != nil {
		return nil, 0, err
	}

	logs, total, err := uc.repo.List(filter)
	if err != nil {
		return nil, 0, err
	}

	uc.recorder.Record(entity.AuditLog{
		UserID:    actor.UserID,
		Action:    entity.ActionView,
		TableName: "audit_logs",
		Actor:     actor,
	})
	return logs, total, nil
}

// Export devolve até exportLimit registros para a exportação CSV e grava o
// evento export com os filtros usados.
func (uc *AuditUseCase) Export(actor entity.Actor, in dto.AuditListRequest) ([]*entity.AuditLog, error) {
	filter, err := toAuditFilter(in)
	if err != nil {
		return nil, err
	}
	filter.Limit = exportLimit
	filter.Offset = 0

	logs, _, err := uc.repo.List(filter)
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(entity.AuditLog{
		UserID:    actor.UserID,
		Action:    entity.ActionExport,
		TableName: "audit_logs",
		NewData: map[string]any{
			"rows":   len(logs),
			"action": in.Action,
			"table":  in.Table,
			"from":   in.From,
			"to":     in.To,
		},
		Actor: actor,
	})
	return logs, nil
}

// DistinctUsers atores presentes no log, para os filtros da UI.
func (uc *AuditUseCase) DistinctUsers() ([]entity.Actor, error) {
	return uc.repo.DistinctUsers()
}

func toAuditFilter(in dto.AuditListRequest) (repository.AuditFilter, error) {
	in.DefaultPage()
	filter := repository.AuditFilter{
		Action:    in.Action,
		TableName: in.Table,
		UserID:    in.UserID,
		Search:    in.Search,
		Limit:     in.Limit,
		Offset:    in.Offset,
	}
	if in.From != "" {
		t, err := time.Parse("2006-01-02", in.From)
		if err != nil {
			return filter, domain.ErrInvalidInput
		}
		filter.From = &t
	}
	if in.To != "" {
		t, err := time.Parse("2006-01-02", in.To)
		if err != nil {
			return filter, domain.ErrInvalidInput
		}
		// "to" inclusivo: vira limite exclusivo no dia seguinte.
		t = t.AddDate(0, 0, 1)
		filter.To = &t
	}
	return filter, nil
}
