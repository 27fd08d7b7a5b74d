package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/congregacao-portao/publicacoes-api/internal/domain/entity"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo implementação do porto AuditLogRepository sobre PostgreSQL.
// Os snapshots (old_data, new_data, actor) vão em colunas JSONB; a tabela é
// append-only e não tem foreign key para as entidades descritas.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository constrói o adaptador do log de auditoria.
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Create insere um registro. ID e CreatedAt são preenchidos se vazios.
func (r *AuditLogRepo) Create(e *entity.AuditLog) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	oldData, err := marshalJSONB(e.OldData)
	if err != nil {
		return fmt.Errorf("marshal old_data: %w", err)
	}
	newData, err := marshalJSONB(e.NewData)
	if err != nil {
		return fmt.Errorf("marshal new_data: %w", err)
	}
	actor, err := json.Marshal(e.Actor)
	if err != nil {
		return fmt.Errorf("marshal actor: %w", err)
	}

	query := `
		INSERT INTO audit_logs (id, user_id, action, table_name, record_id, old_data, new_data, actor, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9)`
	_, err = r.q.Exec(context.Background(), query,
		e.ID, e.UserID, e.Action, e.TableName, e.RecordID, oldData, newData, actor, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func marshalJSONB(m map[string]any) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// List consulta o log com filtros e devolve também o total para paginação.
func (r *AuditLogRepo) List(filter repository.AuditFilter) ([]*entity.AuditLog, int, error) {
	where, args := auditWhere(filter)

	var total int
	if err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM audit_logs`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	query := `
		SELECT id, user_id, action, table_name, COALESCE(record_id, ''), old_data, new_data, actor, created_at
		FROM audit_logs` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var list []*entity.AuditLog
	for rows.Next() {
		var e entity.AuditLog
		var oldData, newData, actor []byte
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.TableName, &e.RecordID,
			&oldData, &newData, &actor, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan audit log: %w", err)
		}
		if len(oldData) > 0 {
			if err := json.Unmarshal(oldData, &e.OldData); err != nil {
				return nil, 0, fmt.Errorf("unmarshal old_data: %w", err)
			}
		}
		if len(newData) > 0 {
			if err := json.Unmarshal(newData, &e.NewData); err != nil {
				return nil, 0, fmt.Errorf("unmarshal new_data: %w", err)
			}
		}
		if len(actor) > 0 {
			if err := json.Unmarshal(actor, &e.Actor); err != nil {
				return nil, 0, fmt.Errorf("unmarshal actor: %w", err)
			}
		}
		list = append(list, &e)
	}
	return list, total, rows.Err()
}

func auditWhere(filter repository.AuditFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, cond+"$"+strconv.Itoa(len(args)))
	}

	if filter.Action != "" {
		add("action = ", filter.Action)
	}
	if filter.TableName != "" {
		add("table_name = ", filter.TableName)
	}
	if filter.UserID != "" {
		add("user_id = ", filter.UserID)
	}
	if filter.From != nil {
		add("created_at >= ", *filter.From)
	}
	if filter.To != nil {
		add("created_at < ", *filter.To)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := strconv.Itoa(len(args))
		conds = append(conds,
			"(table_name ILIKE $"+n+" OR record_id ILIKE $"+n+" OR actor->>'full_name' ILIKE $"+n+" OR actor->>'username' ILIKE $"+n+")")
	}

	where := ""
	for i, c := range conds {
		if i == 0 {
			where = " WHERE " + c
		} else {
			where += " AND " + c
		}
	}
	return where, args
}

// DistinctUsers devolve o snapshot mais recente de cada ator presente no log.
func (r *AuditLogRepo) DistinctUsers() ([]entity.Actor, error) {
	query := `
		SELECT DISTINCT ON (user_id) actor
		FROM audit_logs
		ORDER BY user_id, created_at DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("distinct audit users: %w", err)
	}
	defer rows.Close()

	var actors []entity.Actor
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan audit actor: %w", err)
		}
		var a entity.Actor
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &a); err != nil {
				return nil, fmt.Errorf("unmarshal audit actor: %w", err)
			}
		}
		actors = append(actors, a)
	}
	return actors, rows.Err()
}
