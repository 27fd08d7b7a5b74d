package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/congregacao-portao/publicacoes-api/internal/domain/entity"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementação do porto StockMovementRepository sobre
// PostgreSQL. A tabela é append-only; o adaptador não expõe update/delete.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository constrói o adaptador de movimentações.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create insere uma movimentação.
func (r *StockMovementRepo) Create(mov *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, publication_id, movement_type, quantity, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		mov.ID, mov.PublicationID, mov.MovementType, mov.Quantity, mov.CreatedAt, mov.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

const movementSelect = `
	SELECT m.id, m.publication_id, m.movement_type, m.quantity, m.created_at, m.created_by,
	       p.name, COALESCE(p.code, '')
	FROM stock_movements m
	JOIN publications p ON p.id = m.publication_id`

// ListRecent lista as movimentações mais recentes de todas as publicações.
func (r *StockMovementRepo) ListRecent(limit int) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(context.Background(),
		movementSelect+` ORDER BY m.created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return scanMovements(rows)
}

// ListByPublication lista o histórico de uma publicação, com paginação.
func (r *StockMovementRepo) ListByPublication(publicationID string, limit, offset int) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(context.Background(),
		movementSelect+` WHERE m.publication_id = $1 ORDER BY m.created_at DESC LIMIT $2 OFFSET $3`,
		publicationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by publication: %w", err)
	}
	return scanMovements(rows)
}

func scanMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.PublicationID, &m.MovementType, &m.Quantity,
			&m.CreatedAt, &m.CreatedBy, &m.PublicationName, &m.PublicationCode); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
