package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/congregacao-portao/publicacoes-api/internal/domain"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/entity"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/repository"
)

var _ repository.PedidoRepository = (*PedidoRepo)(nil)

// PedidoRepo implementação do porto PedidoRepository sobre PostgreSQL.
type PedidoRepo struct {
	q Querier
}

// NewPedidoRepository constrói o adaptador de persistência dos pedidos.
func NewPedidoRepository(q Querier) *PedidoRepo {
	return &PedidoRepo{q: q}
}

// Create persiste um novo pedido.
func (r *PedidoRepo) Create(p *entity.Pedido) error {
	query := `
		INSERT INTO pedidos (id, irmao, publicacao_id, quantidade, data_pedido, enviado, entregue, archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.Irmao, p.PublicacaoID, p.Quantidade, p.DataPedido,
		p.Enviado, p.Entregue, p.Archived, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert pedido: %w", err)
	}
	return nil
}

const pedidoSelect = `
	SELECT d.id, d.irmao, d.publicacao_id, d.quantidade, d.data_pedido,
	       d.enviado, d.entregue, d.archived, d.created_at, d.updated_at,
	       p.name, COALESCE(p.code, ''), p.current_stock
	FROM pedidos d
	JOIN publications p ON p.id = d.publicacao_id`

// GetByID obtém um pedido por ID, com dados da publicação.
func (r *PedidoRepo) GetByID(id string) (*entity.Pedido, error) {
	var p entity.Pedido
	err := r.q.QueryRow(context.Background(), pedidoSelect+` WHERE d.id = $1`, id).Scan(
		&p.ID, &p.Irmao, &p.PublicacaoID, &p.Quantidade, &p.DataPedido,
		&p.Enviado, &p.Entregue, &p.Archived, &p.CreatedAt, &p.UpdatedAt,
		&p.PublicationName, &p.PublicationCode, &p.CurrentStock,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pedido: %w", err)
	}
	return &p, nil
}

// List lista pedidos conforme o filtro de status e a busca textual.
func (r *PedidoRepo) List(filter repository.PedidoFilter) ([]*entity.Pedido, error) {
	where, args := pedidoWhere(filter)

	// Limit <= 0 significa sem limite (LIMIT NULL).
	var limit any
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	query := pedidoSelect + where +
		` ORDER BY d.data_pedido DESC, d.created_at DESC` +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pedidos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Pedido
	for rows.Next() {
		var p entity.Pedido
		if err := rows.Scan(&p.ID, &p.Irmao, &p.PublicacaoID, &p.Quantidade, &p.DataPedido,
			&p.Enviado, &p.Entregue, &p.Archived, &p.CreatedAt, &p.UpdatedAt,
			&p.PublicationName, &p.PublicationCode, &p.CurrentStock); err != nil {
			return nil, fmt.Errorf("scan pedido: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

func pedidoWhere(filter repository.PedidoFilter) (string, []any) {
	var conds []string
	var args []any

	switch filter.Status {
	case "", "ativos":
		conds = append(conds, "d.archived = false")
	case "arquivados":
		conds = append(conds, "d.archived = true")
	case "nao_enviados":
		conds = append(conds, "d.archived = false", "d.enviado = false")
	case "enviados":
		conds = append(conds, "d.archived = false", "d.enviado = true")
	case "entregues":
		conds = append(conds, "d.archived = false", "d.entregue = true")
	case "prontos_arquivar":
		conds = append(conds, "d.archived = false", "d.enviado = true", "d.entregue = true")
	case "todos":
		// sem filtro de status
	default:
		conds = append(conds, "d.archived = false")
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := strconv.Itoa(len(args))
		conds = append(conds, "(d.irmao ILIKE $"+n+" OR p.name ILIKE $"+n+" OR p.code ILIKE $"+n+")")
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

// Update grava o estado completo do pedido.
func (r *PedidoRepo) Update(p *entity.Pedido) error {
	query := `
		UPDATE pedidos SET irmao = $2, publicacao_id = $3, quantidade = $4, data_pedido = $5,
		       enviado = $6, entregue = $7, archived = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		p.ID, p.Irmao, p.PublicacaoID, p.Quantidade, p.DataPedido,
		p.Enviado, p.Entregue, p.Archived, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update pedido: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete remove um pedido por ID.
func (r *PedidoRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM pedidos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete pedido: %w", err)
	}
	return nil
}
