package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/congregacao-portao/publicacoes-api/internal/application/ledger"
	"github.com/congregacao-portao/publicacoes-api/internal/application/pedido"
	"github.com/congregacao-portao/publicacoes-api/internal/application/usecase"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)
var _ pedido.TxRunner = (*TxRunner)(nil)
var _ usecase.CatalogTxRunner = (*TxRunner)(nil)
var _ usecase.AdminTxRunner = (*TxRunner)(nil)

// TxRunner executa callbacks dentro de uma transação PostgreSQL, com os
// repositórios atados à tx. Rollback em erro, Commit em sucesso.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner constrói o runner com o pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) inTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Run transação das movimentações: publicação, movimento e auditoria juntos.
func (r *TxRunner) Run(ctx context.Context, fn func(
	pubRepo repository.PublicationRepository,
	movRepo repository.StockMovementRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewPublicationRepository(q), NewStockMovementRepository(q), NewAuditLogRepository(q))
	})
}

// RunPedido transação do ciclo de vida dos pedidos.
func (r *TxRunner) RunPedido(ctx context.Context, fn func(
	pedidoRepo repository.PedidoRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewPedidoRepository(q), NewAuditLogRepository(q))
	})
}

// RunCatalog transação das mutações do catálogo.
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	pubRepo repository.PublicationRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewPublicationRepository(q), NewAuditLogRepository(q))
	})
}

// RunAdmin transação das mutações administrativas de identidades e perfis.
func (r *TxRunner) RunAdmin(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewUserRepository(q), NewProfileRepository(q), NewAuditLogRepository(q))
	})
}
