package pedido

import (
	"context"

	"github.com/congregacao-portao/publicacoes-api/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação de DB, com os
// repositórios de pedidos e auditoria atados à mesma tx: cada transição de
// estado e seu registro de auditoria são gravados atomicamente.
type TxRunner interface {
	RunPedido(ctx context.Context, fn func(
		pedidoRepo repository.PedidoRepository,
		auditRepo repository.AuditLogRepository,
	) error) error
}
