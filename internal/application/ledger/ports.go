package ledger

import (
	"context"

	"github.com/congregacao-portao/publicacoes-api/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação de DB, passando
// repositórios atados a essa tx. Garante que movimentação, atualização de
// estoque e registro de auditoria formem uma única escrita atômica.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		pubRepo repository.PublicationRepository,
		movRepo repository.StockMovementRepository,
		auditRepo repository.AuditLogRepository,
	) error) error
}
