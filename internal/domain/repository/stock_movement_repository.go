package repository

import "github.com/congregacao-portao/publicacoes-api/internal/domain/entity"

// StockMovementRepository porto do registro imutável de movimentações.
// Append-only: não há Update nem Delete.
type StockMovementRepository interface {
	Create(mov *entity.StockMovement) error
	ListRecent(limit int) ([]*entity.StockMovement, error)
	ListByPublication(publicationID string, limit, offset int) ([]*entity.StockMovement, error)
}
