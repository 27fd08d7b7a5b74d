// Package ledger mantém o estoque corrente de cada publicação como agregado
// derivado: todo delta passa por uma movimentação imutável e um registro de
// auditoria gravados na mesma transação do UPDATE condicional do saldo.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/congregacao-portao/publicacoes-api/internal/domain"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/entity"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/repository"
)

// StockLedgerUseCase registra movimentações (entrada/saida) e correções
// manuais de estoque de forma transacional.
type StockLedgerUseCase struct {
	txRunner TxRunner
	movRepo  repository.StockMovementRepository
}

// NewStockLedgerUseCase constrói o caso de uso.
func NewStockLedgerUseCase(txRunner TxRunner, movRepo repository.StockMovementRepository) *StockLedgerUseCase {
	return &StockLedgerUseCase{txRunner: txRunner, movRepo: movRepo}
}

// MovementInput entrada para registrar uma movimentação.
type MovementInput struct {
	PublicationID string
	Type          string // entrada | saida
	Quantity      int    // > 0
}

// ApplyMovement aplica uma movimentação dentro de uma única transação:
//
//  1. UPDATE condicional do saldo (current_stock + Δ, só se o resultado >= 0);
//     zero linhas com saldo existente vira InsufficientStockError com o
//     disponível — nesse caso nada é gravado.
//  2. Insert da movimentação imutável.
//  3. Insert de exatamente um registro de auditoria (action=movement) com o
//     saldo antigo/novo e os metadados da movimentação.
//
// O UPDATE condicional é o que impede duas saídas concorrentes de lerem o
// mesmo saldo e o levarem a negativo.
func (uc *StockLedgerUseCase) ApplyMovement(ctx context.Context, actor entity.Actor, in MovementInput) (int, error) {
	if in.PublicationID == "" || in.Quantity <= 0 {
		return 0, domain.ErrInvalidInput
	}
	if in.Type != entity.MovementEntrada && in.Type != entity.MovementSaida {
		return 0, domain.ErrInvalidInput
	}

	delta := in.Quantity
	if in.Type == entity.MovementSaida {
		delta = -in.Quantity
	}

	now := time.Now()
	var newStock int

	err := uc.txRunner.Run(ctx, func(
		pubRepo repository.PublicationRepository,
		movRepo repository.StockMovementRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		pub, err := pubRepo.GetByID(in.PublicationID)
		if err != nil {
			return err
		}
		if pub == nil {
			return domain.ErrNotFound
		}

		newStock, err = pubRepo.AdjustStock(in.PublicationID, delta)
		if err != nil {
			return err
		}
		oldStock := newStock - delta

		mov := &entity.StockMovement{
			ID:            uuid.New().String(),
			PublicationID: in.PublicationID,
			MovementType:  in.Type,
			Quantity:      in.Quantity,
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}

		return auditRepo.Create(&entity.AuditLog{
			UserID:    actor.UserID,
			Action:    entity.ActionMovement,
			TableName: "stock_movements",
			RecordID:  mov.ID,
			OldData:   map[string]any{"current_stock": oldStock},
			NewData: map[string]any{
				"current_stock":    newStock,
				"movement_type":    in.Type,
				"quantity":         in.Quantity,
				"publication_id":   in.PublicationID,
				"publication_name": pub.Name,
			},
			Actor:     actor,
			CreatedAt: now,
		})
	})
	if err != nil {
		return 0, err
	}
	return newStock, nil
}

// SetStock correção manual: grava o valor informado sem movimentação, mas
// com registro de auditoria (action=update) com o saldo antigo/novo.
// A linha é bloqueada (FOR UPDATE) durante a correção.
func (uc *StockLedgerUseCase) SetStock(ctx context.Context, actor entity.Actor, publicationID string, newValue int) error {
	if publicationID == "" || newValue < 0 {
		return domain.ErrInvalidInput
	}

	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		pubRepo repository.PublicationRepository,
		_ repository.StockMovementRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		pub, err := pubRepo.GetByID(publicationID)
		if err != nil {
			return err
		}
		if pub == nil {
			return domain.ErrNotFound
		}

		oldStock, err := pubRepo.GetStockForUpdate(publicationID)
		if err != nil {
			return err
		}
		if err := pubRepo.SetStock(publicationID, newValue); err != nil {
			return err
		}

		return auditRepo.Create(&entity.AuditLog{
			UserID:    actor.UserID,
			Action:    entity.ActionUpdate,
			TableName: "publications",
			RecordID:  publicationID,
			OldData:   map[string]any{"current_stock": oldStock},
			NewData: map[string]any{
				"current_stock":    newValue,
				"publication_name": pub.Name,
				"adjustment":       true,
			},
			Actor:     actor,
			CreatedAt: now,
		})
	})
}

// ListRecent devolve as movimentações mais recentes (com join da publicação).
func (uc *StockLedgerUseCase) ListRecent(limit int) ([]*entity.StockMovement, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.movRepo.ListRecent(limit)
}

// ListByPublication histórico de uma publicação.
func (uc *StockLedgerUseCase) ListByPublication(publicationID string, limit, offset int) ([]*entity.StockMovement, error) {
	if publicationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.movRepo.ListByPublication(publicationID, limit, offset)
}

// AvailableFrom extrai a quantidade disponível de um erro de estoque
// insuficiente; ok=false quando o erro é de outra natureza.
func AvailableFrom(err error) (int, bool) {
	var ise *domain.InsufficientStockError
	if errors.As(err, &ise) {
		return ise.Available, true
	}
	return 0, false
}
