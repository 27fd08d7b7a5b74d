// Package pedido implementa o ciclo de vida dos pedidos de publicações:
// criado -> enviado/entregue (flags independentes) -> arquivado.
package pedido

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/congregacao-portao/publicacoes-api/internal/application/dto"
	"github.com/congregacao-portao/publicacoes-api/internal/domain"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/entity"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/repository"
)

// PedidoUseCase transições de estado dos pedidos, cada uma com seu registro
// de auditoria na mesma transação. Regras:
//   - arquivar exige enviado && entregue (senão ErrPreconditionFailed, sem escrita);
//   - desarquivar é incondicional para um ator autorizado;
//   - pedido arquivado é travado: editar, alternar flags ou excluir devolve
//     ErrPedidoArchived sem escrita.
type PedidoUseCase struct {
	txRunner   TxRunner
	pedidoRepo repository.PedidoRepository
	pubRepo    repository.PublicationRepository
}

// NewPedidoUseCase constrói o caso de uso.
func NewPedidoUseCase(txRunner TxRunner, pedidoRepo repository.PedidoRepository, pubRepo repository.PublicationRepository) *PedidoUseCase {
	return &PedidoUseCase{txRunner: txRunner, pedidoRepo: pedidoRepo, pubRepo: pubRepo}
}

// Create cria um pedido e registra a auditoria (action=create).
func (uc *PedidoUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreatePedidoRequest) (*entity.Pedido, error) {
	if in.Irmao == "" || in.PublicacaoID == "" || in.Quantidade <= 0 {
		return nil, domain.ErrInvalidInput
	}
	dataPedido, err := parseDataPedido(in.DataPedido)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	pub, err := uc.pubRepo.GetByID(in.PublicacaoID)
	if err != nil {
		return nil, err
	}
	if pub == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	p := &entity.Pedido{
		ID:              uuid.New().String(),
		Irmao:           in.Irmao,
		PublicacaoID:    in.PublicacaoID,
		Quantidade:      in.Quantidade,
		DataPedido:      dataPedido,
		CreatedAt:       now,
		UpdatedAt:       now,
		PublicationName: pub.Name,
		PublicationCode: pub.Code,
	}

	err = uc.txRunner.RunPedido(ctx, func(pedidoRepo repository.PedidoRepository, auditRepo repository.AuditLogRepository) error {
		if err := pedidoRepo.Create(p); err != nil {
			return err
		}
		return auditRepo.Create(&entity.AuditLog{
			UserID:    actor.UserID,
			Action:    entity.ActionCreate,
			TableName: "pedidos",
			RecordID:  p.ID,
			NewData: map[string]any{
				"irmao":         p.Irmao,
				"publicacao_id": p.PublicacaoID,
				"quantidade":    p.Quantidade,
				"order_details": orderDetails(p),
			},
			Actor:     actor,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Update edita os campos do pedido (irmao, publicação, quantidade, data).
// Pedido arquivado é travado.
func (uc *PedidoUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.CreatePedidoRequest) (*entity.Pedido, error) {
	if in.Irmao == "" || in.PublicacaoID == "" || in.Quantidade <= 0 {
		return nil, domain.ErrInvalidInput
	}
	dataPedido, err := parseDataPedido(in.DataPedido)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	pub, err := uc.pubRepo.GetByID(in.PublicacaoID)
	if err != nil {
		return nil, err
	}
	if pub == nil {
		return nil, domain.ErrNotFound
	}

	var updated *entity.Pedido
	err = uc.txRunner.RunPedido(ctx, func(pedidoRepo repository.PedidoRepository, auditRepo repository.AuditLogRepository) error {
		p, err := pedidoRepo.GetByID(id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if p.Archived {
			return domain.ErrPedidoArchived
		}

		old := *p
		p.Irmao = in.Irmao
		p.PublicacaoID = in.PublicacaoID
		p.Quantidade = in.Quantidade
		p.DataPedido = dataPedido
		p.UpdatedAt = time.Now()
		p.PublicationName = pub.Name
		p.PublicationCode = pub.Code
		if err := pedidoRepo.Update(p); err != nil {
			return err
		}
		updated = p

		return auditRepo.Create(&entity.AuditLog{
			UserID:    actor.UserID,
			Action:    entity.ActionUpdate,
			TableName: "pedidos",
			RecordID:  p.ID,
			OldData: map[string]any{
				"irmao":         old.Irmao,
				"publicacao_id": old.PublicacaoID,
				"quantidade":    old.Quantidade,
			},
			NewData: map[string]any{
				"irmao":         p.Irmao,
				"publicacao_id": p.PublicacaoID,
				"quantidade":    p.Quantidade,
				"order_details": orderDetails(p),
			},
			Actor:     actor,
			CreatedAt: p.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetEnviado alterna a flag enviado. Pedido arquivado é travado.
func (uc *PedidoUseCase) SetEnviado(ctx context.Context, actor entity.Actor, id string, value bool) (*entity.Pedido, error) {
	return uc.setFlag(ctx, actor, id, "enviado", value)
}

// SetEntregue alterna a flag entregue. Pedido arquivado é travado.
func (uc *PedidoUseCase) SetEntregue(ctx context.Context, actor entity.Actor, id string, value bool) (*entity.Pedido, error) {
	return uc.setFlag(ctx, actor, id, "entregue", value)
}

func (uc *PedidoUseCase) setFlag(ctx context.Context, actor entity.Actor, id, flag string, value bool) (*entity.Pedido, error) {
	var updated *entity.Pedido
	err := uc.txRunner.RunPedido(ctx, func(pedidoRepo repository.PedidoRepository, auditRepo repository.AuditLogRepository) error {
		p, err := pedidoRepo.GetByID(id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if p.Archived {
			return domain.ErrPedidoArchived
		}

		var oldValue bool
		var label string
		switch flag {
		case "enviado":
			oldValue, p.Enviado = p.Enviado, value
			label = map[bool]string{true: "enviado", false: "não enviado"}[value]
		case "entregue":
			oldValue, p.Entregue = p.Entregue, value
			label = map[bool]string{true: "entregue", false: "não entregue"}[value]
		}
		p.UpdatedAt = time.Now()
		if err := pedidoRepo.Update(p); err != nil {
			return err
		}
		updated = p

		return auditRepo.Create(&entity.AuditLog{
			UserID:    actor.UserID,
			Action:    entity.ActionUpdate,
			TableName: "pedidos",
			RecordID:  p.ID,
			OldData:   map[string]any{flag: oldValue},
			NewData: map[string]any{
				flag:            value,
				"status_change": fmt.Sprintf("Pedido marcado como %s", label),
				"order_details": orderDetails(p),
			},
			Actor:     actor,
			CreatedAt: p.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Archive arquiva o pedido. Só é permitido quando enviado e entregue;
// caso contrário falha com ErrPreconditionFailed e nada é gravado.
func (uc *PedidoUseCase) Archive(ctx context.Context, actor entity.Actor, id string) (*entity.Pedido, error) {
	return uc.setArchived(ctx, actor, id, true)
}

// Unarchive desarquiva o pedido, incondicionalmente.
func (uc *PedidoUseCase) Unarchive(ctx context.Context, actor entity.Actor, id string) (*entity.Pedido, error) {
	return uc.setArchived(ctx, actor, id, false)
}

func (uc *PedidoUseCase) setArchived(ctx context.Context, actor entity.Actor, id string, archived bool) (*entity.Pedido, error) {
	var updated *entity.Pedido
	err := uc.txRunner.RunPedido(ctx, func(pedidoRepo repository.PedidoRepository, auditRepo repository.AuditLogRepository) error {
		p, err := pedidoRepo.GetByID(id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if archived && !p.CanArchive() {
			return domain.ErrPreconditionFailed
		}
		if p.Archived == archived {
			// transição sem efeito; devolve o estado atual sem gravar
			updated = p
			return nil
		}

		oldArchived := p.Archived
		p.Archived = archived
		p.UpdatedAt = time.Now()
		if err := pedidoRepo.Update(p); err != nil {
			return err
		}
		updated = p

		label := "desarquivado"
		if archived {
			label = "arquivado"
		}
		return auditRepo.Create(&entity.AuditLog{
			UserID:    actor.UserID,
			Action:    entity.ActionUpdate,
			TableName: "pedidos",
			RecordID:  p.ID,
			OldData:   map[string]any{"archived": oldArchived},
			NewData: map[string]any{
				"archived":      archived,
				"status_change": fmt.Sprintf("Pedido %s", label),
				"order_details": orderDetails(p),
			},
			Actor:     actor,
			CreatedAt: p.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete exclui o pedido, guardando o snapshot completo na auditoria.
// Pedido arquivado é travado (desarquivar antes de excluir).
func (uc *PedidoUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	return uc.txRunner.RunPedido(ctx, func(pedidoRepo repository.PedidoRepository, auditRepo repository.AuditLogRepository) error {
		p, err := pedidoRepo.GetByID(id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if p.Archived {
			return domain.ErrPedidoArchived
		}
		if err := pedidoRepo.Delete(id); err != nil {
			return err
		}

		return auditRepo.Create(&entity.AuditLog{
			UserID:    actor.UserID,
			Action:    entity.ActionDelete,
			TableName: "pedidos",
			RecordID:  p.ID,
			OldData: map[string]any{
				"irmao":         p.Irmao,
				"publicacao_id": p.PublicacaoID,
				"quantidade":    p.Quantidade,
				"enviado":       p.Enviado,
				"entregue":      p.Entregue,
				"order_details": fmt.Sprintf("Pedido excluído: %s (%d unidades)", orderDetails(p), p.Quantidade),
			},
			Actor:     actor,
			CreatedAt: time.Now(),
		})
	})
}

// List lista pedidos com filtro de status e busca.
func (uc *PedidoUseCase) List(filter repository.PedidoFilter) ([]*entity.Pedido, error) {
	return uc.pedidoRepo.List(filter)
}

// Stats contadores da tela de pedidos (ativos, arquivados, prontos, pendentes).
func (uc *PedidoUseCase) Stats() (*dto.PedidoStats, error) {
	all, err := uc.pedidoRepo.List(repository.PedidoFilter{Status: "todos"})
	if err != nil {
		return nil, err
	}
	s := &dto.PedidoStats{Total: len(all)}
	for _, p := range all {
		switch {
		case p.Archived:
			s.Arquivados++
		default:
			s.Ativos++
			if p.Enviado && p.Entregue {
				s.ProntosParaArquivar++
			}
			if !p.Enviado {
				s.Pendentes++
			}
		}
	}
	return s, nil
}

// orderDetails contexto desnormalizado gravado na auditoria: o histórico
// precisa continuar legível depois que pedido ou publicação mudarem.
func orderDetails(p *entity.Pedido) string {
	if p.PublicationName == "" {
		return p.Irmao
	}
	return fmt.Sprintf("%s - %s", p.Irmao, p.PublicationName)
}

func parseDataPedido(s string) (time.Time, error) {
	if s == "" {
		return time.Now().Truncate(24 * time.Hour), nil
	}
	return time.Parse("2006-01-02", s)
}
