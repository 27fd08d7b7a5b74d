package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/congregacao-portao/publicacoes-api/internal/application/dto"
	"github.com/congregacao-portao/publicacoes-api/internal/application/pedido"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/entity"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/repository"
)

// PedidoHandler trata o ciclo de vida dos pedidos de publicações.
type PedidoHandler struct {
	uc *pedido.PedidoUseCase
}

// NewPedidoHandler constrói o handler de pedidos.
func NewPedidoHandler(uc *pedido.PedidoUseCase) *PedidoHandler {
	return &PedidoHandler{uc: uc}
}

// Create godoc
// @Summary      Criar pedido
// @Tags         pedidos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePedidoRequest  true  "irmao, publicacao_id, quantidade, data_pedido opcional (yyyy-mm-dd)"
// @Success      201   {object}  dto.PedidoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pedidos [post]
func (h *PedidoHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePedidoRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	p, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPedidoResponse(p))
}

// List godoc
// @Summary      Listar pedidos
// @Tags         pedidos
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "todos | ativos | arquivados | nao_enviados | enviados | entregues | prontos_arquivar"
// @Param        search  query  string  false  "busca em irmão, nome e código da publicação"
// @Param        limit   query  int     false  "máx. 100; padrão 50"
// @Param        offset  query  int     false  "padrão 0"
// @Success      200  {array}  dto.PedidoResponse
// @Router       /api/pedidos [get]
func (h *PedidoHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	list, err := h.uc.List(repository.PedidoFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.PedidoResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPedidoResponse(p))
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Contadores da tela de pedidos
// @Tags         pedidos
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PedidoStats
// @Router       /api/pedidos/stats [get]
func (h *PedidoHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.uc.Stats()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}

// Update godoc
// @Summary      Editar pedido (bloqueado se arquivado)
// @Tags         pedidos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do pedido"
// @Param        body  body  dto.CreatePedidoRequest  true  "irmao, publicacao_id, quantidade, data_pedido"
// @Success      200   {object}  dto.PedidoResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse  "PEDIDO_ARCHIVED"
// @Router       /api/pedidos/{id} [put]
func (h *PedidoHandler) Update(c *fiber.Ctx) error {
	var in dto.CreatePedidoRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	p, err := h.uc.Update(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toPedidoResponse(p))
}

// SetEnviado godoc
// @Summary      Marcar/desmarcar enviado (bloqueado se arquivado)
// @Tags         pedidos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do pedido"
// @Param        body  body  dto.SetFlagRequest  true  "value"
// @Success      200   {object}  dto.PedidoResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/pedidos/{id}/enviado [put]
func (h *PedidoHandler) SetEnviado(c *fiber.Ctx) error {
	return h.setFlag(c, h.uc.SetEnviado)
}

// SetEntregue godoc
// @Summary      Marcar/desmarcar entregue (bloqueado se arquivado)
// @Tags         pedidos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do pedido"
// @Param        body  body  dto.SetFlagRequest  true  "value"
// @Success      200   {object}  dto.PedidoResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/pedidos/{id}/entregue [put]
func (h *PedidoHandler) SetEntregue(c *fiber.Ctx) error {
	return h.setFlag(c, h.uc.SetEntregue)
}

func (h *PedidoHandler) setFlag(c *fiber.Ctx, set func(ctx context.Context, actor entity.Actor, id string, value bool) (*entity.Pedido, error)) error {
	var in dto.SetFlagRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	p, err := set(c.Context(), GetActor(c), c.Params("id"), in.Value)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toPedidoResponse(p))
}

// Archive godoc
// @Summary      Arquivar pedido (exige enviado e entregue)
// @Tags         pedidos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID do pedido"
// @Success      200  {object}  dto.PedidoResponse
// @Failure      422  {object}  dto.ErrorResponse  "PRECONDITION_FAILED"
// @Router       /api/pedidos/{id}/archive [post]
func (h *PedidoHandler) Archive(c *fiber.Ctx) error {
	p, err := h.uc.Archive(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toPedidoResponse(p))
}

// Unarchive godoc
// @Summary      Desarquivar pedido (sempre permitido)
// @Tags         pedidos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID do pedido"
// @Success      200  {object}  dto.PedidoResponse
// @Router       /api/pedidos/{id}/unarchive [post]
func (h *PedidoHandler) Unarchive(c *fiber.Ctx) error {
	p, err := h.uc.Unarchive(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toPedidoResponse(p))
}

// Delete godoc
// @Summary      Excluir pedido (bloqueado se arquivado)
// @Tags         pedidos
// @Security     Bearer
// @Param        id  path  string  true  "ID do pedido"
// @Success      204
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/pedidos/{id} [delete]
func (h *PedidoHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toPedidoResponse(p *entity.Pedido) dto.PedidoResponse {
	return dto.PedidoResponse{
		ID:              p.ID,
		Irmao:           p.Irmao,
		PublicacaoID:    p.PublicacaoID,
		PublicationName: p.PublicationName,
		PublicationCode: p.PublicationCode,
		CurrentStock:    p.CurrentStock,
		Quantidade:      p.Quantidade,
		DataPedido:      p.DataPedido,
		Enviado:         p.Enviado,
		Entregue:        p.Entregue,
		Archived:        p.Archived,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
