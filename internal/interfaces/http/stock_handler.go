package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congregacao-portao/publicacoes-api/internal/application/dto"
	"github.com/congregacao-portao/publicacoes-api/internal/application/ledger"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/entity"
)

// StockHandler trata movimentações de estoque e a correção manual de saldo.
type StockHandler struct {
	uc *ledger.StockLedgerUseCase
}

// NewStockHandler constrói o handler de estoque.
func NewStockHandler(uc *ledger.StockLedgerUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimentação de estoque (entrada ou saída)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "publication_id, type (entrada|saida), quantity"
// @Success      201   {object}  dto.RegisterMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK traz available"
// @Router       /api/stock/movements [post]
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	newStock, err := h.uc.ApplyMovement(c.Context(), GetActor(c), ledger.MovementInput{
		PublicationID: in.PublicationID,
		Type:          in.Type,
		Quantity:      in.Quantity,
	})
	if err != nil {
		return fail(c, err)
	}
	movementCounter.WithLabelValues(in.Type).Inc()
	return c.Status(fiber.StatusCreated).JSON(dto.RegisterMovementResponse{NewStock: newStock})
}

// AdjustStock godoc
// @Summary      Corrigir saldo manualmente (ajuste auditado, sem movimentação)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID da publicação"
// @Param        body  body  dto.AdjustStockRequest  true  "new_stock >= 0"
// @Success      200   {object}  dto.RegisterMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/publications/{id}/stock [put]
func (h *StockHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.SetStock(c.Context(), GetActor(c), c.Params("id"), in.NewStock); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.RegisterMovementResponse{NewStock: in.NewStock})
}

// ListRecent godoc
// @Summary      Movimentações recentes (todas as publicações)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "máx. 100; padrão 50"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListRecent(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	movs, err := h.uc.ListRecent(page.Limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toMovementResponses(movs))
}

// ListByPublication godoc
// @Summary      Histórico de movimentações de uma publicação
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID da publicação"
// @Param        limit   query  int     false  "máx. 100; padrão 50"
// @Param        offset  query  int     false  "padrão 0"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/publications/{id}/movements [get]
func (h *StockHandler) ListByPublication(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	movs, err := h.uc.ListByPublication(c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toMovementResponses(movs))
}

func toMovementResponses(movs []*entity.StockMovement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.MovementResponse{
			ID:              m.ID,
			PublicationID:   m.PublicationID,
			PublicationName: m.PublicationName,
			PublicationCode: m.PublicationCode,
			Type:            m.MovementType,
			Quantity:        m.Quantity,
			CreatedAt:       m.CreatedAt,
			CreatedBy:       m.CreatedBy,
		})
	}
	return out
}
