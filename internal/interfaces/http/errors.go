package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/congregacao-portao/publicacoes-api/internal/application/dto"
	"github.com/congregacao-portao/publicacoes-api/internal/application/ledger"
	"github.com/congregacao-portao/publicacoes-api/internal/domain"
)

// fail mapeia os erros de domínio para status e código HTTP.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "dados inválidos"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciais inválidas"})
	case errors.Is(err, domain.ErrInactiveUser):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "INACTIVE", Message: "conta desativada"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acesso negado"})
	case errors.Is(err, domain.ErrAdminProtected):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "ADMIN_PROTECTED", Message: "perfis admin não podem ser removidos"})
	case errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "usuário não encontrado"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "registro não encontrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "registro duplicado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		resp := dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "estoque insuficiente"}
		if available, ok := ledger.AvailableFrom(err); ok {
			resp.Available = &available
		}
		insufficientStockCounter.Inc()
		return c.Status(fiber.StatusConflict).JSON(resp)
	case errors.Is(err, domain.ErrPedidoArchived):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "PEDIDO_ARCHIVED", Message: "pedido arquivado não pode ser alterado; desarquive primeiro"})
	case errors.Is(err, domain.ErrPreconditionFailed):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "PRECONDITION_FAILED", Message: "pedido só pode ser arquivado depois de enviado e entregue"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
}
