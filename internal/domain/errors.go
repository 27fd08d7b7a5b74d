package domain

import (
	"errors"
	"fmt"
)

// Erros de domínio (sem dependências externas).
var (
	ErrNotFound           = errors.New("recurso não encontrado")
	ErrUserNotFound       = errors.New("usuário não encontrado")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("não autorizado")
	ErrForbidden          = errors.New("acesso negado")
	ErrInactiveUser       = errors.New("usuário inativo")
	ErrInsufficientStock  = errors.New("estoque insuficiente")
	ErrPreconditionFailed = errors.New("transição de estado não permitida")
	ErrPedidoArchived     = errors.New("pedido arquivado não pode ser alterado")
	ErrAdminProtected     = errors.New("usuários administradores não podem ser excluídos")
)

// InsufficientStockError carrega a quantidade disponível para exibição ao usuário.
// errors.Is(err, ErrInsufficientStock) continua funcionando para o fluxo de controle.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("estoque insuficiente: disponível apenas %d unidades", e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
