package repository

import "github.com/congregacao-portao/publicacoes-api/internal/domain/entity"

// PedidoFilter filtros de listagem de pedidos.
// Status: "todos", "ativos", "arquivados", "nao_enviados", "enviados",
// "entregues", "prontos_arquivar".
type PedidoFilter struct {
	Status string
	Search string // busca em irmao, nome e código da publicação
	Limit  int
	Offset int
}

// PedidoRepository porto de persistência dos pedidos.
type PedidoRepository interface {
	Create(p *entity.Pedido) error
	GetByID(id string) (*entity.Pedido, error)
	List(filter PedidoFilter) ([]*entity.Pedido, error)
	Update(p *entity.Pedido) error
	Delete(id string) error
}
