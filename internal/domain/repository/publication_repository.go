package repository

import "github.com/congregacao-portao/publicacoes-api/internal/domain/entity"

// PublicationRepository define o porto de persistência do catálogo.
type PublicationRepository interface {
	Create(pub *entity.Publication) error
	GetByID(id string) (*entity.Publication, error)
	GetByCode(code string) (*entity.Publication, error)
	List(limit, offset int) ([]*entity.Publication, error)
	Update(pub *entity.Publication) error
	UpdateImageURL(id, imageURL string) error
	Delete(id string) error

	// AdjustStock aplica o delta (positivo ou negativo) em um único UPDATE
	// condicional: a linha só muda se current_stock + delta >= 0. Devolve o
	// estoque resultante; *domain.InsufficientStockError quando o saldo não
	// cobre a saída; domain.ErrNotFound quando a publicação não existe.
	// É a implementação deste método que fecha a corrida de duas saídas
	// concorrentes lendo o mesmo saldo.
	AdjustStock(id string, delta int) (newStock int, err error)

	// GetStockForUpdate lê o estoque bloqueando a linha (SELECT FOR UPDATE),
	// usado pela correção manual setStock.
	GetStockForUpdate(id string) (int, error)
	SetStock(id string, value int) error
}
