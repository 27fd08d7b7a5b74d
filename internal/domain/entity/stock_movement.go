package entity

import "time"

// Tipos de movimentação de estoque.
const (
	MovementEntrada = "entrada"
	MovementSaida   = "saida"
)

// StockMovement registro imutável de uma movimentação de estoque.
// Append-only: nunca é atualizado nem excluído em operação normal.
type StockMovement struct {
	ID            string
	PublicationID string
	MovementType  string // entrada | saida
	Quantity      int    // sempre positivo; o sinal vem do tipo
	CreatedAt     time.Time
	CreatedBy     string // user_id do responsável

	// Preenchidos por join nas listagens, não persistidos na tabela.
	PublicationName string
	PublicationCode string
}
