package dto

import "time"

// RegisterMovementRequest entrada para registrar uma movimentação.
type RegisterMovementRequest struct {
	PublicationID string `json:"publication_id"`
	Type          string `json:"type"` // entrada | saida
	Quantity      int    `json:"quantity"`
}

// MovementResponse saída de uma movimentação (com dados da publicação por join).
type MovementResponse struct {
	ID              string    `json:"id"`
	PublicationID   string    `json:"publication_id"`
	PublicationName string    `json:"publication_name,omitempty"`
	PublicationCode string    `json:"publication_code,omitempty"`
	Type            string    `json:"type"`
	Quantity        int       `json:"quantity"`
	CreatedAt       time.Time `json:"created_at"`
	CreatedBy       string    `json:"created_by,omitempty"`
}

// RegisterMovementResponse saída do registro: estoque resultante.
type RegisterMovementResponse struct {
	NewStock int `json:"new_stock"`
}

// AdjustStockRequest correção manual do estoque (bypass de movimentação).
type AdjustStockRequest struct {
	NewStock int `json:"new_stock"`
}
