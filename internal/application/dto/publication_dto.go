package dto

import "time"

// CreatePublicationRequest entrada para criar uma publicação.
type CreatePublicationRequest struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	CurrentStock    int    `json:"current_stock"`
	ManufacturerURL string `json:"manufacturer_url"`
}

// UpdatePublicationRequest entrada para editar uma publicação.
// CurrentStock não é editável por aqui; usar os endpoints de movimentação/ajuste.
type UpdatePublicationRequest struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	ManufacturerURL string `json:"manufacturer_url"`
}

// PublicationResponse saída de uma publicação.
type PublicationResponse struct {
	ID              string    `json:"id"`
	Code            string    `json:"code,omitempty"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	CurrentStock    int       `json:"current_stock"`
	ImageURL        string    `json:"image_url,omitempty"`
	ManufacturerURL string    `json:"manufacturer_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
