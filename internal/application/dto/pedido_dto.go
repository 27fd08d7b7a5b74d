package dto

import "time"

// CreatePedidoRequest entrada para criar/editar um pedido.
type CreatePedidoRequest struct {
	Irmao        string `json:"irmao"`
	PublicacaoID string `json:"publicacao_id"`
	Quantidade   int    `json:"quantidade"`
	DataPedido   string `json:"data_pedido"` // yyyy-mm-dd; vazio = hoje
}

// SetFlagRequest entrada dos toggles enviado/entregue.
type SetFlagRequest struct {
	Value bool `json:"value"`
}

// PedidoResponse saída de um pedido.
type PedidoResponse struct {
	ID              string    `json:"id"`
	Irmao           string    `json:"irmao"`
	PublicacaoID    string    `json:"publicacao_id"`
	PublicationName string    `json:"publication_name,omitempty"`
	PublicationCode string    `json:"publication_code,omitempty"`
	CurrentStock    int       `json:"current_stock"`
	Quantidade      int       `json:"quantidade"`
	DataPedido      time.Time `json:"data_pedido"`
	Enviado         bool      `json:"enviado"`
	Entregue        bool      `json:"entregue"`
	Archived        bool      `json:"archived"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PedidoStats contadores exibidos no topo da tela de pedidos.
type PedidoStats struct {
	Total              int `json:"total"`
	Ativos             int `json:"ativos"`
	Arquivados         int `json:"arquivados"`
	ProntosParaArquivar int `json:"prontos_para_arquivar"`
	Pendentes          int `json:"pendentes"`
}
