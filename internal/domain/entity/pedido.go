package entity

import "time"

// Pedido solicitação de um irmão por uma quantidade de uma publicação,
// acompanhada pelos estados enviado/entregue/arquivado.
//
// Arquivar só é permitido quando enviado e entregue são verdadeiros.
// Depois de arquivado, o pedido fica travado: qualquer mutação além de
// desarquivar é rejeitada.
type Pedido struct {
	ID           string
	Irmao        string // nome do solicitante
	PublicacaoID string
	Quantidade   int
	DataPedido   time.Time
	Enviado      bool
	Entregue     bool
	Archived     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Preenchidos por join nas listagens.
	PublicationName string
	PublicationCode string
	CurrentStock    int
}

// CanArchive indica se o pedido cumpre a precondição de arquivamento.
func (p *Pedido) CanArchive() bool {
	return p.Enviado && p.Entregue
}
