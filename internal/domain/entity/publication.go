package entity

import "time"

// Categorias de publicações do catálogo.
var PublicationCategories = []string{
	"Livros",
	"Revistas",
	"Folhetos",
	"Bíblias",
	"Outros",
}

// Publication item do catálogo da congregação.
// CurrentStock é um agregado derivado: estoque inicial mais a soma dos
// movimentos aplicados. Nunca pode ficar negativo; toda alteração é pareada
// com exatamente um StockMovement (ou um ajuste auditado) na mesma transação.
type Publication struct {
	ID              string
	Code            string // opcional, ^[A-Za-z0-9\-_]{1,20}$
	Name            string
	Category        string
	CurrentStock    int
	ImageURL        string // capa, servida pelo storage de objetos
	ManufacturerURL string // URL única usada pelo QR Code do fabricante
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
