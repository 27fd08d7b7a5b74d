package storage

import (
	"context"
	"io"
)

// Driver abstrai o backend de armazenamento das capas de publicações.
type Driver interface {
	// Upload grava o arquivo e devolve o caminho no storage e a URL pública.
	Upload(ctx context.Context, file io.Reader, path string) (storagePath string, publicURL string, err error)

	// Delete remove um arquivo. Inexistente não é erro.
	Delete(ctx context.Context, path string) error

	// GetPublicURL devolve a URL servível de um arquivo já gravado.
	GetPublicURL(path string) string

	// Exists verifica se o arquivo está gravado.
	Exists(ctx context.Context, path string) (bool, error)
}

// Config parâmetros do storage de objetos.
type Config struct {
	Driver string // "local" ou "s3"

	// local
	UploadsPath string
	PublicURL   string // base para montar as URLs servidas (ex.: https://app.exemplo/uploads)

	// AWS S3
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	AWSBucket          string
}
