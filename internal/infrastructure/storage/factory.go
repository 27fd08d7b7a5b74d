package storage

import "fmt"

// NewDriver constrói o driver de storage conforme a configuração.
func NewDriver(cfg *Config) (Driver, error) {
	switch cfg.Driver {
	case "local", "":
		uploadsPath := cfg.UploadsPath
		if uploadsPath == "" {
			uploadsPath = "./uploads"
		}
		return NewLocalStorage(uploadsPath, cfg.PublicURL), nil

	case "s3":
		return NewS3Storage(cfg)

	default:
		return nil, fmt.Errorf("driver de storage não suportado: %s", cfg.Driver)
	}
}
