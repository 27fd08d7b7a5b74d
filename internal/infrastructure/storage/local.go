package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage implementa Driver sobre o sistema de arquivos local.
type LocalStorage struct {
	basePath  string
	publicURL string
}

// NewLocalStorage constrói o driver local. publicURL vazio serve os arquivos
// sob /uploads na própria API.
func NewLocalStorage(basePath, publicURL string) *LocalStorage {
	if publicURL == "" {
		publicURL = "/uploads"
	}
	return &LocalStorage{basePath: basePath, publicURL: strings.TrimSuffix(publicURL, "/")}
}

// Upload grava o arquivo em disco, criando os diretórios intermediários.
func (s *LocalStorage) Upload(ctx context.Context, file io.Reader, path string) (string, string, error) {
	fullPath := filepath.Join(s.basePath, path)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", "", fmt.Errorf("criar diretório: %w", err)
	}

	out, err := os.Create(fullPath)
	if err != nil {
		return "", "", fmt.Errorf("criar arquivo: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", "", fmt.Errorf("gravar arquivo: %w", err)
	}

	return path, s.GetPublicURL(path), nil
}

// Delete remove o arquivo e os diretórios pais que ficarem vazios.
func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	fullPath := filepath.Join(s.basePath, path)

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remover arquivo: %w", err)
	}
	s.removeEmptyDirs(filepath.Dir(fullPath))
	return nil
}

// GetPublicURL monta a URL servível de um arquivo local.
func (s *LocalStorage) GetPublicURL(path string) string {
	return s.publicURL + "/" + strings.TrimPrefix(path, "/")
}

// Exists verifica se o arquivo está em disco.
func (s *LocalStorage) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.basePath, path))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat arquivo: %w", err)
	}
	return true, nil
}

func (s *LocalStorage) removeEmptyDirs(dir string) {
	rel, err := filepath.Rel(s.basePath, dir)
	if err != nil || rel == "." {
		return
	}
	// Remove só se vazio; sobe enquanto conseguir.
	if err := os.Remove(dir); err == nil {
		s.removeEmptyDirs(filepath.Dir(dir))
	}
}
