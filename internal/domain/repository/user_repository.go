package repository

import "github.com/congregacao-portao/publicacoes-api/internal/domain/entity"

// UserRepository porto de persistência das identidades (credenciais).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	UpdatePassword(id, passwordHash string) error
	Delete(id string) error
}
