package repository

import "github.com/congregacao-portao/publicacoes-api/internal/domain/entity"

// ProfileRepository porto de persistência dos perfis de acesso.
type ProfileRepository interface {
	Create(p *entity.Profile) error
	GetByUserID(userID string) (*entity.Profile, error)
	GetByUsername(username string) (*entity.Profile, error)
	List(limit, offset int) ([]*entity.Profile, error)
	Update(p *entity.Profile) error
	Delete(userID string) error
	// ExistsUsernameOrEmail verifica unicidade antes de criar usuário.
	// email vazio só verifica o username.
	ExistsUsernameOrEmail(username, email string) (bool, error)
}
