package entity

import (
	"time"

	"github.com/congregacao-portao/publicacoes-api/internal/domain/policy"
)

// Profile perfil de acesso de um usuário, espelha a identidade 1:1.
// Criado no cadastro (self-signup ou via admin) e mutado por edições de admin.
type Profile struct {
	ID        string
	UserID    string
	FullName  string
	Username  string
	Email     string
	Role      policy.Role
	IsActive  bool
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Actor snapshot desnormalizado de quem executou uma ação, embutido nos
// registros de auditoria no momento da gravação. Intencionalmente tolerante
// a ficar desatualizado: o histórico deve sobreviver a edições e exclusões
// posteriores do perfil referenciado.
type Actor struct {
	UserID   string      `json:"user_id"`
	FullName string      `json:"full_name"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     policy.Role `json:"role"`
}

// ActorFrom monta o snapshot a partir do perfil atual.
func ActorFrom(p *Profile) Actor {
	if p == nil {
		return Actor{}
	}
	return Actor{
		UserID:   p.UserID,
		FullName: p.FullName,
		Username: p.Username,
		Email:    p.Email,
		Role:     p.Role,
	}
}
