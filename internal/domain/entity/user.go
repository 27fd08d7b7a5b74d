package entity

import "time"

// User identidade de autenticação (credenciais). O perfil com papel e
// dados exibíveis vive em Profile, espelhado 1:1 por user_id.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt, nunca em claro após persistir
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
