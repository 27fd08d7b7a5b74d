package dto

// CreateUserRequest entrada da operação privilegiada de criação de usuário.
// Email é opcional: ausente, deriva de username@congregacao.local.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

// ChangePasswordRequest reset de senha server-side (admin).
type ChangePasswordRequest struct {
	UserID      string `json:"user_id"`
	NewPassword string `json:"new_password"`
}

// UpdateProfileRequest edição de perfil por admin.
type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}
