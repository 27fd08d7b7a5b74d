package dto

import "time"

// LoginRequest entrada do login. Identifier aceita email ou username.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// RegisterRequest entrada do cadastro (self-signup). O papel inicial é
// sempre viewer; promoção é feita depois por um admin.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Username string `json:"username"`
}

// ProfileResponse saída de um perfil (sem credenciais).
type ProfileResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FullName  string    `json:"full_name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CapabilitiesResponse capacidades derivadas do papel, para a UI montar a navegação.
type CapabilitiesResponse struct {
	CanCreate        bool `json:"can_create"`
	CanEdit          bool `json:"can_edit"`
	CanDelete        bool `json:"can_delete"`
	CanSave          bool `json:"can_save"`
	CanManageStock   bool `json:"can_manage_stock"`
	CanManageOrders  bool `json:"can_manage_orders"`
	CanAccessReports bool `json:"can_access_reports"`
}

// LoginResponse saída do login: token JWT, perfil e capacidades.
type LoginResponse struct {
	Token        string               `json:"token"`
	Profile      ProfileResponse      `json:"profile"`
	Capabilities CapabilitiesResponse `json:"capabilities"`
}
