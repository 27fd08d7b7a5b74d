package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congregacao-portao/publicacoes-api/internal/application/dto"
	"github.com/congregacao-portao/publicacoes-api/internal/application/usecase"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/entity"
)

// UserHandler trata as operações administrativas de usuários e perfis.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler constrói o handler de usuários.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Create godoc
// @Summary      Criar usuário com papel (admin)
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "username, full_name, password (>= 6), role; email opcional"
// @Success      201   {object}  dto.ProfileResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	profile, err := h.uc.CreateUser(c.Context(), GetActor(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toProfileResponse(profile))
}

// List godoc
// @Summary      Listar perfis
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máx. 100; padrão 50"
// @Param        offset  query  int  false  "padrão 0"
// @Success      200  {array}  dto.ProfileResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	profiles, err := h.uc.ListProfiles(page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toProfileResponse(p))
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar perfil (nome, papel, situação)
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "user_id do perfil"
// @Param        body  body  dto.UpdateProfileRequest  true  "full_name, role, is_active"
// @Success      200   {object}  dto.ProfileResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	profile, err := h.uc.UpdateProfile(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toProfileResponse(profile))
}

// ChangePassword godoc
// @Summary      Redefinir senha de um usuário (admin)
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "user_id"
// @Param        body  body  dto.ChangePasswordRequest  true  "new_password (>= 6)"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.UserID = c.Params("id")
	if err := h.uc.ChangePassword(c.Context(), GetActor(c), in); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Remover usuário e perfil (perfis admin são protegidos)
// @Tags         users
// @Security     Bearer
// @Param        id  path  string  true  "user_id"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse  "ADMIN_PROTECTED"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteProfile(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toProfileResponse(p *entity.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		FullName:  p.FullName,
		Username:  p.Username,
		Email:     p.Email,
		Role:      string(p.Role),
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
