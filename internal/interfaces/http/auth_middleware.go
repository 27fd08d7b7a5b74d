package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/congregacao-portao/publicacoes-api/internal/application/dto"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/entity"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/policy"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/repository"
	"github.com/congregacao-portao/publicacoes-api/pkg/jwt"
)

// Locals keys no Fiber, preenchidas pelo AuthMiddleware.
const (
	LocalUserID   = "user_id"
	LocalUsername = "username"
	LocalRole     = "role"
	LocalActor    = "actor"
)

// AuthMiddleware valida o Bearer Token JWT e carrega o perfil atual para
// c.Locals. O perfil vem do banco, não do token: desativação e troca de
// papel valem imediatamente, sem esperar o token expirar.
func AuthMiddleware(jwtSecret string, profiles repository.ProfileRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "header Authorization obrigatório"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vazio"})
		}
		userID, _, _, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido ou expirado"})
		}

		profile, err := profiles.GetByUserID(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "falha ao carregar perfil"})
		}
		if profile == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNKNOWN_USER", Message: "perfil não encontrado"})
		}
		if !profile.IsActive {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "INACTIVE", Message: "conta desativada"})
		}

		c.Locals(LocalUserID, profile.UserID)
		c.Locals(LocalUsername, profile.Username)
		c.Locals(LocalRole, string(profile.Role))
		c.Locals(LocalActor, entity.ActorFrom(profile))
		return c.Next()
	}
}

// GetUserID devolve o UserID do contexto (após o middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetUsername devolve o username do contexto.
func GetUsername(c *fiber.Ctx) string {
	return localString(c, LocalUsername)
}

// GetRole devolve o papel do contexto. Valor ausente ou desconhecido cai no
// papel sem capacidades.
func GetRole(c *fiber.Ctx) policy.Role {
	return policy.FromString(localString(c, LocalRole))
}

// GetActor devolve o snapshot do ator autenticado.
func GetActor(c *fiber.Ctx) entity.Actor {
	v := c.Locals(LocalActor)
	if v == nil {
		return entity.Actor{}
	}
	a, _ := v.(entity.Actor)
	return a
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// RequireRole exige um dos papéis listados. Sem papel no contexto é 401;
// papel presente mas não listado é 403.
func RequireRole(roles ...policy.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if localString(c, LocalRole) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "autenticação obrigatória"})
		}
		role := GetRole(c)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "papel sem permissão para esta operação"})
	}
}

// RequireCapability exige que a capacidade indicada esteja ativa no papel do
// ator. A decisão é sempre derivada do papel atual; nunca vem do cliente.
func RequireCapability(cap func(policy.Set) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if localString(c, LocalRole) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "autenticação obrigatória"})
		}
		if !cap(policy.Capabilities(GetRole(c))) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "papel sem permissão para esta operação"})
		}
		return c.Next()
	}
}
