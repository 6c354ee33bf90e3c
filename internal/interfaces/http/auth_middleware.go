package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/usuarios-rbac/internal/application/dto"
	"github.com/jhoicas/usuarios-rbac/internal/domain/entity"
)

// Locals keys para la identidad de sesión en Fiber.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// sessionResolver es el contrato mínimo que necesita el middleware; lo implementa *auth.AuthUseCase.
type sessionResolver interface {
	ResolveSession(token string) (entity.Caller, error)
}

// SessionMiddleware resuelve la sesión (cookie HTTP-only, o Bearer como alternativa para
// clientes no navegador) y deja (user_id, role) en c.Locals.
func SessionMiddleware(resolver sessionResolver, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token == "" {
			token = bearerToken(c.Get(fiber.HeaderAuthorization))
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "NOT_AUTHENTICATED", Message: "no autenticado"})
		}
		caller, err := resolver.ResolveSession(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_SESSION", Message: "sesión inválida o expirada"})
		}
		c.Locals(LocalUserID, caller.ID)
		c.Locals(LocalRole, string(caller.Rol))
		return c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetCaller devuelve la identidad del llamador (después de SessionMiddleware).
func GetCaller(c *fiber.Ctx) (entity.Caller, bool) {
	id, ok := c.Locals(LocalUserID).(int64)
	if !ok || id <= 0 {
		return entity.Caller{}, false
	}
	role, _ := c.Locals(LocalRole).(string)
	return entity.Caller{ID: id, Rol: entity.Role(role)}, true
}
