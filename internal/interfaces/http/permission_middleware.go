package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/salao-pro/internal/application/dto"
	"github.com/tu-usuario/salao-pro/internal/application/guard"
	"github.com/tu-usuario/salao-pro/internal/application/permission"
)

// RequireRoles nega com redirect para a home do perfil quando a sessão não
// pertence a nenhum dos perfis exigidos. Sem perfis, exige só autenticação.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		decision := guard.Decide(GetSession(c), roles)
		switch decision.Outcome {
		case guard.Allowed:
			return c.Next()
		case guard.RedirectLogin:
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:     "MISSING_TOKEN",
				Message:  "autenticação requerida",
				Redirect: decision.Target,
			})
		default:
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:     "WRONG_ROLE",
				Message:  "perfil sem acesso a esta rota",
				Redirect: decision.Target,
			})
		}
	}
}

// RequirePermission nega quando a matriz não concede a ação sobre o recurso
// para o perfil da sessão. Combinações desconhecidas são sempre negadas.
func RequirePermission(resource, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !permission.Can(GetRole(c), resource, action) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "PERMISSION_DENIED",
				Message: "sem permissão para " + action + " em " + resource,
			})
		}
		return c.Next()
	}
}
