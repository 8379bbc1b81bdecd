package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/salao-pro/internal/application/dto"
	"github.com/tu-usuario/salao-pro/internal/application/guard"
	"github.com/tu-usuario/salao-pro/internal/application/session"
	"github.com/tu-usuario/salao-pro/internal/domain/entity"
	"github.com/tu-usuario/salao-pro/pkg/jwt"
)

// Local key da sessão restaurada em c.Locals.
const LocalSession = "session"

// AuthMiddleware valida o Bearer token (access), restaura a sessão
// persistida e a coloca em c.Locals. As negações carregam o redirect de
// login, no mesmo contrato do guard de rotas.
func AuthMiddleware(jwtSecret string, sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "MISSING_TOKEN", "Authorization header requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c, "INVALID_TOKEN", "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return unauthorized(c, "MISSING_TOKEN", "token vazio")
		}

		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil || claims.TokenType != jwt.TypeAccess {
			return unauthorized(c, "INVALID_TOKEN", "token inválido ou expirado")
		}

		sess, err := sessions.Restore(c.UserContext(), claims.SessionID)
		if err != nil || sess == nil {
			return unauthorized(c, "SESSION_EXPIRED", "sessão expirada, faça login novamente")
		}

		c.Locals(LocalSession, sess)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Code:     code,
		Message:  message,
		Redirect: guard.LoginRoute,
	})
}

// GetSession devolve a sessão restaurada (depois do AuthMiddleware).
func GetSession(c *fiber.Ctx) *entity.Session {
	v := c.Locals(LocalSession)
	if v == nil {
		return nil
	}
	sess, _ := v.(*entity.Session)
	return sess
}

// GetRole devolve o perfil da sessão corrente.
func GetRole(c *fiber.Ctx) string {
	if sess := GetSession(c); sess != nil {
		return sess.Role
	}
	return ""
}

// GetUserID devolve o ID do usuário da sessão corrente.
func GetUserID(c *fiber.Ctx) string {
	if sess := GetSession(c); sess != nil {
		return sess.UserID
	}
	return ""
}

// GetEstabelecimentoID devolve o tenant da sessão corrente (vazio para ADMIN).
func GetEstabelecimentoID(c *fiber.Ctx) string {
	if sess := GetSession(c); sess != nil {
		return sess.EstabelecimentoID
	}
	return ""
}
