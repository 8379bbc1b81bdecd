package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/salao-pro/internal/application/dto"
	"github.com/tu-usuario/salao-pro/internal/application/usecase"
	"github.com/tu-usuario/salao-pro/internal/domain"
)

// UserHandler listagem e consulta de usuários com escopo de tenant.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler constrói o handler de usuários.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar usuários visíveis para a sessão
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query  int  false  "tamanho da página"
// @Param        offset  query  int  false  "deslocamento"
// @Success      200  {array}  dto.UserResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginação inválida"})
	}
	users, err := h.uc.List(c.UserContext(), GetSession(c), page)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(users)
}

// GetByID godoc
// @Summary      Consultar um usuário
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "ID do usuário"
// @Success      200  {object}  dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	user, err := h.uc.Get(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuário não encontrado"})
		case errors.Is(err, domain.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "PERMISSION_DENIED", Message: "usuário de outro estabelecimento"})
		}
		return internalError(c, err)
	}
	return c.JSON(user)
}
