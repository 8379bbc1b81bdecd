package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/salao-pro/internal/application/dto"
	"github.com/tu-usuario/salao-pro/internal/application/usecase"
	"github.com/tu-usuario/salao-pro/internal/domain"
)

// EstabelecimentoHandler CRUD mínimo dos salões (rotas de plataforma).
type EstabelecimentoHandler struct {
	uc *usecase.EstabelecimentoUseCase
}

// NewEstabelecimentoHandler constrói o handler de estabelecimentos.
func NewEstabelecimentoHandler(uc *usecase.EstabelecimentoUseCase) *EstabelecimentoHandler {
	return &EstabelecimentoHandler{uc: uc}
}

// Create godoc
// @Summary      Cadastrar um salão
// @Tags         estabelecimentos
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEstabelecimentoRequest  true  "dados do salão"
// @Success      201   {object}  dto.EstabelecimentoResponse
// @Router       /api/admin/estabelecimentos [post]
func (h *EstabelecimentoHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateEstabelecimentoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "nome é requerido"})
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar salões
// @Tags         estabelecimentos
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  dto.EstabelecimentoResponse
// @Router       /api/admin/estabelecimentos [get]
func (h *EstabelecimentoHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginação inválida"})
	}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Consultar um salão
// @Tags         estabelecimentos
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "ID do salão"
// @Success      200  {object}  dto.EstabelecimentoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/estabelecimentos/{id} [get]
func (h *EstabelecimentoHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "salão não encontrado"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}
