package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/salao-pro/internal/application/botconfig"
	"github.com/tu-usuario/salao-pro/internal/application/dto"
	"github.com/tu-usuario/salao-pro/internal/domain"
	"github.com/tu-usuario/salao-pro/internal/domain/entity"
)

// BotConfigHandler leitura e gravação da configuração do bot, do salão e do
// suporte da plataforma.
type BotConfigHandler struct {
	uc *botconfig.UseCase
}

// NewBotConfigHandler constrói o handler de configuração do bot.
func NewBotConfigHandler(uc *botconfig.UseCase) *BotConfigHandler {
	return &BotConfigHandler{uc: uc}
}

func (h *BotConfigHandler) owner(c *fiber.Ctx) (string, error) {
	salonID := c.Params("id")
	if salonID == "" {
		return entity.SupportOwner, nil // rotas /api/admin/bot-config
	}
	sess := GetSession(c)
	if sess.Role != entity.RoleAdmin && sess.EstabelecimentoID != salonID {
		return "", domain.ErrForbidden
	}
	return entity.SalonOwnerKey(salonID), nil
}

func denyBotConfig(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "PERMISSION_DENIED", Message: "configuração de outro estabelecimento"})
}

// Get godoc
// @Summary      Configuração efetiva do bot (padrões + documento salvo)
// @Tags         bot
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "ID do salão"
// @Success      200  {object}  dto.BotConfigResponse
// @Router       /api/salon/{id}/bot-config [get]
func (h *BotConfigHandler) Get(c *fiber.Ctx) error {
	owner, err := h.owner(c)
	if err != nil {
		return denyBotConfig(c)
	}
	cfg, err := h.uc.Load(c.UserContext(), owner)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(dto.FromBotConfig(cfg))
}

// Save godoc
// @Summary      Gravar a configuração do bot
// @Tags         bot
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "ID do salão"
// @Param        body  body  dto.BotConfigResponse  true  "configuração"
// @Success      200   {object}  dto.BotConfigResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/salon/{id}/bot-config [post]
func (h *BotConfigHandler) Save(c *fiber.Ctx) error {
	owner, err := h.owner(c)
	if err != nil {
		return denyBotConfig(c)
	}
	// O corpo chega por cima da configuração efetiva: campos omitidos
	// preservam o que já vale, nunca voltam ao zero do Go.
	cfg, err := h.uc.Load(c.UserContext(), owner)
	if err != nil {
		return internalError(c, err)
	}
	if err := c.BodyParser(cfg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	cfg.Owner = owner
	saved, err := h.uc.Save(c.UserContext(), cfg)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "modo de atendimento ou horário inválido"})
		}
		return internalError(c, err)
	}
	return c.JSON(dto.FromBotConfig(saved))
}

// Toggle godoc
// @Summary      Ligar/desligar o bot
// @Tags         bot
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID do salão"
// @Param        body  body  dto.ToggleBotRequest  true  "bot_ativo"
// @Success      200   {object}  dto.BotConfigResponse
// @Router       /api/salon/{id}/bot-config/toggle [post]
func (h *BotConfigHandler) Toggle(c *fiber.Ctx) error {
	owner, err := h.owner(c)
	if err != nil {
		return denyBotConfig(c)
	}
	var in dto.ToggleBotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	cfg, err := h.uc.ToggleActive(c.UserContext(), owner, in.Active)
	if err != nil {
		// A gravação falhou: devolve a configuração vigente para a UI
		// desfazer o switch.
		if cfg != nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"code":    "TOGGLE_FAILED",
				"message": err.Error(),
				"config":  dto.FromBotConfig(cfg),
			})
		}
		return internalError(c, err)
	}
	return c.JSON(dto.FromBotConfig(cfg))
}
