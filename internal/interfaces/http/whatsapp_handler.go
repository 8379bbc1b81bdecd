package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/salao-pro/internal/application/dto"
	"github.com/tu-usuario/salao-pro/internal/application/usecase"
	"github.com/tu-usuario/salao-pro/internal/application/whatsapp"
	"github.com/tu-usuario/salao-pro/internal/domain"
	"github.com/tu-usuario/salao-pro/internal/domain/entity"
)

// WhatsAppHandler operações sobre as instâncias de conexão: a de cada salão
// e a reservada ao suporte da plataforma. Todas passam pelo gerenciador;
// nenhum estado vive no handler.
type WhatsAppHandler struct {
	manager *whatsapp.Manager
	estabs  *usecase.EstabelecimentoUseCase
}

// NewWhatsAppHandler constrói o handler das instâncias WhatsApp.
func NewWhatsAppHandler(manager *whatsapp.Manager, estabs *usecase.EstabelecimentoUseCase) *WhatsAppHandler {
	return &WhatsAppHandler{manager: manager, estabs: estabs}
}

// salonOwner resolve a chave de instância do salão da rota, negando acesso
// de sessões não-ADMIN a salões de terceiros.
func (h *WhatsAppHandler) salonOwner(c *fiber.Ctx) (string, string, error) {
	salonID := c.Params("id")
	if salonID == "" {
		return "", "", domain.ErrInvalidInput
	}
	sess := GetSession(c)
	if sess.Role != entity.RoleAdmin && sess.EstabelecimentoID != salonID {
		return "", "", domain.ErrForbidden
	}
	return entity.SalonOwnerKey(salonID), salonID, nil
}

// denySalon responde a negação do salonOwner.
func denySalon(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "PERMISSION_DENIED", Message: "instância de outro estabelecimento"})
	}
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id do salão é requerido"})
}

// salonNumber devolve o número de WhatsApp cadastrado no salão.
func (h *WhatsAppHandler) salonNumber(c *fiber.Ctx, salonID string) (string, error) {
	estab, err := h.estabs.Get(c.UserContext(), salonID)
	if err != nil {
		return "", err
	}
	return estab.Whatsapp, nil
}

// Check godoc
// @Summary      Verificar a instância do salão (provisiona se não existir)
// @Tags         whatsapp
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "ID do salão"
// @Success      200  {object}  entity.Instance
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/salon/{id}/whatsapp/instance/check [get]
func (h *WhatsAppHandler) Check(c *fiber.Ctx) error {
	owner, salonID, err := h.salonOwner(c)
	if err != nil {
		return denySalon(c, err)
	}
	inst, err := h.manager.CheckExistingInstance(c.UserContext(), owner)
	if err != nil {
		return bridgeError(c, err, inst)
	}
	if inst.State != entity.StateNotProvisioned {
		return c.JSON(inst)
	}

	// Fluxo de primeira conexão: provisiona, gera o código e liga o poller.
	number, err := h.salonNumber(c, salonID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "salão não encontrado"})
		}
		return internalError(c, err)
	}
	if inst, err = h.manager.CreateInstance(c.UserContext(), owner, number); err != nil {
		return bridgeError(c, err, inst)
	}
	if inst, err = h.manager.GenerateCode(c.UserContext(), owner); err != nil {
		return bridgeError(c, err, inst)
	}
	h.manager.StartPolling(c.UserContext(), owner)
	return c.JSON(inst)
}

// Create godoc
// @Summary      Provisionar a instância do salão
// @Tags         whatsapp
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "ID do salão"
// @Success      201  {object}  entity.Instance
// @Router       /api/salon/{id}/whatsapp/instance/create [post]
func (h *WhatsAppHandler) Create(c *fiber.Ctx) error {
	owner, salonID, err := h.salonOwner(c)
	if err != nil {
		return denySalon(c, err)
	}
	number, err := h.salonNumber(c, salonID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "salão não encontrado"})
		}
		return internalError(c, err)
	}
	inst, err := h.manager.CreateInstance(c.UserContext(), owner, number)
	if err != nil {
		return bridgeError(c, err, inst)
	}
	return c.Status(fiber.StatusCreated).JSON(inst)
}

// Connect godoc
// @Summary      Gerar um código de pareamento novo
// @Tags         whatsapp
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "ID do salão"
// @Success      200  {object}  entity.Instance
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/salon/{id}/whatsapp/instance/connect [post]
func (h *WhatsAppHandler) Connect(c *fiber.Ctx) error {
	owner, _, err := h.salonOwner(c)
	if err != nil {
		return denySalon(c, err)
	}
	inst, err := h.manager.GenerateCode(c.UserContext(), owner)
	if err != nil {
		return bridgeError(c, err, inst)
	}
	h.manager.StartPolling(c.UserContext(), owner)
	return c.JSON(inst)
}

// QRCode godoc
// @Summary      Último artefato de pareamento da instância
// @Tags         whatsapp
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "ID do salão"
// @Success      200  {object}  entity.PairingArtifact
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/salon/{id}/whatsapp/instance/qr-code [get]
func (h *WhatsAppHandler) QRCode(c *fiber.Ctx) error {
	owner, _, err := h.salonOwner(c)
	if err != nil {
		return denySalon(c, err)
	}
	inst := h.manager.Snapshot(owner)
	if inst.LastCode == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NO_CODE", Message: "nenhum código de pareamento disponível"})
	}
	return c.JSON(inst.LastCode)
}

// Status godoc
// @Summary      Estado corrente da instância (sem consultar a ponte)
// @Tags         whatsapp
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "ID do salão"
// @Success      200  {object}  entity.Instance
// @Router       /api/salon/{id}/whatsapp/instance/status [get]
func (h *WhatsAppHandler) Status(c *fiber.Ctx) error {
	owner, _, err := h.salonOwner(c)
	if err != nil {
		return denySalon(c, err)
	}
	return c.JSON(h.manager.Snapshot(owner))
}

// Disconnect godoc
// @Summary      Encerrar o pareamento da instância
// @Tags         whatsapp
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "ID do salão"
// @Success      200  {object}  entity.Instance
// @Router       /api/salon/{id}/whatsapp/instance/disconnect [post]
func (h *WhatsAppHandler) Disconnect(c *fiber.Ctx) error {
	owner, _, err := h.salonOwner(c)
	if err != nil {
		return denySalon(c, err)
	}
	inst, err := h.manager.Disconnect(c.UserContext(), owner)
	if err != nil {
		return bridgeError(c, err, inst)
	}
	return c.JSON(inst)
}

// supportNumber corpo para provisionar a instância do suporte.
type supportNumber struct {
	Number string `json:"number"`
}

// SupportCheck verifica a instância do suporte da plataforma (ADMIN).
func (h *WhatsAppHandler) SupportCheck(c *fiber.Ctx) error {
	inst, err := h.manager.CheckExistingInstance(c.UserContext(), entity.SupportOwner)
	if err != nil {
		return bridgeError(c, err, inst)
	}
	return c.JSON(inst)
}

// SupportCreate provisiona a instância do suporte com o número informado.
func (h *WhatsAppHandler) SupportCreate(c *fiber.Ctx) error {
	var in supportNumber
	if err := c.BodyParser(&in); err != nil || in.Number == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "number é requerido"})
	}
	inst, err := h.manager.CreateInstance(c.UserContext(), entity.SupportOwner, in.Number)
	if err != nil {
		return bridgeError(c, err, inst)
	}
	return c.Status(fiber.StatusCreated).JSON(inst)
}

// SupportConnect gera um código de pareamento para a instância do suporte.
func (h *WhatsAppHandler) SupportConnect(c *fiber.Ctx) error {
	inst, err := h.manager.GenerateCode(c.UserContext(), entity.SupportOwner)
	if err != nil {
		return bridgeError(c, err, inst)
	}
	h.manager.StartPolling(c.UserContext(), entity.SupportOwner)
	return c.JSON(inst)
}

// SupportDisconnect encerra o pareamento da instância do suporte.
func (h *WhatsAppHandler) SupportDisconnect(c *fiber.Ctx) error {
	inst, err := h.manager.Disconnect(c.UserContext(), entity.SupportOwner)
	if err != nil {
		return bridgeError(c, err, inst)
	}
	return c.JSON(inst)
}

// ListInstances visão geral de todas as instâncias conhecidas (ADMIN).
func (h *WhatsAppHandler) ListInstances(c *fiber.Ctx) error {
	return c.JSON(h.manager.Snapshots())
}

// bridgeError traduz os erros da ponte/gerenciador para HTTP, devolvendo o
// snapshot corrente junto para a UI não ficar às cegas.
func bridgeError(c *fiber.Ctx, err error, inst entity.Instance) error {
	status := fiber.StatusInternalServerError
	code := "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrRequestInFlight):
		status, code = fiber.StatusConflict, "REQUEST_IN_FLIGHT"
	case errors.Is(err, domain.ErrInstanceNotProvisioned):
		status, code = fiber.StatusConflict, "NOT_PROVISIONED"
	case errors.Is(err, domain.ErrBridgeRateLimited):
		status, code = fiber.StatusTooManyRequests, "BRIDGE_RATE_LIMITED"
	case errors.Is(err, domain.ErrBridgeUnavailable):
		status, code = fiber.StatusServiceUnavailable, "BRIDGE_UNAVAILABLE"
	case errors.Is(err, domain.ErrBridgeInvalidResponse):
		status, code = fiber.StatusBadGateway, "BRIDGE_ERROR"
	}
	return c.Status(status).JSON(fiber.Map{
		"code":     code,
		"message":  err.Error(),
		"instance": inst,
	})
}
