package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/salao-pro/internal/application/dto"
	"github.com/tu-usuario/salao-pro/internal/application/usecase"
)

// BillingHandler planos de assinatura e cobranças.
type BillingHandler struct {
	uc *usecase.BillingUseCase
}

// NewBillingHandler constrói o handler de cobrança.
func NewBillingHandler(uc *usecase.BillingUseCase) *BillingHandler {
	return &BillingHandler{uc: uc}
}

// ListPlans godoc
// @Summary      Listar os planos ativos (público)
// @Tags         billing
// @Produce      json
// @Success      200  {array}  dto.PlanResponse
// @Router       /api/plans [get]
func (h *BillingHandler) ListPlans(c *fiber.Ctx) error {
	plans, err := h.uc.ListPlans(c.UserContext())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(plans)
}

// ListTransactions godoc
// @Summary      Listar as cobranças visíveis para a sessão
// @Tags         billing
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query  int  false  "tamanho da página"
// @Param        offset  query  int  false  "deslocamento"
// @Success      200  {array}  dto.TransactionResponse
// @Router       /api/transactions [get]
func (h *BillingHandler) ListTransactions(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginação inválida"})
	}
	out, err := h.uc.ListTransactions(c.UserContext(), GetSession(c), page)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}
