package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/salao-pro/internal/application/auth"
	"github.com/tu-usuario/salao-pro/internal/application/botconfig"
	"github.com/tu-usuario/salao-pro/internal/application/permission"
	"github.com/tu-usuario/salao-pro/internal/application/session"
	"github.com/tu-usuario/salao-pro/internal/application/usecase"
	"github.com/tu-usuario/salao-pro/internal/application/whatsapp"
	"github.com/tu-usuario/salao-pro/internal/domain/entity"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	UserUC      *usecase.UserUseCase
	EstabUC     *usecase.EstabelecimentoUseCase
	BillingUC   *usecase.BillingUseCase
	BotConfigUC *botconfig.UseCase
	Manager     *whatsapp.Manager
	Sessions    *session.Store
	JWTSecret   string
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC)
	userHandler := NewUserHandler(deps.UserUC)
	estabHandler := NewEstabelecimentoHandler(deps.EstabUC)
	billingHandler := NewBillingHandler(deps.BillingUC)
	botHandler := NewBotConfigHandler(deps.BotConfigUC)
	waHandler := NewWhatsAppHandler(deps.Manager, deps.EstabUC)

	// Público
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/refresh", authHandler.Refresh)
	api.Get("/plans", billingHandler.ListPlans)

	// Rotas protegidas (Bearer token + sessão restaurada)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret, deps.Sessions))

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)

	protected.Get("/users",
		RequirePermission(permission.ResourceSettings, permission.ActionView), userHandler.List)
	protected.Get("/users/:id",
		RequirePermission(permission.ResourceSettings, permission.ActionView), userHandler.GetByID)

	protected.Get("/transactions",
		RequirePermission(permission.ResourceFinancials, permission.ActionView), billingHandler.ListTransactions)

	// Instância WhatsApp do salão (donos e plataforma)
	salon := protected.Group("/salon/:id", RequireRoles(entity.RoleAdmin, entity.RoleOwner))
	salon.Get("/whatsapp/instance/check", waHandler.Check)
	salon.Post("/whatsapp/instance/create", waHandler.Create)
	salon.Post("/whatsapp/instance/connect", waHandler.Connect)
	salon.Get("/whatsapp/instance/qr-code", waHandler.QRCode)
	salon.Get("/whatsapp/instance/status", waHandler.Status)
	salon.Post("/whatsapp/instance/disconnect", waHandler.Disconnect)

	// Configuração do bot do salão
	salon.Get("/bot-config",
		RequirePermission(permission.ResourceSettings, permission.ActionView), botHandler.Get)
	salon.Post("/bot-config",
		RequirePermission(permission.ResourceSettings, permission.ActionEdit), botHandler.Save)
	salon.Post("/bot-config/toggle",
		RequirePermission(permission.ResourceSettings, permission.ActionEdit), botHandler.Toggle)

	// Plataforma (somente ADMIN)
	admin := protected.Group("/admin", RequireRoles(entity.RoleAdmin))
	admin.Post("/users", authHandler.Register)
	admin.Get("/estabelecimentos", estabHandler.List)
	admin.Post("/estabelecimentos", estabHandler.Create)
	admin.Get("/estabelecimentos/:id", estabHandler.GetByID)

	admin.Get("/whatsapp/instances", waHandler.ListInstances)
	admin.Get("/whatsapp/support/check", waHandler.SupportCheck)
	admin.Post("/whatsapp/support/create", waHandler.SupportCreate)
	admin.Post("/whatsapp/support/connect", waHandler.SupportConnect)
	admin.Post("/whatsapp/support/disconnect", waHandler.SupportDisconnect)

	admin.Get("/bot-config", botHandler.Get)
	admin.Post("/bot-config", botHandler.Save)
	admin.Post("/bot-config/toggle", botHandler.Toggle)
}
