package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/salao-pro/internal/application/auth"
	"github.com/tu-usuario/salao-pro/internal/application/botconfig"
	"github.com/tu-usuario/salao-pro/internal/application/session"
	"github.com/tu-usuario/salao-pro/internal/application/usecase"
	"github.com/tu-usuario/salao-pro/internal/application/whatsapp"
	"github.com/tu-usuario/salao-pro/internal/infrastructure/evolution"
	"github.com/tu-usuario/salao-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/salao-pro/internal/interfaces/http"
	"github.com/tu-usuario/salao-pro/pkg/config"
	"github.com/tu-usuario/salao-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	estabRepo := postgres.NewEstabelecimentoRepository(pool)
	botRepo := postgres.NewBotConfigRepository(pool)
	planRepo := postgres.NewPlanRepository(pool)
	txRepo := postgres.NewTransactionRepository(pool)

	sessions := session.NewStore(sessionRepo, log)
	authUC := auth.NewUseCase(userRepo, sessions, auth.JWTConfig{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		AccessMinutes:  cfg.JWT.ExpMinutes,
		RefreshMinutes: cfg.JWT.RefreshExpMinutes,
	})
	userUC := usecase.NewUserUseCase(userRepo)
	estabUC := usecase.NewEstabelecimentoUseCase(estabRepo)
	billingUC := usecase.NewBillingUseCase(planRepo, txRepo)
	botUC := botconfig.NewUseCase(botRepo, log, cfg.Bot.WebhookBaseURL)

	bridge := evolution.NewClient(cfg.Evolution, log)
	manager := whatsapp.NewManager(bridge, botUC, log,
		time.Duration(cfg.Evolution.PollMinutes)*time.Minute)
	defer manager.StopAll()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Salão Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		EstabUC:     estabUC,
		BillingUC:   billingUC,
		BotConfigUC: botUC,
		Manager:     manager,
		Sessions:    sessions,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("desligamento do servidor")
	}

	log.Info().Msg("aplicação encerrada")
}
