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

	"github.com/congregacao-portao/publicacoes-api/internal/application/audit"
	"github.com/congregacao-portao/publicacoes-api/internal/application/auth"
	"github.com/congregacao-portao/publicacoes-api/internal/application/ledger"
	"github.com/congregacao-portao/publicacoes-api/internal/application/pedido"
	"github.com/congregacao-portao/publicacoes-api/internal/application/usecase"
	"github.com/congregacao-portao/publicacoes-api/internal/infrastructure/postgres"
	"github.com/congregacao-portao/publicacoes-api/internal/infrastructure/storage"
	httpRouter "github.com/congregacao-portao/publicacoes-api/internal/interfaces/http"
	"github.com/congregacao-portao/publicacoes-api/pkg/config"
	"github.com/congregacao-portao/publicacoes-api/pkg/logger"
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
	profileRepo := postgres.NewProfileRepository(pool)
	pubRepo := postgres.NewPublicationRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	pedidoRepo := postgres.NewPedidoRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Gravador best-effort dos eventos de sessão (login/logout/view/export).
	recorder := audit.NewRecorder(auditRepo, log, cfg.Audit.BufferSize)
	defer recorder.Close()

	storageDriver, err := storage.NewDriver(&storage.Config{
		Driver:             cfg.Storage.Driver,
		UploadsPath:        cfg.Storage.UploadsPath,
		PublicURL:          cfg.Storage.PublicURL,
		AWSAccessKeyID:     cfg.Storage.AWSAccessKeyID,
		AWSSecretAccessKey: cfg.Storage.AWSSecretAccessKey,
		AWSRegion:          cfg.Storage.AWSRegion,
		AWSBucket:          cfg.Storage.AWSBucket,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("storage de objetos")
	}

	authUC := auth.NewAuthUseCase(userRepo, profileRepo, recorder, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	publicationUC := usecase.NewPublicationUseCase(txRunner, pubRepo, storageDriver)
	userUC := usecase.NewUserUseCase(txRunner, userRepo, profileRepo)
	auditUC := usecase.NewAuditUseCase(auditRepo, recorder)
	stockUC := ledger.NewStockLedgerUseCase(txRunner, movRepo)
	pedidoUC := pedido.NewPedidoUseCase(txRunner, pedidoRepo, pubRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.MetricsMiddleware())

	// Swagger UI local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Publicações Portão API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", httpRouter.MetricsHandler())

	// Capas servidas pela própria API quando o storage é local.
	if cfg.Storage.Driver == "" || cfg.Storage.Driver == "local" {
		app.Static("/uploads", cfg.Storage.UploadsPath)
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		PublicationUC: publicationUC,
		UserUC:        userUC,
		AuditUC:       auditUC,
		StockUC:       stockUC,
		PedidoUC:      pedidoUC,
		ProfileRepo:   profileRepo,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de parada recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("encerramento do servidor")
	}

	log.Info().Msg("aplicação parada")
}
