// @title        Commerce Ledger API
// @version      1.0
// @description  Libro de comercio multi-empresa: catálogo, clientes, órdenes y facturas.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/ijair/codeEcommerce-sub001/docs"
	"github.com/ijair/codeEcommerce-sub001/internal/app"
	httpRouter "github.com/ijair/codeEcommerce-sub001/internal/interfaces/http"
	"github.com/ijair/codeEcommerce-sub001/pkg/config"
	"github.com/ijair/codeEcommerce-sub001/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer st.Close()

	svc, err := app.Build(cfg, st, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("armar casos de uso")
	}
	if err := svc.GrantOrchestrator(ctx, cfg.Platform.OrchestratorID); err != nil {
		log.Fatal().Err(err).Msg("autorizar orquestador")
	}

	server := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	server.Use(recover.New())
	server.Use(requestid.New())
	server.Use(cors.New())

	// Swagger UI: http://localhost:<port>/docs
	if cfg.App.SwaggerEnabled {
		server.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Commerce Ledger API",
		}))
	}

	httpRouter.Router(server, httpRouter.RouterDeps{
		CompanyUC: svc.Companies,
		CatalogUC: svc.Catalog,
		LedgerUC:  svc.Ledger,
		AuthzUC:   svc.Authz,
		FundsUC:   svc.Funds,
		OrderUC:   svc.Orders,
		PDFUC:     svc.PDF,
		AuditUC:   svc.Audit,
		JWTSecret: cfg.JWT.Secret,
		JWTIssuer: cfg.JWT.Issuer,
	})

	go func() {
		if err := server.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
