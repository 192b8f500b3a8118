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
	"github.com/jhoicas/Farmacia-api/internal/application/audit"
	"github.com/jhoicas/Farmacia-api/internal/application/auth"
	"github.com/jhoicas/Farmacia-api/internal/application/impersonation"
	"github.com/jhoicas/Farmacia-api/internal/application/permission"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Farmacia-api/internal/interfaces/http"
	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// sweepInterval frecuencia del barrido de sesiones vencidas.
const sweepInterval = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	// La clave de firma es estado de proceso inmutable: sin ella no se arranca.
	if err := cfg.JWT.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración JWT inválida")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	accountRepo := postgres.NewAccountRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	tenantRepo := postgres.NewTenantRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	impRepo := postgres.NewImpersonationRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	auditRec := audit.NewRecorder(auditRepo, log)
	resolver := permission.NewResolver(roleRepo)

	authUC := auth.NewUseCase(accountRepo, sessionRepo, tenantRepo, txRunner, resolver, auditRec, auth.Config{
		JWTSecret:   cfg.JWT.Secret,
		ExpMinutes:  cfg.JWT.ExpMinutes,
		Issuer:      cfg.JWT.Issuer,
		MaxDevices:  cfg.Auth.MaxDevices,
		RefreshDays: cfg.Auth.RefreshDays,
	})
	impUC := impersonation.NewUseCase(tenantRepo, impRepo, auditRepo, txRunner, auditRec, impersonation.Config{
		JWTSecret:        cfg.JWT.Secret,
		Issuer:           cfg.JWT.Issuer,
		TokenHours:       cfg.JWT.ImpersonationHours,
		DashboardBaseURL: cfg.Auth.DashboardBaseURL,
	})
	tenantUC := usecase.NewTenantUseCase(tenantRepo)
	roleUC := usecase.NewRoleUseCase(roleRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Farmacia POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		ImpersonationUC: impUC,
		TenantUC:        tenantUC,
		RoleUC:          roleUC,
		Resolver:        resolver,
		JWTSecret:       cfg.JWT.Secret,
	})

	// Barrido periódico de sesiones vencidas que siguen marcadas activas.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				n, err := authUC.ExpireStale(sweepCtx)
				if err != nil {
					log.Error().Err(err).Msg("barrido de sesiones vencidas")
					continue
				}
				if n > 0 {
					log.Info().Int("expired", n).Msg("sesiones vencidas desactivadas")
				}
			}
		}
	}()

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
