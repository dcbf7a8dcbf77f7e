package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appinventory "github.com/jhoicas/caja-pro/internal/application/inventory"
	"github.com/jhoicas/caja-pro/internal/application/pos"
	"github.com/jhoicas/caja-pro/internal/application/reports"
	"github.com/jhoicas/caja-pro/internal/application/tax"
	"github.com/jhoicas/caja-pro/internal/cache"
	infrapdf "github.com/jhoicas/caja-pro/internal/infrastructure/pdf"
	"github.com/jhoicas/caja-pro/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/caja-pro/internal/interfaces/http"
	"github.com/jhoicas/caja-pro/pkg/config"
	"github.com/jhoicas/caja-pro/pkg/logger"
)

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
		Str("device", cfg.App.DeviceID).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	taxRepo := postgres.NewTaxLedgerRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	returnRepo := postgres.NewReturnRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	engine := appinventory.NewEngine(lotRepo, productRepo, log)
	taxUC := tax.NewUseCase(taxRepo)
	orchestrator := pos.NewOrchestrator(
		txRunner, engine,
		productRepo, customerRepo, saleRepo, returnRepo, paymentRepo,
		taxUC, log,
	)

	receiveUC := appinventory.NewReceiveStockUseCase(txRunner, productRepo)
	adjustUC := appinventory.NewAdjustStockUseCase(txRunner, productRepo)
	queryUC := appinventory.NewQueryUseCase(lotRepo, movementRepo, productRepo)

	// Caché de stock bajo: Redis si está configurado, noop si no.
	var lowStockCache cache.LowStockCache = cache.NoopLowStockCache{}
	if cfg.Redis.Addr != "" {
		lowStockCache = cache.NewRedisLowStockCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("caché Redis habilitado")
	}
	lowStockUC := appinventory.NewLowStockUseCase(productRepo, lowStockCache)

	pdfGenerator := infrapdf.NewMarotoITBISGenerator()
	itbisReportUC := reports.NewITBISReportUseCase(taxRepo, pdfGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "device": cfg.App.DeviceID})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Orchestrator: orchestrator,
		ReceiveUC:    receiveUC,
		AdjustUC:     adjustUC,
		QueryUC:      queryUC,
		LowStockUC:   lowStockUC,
		ITBISUC:      itbisReportUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
