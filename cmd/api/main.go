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
	"github.com/jhoicas/gym-backoffice-api/internal/application/catalog"
	"github.com/jhoicas/gym-backoffice-api/internal/application/discount"
	"github.com/jhoicas/gym-backoffice-api/internal/application/inventory"
	"github.com/jhoicas/gym-backoffice-api/internal/application/plans"
	"github.com/jhoicas/gym-backoffice-api/internal/application/sales"
	infrapdf "github.com/jhoicas/gym-backoffice-api/internal/infrastructure/pdf"
	"github.com/jhoicas/gym-backoffice-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/gym-backoffice-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/gym-backoffice-api/internal/interfaces/http"
	"github.com/jhoicas/gym-backoffice-api/pkg/config"
	"github.com/jhoicas/gym-backoffice-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.ApplySchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("aplicar esquema")
		}
		log.Info().Msg("esquema aplicado")
	}

	customerRepo := postgres.NewCustomerRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	codeRepo := postgres.NewDiscountCodeRepository(pool)
	planRepo := postgres.NewPlanRepository(pool)
	revisionRepo := postgres.NewPlanRevisionRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Deduplicación de checkout: sólo con Redis configurado.
	var guard sales.IdempotencyGuard
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		guard = infraredis.NewCheckoutGuard(rdb, cfg.Redis.IdempotencyTTL, log)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotencia de checkout con Redis")
	}

	catalogUC := catalog.NewCatalogUseCase(productRepo, warehouseRepo, customerRepo, log)
	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, log)
	stockUC := inventory.NewStockUseCase(movementRepo, productRepo, warehouseRepo)
	discountUC := discount.NewRegistryUseCase(codeRepo, txRunner, log)
	plansUC := plans.NewPublisherUseCase(planRepo, revisionRepo, txRunner, log)
	checkoutUC := sales.NewCheckoutUseCase(txRunner, saleRepo, discountUC, guard, log)
	receiptUC := sales.NewReceiptUseCase(
		checkoutUC, customerRepo, productRepo, planRepo,
		infrapdf.NewReceiptGenerator(cfg.App.Name),
	)

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
		Title:    "Gym Backoffice API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Checkout:         checkoutUC,
		Receipt:          receiptUC,
		RegisterMovement: registerMovementUC,
		Stock:            stockUC,
		Discounts:        discountUC,
		Plans:            plansUC,
		Catalog:          catalogUC,
		JWTSecret:        cfg.JWT.Secret,
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
