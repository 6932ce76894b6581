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

	"github.com/maximiza-sistemas/distrigas-api/internal/application/auth"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/finance"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/orders"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/payments"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/stock"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/usecase"
	"github.com/maximiza-sistemas/distrigas-api/internal/infrastructure/postgres"
	httpRouter "github.com/maximiza-sistemas/distrigas-api/internal/interfaces/http"
	"github.com/maximiza-sistemas/distrigas-api/pkg/config"
	"github.com/maximiza-sistemas/distrigas-api/pkg/logger"
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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	recordRepo := postgres.NewStockRecordRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	paymentRepo := postgres.NewOrderPaymentRepository(pool)
	txRepo := postgres.NewFinancialTransactionRepository(pool)
	accountRepo := postgres.NewFinancialAccountRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	stockUC := stock.NewLedgerUseCase(txRunner, productRepo, locationRepo, recordRepo, movementRepo)
	financeUC := finance.NewLedgerUseCase(txRunner, txRepo, accountRepo)
	orderUC := orders.NewLifecycleUseCase(
		txRunner, stockUC, financeUC,
		clientRepo, productRepo, locationRepo, accountRepo, orderRepo,
		cfg.Finance.RevenueAccountID,
	)
	paymentUC := payments.NewTrackerUseCase(txRunner, financeUC, paymentRepo)

	clientUC := usecase.NewClientUseCase(clientRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo)
	accountUC := usecase.NewAccountUseCase(accountRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

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
		Title:    "Distrigas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		ClientUC:   clientUC,
		ProductUC:  productUC,
		LocationUC: locationUC,
		AccountUC:  accountUC,
		StockUC:    stockUC,
		OrderUC:    orderUC,
		PaymentUC:  paymentUC,
		FinanceUC:  financeUC,
		JWTSecret:  cfg.JWT.Secret,
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
