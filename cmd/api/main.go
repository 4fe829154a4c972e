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

	"github.com/hasanq/muhasaba/internal/application/auth"
	"github.com/hasanq/muhasaba/internal/application/billing"
	"github.com/hasanq/muhasaba/internal/application/currency"
	"github.com/hasanq/muhasaba/internal/application/inventory"
	"github.com/hasanq/muhasaba/internal/application/reporting"
	"github.com/hasanq/muhasaba/internal/application/usecase"
	infrabackup "github.com/hasanq/muhasaba/internal/infrastructure/backup"
	infrapdf "github.com/hasanq/muhasaba/internal/infrastructure/pdf"
	"github.com/hasanq/muhasaba/internal/infrastructure/postgres"
	httpRouter "github.com/hasanq/muhasaba/internal/interfaces/http"
	"github.com/hasanq/muhasaba/pkg/config"
	"github.com/hasanq/muhasaba/pkg/logger"
	"github.com/hasanq/muhasaba/pkg/sequence"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	// Pool-bound repositories (read paths and standalone CRUD).
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	purchaseRepo := postgres.NewPurchaseInvoiceRepository(pool)
	salesRepo := postgres.NewSalesInvoiceRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	rateRepo := postgres.NewExchangeRateRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	seq := sequence.New(nil)
	ledger := inventory.NewLedger(txRunner, productRepo, movementRepo, seq)

	purchaseUC := billing.NewPurchaseUseCase(txRunner, ledger, productRepo, supplierRepo, purchaseRepo, rateRepo, seq)
	salesUC := billing.NewSalesUseCase(txRunner, ledger, productRepo, customerRepo, salesRepo, rateRepo, seq)
	rateUC := currency.NewRateUseCase(rateRepo)
	reportingUC := reporting.NewUseCase(reportRepo, productRepo, rateRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo, reportRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo, reportRepo)
	transactionUC := usecase.NewTransactionUseCase(transactionRepo)
	authUC := auth.NewUseCase(userRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)

	pdfGenerator := infrapdf.NewGenerator(cfg.App.Name)

	backupSvc := infrabackup.NewService(cfg.DB, cfg.Backup, cfg.App.Name, log.Zerolog())
	scheduler := infrabackup.NewScheduler(backupSvc,
		time.Duration(cfg.Backup.IntervalHours)*time.Hour, log.Zerolog())
	scheduler.Start()
	defer scheduler.Stop()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    10 * 1024 * 1024,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name + " API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Static("/uploads", cfg.Backup.UploadsDir)

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		ProductUC:     productUC,
		SupplierUC:    supplierUC,
		CustomerUC:    customerUC,
		TransactionUC: transactionUC,
		Ledger:        ledger,
		PurchaseUC:    purchaseUC,
		SalesUC:       salesUC,
		RateUC:        rateUC,
		ReportingUC:   reportingUC,
		PDFGenerator:  pdfGenerator,
		BackupSvc:     backupSvc,
		JWTSecret:     cfg.JWT.Secret,
		UploadsDir:    cfg.Backup.UploadsDir,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
