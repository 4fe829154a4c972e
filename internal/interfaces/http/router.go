package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hasanq/muhasaba/internal/application/auth"
	"github.com/hasanq/muhasaba/internal/application/billing"
	"github.com/hasanq/muhasaba/internal/application/currency"
	"github.com/hasanq/muhasaba/internal/application/inventory"
	"github.com/hasanq/muhasaba/internal/application/reporting"
	"github.com/hasanq/muhasaba/internal/application/usecase"
	"github.com/hasanq/muhasaba/internal/domain/entity"
	"github.com/hasanq/muhasaba/internal/infrastructure/backup"
	"github.com/hasanq/muhasaba/internal/infrastructure/pdf"
)

// RouterDeps holds the wired use cases for the router.
type RouterDeps struct {
	AuthUC        *auth.UseCase
	ProductUC     *usecase.ProductUseCase
	SupplierUC    *usecase.SupplierUseCase
	CustomerUC    *usecase.CustomerUseCase
	TransactionUC *usecase.TransactionUseCase
	Ledger        *inventory.Ledger
	PurchaseUC    *billing.PurchaseUseCase
	SalesUC       *billing.SalesUseCase
	RateUC        *currency.RateUseCase
	ReportingUC   *reporting.UseCase
	PDFGenerator  *pdf.Generator
	BackupSvc     *backup.Service
	JWTSecret     string
	UploadsDir    string
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Everything else requires a Bearer token.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	adminOnly := RequireRole(entity.RoleAdmin)
	stockRoles := RequireRole(entity.RoleAdmin, entity.RoleInventory)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.UploadsDir)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Post("/:id/image", productHandler.UploadImage)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Inventory
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	invGroup.Post("/movements", stockRoles, inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.Movements)
	invGroup.Post("/adjust-stock/:id", stockRoles, inventoryHandler.AdjustStock)
	invGroup.Get("/stock/:id", inventoryHandler.CurrentStock)
	invGroup.Get("/history/:id", inventoryHandler.History)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)

	// Suppliers
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", adminOnly, supplierHandler.Delete)
	suppliers.Get("/:id/statistics", supplierHandler.Statistics)

	// Customers
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", adminOnly, customerHandler.Delete)
	customers.Get("/:id/statistics", customerHandler.Statistics)

	// Documents (PDF)
	documentHandler := NewDocumentHandler(deps.PurchaseUC, deps.SalesUC, deps.PDFGenerator)

	// Purchase invoices
	purchases := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Get("/:id/pdf", documentHandler.PurchaseInvoicePDF)
	purchases.Delete("/:id", adminOnly, purchaseHandler.Delete)

	// Sales invoices and returns
	sales := protected.Group("/sales")
	salesHandler := NewSalesHandler(deps.SalesUC)
	sales.Post("/", salesHandler.Create)
	sales.Get("/", salesHandler.List)
	sales.Get("/:id", salesHandler.GetByID)
	sales.Get("/:id/pdf", documentHandler.SalesInvoicePDF)
	sales.Post("/return/:id", salesHandler.Return)
	sales.Delete("/:id", adminOnly, salesHandler.Delete)

	// Exchange rates
	rates := protected.Group("/exchange-rates")
	currencyHandler := NewCurrencyHandler(deps.RateUC)
	rates.Post("/", adminOnly, currencyHandler.Create)
	rates.Get("/", currencyHandler.History)
	rates.Get("/current", currencyHandler.Current)

	// Reports, dashboard, transaction log
	reportHandler := NewReportHandler(deps.ReportingUC, deps.TransactionUC)
	reports := protected.Group("/reports")
	reports.Get("/sales", reportHandler.SalesSummary)
	reports.Get("/purchases", reportHandler.PurchasesSummary)
	reports.Get("/profit-loss", reportHandler.ProfitLoss)
	reports.Get("/best-selling", reportHandler.BestSelling)
	reports.Get("/top-customers", reportHandler.TopCustomers)
	reports.Get("/top-suppliers", reportHandler.TopSuppliers)
	reports.Get("/inventory", reportHandler.InventoryStatus)
	protected.Get("/dashboard", reportHandler.Dashboard)
	protected.Get("/transactions", reportHandler.Transactions)

	// Backups (admin only)
	backups := protected.Group("/backups", adminOnly)
	backupHandler := NewBackupHandler(deps.BackupSvc)
	backups.Post("/", backupHandler.Create)
	backups.Get("/", backupHandler.List)
	backups.Get("/:name", backupHandler.Download)
}
