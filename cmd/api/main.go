package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-ledger-api/internal/handler"
	"go-ledger-api/internal/middleware"
	"go-ledger-api/internal/model"
	"go-ledger-api/internal/repository"
	"go-ledger-api/internal/service"
	"go-ledger-api/internal/ws"
	"go-ledger-api/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Product{},
		&model.StockMovement{},
		&model.Counterparty{},
		&model.Invoice{},
		&model.LineItem{},
		&model.Payment{},
		&model.CashTransaction{},
		&model.CashLedgerHead{},
		&model.Expense{},
		&model.Contribution{},
		&model.InvoiceSequence{},
		&model.User{},
	)

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	txRunner := repository.NewTxRunner(db)
	productRepo := repository.NewProductRepo(db)
	movementRepo := repository.NewStockMovementRepo(db)
	counterpartyRepo := repository.NewCounterpartyRepo(db)
	invoiceRepo := repository.NewInvoiceRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)
	cashRepo := repository.NewCashRepo(db)
	expenseRepo := repository.NewExpenseRepo(db)
	contributionRepo := repository.NewContributionRepo(db)
	sequenceRepo := repository.NewSequenceRepo(db)
	reportRepo := repository.NewReportRepo(db)
	userRepo := repository.NewUserRepo(db)

	// 5. Seed ledger head, number series, and default admin
	seedLedgerState(cashRepo, sequenceRepo)
	seedAdmin(userRepo)

	invoiceCfg := service.InvoiceConfig{
		ReverseStockOnDelete: os.Getenv("REVERSE_STOCK_ON_DELETE") == "true",
	}

	sequenceService := service.NewSequenceService(sequenceRepo, txRunner)
	stockService := service.NewStockService(productRepo, movementRepo, txRunner, wsHub)
	cashService := service.NewCashService(cashRepo, txRunner, wsHub)
	invoiceService := service.NewInvoiceService(invoiceRepo, paymentRepo, counterpartyRepo, productRepo,
		sequenceService, stockService, cashService, txRunner, wsHub, invoiceCfg)
	paymentService := service.NewPaymentService(invoiceRepo, paymentRepo, counterpartyRepo,
		cashService, txRunner, wsHub)
	statementService := service.NewStatementService(invoiceRepo, counterpartyRepo, reportRepo, cashService)
	expenseService := service.NewExpenseService(expenseRepo, cashService, txRunner)
	contributionService := service.NewContributionService(contributionRepo, cashService, txRunner)
	authService := service.NewAuthService(userRepo)

	salesHandler := handler.NewInvoiceHandler(invoiceService, sequenceService, model.InvoiceSale)
	purchaseHandler := handler.NewInvoiceHandler(invoiceService, sequenceService, model.InvoicePurchase)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	cashHandler := handler.NewCashHandler(cashService)
	stockHandler := handler.NewStockHandler(stockService, movementRepo)
	productHandler := handler.NewProductHandler(productRepo)
	counterpartyHandler := handler.NewCounterpartyHandler(counterpartyRepo)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	contributionHandler := handler.NewContributionHandler(contributionService)
	reportHandler := handler.NewReportHandler(statementService)
	authHandler := handler.NewAuthHandler(authService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Ledger API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Master data
	protected.Get("/products", productHandler.List)
	protected.Get("/products/:id", productHandler.Get)
	protected.Post("/products", productHandler.Create)
	protected.Put("/products/:id", productHandler.Update)
	protected.Get("/counterparties", counterpartyHandler.List)
	protected.Post("/counterparties", counterpartyHandler.Create)

	// Sales invoices
	protected.Get("/sales-invoices", salesHandler.List)
	protected.Get("/sales-invoices/next-number", salesHandler.NextNumber)
	protected.Get("/sales-invoices/:id", salesHandler.Get)
	protected.Post("/sales-invoices", salesHandler.Create)
	protected.Put("/sales-invoices/:id", salesHandler.Update)
	protected.Delete("/sales-invoices/:id", salesHandler.Delete)
	protected.Post("/sales-invoices/:id/discount", salesHandler.ApplyDiscount)

	// Purchase invoices
	protected.Get("/purchase-invoices", purchaseHandler.List)
	protected.Get("/purchase-invoices/next-number", purchaseHandler.NextNumber)
	protected.Get("/purchase-invoices/:id", purchaseHandler.Get)
	protected.Post("/purchase-invoices", purchaseHandler.Create)
	protected.Put("/purchase-invoices/:id", purchaseHandler.Update)
	protected.Delete("/purchase-invoices/:id", purchaseHandler.Delete)
	protected.Post("/purchase-invoices/:id/discount", purchaseHandler.ApplyDiscount)

	// Payments
	protected.Post("/payments", paymentHandler.Register)
	protected.Post("/payments/allocate", paymentHandler.Allocate)

	// Cash ledger
	protected.Get("/cash/transactions", cashHandler.List)
	protected.Post("/cash/transactions", cashHandler.Register)
	protected.Get("/cash/balance", cashHandler.Balance)

	// Stock
	protected.Get("/stock/movements", stockHandler.ListMovements)
	protected.Post("/stock/movements", stockHandler.CreateMovement)
	protected.Get("/stock/daily-flow", stockHandler.DailyFlow)

	// Expenses & contributions
	protected.Get("/expenses", expenseHandler.List)
	protected.Post("/expenses", expenseHandler.Create)
	protected.Delete("/expenses/:id", expenseHandler.Delete)
	protected.Get("/contributions", contributionHandler.List)
	protected.Post("/contributions", contributionHandler.Create)
	protected.Delete("/contributions/:id", contributionHandler.Delete)

	// Reports
	protected.Get("/reports/statement", reportHandler.GetStatement)
	protected.Get("/reports/summary", reportHandler.GetFinancialSummary)
	protected.Get("/reports/income-statement", reportHandler.GetMonthlyIncomeStatement)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedLedgerState creates the cash ledger head row and the invoice number
// series if they don't exist yet.
func seedLedgerState(cashRepo repository.CashRepository, sequenceRepo repository.SequenceRepository) {
	if err := cashRepo.EnsureHead(); err != nil {
		log.Printf("Warning: Failed to seed cash ledger head: %v", err)
	}
	if err := sequenceRepo.Seed(model.InvoiceSale.Series(), model.InvoicePurchase.Series()); err != nil {
		log.Printf("Warning: Failed to seed invoice sequences: %v", err)
	}
}

// seedAdmin creates the default admin user if it doesn't exist
func seedAdmin(userRepo repository.UserRepository) {
	if _, err := userRepo.FindByEmail("admin@example.com"); err == nil {
		return
	}

	admin := &model.User{
		Email:    "admin@example.com",
		FullName: "Administrator",
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	if err := admin.SetPassword("admin123"); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}
	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
	} else {
		log.Println("Admin user created: admin@example.com / admin123")
	}
}
