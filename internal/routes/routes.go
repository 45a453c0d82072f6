// Package routes defines the API routing configuration. It wires
// repositories, services, and handlers, and groups routes by the
// middleware they require.
package routes

import (
	"log"
	"time"

	"github.com/M4r3n0/FinTun/internal/clients/wallet"
	"github.com/M4r3n0/FinTun/internal/config"
	"github.com/M4r3n0/FinTun/internal/handlers"
	"github.com/M4r3n0/FinTun/internal/middleware"
	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/M4r3n0/FinTun/internal/repositories"
	"github.com/M4r3n0/FinTun/internal/services/account"
	"github.com/M4r3n0/FinTun/internal/services/auth"
	"github.com/M4r3n0/FinTun/internal/services/ledger"
	"github.com/M4r3n0/FinTun/internal/services/payment"
	"github.com/M4r3n0/FinTun/internal/services/qr"
	"github.com/M4r3n0/FinTun/internal/services/subsidy"
	"github.com/M4r3n0/FinTun/internal/services/topup"
	"github.com/M4r3n0/FinTun/internal/services/user"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Repositories
	accountRepo := repositories.NewAccountRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	userRepo := repositories.NewUserRepository(db)
	qrRepo := repositories.NewQRCodeRepository(db)
	subsidyRepo := repositories.NewSubsidyRepository(db)

	settlementID, treasuryID, err := repositories.SeedSystemAccounts(db)
	if err != nil {
		log.Fatalf("failed to seed system accounts: %v", err)
	}

	// Services
	accountService := account.NewService(accountRepo, repositories.CacheService)
	ledgerService := ledger.NewService(ledgerRepo, repositories.CacheService, nil)
	authService := auth.NewService(userRepo)
	userService := user.NewService(userRepo, accountService)

	// The orchestrator talks to the wallet through a client. The default
	// single-binary deployment binds it in-process; setting WALLET_URL
	// points it at a remote wallet service instead.
	var walletClient wallet.Client
	if walletURL := config.GetEnv("WALLET_URL", ""); walletURL != "" {
		timeout := config.GetDurationEnv("WALLET_TIMEOUT", 10*time.Second)
		walletClient = wallet.NewHTTPClient(walletURL, config.GetEnv("WALLET_TOKEN", ""), timeout)
	} else {
		walletClient = wallet.NewLocalClient(accountService, ledgerService)
	}

	paymentService := payment.NewService(paymentRepo, walletClient, userService)
	qrService := qr.NewService(qrRepo, userRepo, paymentService)
	topupService := topup.NewService(walletClient, nil, settlementID)
	subsidyService := subsidy.NewService(subsidyRepo, userRepo, walletClient, treasuryID)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	accountHandler := handlers.NewAccountHandler(accountService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	qrHandler := handlers.NewQRHandler(qrService)
	topupHandler := handlers.NewTopUpHandler(topupService)
	subsidyHandler := handlers.NewSubsidyHandler(subsidyService)

	app.Get("/health", handlers.HealthCheck)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to FinTun API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	api := app.Group("/api")

	// Public endpoints
	api.Post("/register", userHandler.RegisterUser)
	api.Post("/login", authHandler.LoginUser)
	api.Post("/refresh", authHandler.RefreshToken)

	// Authenticated endpoints
	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/logout", authHandler.LogoutUser)
	protected.Post("/change-password", authHandler.ChangePassword)
	protected.Get("/profile", userHandler.GetProfile)

	// Accounts
	protected.Post("/accounts", accountHandler.CreateAccount)
	protected.Get("/accounts", accountHandler.GetMyAccounts)
	protected.Get("/accounts/:id", middleware.HasPermission(models.PermissionAccountRead), accountHandler.GetAccount)
	protected.Get("/accounts/owner/:ownerId", middleware.HasPermission(models.PermissionLedgerWrite), accountHandler.GetAccountByOwner)

	// Ledger (internal service surface)
	protected.Post("/ledger/transactions", middleware.HasPermission(models.PermissionLedgerWrite), ledgerHandler.ApplyTransaction)
	protected.Get("/ledger/transactions/:reference", middleware.HasPermission(models.PermissionLedgerWrite), ledgerHandler.GetTransaction)

	// Payments
	protected.Post("/payments/transfer", middleware.HasPermission(models.PermissionPaymentWrite), paymentHandler.Transfer)
	protected.Post("/payments/:id/retry", middleware.HasPermission(models.PermissionPaymentWrite), paymentHandler.RetryPayment)
	protected.Get("/payments/:id", paymentHandler.GetPayment)
	protected.Get("/payments", paymentHandler.ListPayments)

	// QR codes
	protected.Get("/qr/merchant", qrHandler.GetMerchantQR)
	protected.Post("/qr/dynamic", qrHandler.GenerateDynamicQR)
	protected.Post("/qr/pay", middleware.HasPermission(models.PermissionPaymentWrite), qrHandler.PayQR)

	// Top-ups
	protected.Post("/wallet/topup", middleware.HasPermission(models.PermissionPaymentWrite), topupHandler.TopUpWallet)

	// Subsidies
	protected.Get("/subsidies", subsidyHandler.ListPrograms)
	protected.Post("/subsidies/:id/claim", subsidyHandler.ClaimSubsidy)
	protected.Get("/subsidies/claims", subsidyHandler.ListMyClaims)

	// Admin endpoints
	admin := protected.Group("/admin", middleware.AdminAuthMiddleware)
	admin.Put("/users/:id/kyc", userHandler.UpdateKYCLevel)
	admin.Post("/accounts/:id/freeze", accountHandler.FreezeAccount)
	admin.Post("/accounts/:id/unfreeze", accountHandler.UnfreezeAccount)
	admin.Get("/accounts/:id/recompute", ledgerHandler.RecomputeBalance)
	admin.Post("/subsidies", subsidyHandler.CreateProgram)
}
