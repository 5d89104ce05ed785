package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aryan4codes/EthicalBank/internal/api/handler"
	"github.com/aryan4codes/EthicalBank/internal/api/middleware"
	"github.com/aryan4codes/EthicalBank/internal/core/ports"
	"github.com/aryan4codes/EthicalBank/internal/core/service"
	mongostore "github.com/aryan4codes/EthicalBank/internal/infrastructure/db/mongo"
	redisstore "github.com/aryan4codes/EthicalBank/internal/infrastructure/db/redis"
	"github.com/aryan4codes/EthicalBank/internal/infrastructure/queue"
)

// NewRouter builds and returns the Echo instance with all routes registered,
// together with the ingestion dispatcher the caller must Start.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	completion ports.CompletionClient,
	ingestWorkers int,
	log zerolog.Logger,
) (*echo.Echo, *queue.Dispatcher) {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("ethicalbank"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Repositories ---
	userRepo := mongostore.NewUserRepository(db)
	accountRepo := mongostore.NewAccountRepository(db)
	savingsRepo := mongostore.NewSavingsRepository(db)
	goalRepo := mongostore.NewGoalRepository(db)
	transactionRepo := mongostore.NewTransactionRepository(db)
	permissionRepo := mongostore.NewPermissionRepository(db)
	consentRecordRepo := mongostore.NewConsentRecordRepository(db)
	auditRepo := mongostore.NewAuditRepository(db)
	perceptionRepo := mongostore.NewPerceptionRepository(db)
	disputeRepo := mongostore.NewDisputeRepository(db)

	dedup := redisstore.NewDedupChecker(rdb)
	insightsCache := redisstore.NewInsightsCache(rdb)

	// --- Services ---
	profileService := service.NewProfileService(userRepo, log)
	consentService := service.NewConsentService(permissionRepo, consentRecordRepo, log)
	accountService := service.NewAccountService(accountRepo, transactionRepo, log)
	savingsService := service.NewSavingsService(savingsRepo, goalRepo, accountRepo, log)
	transactionService := service.NewTransactionService(transactionRepo, accountRepo, dedup, log)

	registry := service.NewRegistry(log,
		service.NewUserExtractor(),
		service.NewFinancialExtractor(),
		service.NewAddressExtractor(),
		service.NewAccountsExtractor(accountRepo),
		service.NewTransactionsExtractor(transactionRepo),
		service.NewSavingsAccountsExtractor(savingsRepo),
		service.NewGoalsExtractor(goalRepo),
		service.NewOffersExtractor(),
	)

	chatService := service.NewChatService(userRepo, consentService, registry, completion, auditRepo, log)
	perceptionService := service.NewPerceptionService(userRepo, perceptionRepo, disputeRepo, registry, consentService, completion, log)
	insightsService := service.NewInsightsService(userRepo, savingsRepo, goalRepo, transactionRepo, consentService, completion, insightsCache, log)

	dispatcher := queue.NewDispatcher(ingestWorkers, transactionService, log)

	// --- Handlers ---
	profileHandler := handler.NewProfileHandler(profileService)
	accountHandler := handler.NewAccountHandler(accountService)
	savingsHandler := handler.NewSavingsHandler(savingsService)
	transactionHandler := handler.NewTransactionHandler(transactionService, dispatcher)
	privacyHandler := handler.NewPrivacyHandler(consentService)
	chatHandler := handler.NewChatHandler(chatService)
	perceptionHandler := handler.NewPerceptionHandler(perceptionService)
	insightsHandler := handler.NewInsightsHandler(insightsService)

	// --- Health probes and metrics (no identity required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Ingestion feed (machine-to-machine, no end-user identity) ---
	e.POST("/v1/transactions", transactionHandler.Ingest)
	e.POST("/v1/transactions/batch", transactionHandler.IngestBatch)

	// --- User-facing API ---
	api := e.Group("/api", middleware.Identity(profileService))

	api.GET("/profile", profileHandler.Get)
	api.PUT("/profile", profileHandler.Update)
	api.GET("/profile/completion", profileHandler.Completion)
	api.POST("/profile/complete", profileHandler.Complete)

	api.POST("/accounts", accountHandler.Create)
	api.GET("/accounts", accountHandler.List)
	api.GET("/accounts/summary", accountHandler.Summary)
	api.GET("/accounts/:id", accountHandler.Get)
	api.PUT("/accounts/:id", accountHandler.Update)
	api.POST("/accounts/:id/deposit", accountHandler.Deposit)
	api.POST("/accounts/:id/withdraw", accountHandler.Withdraw)
	api.POST("/accounts/transfer", accountHandler.Transfer)
	api.POST("/accounts/:id/close", accountHandler.Close)

	api.POST("/savings/accounts", savingsHandler.CreateAccount)
	api.GET("/savings/accounts", savingsHandler.ListAccounts)
	api.PUT("/savings/accounts/:id", savingsHandler.UpdateAccount)
	api.POST("/savings/accounts/:id/deposit", savingsHandler.DepositToAccount)
	api.POST("/savings/accounts/:id/withdraw", savingsHandler.WithdrawFromAccount)
	api.DELETE("/savings/accounts/:id", savingsHandler.DeleteAccount)
	api.POST("/savings/goals", savingsHandler.CreateGoal)
	api.GET("/savings/goals", savingsHandler.ListGoals)
	api.PUT("/savings/goals/:id", savingsHandler.UpdateGoal)
	api.POST("/savings/goals/:id/contribute", savingsHandler.Contribute)
	api.DELETE("/savings/goals/:id", savingsHandler.DeleteGoal)
	api.GET("/savings/summary", savingsHandler.Summary)

	api.GET("/transactions", transactionHandler.List)
	api.GET("/transactions/:id", transactionHandler.Get)

	api.GET("/privacy/data-attributes", privacyHandler.Catalog)
	api.GET("/privacy/permissions", privacyHandler.Permissions)
	api.PUT("/privacy/permissions", privacyHandler.UpdatePermissions)
	api.GET("/privacy/consent-history", privacyHandler.History)
	api.GET("/privacy/score", privacyHandler.Score)

	api.POST("/chat/query", chatHandler.Query)
	api.GET("/chat/history", chatHandler.History)

	api.GET("/perception", perceptionHandler.Get)
	api.POST("/perception/refresh", perceptionHandler.Refresh)
	api.POST("/perception/dispute", perceptionHandler.Dispute)
	api.GET("/perception/disputes", perceptionHandler.Disputes)

	api.GET("/insights/comprehensive", insightsHandler.Comprehensive)
	api.GET("/insights/health-score", insightsHandler.HealthScore)
	api.GET("/insights/spending", insightsHandler.Spending)
	api.GET("/insights/savings-plans", insightsHandler.SavingsPlans)

	return e, dispatcher
}
