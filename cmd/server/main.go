// Package main is the entry point for the stockbook API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stockbook/internal/domain/auth"
	"stockbook/internal/domain/catalogs/variant"
	"stockbook/internal/domain/directory/location"
	"stockbook/internal/domain/directory/party"
	"stockbook/internal/domain/ledger"
	"stockbook/internal/domain/pricing"
	"stockbook/internal/domain/stock"
	v1 "stockbook/internal/infrastructure/http/v1"
	"stockbook/internal/infrastructure/storage/postgres"
	"stockbook/internal/infrastructure/storage/postgres/auth_repo"
	"stockbook/internal/infrastructure/storage/postgres/catalog_repo"
	"stockbook/internal/infrastructure/storage/postgres/directory_repo"
	"stockbook/internal/infrastructure/storage/postgres/ledger_repo"
	"stockbook/internal/infrastructure/storage/postgres/pricing_repo"
	"stockbook/internal/infrastructure/storage/postgres/register_repo"
	"stockbook/pkg/logger"
	"stockbook/pkg/numerator"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting stockbook server")

	// --- Database ---
	dsn := mustEnv("DATABASE_URL")
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalw("failed to ping database", "error", err)
	}
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	accountRepo := auth_repo.NewAccountRepo(txManager)
	locationRepo := directory_repo.NewLocationRepo(txManager)
	partyRepo := directory_repo.NewPartyRepo(txManager)
	variantRepo := catalog_repo.NewVariantRepo(txManager)
	operationRepo := ledger_repo.NewOperationRepo(txManager)
	postingRepo := ledger_repo.NewPostingRepo(txManager)
	markRepo := ledger_repo.NewMarkRepo(txManager)
	priceRepo := pricing_repo.NewPriceHistoryRepo(txManager)
	stockRepo := register_repo.NewStockRepo(txManager)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- JWT ---
	jwtSecret := mustEnv("JWT_SECRET")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	// --- Domain services ---
	locationService := location.NewService(locationRepo, partyRepo, txManager)
	partyService := party.NewService(partyRepo, txManager)
	variantService := variant.NewService(variantRepo, txManager)

	authService := auth.NewService(accountRepo, jwtService, txManager)
	// Every new account gets its built-in locations up front.
	authService.OnRegister(locationService.EnsureDefaults)

	pricingService := pricing.NewService(txManager, priceRepo, variantRepo, txManager)
	stockService := stock.NewService(stockRepo)

	ledgerService := ledger.NewService(ledger.ServiceConfig{
		TxManager: txManager,
		Resolver:  ledger.NewEndpointResolver(locationService),
		Ops:       operationRepo,
		Postings:  postingRepo,
		Marks:     markRepo,
		Variants:  variantService,
		Prices:    pricingService,
		Numbers:   numerator.New(numeratorProvider{txManager}),
		Auditor:   auditService,
	})

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:            pool,
		Logger:          log,
		TokenValidator:  jwtService,
		AuthService:     authService,
		LocationService: locationService,
		PartyService:    partyService,
		VariantService:  variantService,
		LedgerService:   ledgerService,
		PricingService:  pricingService,
		StockService:    stockService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// numeratorProvider lets number allocation join whatever transaction is
// open on the context.
type numeratorProvider struct {
	tm *postgres.TxManager
}

func (p numeratorProvider) GetQuerier(ctx context.Context) numerator.Querier {
	return p.tm.GetQuerier(ctx)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}
