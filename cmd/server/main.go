package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	inventoryapp "github.com/pos/backend/internal/application/inventory"
	taxapp "github.com/pos/backend/internal/application/tax"
	tradeapp "github.com/pos/backend/internal/application/trade"
	"github.com/pos/backend/internal/infrastructure/cache"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/infrastructure/persistence"
	"github.com/pos/backend/internal/interfaces/http/handler"
	"github.com/pos/backend/internal/interfaces/http/middleware"
	"github.com/pos/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting POS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Stock cache is optional; the service recomputes from the ledger
	// when the cache is unavailable
	var stockCache inventoryapp.StockCache
	if cfg.Stock.CacheEnabled {
		redisClient, err := cache.NewRedisClient(context.Background(), &cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, stock reads will recompute every time", zap.Error(err))
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					log.Error("Error closing redis client", zap.Error(err))
				}
			}()
			stockCache = cache.NewRedisStockCache(redisClient, cfg.Stock.CacheTTL)
			log.Info("Stock cache enabled", zap.Duration("ttl", cfg.Stock.CacheTTL))
		}
	}

	// Initialize transaction scopes and lookups
	tradeScope := persistence.NewGormTradeTransactionScope(db.DB)
	inventoryScope := persistence.NewGormInventoryTransactionScope(db.DB)
	catalogLookup := persistence.NewGormCatalogLookup(db.DB)
	customerLookup := persistence.NewGormCustomerLookup(db.DB)
	paymentMethodValidator := persistence.NewGormPaymentMethodValidator(db.DB)
	stockGate := persistence.NewGormStockGate(db.DB)
	taxProfileRepo := persistence.NewGormTaxProfileRepository(db.DB)
	taxCategoryRepo := persistence.NewGormTaxCategoryRepository(db.DB)
	taxRuleRepo := persistence.NewGormTaxRuleRepository(db.DB)

	// Initialize application services
	saleService := tradeapp.NewSaleService(
		tradeScope,
		catalogLookup,
		customerLookup,
		paymentMethodValidator,
		stockGate,
		taxProfileRepo,
		taxRuleRepo,
	)
	purchaseOrderService := tradeapp.NewPurchaseOrderService(tradeScope, catalogLookup)
	returnService := tradeapp.NewReturnService(tradeScope)
	stockService := inventoryapp.NewStockService(inventoryScope, stockCache)

	// Trade mutations change stock, so they must drop stale cache entries
	if stockCache != nil {
		saleService.SetStockCache(stockCache)
		purchaseOrderService.SetStockCache(stockCache)
		returnService.SetStockCache(stockCache)
	}

	taxService := taxapp.NewTaxService(taxProfileRepo, taxCategoryRepo, taxRuleRepo, customerLookup)

	// Initialize handlers
	saleHandler := handler.NewSaleHandler(saleService, returnService)
	purchaseOrderHandler := handler.NewPurchaseOrderHandler(purchaseOrderService)
	inventoryHandler := handler.NewInventoryHandler(stockService)
	taxHandler := handler.NewTaxHandler(taxService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS())

	// Register routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(saleHandler).
		Register(purchaseOrderHandler).
		Register(inventoryHandler).
		Register(taxHandler).
		Register(systemHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
