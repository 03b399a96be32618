package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"snapspend/internal/api"
	"snapspend/internal/api/handlers"
	"snapspend/internal/capture"
	"snapspend/internal/repository"
	"snapspend/internal/service"
	"snapspend/internal/storage"
	"snapspend/pkg/auth"
	"snapspend/pkg/config"
	"snapspend/pkg/logger"
	"snapspend/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting snapspend service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	receiptRepo := repository.NewReceiptRepository(db, appLogger)
	budgetRepo := repository.NewBudgetRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Initialize external gateways
	gemini, err := service.NewGeminiClient(ctx, &cfg.Gemini)
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini client", zap.Error(err))
	}

	blobStore, err := storage.NewGCSStore(ctx, &cfg.Storage, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize blob storage", zap.Error(err))
	}
	defer blobStore.Close()

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)
	ocrService := service.NewOCRService(gemini, appLogger)
	extractService := service.NewExtractService(gemini, appLogger)
	receiptService := service.NewReceiptService(receiptRepo, appLogger)
	budgetService := service.NewBudgetService(budgetRepo, appLogger)
	dashboardService := service.NewDashboardService(receiptRepo, budgetRepo, appLogger)
	exportService := service.NewExportService(receiptRepo, appLogger)

	// Capture workflow registry
	registry := capture.NewRegistry(capture.Deps{
		Blobs:      blobStore,
		OCR:        ocrService,
		Structurer: extractService,
		Receipts:   receiptRepo,
	}, appLogger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, appLogger)
	scanHandler := handlers.NewScanHandler(ocrService, extractService, appLogger)
	captureHandler := handlers.NewCaptureHandler(registry, appLogger)
	receiptHandler := handlers.NewReceiptHandler(receiptService, appLogger)
	budgetHandler := handlers.NewBudgetHandler(budgetService, appLogger)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, appLogger)
	exportHandler := handlers.NewExportHandler(exportService, appLogger)

	// Setup router
	app := api.SetupRouter(
		authHandler,
		scanHandler,
		captureHandler,
		receiptHandler,
		budgetHandler,
		dashboardHandler,
		exportHandler,
		jwtManager,
		cfg.Server.BodyLimitMB,
		appLogger,
	)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
