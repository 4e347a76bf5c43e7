package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	identityapp "github.com/faktura/backend/internal/application/identity"
	invoicingapp "github.com/faktura/backend/internal/application/invoicing"
	reportapp "github.com/faktura/backend/internal/application/report"
	taxapp "github.com/faktura/backend/internal/application/taxation"
	"github.com/faktura/backend/internal/domain/invoicing"
	"github.com/faktura/backend/internal/infrastructure/auth"
	"github.com/faktura/backend/internal/infrastructure/config"
	"github.com/faktura/backend/internal/infrastructure/document"
	"github.com/faktura/backend/internal/infrastructure/logger"
	"github.com/faktura/backend/internal/infrastructure/persistence"
	"github.com/faktura/backend/internal/interfaces/http/handler"
	"github.com/faktura/backend/internal/interfaces/http/middleware"
	"github.com/faktura/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
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

	log.Info("Starting faktura backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database with GORM logging routed through zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database connection", zap.Error(err))
		}
	}()
	log.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.DBName),
	)

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	profileRepo := persistence.NewGormCompanyProfileRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	taxYearRepo := persistence.NewGormTaxYearRepository(db.DB)

	// Initialize infrastructure services
	jwtService := auth.NewJWTService(cfg.JWT)
	renderer := document.NewRenderer(cfg.Document.PageSize)
	archive := document.NewArchive(cfg.Document.OutputDir)

	// Initialize application services
	authService := identityapp.NewAuthService(userRepo, tenantRepo, jwtService, log)
	profileService := invoicingapp.NewCompanyProfileService(profileRepo, log)
	clientService := invoicingapp.NewClientService(clientRepo, invoiceRepo, log)
	projectService := invoicingapp.NewProjectService(projectRepo, clientRepo, invoiceRepo, log)
	productService := invoicingapp.NewProductService(productRepo, log)
	invoiceService := invoicingapp.NewInvoiceService(
		invoiceRepo,
		projectRepo,
		clientRepo,
		productRepo,
		profileRepo,
		renderer,
		archive,
		invoicing.NumberScheme(cfg.Numbering.Scheme),
		log,
	)
	taxService := taxapp.NewTaxService(taxYearRepo, invoiceRepo, profileRepo, log)
	reportService := reportapp.NewReportService(invoiceRepo, clientRepo, projectRepo, profileRepo, log)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(profileService)
	clientHandler := handler.NewClientHandler(clientService)
	projectHandler := handler.NewProjectHandler(projectService)
	productHandler := handler.NewProductHandler(productService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	documentHandler := handler.NewDocumentHandler(archive)
	taxHandler := handler.NewTaxHandler(taxService)
	reportHandler := handler.NewReportHandler(reportService)
	systemHandler := handler.NewSystemHandler(db.DB)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. CORS - Handle cross-origin requests
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// JWT authentication for everything except the public endpoints
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/api/v1/health",
			"/api/v1/auth/register",
			"/api/v1/auth/login",
		},
		Logger: log,
	}
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Register API routes
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(systemHandler).
		Register(authHandler).
		Register(profileHandler).
		Register(clientHandler).
		Register(projectHandler).
		Register(productHandler).
		Register(invoiceHandler).
		Register(documentHandler).
		Register(taxHandler).
		Register(reportHandler).
		Setup()

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
