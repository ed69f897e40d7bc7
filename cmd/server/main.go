package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"quotation/internal/artifact"
	"quotation/internal/config"
	"quotation/internal/handler"
	"quotation/internal/quotation"
	"quotation/internal/repository"
	"quotation/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Print version info
	log.Printf("Electrical Installation Quotation Service")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := config.InitLogger(cfg.Logging)

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Connect to PostgreSQL when artifacts live there or a DSN is given
	var repo *repository.PostgresRepository
	if cfg.Model.Source == config.SourcePostgres || cfg.PostgreSQL.DSN != "" {
		repo, err = repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer repo.Close()

		if err := repo.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("Failed to prepare database: %v", err)
		}
		log.Println("✅ Connected to PostgreSQL database")
	} else {
		log.Println("⚠️  No database configured - artifact publishing endpoints are disabled")
	}

	// Load the model artifact
	var store artifact.Store
	if repo != nil {
		store = repo
	}
	source, err := artifact.NewSource(&cfg.Model, store)
	if err != nil {
		log.Fatalf("Failed to configure model source: %v", err)
	}
	opts := artifact.Options{DefaultVariant: cfg.Model.Variant, Logger: logger}
	loader := artifact.NewLoader(source, opts)

	loadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	model, err := loader.Get(loadCtx)
	cancel()
	if err != nil {
		log.Fatalf("Failed to load model artifact: %v", err)
	}
	log.Printf("✅ Model loaded from %s", source.Describe())
	log.Printf("   - Name: %s", model.Name)
	log.Printf("   - Kind: %s", model.Kind)
	log.Printf("   - Variant: %s", model.Variant.Name)
	log.Printf("   - Feature columns: %d", model.Predictor.Schema().Len())
	if cfg.Quotation.AllowUnknownRegion {
		log.Println("⚠️  Regions outside the multiplier table are priced at 1.0")
	}

	// Initialize services
	engine := quotation.NewEngine(model.Variant, model.Predictor, cfg.Quotation.AllowUnknownRegion)
	formatter := quotation.NewFormatter(cfg.Quotation.CurrencySymbol, cfg.Quotation.Locale)
	quotationService := service.NewQuotationService(engine, formatter, model.Name, logger)

	log.Println("✅ Services initialized")

	// Initialize handlers
	quotationHandler := handler.NewQuotationHandler(quotationService)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.Server.AllowedOrigins, ",")
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"service":    "quotation-engine",
			"model":      model.Name,
			"variant":    model.Variant.Name,
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		// Quotation endpoints
		apiV1.POST("/quotations", quotationHandler.Create)
		apiV1.POST("/quotations/stream", quotationHandler.CreateStream)
		apiV1.GET("/variants", quotationHandler.Variants)
		apiV1.GET("/schema", quotationHandler.Schema)

		// Artifact endpoints
		if repo != nil {
			artifactHandler := handler.NewArtifactHandler(repo, opts)
			apiV1.GET("/artifacts", artifactHandler.List)
			apiV1.POST("/artifacts", artifactHandler.Publish)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}
	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API: http://localhost:%d/api/v1/quotations", cfg.Server.Port)

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Println("✅ Server stopped")
}
