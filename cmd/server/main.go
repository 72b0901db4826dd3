package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/til-acronyms/internal/config"
	"github.com/til-acronyms/internal/handler"
	"github.com/til-acronyms/internal/middleware"
	"github.com/til-acronyms/internal/models"
	"github.com/til-acronyms/internal/repository"
	"github.com/til-acronyms/internal/service"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Build info (injected at build time via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logging
	if err := middleware.InitLogger(cfg.Log.Dir); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Initialize database
	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis
	rdb := initRedis(cfg)

	// Auto migrate database
	if err := autoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	sessionTTL := time.Duration(cfg.Session.TTLHours) * time.Hour

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	acronymRepo := repository.NewAcronymRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	sessionStore := repository.NewSessionStore(rdb, sessionTTL)

	// Initialize services
	authService := service.NewAuthService(userRepo, tokenRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	acronymService := service.NewAcronymService(acronymRepo, categoryService)
	sessionManager := service.NewSessionManager(sessionStore, userRepo)
	googleService := service.NewGoogleService(userRepo, cfg.Google)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService, userRepo)
	acronymHandler := handler.NewAcronymHandler(acronymService, categoryService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	webHandler := handler.NewWebHandler(
		acronymService,
		categoryService,
		authService,
		userRepo,
		sessionManager,
		cfg.Session.CookieName,
		int(sessionTTL.Seconds()),
	)
	googleHandler := handler.NewGoogleHandler(
		googleService,
		sessionManager,
		cfg.Session.CookieName,
		int(sessionTTL.Seconds()),
	)

	// Create Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLoggerMiddleware())
	router.LoadHTMLGlob("templates/*.html")

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"version":    Version,
			"commit":     Commit,
			"build_time": BuildTime,
			"time":       time.Now().Unix(),
		})
	})

	// API routes: reads are anonymous, mutations require a bearer token
	bearerAuth := middleware.BearerAuth(authService)
	api := router.Group("/api")
	{
		authHandler.RegisterRoutes(api)
		userHandler.RegisterRoutes(api)
		acronymHandler.RegisterRoutes(api, bearerAuth)
		categoryHandler.RegisterRoutes(api, bearerAuth)
	}

	// Website routes: session-backed, CSRF-protected forms
	identity := middleware.ResolveIdentity(authService, sessionManager, cfg.Session.CookieName)
	requireSession := middleware.SessionAuth(sessionManager, cfg.Session.CookieName)
	webHandler.RegisterRoutes(router, identity, requireSession)
	googleHandler.RegisterRoutes(router)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with 10 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close Redis connection
	if err := rdb.Close(); err != nil {
		log.Printf("Error closing Redis connection: %v", err)
	}

	log.Println("Server exited properly")
}

func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.Server.Mode == "release" {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormLogger,
		// Unique-index violations surface as gorm.ErrDuplicatedKey so the
		// repositories can translate them.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func autoMigrate(db *gorm.DB) error {
	// The pivot carries its own UUID id, so register it as the join table
	// before migrating.
	if err := db.SetupJoinTable(&models.Acronym{}, "Categories", &models.AcronymCategory{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&models.Category{}, "Acronyms", &models.AcronymCategory{}); err != nil {
		return err
	}
	return db.AutoMigrate(
		&models.User{},
		&models.Acronym{},
		&models.Category{},
		&models.AcronymCategory{},
		&models.Token{},
	)
}
