package main

import (
	"fmt"
	"os"

	"famledger/internal/config"
	"famledger/internal/database"
	"famledger/internal/logger"
	"famledger/internal/router"
	"famledger/internal/storage"
	"famledger/internal/validator"
)

// @title           famledger API
// @version         1.0
// @description     famledger tracks household expenses shared between family members.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("failed to close database: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	store, err := storage.New(appConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	validator.Register()
	engine := router.New(dbManager.DB(), appConfig, store)

	log.Infof("Starting famledger backend server on port %s (db=%s, storage=%s)",
		appConfig.Port, dbConfig.Driver, appConfig.StorageDriver)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return engine.Run(":" + appConfig.Port)
}
