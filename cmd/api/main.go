package main

import (
	"fmt"
	"os"

	"invtracker/internal/config"
	"invtracker/internal/database"
	"invtracker/internal/logger"
	"invtracker/internal/server"
	"invtracker/internal/validator"
)

// @title           invtracker API
// @version         1.0
// @description     Personal investment tracker: holdings, live valuation, manual price overrides and portfolio value history.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			logger.Get().Warnf("database close error: %v", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	srv, err := server.New(appConfig, dbManager.DB())
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			logger.Get().Warnf("quote cache close error: %v", err)
		}
	}()

	logger.Get().Infow("Store backend selected", "backend", appConfig.StoreBackend)
	return srv.Run()
}
