package main

import (
	"context"
	"log"
	"time"

	"marketplace-backend/cmd"
	"marketplace-backend/internal/data/repository"
	"marketplace-backend/internal/wire"
	"marketplace-backend/pkg/database"
	"marketplace-backend/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, logger)

	// Stale OTP rows are only filtered at query time, so purge them
	// periodically to keep the most-recent-record lookup cheap.
	go runOTPCleanup(repos.OTP, config.OTP, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}

func runOTPCleanup(otpRepo repository.OTPRepository, config utils.OTPConfig, logger *zap.Logger) {
	interval := time.Duration(config.CleanupHours) * time.Hour
	retention := time.Duration(config.RetentionHours) * time.Hour

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		deleted, err := otpRepo.DeleteExpired(ctx, retention)
		cancel()

		if err != nil {
			logger.Error("OTP cleanup failed", zap.Error(err))
			continue
		}
		if deleted > 0 {
			logger.Info("OTP cleanup", zap.Int64("deleted", deleted))
		}
	}
}
