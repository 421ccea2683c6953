// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"community-hub/cmd"
	"community-hub/internal/data/repository"
	"community-hub/internal/wire"
	"community-hub/pkg/database"
	"community-hub/pkg/notify"
	"community-hub/pkg/storage"
	"community-hub/pkg/utils"

	"github.com/redis/go-redis/v9"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage: Postgres when configured, memory otherwise
	var repos *repository.Repository
	if config.Database.URL != "" {
		db, err := database.InitDB(config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := database.RunMigrations(ctx, db, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}

		logger.Info("Database connected successfully")
		repos = repository.NewRepository(db, logger)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory storage")
		repos = repository.NewMemoryRepository()
	}

	opts := wire.Options{}

	// Image host
	if config.Cloudinary.Configured() {
		images, err := storage.NewCloudinaryStore(config.Cloudinary, logger)
		if err != nil {
			logger.Fatal("Failed to init image store", zap.Error(err))
		}
		opts.Images = images
	} else {
		logger.Warn("Cloudinary credentials missing, images are kept in memory")
	}

	// Rate limiter
	if config.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("Redis unavailable, rate limiting disabled", zap.Error(err))
		} else {
			opts.Limiter = rdb
		}
		cancel()
	}

	// Notifications
	if config.Notify.URL != "" {
		publisher, err := notify.NewAMQPPublisher(config.Notify.URL, config.Notify.Queue, logger)
		if err != nil {
			logger.Warn("Broker unavailable, notifications disabled", zap.Error(err))
		} else {
			defer publisher.Close()
			opts.Notifier = publisher
		}
	}

	// Wire all dependencies
	app := wire.Wiring(repos, config, opts, logger)

	// Start server
	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}
