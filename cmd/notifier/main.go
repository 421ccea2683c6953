// Command notifier consumes workflow notifications from the broker and
// writes them to the structured log.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"community-hub/pkg/notify"
	"community-hub/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	if config.Notify.URL == "" {
		logger.Fatal("RABBITMQ_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Notifier started", zap.String("queue", config.Notify.Queue))

	err = notify.Consume(ctx, config.Notify.URL, config.Notify.Queue, logger, logNotification(logger))
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Notifier stopped", zap.Error(err))
	}
}

func logNotification(logger *zap.Logger) notify.Handler {
	return func(_ context.Context, n notify.Notification) error {
		logger.Info("Notification",
			zap.String("kind", string(n.Kind)),
			zap.String("subject_id", n.SubjectID),
			zap.String("actor_id", n.ActorID),
			zap.String("status", n.Status),
			zap.String("title", n.Title),
			zap.Time("occurred_at", n.OccurredAt),
		)
		return nil
	}
}
