package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"itemstore/app/item"
	"itemstore/infra/memory"
	"itemstore/infra/postgres"
	"itemstore/infra/rabbitmq"
	"itemstore/internal/server"
	"itemstore/pkg/config"
	"itemstore/pkg/events"
	"itemstore/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	appConfig := config.Read()

	log := logger.New(logger.Options{
		Service: appConfig.ServiceName,
		Level:   appConfig.LogLevel,
		Path:    appConfig.LogPath,
	})
	defer log.Sync()

	zap.L().Info("app starting...",
		zap.String("storeDriver", appConfig.StoreDriver),
		zap.String("errorVerbosity", appConfig.ErrorVerbosity),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repository, err := openRepository(ctx, appConfig)
	if err != nil {
		zap.L().Fatal("Failed to open item store", zap.Error(err))
	}
	defer repository.Close()

	var publisher events.Publisher
	if appConfig.RabbitMQURL != "" {
		rabbitPublisher, err := rabbitmq.NewRabbitMQPublisher(appConfig.RabbitMQURL, appConfig.ServiceName)
		if err != nil {
			zap.L().Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer rabbitPublisher.Close()
		publisher = rabbitPublisher
	} else {
		zap.L().Info("RABBITMQ_URL not set, item events are disabled")
	}

	app := server.New(server.Options{
		Repository:      repository,
		Publisher:       publisher,
		ServiceName:     appConfig.ServiceName,
		DebugErrors:     appConfig.DebugErrors(),
		CORSAllowOrigin: appConfig.CORSAllowOrigin,
	})

	// Start server in a goroutine
	go func() {
		if err := app.Listen(fmt.Sprintf("0.0.0.0:%s", appConfig.Port)); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	zap.L().Info("Server started on port", zap.String("port", appConfig.Port))

	gracefulShutdown(app)
}

// openRepository builds the process-wide store. The postgres pool is shared
// by every request and closed on shutdown.
func openRepository(ctx context.Context, appConfig *config.AppConfig) (item.Repository, error) {
	if appConfig.StoreDriver == config.StoreDriverMemory {
		zap.L().Warn("Using in-memory item store, data is lost on restart")
		return memory.NewRepository(), nil
	}

	pgRepository, err := postgres.NewPgRepository(appConfig.PostgresDSN())
	if err != nil {
		return nil, err
	}

	migrateCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := pgRepository.Migrate(migrateCtx); err != nil {
		pgRepository.Close()
		return nil, err
	}

	go pgRepository.MonitorPool(ctx, 30*time.Second)

	return pgRepository, nil
}

func gracefulShutdown(app *fiber.App) {
	// Create channel for shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Wait for shutdown signal
	<-sigChan
	zap.L().Info("Shutting down server...")

	// Shutdown with 5 second timeout
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	zap.L().Info("Server gracefully stopped")
}
