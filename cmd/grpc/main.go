package main

import (
	"os"
	"os/signal"
	"syscall"

	"itemstore/infra/grpc"
	"itemstore/infra/memory"
	"itemstore/infra/postgres"
	"itemstore/infra/rabbitmq"
	"itemstore/pkg/config"
	"itemstore/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	appConfig := config.Read()

	log := logger.New(logger.Options{
		Service: appConfig.ServiceName + "-grpc",
		Level:   appConfig.LogLevel,
		Path:    appConfig.LogPath,
	})
	defer log.Sync()

	zap.L().Info("Item gRPC health service starting...")

	var store grpc.Pinger
	if appConfig.StoreDriver == config.StoreDriverMemory {
		store = memory.NewRepository()
	} else {
		pgRepository, err := postgres.NewPgRepository(appConfig.PostgresDSN())
		if err != nil {
			zap.L().Fatal("Failed to open item store", zap.Error(err))
		}
		defer pgRepository.Close()
		store = pgRepository
	}

	var broker grpc.BrokerHealth
	if appConfig.RabbitMQURL != "" {
		publisher, err := rabbitmq.NewRabbitMQPublisher(appConfig.RabbitMQURL, appConfig.ServiceName)
		if err != nil {
			zap.L().Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer publisher.Close()
		broker = publisher
	}

	grpcServer, err := grpc.NewServer(appConfig, grpc.NewHealthServer(store, broker))
	if err != nil {
		zap.L().Fatal("failed to create grpc server", zap.Error(err))
	}

	zap.L().Info("starting gRPC server...", zap.String("port", appConfig.GRPCPort))
	go func() {
		if err := grpcServer.Start(); err != nil {
			zap.L().Error("failed to start grpc server", zap.Error(err))
			os.Exit(1)
		}
	}()

	gracefulShutdown(grpcServer)
}

func gracefulShutdown(grpcServer *grpc.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	grpcServer.GracefulStop()

	zap.L().Info("Server gracefully stopped")
}
