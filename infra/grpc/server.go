package grpc

import (
	"fmt"
	"net"

	"itemstore/pkg/config"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

type Server struct {
	server   *grpc.Server
	listener net.Listener
}

func NewServer(cfg *config.AppConfig, health grpc_health_v1.HealthServer) (*Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	return newServer(lis, health), nil
}

func newServer(lis net.Listener, health grpc_health_v1.HealthServer) *Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			loggingInterceptor,
			recoveryInterceptor,
		),
		grpc.ChainStreamInterceptor(
			streamLoggingInterceptor,
		),
	)

	grpc_health_v1.RegisterHealthServer(grpcServer, health)
	reflection.Register(grpcServer)

	return &Server{
		server:   grpcServer,
		listener: lis,
	}
}

func (s *Server) Start() error {
	zap.L().Info("gRPC server started successfully",
		zap.String("address", s.listener.Addr().String()))
	return s.server.Serve(s.listener)
}

func (s *Server) GracefulStop() {
	s.server.GracefulStop()
}
