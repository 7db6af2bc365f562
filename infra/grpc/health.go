package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health/grpc_health_v1"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type BrokerHealth interface {
	IsHealthy() bool
}

// HealthServer implements the gRPC health checking protocol over the item
// store and, when configured, the event broker.
type HealthServer struct {
	grpc_health_v1.UnimplementedHealthServer
	store  Pinger
	broker BrokerHealth
	// watchInterval is the polling period of Watch.
	watchInterval time.Duration
}

// NewHealthServer builds a health server. broker may be nil.
func NewHealthServer(store Pinger, broker BrokerHealth) *HealthServer {
	return &HealthServer{
		store:         store,
		broker:        broker,
		watchInterval: 5 * time.Second,
	}
}

func (h *HealthServer) status(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.store.Ping(pingCtx); err != nil {
		zap.L().Error("Store health check failed", zap.Error(err))
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}

	if h.broker != nil && !h.broker.IsHealthy() {
		zap.L().Error("RabbitMQ health check failed")
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}

	return grpc_health_v1.HealthCheckResponse_SERVING
}

func (h *HealthServer) Check(ctx context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	return &grpc_health_v1.HealthCheckResponse{Status: h.status(ctx)}, nil
}

// Watch sends the current status, then a new message every time it changes.
func (h *HealthServer) Watch(req *grpc_health_v1.HealthCheckRequest, stream grpc_health_v1.Health_WatchServer) error {
	ctx := stream.Context()

	last := h.status(ctx)
	if err := stream.Send(&grpc_health_v1.HealthCheckResponse{Status: last}); err != nil {
		return err
	}

	ticker := time.NewTicker(h.watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			current := h.status(ctx)
			if current == last {
				continue
			}
			last = current
			if err := stream.Send(&grpc_health_v1.HealthCheckResponse{Status: current}); err != nil {
				return err
			}
		}
	}
}
