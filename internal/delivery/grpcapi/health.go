package grpcapi

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name reported to health probes.
const ServiceName = "promise.case.v1.CaseService"

// Pinger checks that the case store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	server *health.Server
	pinger Pinger
	logger *zap.Logger
}

func NewHealthHandler(pinger Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		server: health.NewServer(),
		pinger: pinger,
		logger: logger,
	}
}

func (h *HealthHandler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

// Check probes the store once and publishes the result for the overall
// server and for ServiceName.
func (h *HealthHandler) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if h.pinger != nil {
		if err := h.pinger.Ping(ctx); err != nil {
			h.logger.Warn("case store health check failed", zap.Error(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ServiceName, status)
	return status
}

// Watch refreshes the serving status every interval until ctx is done.
func (h *HealthHandler) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	h.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			h.server.Shutdown()
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}

// StorePinger adapts any function to Pinger.
type StorePinger func(ctx context.Context) error

func (f StorePinger) Ping(ctx context.Context) error {
	if err := f(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}
