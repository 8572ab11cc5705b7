package grpcapi

import (
	"context"
	"errors"
	"testing"

	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestHealthCheckFollowsStore(t *testing.T) {
	ctx := context.Background()
	var storeErr error
	h := NewHealthHandler(StorePinger(func(context.Context) error { return storeErr }), zap.NewNop())

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, h.Check(ctx))
	resp, err := h.server.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	storeErr = errors.New("connection refused")
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, h.Check(ctx))
	resp, err = h.server.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}

func TestStorePingerWrapsUnavailable(t *testing.T) {
	p := StorePinger(func(context.Context) error { return errors.New("timeout") })
	assert.ErrorIs(t, p.Ping(context.Background()), domain.ErrStoreUnavailable)

	ok := StorePinger(func(context.Context) error { return nil })
	assert.NoError(t, ok.Ping(context.Background()))
}
