package grpclib

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

func TestRecoveryHandlerFunc(t *testing.T) {
	err := RecoveryHandlerFunc("boom")
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestHealthReporter(t *testing.T) {
	server := health.NewServer()

	var checkErr error
	r := NewHealthReporter(server, "ingest", func() error {
		return checkErr
	})

	check := func() healthpb.HealthCheckResponse_ServingStatus {
		resp, err := server.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "ingest"})
		assert.Equal(t, nil, err)
		return resp.Status
	}

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, r.Update())
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check())

	checkErr = errors.New("blocked at seq 12")
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, r.Update())
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check())

	checkErr = nil
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, r.Update())
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check())
}
