package grpclib

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// RecoveryHandlerFunc turns a handler panic into codes.Internal
func RecoveryHandlerFunc(p interface{}) error {
	fmt.Println("[PANIC]", p)
	fmt.Println(string(debug.Stack()))
	return status.Errorf(codes.Internal, "panic: %v", p)
}

// HealthFunc returns nil while the service can serve
type HealthFunc func() error

// HealthReporter mirrors a HealthFunc into the standard gRPC health service
type HealthReporter struct {
	server  *health.Server
	service string
	check   HealthFunc

	mut  sync.Mutex
	last healthpb.HealthCheckResponse_ServingStatus
}

// NewHealthReporter ...
func NewHealthReporter(server *health.Server, service string, check HealthFunc) *HealthReporter {
	return &HealthReporter{
		server:  server,
		service: service,
		check:   check,
		last:    healthpb.HealthCheckResponse_UNKNOWN,
	}
}

// Update evaluates the check once and returns the published status
func (r *HealthReporter) Update() healthpb.HealthCheckResponse_ServingStatus {
	st := healthpb.HealthCheckResponse_SERVING
	if err := r.check(); err != nil {
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}

	r.mut.Lock()
	defer r.mut.Unlock()

	if st != r.last {
		r.server.SetServingStatus(r.service, st)
		r.last = st
	}
	return st
}

// Run updates the status every interval until ctx is cancelled
func (r *HealthReporter) Run(ctx context.Context, interval time.Duration) {
	r.Update()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.server.Shutdown()
			return
		case <-ticker.C:
			r.Update()
		}
	}
}
