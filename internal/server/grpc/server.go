// Package grpcserver exposes the operational gRPC listener: the standard
// health service, with status tracking the database, and reflection in dev mode.
package grpcserver

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service name reported for the portfolio API.
const ServiceName = "portfolio.API"

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wraps a grpc.Server carrying the health service.
type Server struct {
	gs     *grpc.Server
	health *health.Server
	log    *zap.Logger
}

// New builds the ops server. Status starts as NOT_SERVING until the first probe.
func New(log *zap.Logger, dev bool, opts ...grpc.ServerOption) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	opts = append(opts,
		grpc.ChainUnaryInterceptor(RecoverUnary(log), LoggingUnary(log)),
		grpc.ChainStreamInterceptor(RecoverStream(log), LoggingStream(log)),
	)
	gs := grpc.NewServer(opts...)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
	if dev {
		reflection.Register(gs)
	}
	return &Server{gs: gs, health: hs, log: log}
}

// Serve accepts connections on lis until Stop.
func (s *Server) Serve(lis net.Listener) error {
	return s.gs.Serve(lis)
}

// SetServing flips the overall and per-service status.
func (s *Server) SetServing(ok bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// Watch probes p every interval and updates the health status until ctx ends.
func (s *Server) Watch(ctx context.Context, p Pinger, interval time.Duration) error {
	last := -1
	probe := func() {
		pctx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		err := p.Ping(pctx)
		cur := 0
		if err == nil {
			cur = 1
		}
		if cur != last {
			if err != nil {
				s.log.Warn("dependency unhealthy", zap.Error(err))
			} else {
				s.log.Info("dependency healthy")
			}
			last = cur
		}
		s.SetServing(err == nil)
	}

	probe()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			probe()
		}
	}
}

// Stop marks everything NOT_SERVING and stops gracefully, forcing after timeout.
func (s *Server) Stop(timeout time.Duration) {
	s.health.Shutdown()
	done := make(chan struct{})
	go func() {
		s.gs.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		s.gs.Stop()
	}
}
