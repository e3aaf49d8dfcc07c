package httpapi

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"lifelink.org/internal/obs"
)

// GRPCServer answers the standard gRPC health protocol using the same
// readiness probe as /readyz.
type GRPCServer struct {
	healthpb.UnimplementedHealthServer

	readiness readinessChecker
	version   string
}

// NewGRPCServer creates the gRPC service wrapper.
func NewGRPCServer(r readinessChecker, version string) *GRPCServer {
	if r == nil {
		r = ReadyProbe{}
	}
	return &GRPCServer{
		readiness: r,
		version:   version,
	}
}

// Register attaches the health service to srv.
func (s *GRPCServer) Register(srv *grpc.Server) {
	healthpb.RegisterHealthServer(srv, s)
}

// Check reports SERVING when the readiness probe passes. Only the empty
// service name and "lifelink" are known.
func (s *GRPCServer) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if svc := req.GetService(); svc != "" && svc != serviceName {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", svc)
	}
	if err := s.readiness.Check(ctx); err != nil {
		obs.SetReady(false)
		obs.Logger().Warn("grpc health check failed", zap.String("version", s.version), zap.Error(err))
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
	}
	obs.SetReady(true)
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}
