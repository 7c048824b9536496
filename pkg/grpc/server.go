package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	ggrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/scienceol/chemstock/pkg/middleware/db"
	"github.com/scienceol/chemstock/pkg/middleware/logger"
	"github.com/scienceol/chemstock/pkg/utils"
)

// InventoryService is the health service name reported next to the overall status.
const InventoryService = "chemstock.Inventory"

const probeInterval = 10 * time.Second

func NewServer(ctx context.Context, port int) (*ggrpc.Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	s, hs := newServer()
	utils.SafelyGo(func() { probe(ctx, hs) }, func(err error) {
		logger.Errorf(ctx, "gRPC health probe err: %+v", err)
	})

	go func() {
		logger.Infof(ctx, "gRPC server starting on port %d", port)
		if err := s.Serve(lis); err != nil {
			logger.Errorf(ctx, "gRPC server error: %v", err)
		}
	}()

	return s, nil
}

func newServer() (*ggrpc.Server, *health.Server) {
	s := ggrpc.NewServer(
		ggrpc.UnaryInterceptor(UnaryLogInterceptor()),
		ggrpc.StreamInterceptor(StreamLogInterceptor()),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	reflection.Register(s)
	return s, hs
}

// probe keeps the health status in line with database reachability until ctx ends.
func probe(ctx context.Context, hs *health.Server) {
	ticker := time.NewTicker(probeInterval)
	defer ticker.Stop()
	for {
		setStatus(hs, databaseUp(ctx))
		select {
		case <-ctx.Done():
			hs.Shutdown()
			return
		case <-ticker.C:
		}
	}
}

func setStatus(hs *health.Server, up bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if up {
		st = healthpb.HealthCheckResponse_SERVING
	}
	hs.SetServingStatus("", st)
	hs.SetServingStatus(InventoryService, st)
}

func databaseUp(ctx context.Context) bool {
	ds := db.DB()
	if ds == nil {
		return false
	}
	sqlDB, err := ds.DBIns().DB()
	if err != nil {
		return false
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return sqlDB.PingContext(pingCtx) == nil
}
