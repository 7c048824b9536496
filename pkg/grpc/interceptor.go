package grpc

import (
	"context"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/scienceol/chemstock/pkg/middleware/logger"
	"github.com/scienceol/chemstock/pkg/utils"
)

// quiet reports methods polled often enough that logging them is noise.
func quiet(fullMethod string) bool {
	return strings.HasPrefix(fullMethod, "/grpc.reflection.") ||
		strings.HasPrefix(fullMethod, "/grpc.health.")
}

func UnaryLogInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		start := time.Now()
		if runErr := utils.SafelyRun(func() { resp, err = handler(ctx, req) }); runErr != nil {
			logger.Errorf(ctx, "gRPC panic method: %s, err: %+v", info.FullMethod, runErr)
			return nil, status.Error(codes.Internal, "internal error")
		}
		if err != nil {
			logger.Warnf(ctx, "gRPC method: %s, cost: %s, err: %+v", info.FullMethod, time.Since(start), err)
		} else if !quiet(info.FullMethod) {
			logger.Infof(ctx, "gRPC method: %s, cost: %s", info.FullMethod, time.Since(start))
		}
		return resp, err
	}
}

func StreamLogInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		ctx := ss.Context()
		if runErr := utils.SafelyRun(func() { err = handler(srv, ss) }); runErr != nil {
			logger.Errorf(ctx, "gRPC stream panic method: %s, err: %+v", info.FullMethod, runErr)
			return status.Error(codes.Internal, "internal error")
		}
		if err != nil && !quiet(info.FullMethod) {
			logger.Warnf(ctx, "gRPC stream method: %s, err: %+v", info.FullMethod, err)
		}
		return err
	}
}
