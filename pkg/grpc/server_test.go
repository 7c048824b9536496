package grpc

import (
	"context"
	"errors"
	"testing"

	ggrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/scienceol/chemstock/internal/testutil"
)

func TestHealthFollowsDatabase(t *testing.T) {
	testutil.SetupDB(t)
	_, hs := newServer()
	ctx := context.Background()

	setStatus(hs, databaseUp(ctx))
	for _, svc := range []string{"", InventoryService} {
		resp, err := hs.Check(ctx, &healthpb.HealthCheckRequest{Service: svc})
		if err != nil {
			t.Fatal(err)
		}
		if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
			t.Fatalf("service %q = %s", svc, resp.GetStatus())
		}
	}

	setStatus(hs, false)
	resp, _ := hs.Check(ctx, &healthpb.HealthCheckRequest{Service: InventoryService})
	if resp.GetStatus() != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("status = %s", resp.GetStatus())
	}
}

func TestUnaryLogInterceptor(t *testing.T) {
	intercept := UnaryLogInterceptor()
	info := &ggrpc.UnaryServerInfo{FullMethod: "/chemstock.Inventory/Ping"}

	_, err := intercept(context.Background(), nil, info, func(context.Context, any) (any, error) {
		panic("handler bug")
	})
	if status.Code(err) != codes.Internal {
		t.Fatalf("panic err = %v", err)
	}

	want := status.Error(codes.NotFound, "missing")
	_, err = intercept(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, want
	})
	if !errors.Is(err, want) {
		t.Fatalf("err = %v", err)
	}

	resp, err := intercept(context.Background(), "req", info, func(_ context.Context, req any) (any, error) {
		return req, nil
	})
	if err != nil || resp != "req" {
		t.Fatalf("resp = %v, %v", resp, err)
	}
}
