package api

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/scienceol/chemstock/internal/config"
	"github.com/scienceol/chemstock/pkg/core/notify/events"
	csgrpc "github.com/scienceol/chemstock/pkg/grpc"
	"github.com/scienceol/chemstock/pkg/middleware/db"
	"github.com/scienceol/chemstock/pkg/middleware/logger"
	"github.com/scienceol/chemstock/pkg/middleware/redis"
	"github.com/scienceol/chemstock/pkg/middleware/trace"
	"github.com/scienceol/chemstock/pkg/repo/migrate"
	"github.com/scienceol/chemstock/pkg/utils"
	"github.com/scienceol/chemstock/pkg/web"
)

func NewWeb() *cobra.Command {
	return &cobra.Command{
		Use:          "apiserver",
		Long:         "Start the inventory API server (HTTP + gRPC health)",
		SilenceUsage: true,
		PreRunE:      initWeb,
		RunE:         newRouter,
		PostRunE:     cleanWebResource,
	}
}

func NewMigrate() *cobra.Command {
	return &cobra.Command{
		Use:          "migrate",
		Long:         "Create or update tables and seed the parent id sequence",
		SilenceUsage: true,
		PreRunE:      initMigrate,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Root().Context()
			if err := migrate.Table(ctx); err != nil {
				return err
			}
			return migrate.Seed(ctx, config.Global().Allocator.Prefix)
		},
		PostRunE: func(cmd *cobra.Command, _ []string) error {
			db.ClosePostgres(cmd.Context())
			return nil
		},
	}
}

func dbConfig() *db.Config {
	conf := config.Global()
	return &db.Config{
		Type: string(conf.Database.Type),
		Host: conf.Database.Host, Port: conf.Database.Port,
		User: conf.Database.User, PW: conf.Database.Password,
		DBName:           conf.Database.Name,
		MaxOpenConns:     conf.Database.MaxOpenConns,
		StatementTimeout: conf.Database.StatementTimeout,
		LogConf:          db.LogConf{Level: conf.Log.LogLevel},
	}
}

func initMigrate(cmd *cobra.Command, _ []string) error {
	db.InitPostgres(cmd.Context(), dbConfig())
	return nil
}

func initWeb(cmd *cobra.Command, _ []string) error {
	conf := config.Global()
	trace.InitTrace(cmd.Context(), &trace.InitConfig{
		ServiceName:    fmt.Sprintf("%s-%s", conf.Server.Service, conf.Server.Platform),
		Version:        conf.Trace.Version,
		TraceEndpoint:  conf.Trace.TraceEndpoint,
		MetricEndpoint: conf.Trace.MetricEndpoint,
		Stdout:         conf.Trace.Stdout,
	})
	db.InitPostgres(cmd.Context(), dbConfig())
	if conf.Redis.Enabled {
		redis.InitRedis(cmd.Context(), &redis.Redis{
			Host: conf.Redis.Host, Port: conf.Redis.Port,
			Password: conf.Redis.Password, DB: conf.Redis.DB,
		})
	} else {
		logger.Infof(cmd.Context(), "redis disabled, lookup cache off and events delivered in process")
	}

	// the sequence row must exist before the first parent id is minted
	if err := migrate.Seed(cmd.Context(), conf.Allocator.Prefix); err != nil {
		logger.Warnf(cmd.Context(), "seed parent id sequence err: %+v, run migrate first", err)
	}
	return nil
}

func newRouter(cmd *cobra.Command, _ []string) error {
	conf := config.Global()
	if conf.Server.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	closeRouter := web.NewRouter(cmd.Root().Context(), router)
	port := conf.Server.Port
	addr := ":" + strconv.Itoa(port)

	httpServer := http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       30 * time.Second,
		TLSNextProto:      make(map[string]func(*http.Server, *tls.Conn, http.Handler)),
	}

	logger.Infof(cmd.Context(), "API server starting on http://0.0.0.0:%d", port)

	utils.SafelyGo(func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf(cmd.Context(), "start server err: %v", err)
		}
	}, func(err error) {
		logger.Errorf(cmd.Context(), "run http server err: %+v", err)
		os.Exit(1)
	})

	grpcPort := conf.Server.GrpcPort
	grpcServer, err := csgrpc.NewServer(cmd.Root().Context(), grpcPort)
	if err != nil {
		logger.Errorf(cmd.Context(), "start gRPC server err: %+v", err)
	}

	<-cmd.Context().Done()

	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Errorf(ctx, "shut down server err: %+v", err)
	}
	closeRouter()
	return nil
}

func cleanWebResource(cmd *cobra.Command, _ []string) error {
	events.NewEvents().Close(cmd.Context())
	redis.CloseRedis(cmd.Context())
	db.ClosePostgres(cmd.Context())
	trace.CloseTrace()
	return nil
}
