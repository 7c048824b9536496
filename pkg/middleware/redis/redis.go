package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/extra/rediscmd/v9"
	r "github.com/redis/go-redis/v9"
	"github.com/scienceol/chemstock/pkg/middleware/logger"
)

type Redis struct {
	Host     string
	Port     int
	Password string
	DB       int
}

var redisClient *r.Client

func InitRedis(ctx context.Context, conf *Redis) {
	var err error
	redisClient, err = initRedis(ctx, conf)
	if err != nil {
		logger.Fatalf(ctx, "init redis fail err: %+v", err)
	}
}

func initRedis(ctx context.Context, conf *Redis) (*r.Client, error) {
	client := r.NewClient(&r.Options{
		Addr:         fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		Password:     conf.Password,
		DB:           conf.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	client.AddHook(&logHook{slow: 100 * time.Millisecond})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func CloseRedis(_ context.Context) {
	if redisClient != nil {
		redisClient.Close()
	}
}

// GetClient 获取Redis客户端实例
func GetClient() *r.Client {
	return redisClient
}

// logHook logs failed and slow commands.
type logHook struct {
	slow time.Duration
}

func (h *logHook) DialHook(next r.DialHook) r.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *logHook) ProcessHook(next r.ProcessHook) r.ProcessHook {
	return func(ctx context.Context, cmd r.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		elapsed := time.Since(start)
		if err != nil && err != r.Nil {
			logger.Warnf(ctx, "redis cmd fail [%s] %s err: %v", elapsed, rediscmd.CmdString(cmd), err)
		} else if elapsed > h.slow {
			logger.Warnf(ctx, "redis slow cmd [%s] %s", elapsed, rediscmd.CmdString(cmd))
		}
		return err
	}
}

func (h *logHook) ProcessPipelineHook(next r.ProcessPipelineHook) r.ProcessPipelineHook {
	return func(ctx context.Context, cmds []r.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && err != r.Nil {
			_, cmdsStr := rediscmd.CmdsString(cmds)
			logger.Warnf(ctx, "redis pipeline fail %s err: %v", cmdsStr, err)
		}
		return err
	}
}
