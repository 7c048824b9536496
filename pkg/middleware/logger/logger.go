package logger

import (
	"context"
	"os"
	"sync"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ServiceEnv struct {
	Platform string
	Service  string
	Env      string
}

type LogConfig struct {
	Path       string
	LogLevel   string
	ServiceEnv ServiceEnv
}

var (
	mu      sync.RWMutex
	log     *otelzap.SugaredLogger
	rotator *lumberjack.Logger
)

func init() {
	// stdout only until Init is called, so packages can log from tests and init paths
	l := zap.New(zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(os.Stdout), zap.InfoLevel),
		zap.AddCaller(), zap.AddCallerSkip(1))
	log = otelzap.New(l).Sugar()
}

func Init(conf *LogConfig) {
	level := zap.InfoLevel
	if err := level.UnmarshalText([]byte(conf.LogLevel)); err != nil {
		level = zap.InfoLevel
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(os.Stdout), level),
	}
	var w *lumberjack.Logger
	if conf.Path != "" {
		w = &lumberjack.Logger{
			Filename:   conf.Path,
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(w), level))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1)).With(
		zap.String("platform", conf.ServiceEnv.Platform),
		zap.String("service", conf.ServiceEnv.Service),
		zap.String("env", conf.ServiceEnv.Env),
	)

	mu.Lock()
	defer mu.Unlock()
	log = otelzap.New(l, otelzap.WithMinLevel(level)).Sugar()
	rotator = w
}

func Close() {
	mu.Lock()
	defer mu.Unlock()
	_ = log.Sync()
	if rotator != nil {
		_ = rotator.Close()
		rotator = nil
	}
}

func encoderConfig() zapcore.EncoderConfig {
	c := zap.NewProductionEncoderConfig()
	c.TimeKey = "time"
	c.EncodeTime = zapcore.ISO8601TimeEncoder
	return c
}

func current() *otelzap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Zap exposes the underlying logger for libraries that take a *zap.Logger.
func Zap() *zap.Logger {
	return current().Desugar().Logger
}

func Debugf(ctx context.Context, format string, args ...any) {
	current().Ctx(ctx).Debugf(format, args...)
}

func Infof(ctx context.Context, format string, args ...any) {
	current().Ctx(ctx).Infof(format, args...)
}

func Warnf(ctx context.Context, format string, args ...any) {
	current().Ctx(ctx).Warnf(format, args...)
}

func Errorf(ctx context.Context, format string, args ...any) {
	current().Ctx(ctx).Errorf(format, args...)
}

func Fatalf(ctx context.Context, format string, args ...any) {
	current().Ctx(ctx).Fatalf(format, args...)
}
