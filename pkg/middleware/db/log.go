package db

import (
	"context"
	"errors"
	"time"

	"github.com/scienceol/chemstock/pkg/middleware/logger"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

type gormLogger struct {
	level         glogger.LogLevel
	slowThreshold time.Duration
}

func newGormLogger(conf LogConf) glogger.Interface {
	l := &gormLogger{level: glogger.Warn, slowThreshold: conf.SlowThreshold}
	if l.slowThreshold == 0 {
		l.slowThreshold = 200 * time.Millisecond
	}
	switch conf.Level {
	case "debug":
		l.level = glogger.Info
	case "error":
		l.level = glogger.Error
	}
	return l
}

func (g *gormLogger) LogMode(level glogger.LogLevel) glogger.Interface {
	n := *g
	n.level = level
	return &n
}

func (g *gormLogger) Info(ctx context.Context, msg string, args ...any) {
	if g.level >= glogger.Info {
		logger.Infof(ctx, msg, args...)
	}
}

func (g *gormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if g.level >= glogger.Warn {
		logger.Warnf(ctx, msg, args...)
	}
}

func (g *gormLogger) Error(ctx context.Context, msg string, args ...any) {
	if g.level >= glogger.Error {
		logger.Errorf(ctx, msg, args...)
	}
}

func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= glogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && g.level >= glogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		logger.Errorf(ctx, "sql err: %v [%s] rows: %d sql: %s", err, elapsed, rows, sql)
	case elapsed > g.slowThreshold && g.level >= glogger.Warn:
		sql, rows := fc()
		logger.Warnf(ctx, "slow sql [%s] rows: %d sql: %s", elapsed, rows, sql)
	case g.level >= glogger.Info:
		sql, rows := fc()
		logger.Debugf(ctx, "sql [%s] rows: %d sql: %s", elapsed, rows, sql)
	}
}
