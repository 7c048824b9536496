package db

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/scienceol/chemstock/pkg/middleware/logger"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"
)

type LogConf struct {
	Level         string
	SlowThreshold time.Duration
}

type Config struct {
	Type         string
	Host         string
	Port         int
	User         string
	PW           string
	DBName       string
	MaxOpenConns int
	// StatementTimeout bounds every statement on postgres; zero leaves the server default.
	StatementTimeout time.Duration
	LogConf          LogConf
}

type txKey struct{}

// Datastore owns the connection pool and binds transactions to contexts.
type Datastore struct {
	db *gorm.DB
}

var store *Datastore

func InitPostgres(ctx context.Context, conf *Config) {
	gdb, err := Open(conf)
	if err != nil {
		logger.Fatalf(ctx, "init database fail type: %s, err: %+v", conf.Type, err)
	}
	store = &Datastore{db: gdb}
	logger.Infof(ctx, "connected to %s database %s", conf.Type, conf.DBName)
}

// Open builds a gorm handle for conf without touching the package store.
func Open(conf *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch conf.Type {
	case "", "postgres", "postgresql":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
			conf.Host, conf.User, conf.PW, conf.DBName, conf.Port)
		if conf.StatementTimeout > 0 {
			dsn += fmt.Sprintf(" statement_timeout=%d", conf.StatementTimeout.Milliseconds())
		}
		dialector = postgres.Open(dsn)
	case "mysql", "mariadb":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			conf.User, conf.PW, conf.Host, conf.Port, conf.DBName)
		dialector = mysql.Open(dsn)
	case "sqlite":
		// DBName is the file path for sqlite
		dialector = sqlite.Open(conf.DBName)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", conf.Type)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(conf.LogConf),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	if err := gdb.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if conf.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(conf.MaxOpenConns)
		sqlDB.SetMaxIdleConns(conf.MaxOpenConns / 2)
	}
	if conf.Type == "sqlite" {
		// sqlite allows one writer; a single connection avoids SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return gdb, nil
}

// Use installs an existing gorm handle as the package store.
func Use(gdb *gorm.DB) *Datastore {
	store = &Datastore{db: gdb}
	return store
}

func DB() *Datastore {
	return store
}

func ClosePostgres(ctx context.Context) {
	if store == nil {
		return
	}
	sqlDB, err := store.db.DB()
	if err != nil {
		logger.Errorf(ctx, "get sql db err: %+v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Errorf(ctx, "close database err: %+v", err)
	}
}

func (d *Datastore) DBIns() *gorm.DB {
	return d.db
}

// DBWithContext returns the transaction bound to ctx, or a new session.
func (d *Datastore) DBWithContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return d.db.WithContext(ctx)
}

// ExecTx runs fn inside one transaction. Nested calls join the outer one.
func (d *Datastore) ExecTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return fn(ctx)
	}
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// InTx reports whether ctx carries a transaction.
func InTx(ctx context.Context) bool {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	return ok && tx != nil
}
