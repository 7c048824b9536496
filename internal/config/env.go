package config

import "time"

type DBType string

const (
	DBPostgres DBType = "postgres"
	DBMySQL    DBType = "mysql"
	DBSQLite   DBType = "sqlite"
)

type Database struct {
	Type             DBType        `mapstructure:"DATABASE_TYPE" default:"postgres"`
	Host             string        `mapstructure:"DATABASE_HOST" default:"localhost"`
	Port             int           `mapstructure:"DATABASE_PORT" default:"5432"`
	Name             string        `mapstructure:"DATABASE_NAME" default:"chemstock"`
	User             string        `mapstructure:"DATABASE_USER" default:"postgres"`
	Password         string        `mapstructure:"DATABASE_PASSWORD" default:"chemstock"`
	MaxOpenConns     int           `mapstructure:"DATABASE_MAX_OPEN_CONNS" default:"25"`
	StatementTimeout time.Duration `mapstructure:"DATABASE_STATEMENT_TIMEOUT" default:"30s"`
}

type Redis struct {
	Host     string `mapstructure:"REDIS_HOST" default:"127.0.0.1"`
	Port     int    `mapstructure:"REDIS_PORT" default:"6379"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB" default:"0"`
	Enabled  bool   `mapstructure:"REDIS_ENABLED" default:"true"`
}

type Server struct {
	Platform string `mapstructure:"PLATFORM" default:"chemstock"`
	Service  string `mapstructure:"SERVICE" default:"api"`
	Port     int    `mapstructure:"WEB_PORT" default:"3001"`
	GrpcPort int    `mapstructure:"GRPC_PORT" default:"9090"`
	Env      string `mapstructure:"ENV" default:"dev"`
}

type Log struct {
	LogPath  string `mapstructure:"LOG_PATH" default:"./info.log"`
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
}

type Trace struct {
	Version        string `mapstructure:"TRACE_VERSION" default:"0.0.1"`
	TraceEndpoint  string `mapstructure:"TRACE_TRACEENDPOINT" default:""`
	MetricEndpoint string `mapstructure:"TRACE_METRICENDPOINT" default:""`
	Stdout         bool   `mapstructure:"TRACE_STDOUT" default:"false"`
}

type Allocator struct {
	Prefix     string `mapstructure:"ALLOCATOR_PREFIX" default:"CHEM"`
	PadWidth   int    `mapstructure:"ALLOCATOR_PAD_WIDTH" default:"4"`
	MaxRetries int    `mapstructure:"ALLOCATOR_MAX_RETRIES" default:"5"`
	// MaxBatch caps the number of bottles one request may create.
	MaxBatch int `mapstructure:"ALLOCATOR_MAX_BATCH" default:"1000"`
}

type Lookup struct {
	PubChemAddr  string        `mapstructure:"PUBCHEM_ADDR" default:"https://pubchem.ncbi.nlm.nih.gov"`
	SupplierAddr string        `mapstructure:"SUPPLIER_ADDR" default:"https://www.sigmaaldrich.com"`
	Timeout      time.Duration `mapstructure:"LOOKUP_TIMEOUT" default:"8s"`
	CacheTTL     time.Duration `mapstructure:"LOOKUP_CACHE_TTL" default:"24h"`
	PoolSize     int           `mapstructure:"LOOKUP_POOL_SIZE" default:"16"`
}
