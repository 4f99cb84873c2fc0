package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "CINEDEX"

// Store backends selectable with CINEDEX_STORE.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreBadger   = "badger"
	StoreRedis    = "redis"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr             string        `envconfig:"ADDR" default:":8080"`
	Store            string        `envconfig:"STORE" default:"memory"`
	StrictValidation bool          `envconfig:"STRICT_VALIDATION" default:"false"`
	CORSOrigins      []string      `envconfig:"CORS_ORIGINS"`
	ShutdownTimeout  time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat        string        `envconfig:"LOG_FORMAT" default:"json"`

	// Embedded so their variables keep the plain CINEDEX_ prefix.
	PostgresConfig
	BadgerConfig
	RedisConfig
}

// PostgresConfig configures the database/sql pool.
type PostgresConfig struct {
	URL             string        `envconfig:"DATABASE_URL"`
	Bootstrap       bool          `envconfig:"POSTGRES_BOOTSTRAP" default:"false"`
	MaxOpenConns    int           `envconfig:"POSTGRES_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"POSTGRES_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"POSTGRES_CONN_MAX_LIFETIME" default:"30m"`
}

type BadgerConfig struct {
	Path string `envconfig:"BADGER_PATH" default:"data/badger"`
}

// RedisConfig configures the go-redis client. An empty URL means Redis is
// not configured.
type RedisConfig struct {
	URL          string        `envconfig:"REDIS_URL"`
	PoolSize     int           `envconfig:"REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"REDIS_WRITE_TIMEOUT" default:"3s"`
}

// Client configures moviectl.
type Client struct {
	APIURL  string        `envconfig:"API_URL" default:"http://localhost:8080"`
	Timeout time.Duration `envconfig:"CLIENT_TIMEOUT" default:"10s"`
}

// FromEnv builds a Server config from CINEDEX_* variables. A .env file in the
// working directory is loaded first when present; real environment wins.
func FromEnv() (Server, error) {
	_ = godotenv.Load()

	var cfg Server
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Server{}, fmt.Errorf("load server config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// ClientFromEnv builds the moviectl config.
func ClientFromEnv() (Client, error) {
	_ = godotenv.Load()

	var cfg Client
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Client{}, fmt.Errorf("load client config: %w", err)
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return cfg, nil
}

// Validate checks cross-field requirements envconfig cannot express.
func (c Server) Validate() error {
	switch c.Store {
	case StoreMemory, StoreBadger:
	case StorePostgres:
		if c.PostgresConfig.URL == "" {
			return fmt.Errorf("CINEDEX_DATABASE_URL is required for store %q", c.Store)
		}
	case StoreRedis:
		if c.RedisConfig.URL == "" {
			return fmt.Errorf("CINEDEX_REDIS_URL is required for store %q", c.Store)
		}
	default:
		return fmt.Errorf("unknown store %q (want memory, postgres, badger or redis)", c.Store)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("CINEDEX_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}
