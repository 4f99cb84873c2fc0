package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.False(t, cfg.StrictValidation)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "data/badger", cfg.BadgerConfig.Path)
	assert.Equal(t, 10, cfg.RedisConfig.PoolSize)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CINEDEX_ADDR", ":9090")
	t.Setenv("CINEDEX_STORE", "postgres")
	t.Setenv("CINEDEX_DATABASE_URL", "postgres://cinedex@localhost/cinedex")
	t.Setenv("CINEDEX_POSTGRES_BOOTSTRAP", "true")
	t.Setenv("CINEDEX_STRICT_VALIDATION", "true")
	t.Setenv("CINEDEX_CORS_ORIGINS", "http://localhost:3000,https://movies.example")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, "postgres://cinedex@localhost/cinedex", cfg.PostgresConfig.URL)
	assert.True(t, cfg.PostgresConfig.Bootstrap)
	assert.True(t, cfg.StrictValidation)
	assert.Equal(t, []string{"http://localhost:3000", "https://movies.example"}, cfg.CORSOrigins)
}

func TestValidate(t *testing.T) {
	base := Server{Store: StoreMemory, ShutdownTimeout: time.Second}

	tests := []struct {
		name    string
		mutate  func(*Server)
		wantErr string
	}{
		{name: "memory is valid", mutate: func(*Server) {}},
		{name: "badger needs nothing else", mutate: func(c *Server) { c.Store = StoreBadger }},
		{name: "postgres without url", mutate: func(c *Server) { c.Store = StorePostgres }, wantErr: "CINEDEX_DATABASE_URL"},
		{name: "redis without url", mutate: func(c *Server) { c.Store = StoreRedis }, wantErr: "CINEDEX_REDIS_URL"},
		{name: "unknown store", mutate: func(c *Server) { c.Store = "mongo" }, wantErr: "unknown store"},
		{name: "zero shutdown timeout", mutate: func(c *Server) { c.ShutdownTimeout = 0 }, wantErr: "SHUTDOWN_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestClientFromEnvTrimsSlash(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CINEDEX_API_URL", "http://api.local:8080/")

	cfg, err := ClientFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "http://api.local:8080", cfg.APIURL)
}
