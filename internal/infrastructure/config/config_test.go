package config

import (
	"context"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	require.Equal(t, "3001", cfg.Port)
	require.Equal(t, ":3001", cfg.Addr())
	require.Equal(t, "7d", cfg.JWTExpiresIn)
	require.Equal(t, 10, cfg.BcryptCost)
	require.Equal(t, DriverPostgres, cfg.StoreDriver)
	require.Empty(t, cfg.Redis.Addr)
	require.Equal(t, "admin@sweetify.com", cfg.Seed.AdminEmail)
	require.True(t, cfg.UsesInsecureSecret())
	require.Equal(t, InsecureJWTSecret, cfg.SigningSecret())
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":         "9000",
		"JWT_SECRET":   "s3cr3t",
		"STORE_DRIVER": "memory",
		"REDIS_ADDR":   "localhost:6379",
	}))
	require.NoError(t, err)
	require.Equal(t, "9000", cfg.Port)
	require.False(t, cfg.UsesInsecureSecret())
	require.Equal(t, "s3cr3t", cfg.SigningSecret())
	require.Equal(t, DriverMemory, cfg.StoreDriver)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_Rejects(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{"STORE_DRIVER": "sqlite"}))
	require.Error(t, err)

	_, err = load(context.Background(), envconfig.MapLookuper(map[string]string{"ENV": "production"}))
	require.ErrorContains(t, err, "JWT_SECRET")

	_, err = load(context.Background(), envconfig.MapLookuper(map[string]string{"ENV": "production", "JWT_SECRET": "real"}))
	require.NoError(t, err)
}
